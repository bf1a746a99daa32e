package wire

// RegisterRequest is request code 825. The client id in the header is all
// zero; registration is the one request the server accepts before a client
// id exists.
type RegisterRequest struct {
	Username [ClientNameSize]byte
}

// Encode returns the full wire bytes (header + payload) for a registration
// request. The header's client id is always the zero value.
func (r RegisterRequest) Encode() []byte {
	payload := make([]byte, ClientNameSize)
	putPadded(payload, r.Username[:])
	h := RequestHeader{Code: CodeRegister, Version: ClientVersion, PayloadSize: uint32(len(payload))}
	return append(h.Encode(), payload...)
}

// SendPublicKeyRequest is request code 826.
type SendPublicKeyRequest struct {
	ClientID  ClientID
	Username  [ClientNameSize]byte
	PublicKey [PublicKeySize]byte
}

// Encode returns the full wire bytes for a send-public-key request. The
// payload size is 255+160=415: spec.md §9 open question 1 notes the original
// source under-counted this as 255 (username only), which this codec cannot
// reproduce because payload size here is always derived from the actual
// field list, never copied from a stale constant.
func (r SendPublicKeyRequest) Encode() []byte {
	payload := make([]byte, ClientNameSize+PublicKeySize)
	putPadded(payload[:ClientNameSize], r.Username[:])
	copy(payload[ClientNameSize:], r.PublicKey[:])
	h := RequestHeader{ClientID: r.ClientID, Code: CodeSendPublicKey, Version: ClientVersion, PayloadSize: uint32(len(payload))}
	return append(h.Encode(), payload...)
}

// ReconnectRequest is request code 827.
type ReconnectRequest struct {
	ClientID ClientID
	Username [ClientNameSize]byte
}

// Encode returns the full wire bytes for a reconnect request.
func (r ReconnectRequest) Encode() []byte {
	payload := make([]byte, ClientNameSize)
	putPadded(payload, r.Username[:])
	h := RequestHeader{ClientID: r.ClientID, Code: CodeReconnect, Version: ClientVersion, PayloadSize: uint32(len(payload))}
	return append(h.Encode(), payload...)
}

// SendFileRequest is request code 828, one instance per chunk.
type SendFileRequest struct {
	ClientID      ClientID
	ContentSize   uint32 // total ciphertext length
	OrigFileSize  uint32 // plaintext length
	PacketNumber  uint16 // 1-based
	TotalPackets  uint16
	FileName      [FileNameSize]byte
	Chunk         []byte // this packet's slice of the ciphertext, len <= ChunkSize
}

// Encode returns the header plus payloadSize bytes for one file packet. The
// header's payloadSize only counts the meaningful chunk length, per spec.md
// §4.3/§6, so for a short final chunk the unused tail of the 734-byte
// messageContent field is not part of the returned slice; a full-chunk
// request is exactly one 1024-byte frame, and the transport's zero-padding of
// that frame fills the tail with zeros on the wire.
func (r SendFileRequest) Encode() []byte {
	const fixed = 4 + 4 + 2 + 2 + FileNameSize
	payload := make([]byte, fixed+ChunkSize)
	off := 0
	putUint32(payload[off:], r.ContentSize)
	off += 4
	putUint32(payload[off:], r.OrigFileSize)
	off += 4
	putUint16(payload[off:], r.PacketNumber)
	off += 2
	putUint16(payload[off:], r.TotalPackets)
	off += 2
	putPadded(payload[off:off+FileNameSize], r.FileName[:])
	off += FileNameSize
	copy(payload[off:off+len(r.Chunk)], r.Chunk)
	// bytes past the chunk stay zero; the slice below drops them for a short chunk

	payloadSize := fixed + len(r.Chunk)
	h := RequestHeader{ClientID: r.ClientID, Code: CodeSendFile, Version: ClientVersion, PayloadSize: uint32(payloadSize)}
	return append(h.Encode(), payload[:payloadSize]...)
}

// CRCStatusRequest is request codes 900/901/902.
type CRCStatusRequest struct {
	ClientID ClientID
	Code     uint16 // CodeCRCValid, CodeCRCInvalid, or CodeCRCAbort
	FileName [FileNameSize]byte
}

// Encode returns the full wire bytes for a CRC status message.
func (r CRCStatusRequest) Encode() []byte {
	payload := make([]byte, FileNameSize)
	putPadded(payload, r.FileName[:])
	h := RequestHeader{ClientID: r.ClientID, Code: r.Code, Version: ClientVersion, PayloadSize: uint32(len(payload))}
	return append(h.Encode(), payload...)
}

func putUint16(b []byte, v uint16) { b[0], b[1] = byte(v), byte(v>>8) }
func putUint32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}
