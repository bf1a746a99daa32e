package wire

// RegistrationOkResponse is response code 1600.
type RegistrationOkResponse struct {
	ClientID ClientID
}

// DecodeRegistrationOkResponse reads the 16-byte client-id payload that
// follows the response header.
func DecodeRegistrationOkResponse(payload []byte) (RegistrationOkResponse, error) {
	if len(payload) < ClientIDSize {
		return RegistrationOkResponse{}, errShortBuffer("registration-ok payload", ClientIDSize, len(payload))
	}
	var r RegistrationOkResponse
	copy(r.ClientID[:], payload[:ClientIDSize])
	return r, nil
}

// RegistrationFailedResponse is response code 1601. It carries no payload;
// the server refused the requested username.
type RegistrationFailedResponse struct{}

// AESKeyResponse is the shared payload shape of response codes 1602
// (SendPublicKey) and 1605 (Reconnect): both hand back a wrapped AES key.
type AESKeyResponse struct {
	ClientID      ClientID
	WrappedAESKey []byte // RSA-encrypted AES key, WrappedAESKeySize bytes
}

// DecodeAESKeyResponse reads the client-id + wrapped-AES-key payload.
func DecodeAESKeyResponse(payload []byte) (AESKeyResponse, error) {
	want := ClientIDSize + WrappedAESKeySize
	if len(payload) < want {
		return AESKeyResponse{}, errShortBuffer("aes-key payload", want, len(payload))
	}
	var r AESKeyResponse
	copy(r.ClientID[:], payload[:ClientIDSize])
	r.WrappedAESKey = append([]byte(nil), payload[ClientIDSize:want]...)
	return r, nil
}

// FileReceivedResponse is response code 1603: the server accepted the file
// and echoes back its content size, file name, and computed CRC.
type FileReceivedResponse struct {
	ClientID    ClientID
	ContentSize uint32
	FileName    [FileNameSize]byte
	CRC         uint32
}

// DecodeFileReceivedResponse reads the client-id/content-size/file-name/CRC
// payload.
func DecodeFileReceivedResponse(payload []byte) (FileReceivedResponse, error) {
	const want = ClientIDSize + 4 + FileNameSize + 4
	if len(payload) < want {
		return FileReceivedResponse{}, errShortBuffer("file-received payload", want, len(payload))
	}
	var r FileReceivedResponse
	off := 0
	copy(r.ClientID[:], payload[off:off+ClientIDSize])
	off += ClientIDSize
	r.ContentSize = getUint32(payload[off:])
	off += 4
	copy(r.FileName[:], payload[off:off+FileNameSize])
	off += FileNameSize
	r.CRC = getUint32(payload[off:])
	return r, nil
}

// MessageAckResponse is response code 1604, sent in reply to every file
// packet but the last and to CRC status codes 900/901/902. It carries only
// the client id.
type MessageAckResponse struct {
	ClientID ClientID
}

// DecodeMessageAckResponse reads the 16-byte client-id payload.
func DecodeMessageAckResponse(payload []byte) (MessageAckResponse, error) {
	if len(payload) < ClientIDSize {
		return MessageAckResponse{}, errShortBuffer("message-ack payload", ClientIDSize, len(payload))
	}
	var r MessageAckResponse
	copy(r.ClientID[:], payload[:ClientIDSize])
	return r, nil
}

// ReconnectDeniedResponse is response code 1606. It carries no payload; the
// server has no prior registration to resume.
type ReconnectDeniedResponse struct{}

// GenericErrorResponse is response code 1607. It carries no payload.
type GenericErrorResponse struct{}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
