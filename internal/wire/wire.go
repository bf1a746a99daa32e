// Package wire packs and unpacks the fixed-layout, little-endian request and
// response records of the file-transfer protocol. Every record is packed (no
// alignment padding); encoding never relies on struct layout, only on an
// explicit field list, so payload sizes are always computed rather than
// taken from sizeof.
package wire

import (
	"encoding/binary"
	"strconv"
)

// ClientVersion is the protocol version every request header carries.
const ClientVersion uint8 = 3

// Fixed field widths, in bytes, from the wire layout tables.
const (
	ClientIDSize       = 16
	ClientNameSize      = 255
	ClientActualNameMax = 100
	FileNameSize        = 255
	PublicKeySize       = 160
	WrappedAESKeySize   = 128
	AESKeySize          = 16
	PrivateKeyB64Size   = 856
	ChunkSize           = 734
	PacketSize          = 1024

	requestHeaderSize  = ClientIDSize + 1 + 2 + 4 // clientId + version + code + payloadSize
	responseHeaderSize = 7
)

// Request codes.
const (
	CodeRegister      uint16 = 825
	CodeSendPublicKey uint16 = 826
	CodeReconnect     uint16 = 827
	CodeSendFile      uint16 = 828
	CodeCRCValid      uint16 = 900
	CodeCRCInvalid    uint16 = 901
	CodeCRCAbort      uint16 = 902
)

// Response codes.
const (
	CodeRegistrationOK      uint16 = 1600
	CodeRegistrationFailed  uint16 = 1601
	CodeAESKey              uint16 = 1602
	CodeFileReceived        uint16 = 1603
	CodeMessageAck          uint16 = 1604
	CodeReconnectOK         uint16 = 1605
	CodeReconnectDenied     uint16 = 1606
	CodeGenericError        uint16 = 1607
)

// A ClientID is the 16-byte identifier the server assigns on registration.
type ClientID [ClientIDSize]byte

// RequestHeader is the 23-byte header every request carries.
type RequestHeader struct {
	ClientID    ClientID
	Version     uint8
	Code        uint16
	PayloadSize uint32
}

// Encode writes the header's packed, little-endian wire form.
func (h RequestHeader) Encode() []byte {
	b := make([]byte, requestHeaderSize)
	copy(b[0:16], h.ClientID[:])
	b[16] = h.Version
	binary.LittleEndian.PutUint16(b[17:19], h.Code)
	binary.LittleEndian.PutUint32(b[19:23], h.PayloadSize)
	return b
}

// ResponseHeader is the 7-byte header every response carries.
type ResponseHeader struct {
	Version     uint8
	Code        uint16
	PayloadSize uint32
}

// DecodeResponseHeader reads the fixed 7-byte response header from the front
// of b. It does not validate the code or size against any expectation; see
// package protocolops for that.
func DecodeResponseHeader(b []byte) (ResponseHeader, []byte, error) {
	if len(b) < responseHeaderSize {
		return ResponseHeader{}, nil, errShortBuffer("response header", responseHeaderSize, len(b))
	}
	h := ResponseHeader{
		Version:     b[0],
		Code:        binary.LittleEndian.Uint16(b[1:3]),
		PayloadSize: binary.LittleEndian.Uint32(b[3:7]),
	}
	return h, b[responseHeaderSize:], nil
}

func errShortBuffer(what string, want, got int) error {
	return &shortBufferError{what: what, want: want, got: got}
}

type shortBufferError struct {
	what     string
	want, got int
}

func (e *shortBufferError) Error() string {
	return e.what + ": need " + strconv.Itoa(e.want) + " bytes, have " + strconv.Itoa(e.got)
}

// putPadded copies src into a dst-sized, nul-padded fixed field. If src is
// longer than dst, only the first len(dst) bytes are copied.
func putPadded(dst []byte, src []byte) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
