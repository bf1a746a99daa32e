package protocolops

import (
	"errors"
	"testing"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protoerr"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/wire"
)

// fakeCommunicator returns one canned response per call, in order, ignoring
// what was sent. This stands in for transport.Dialer in unit tests.
type fakeCommunicator struct {
	responses [][]byte
	calls     int
}

func (f *fakeCommunicator) Communicate(send []byte, expectRecv int) ([]byte, error) {
	if f.calls >= len(f.responses) {
		return nil, errors.New("fakeCommunicator: out of canned responses")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func responseHeaderBytes(version uint8, code uint16, payloadSize uint32) []byte {
	b := make([]byte, 7)
	b[0] = version
	b[1] = byte(code)
	b[2] = byte(code >> 8)
	b[3] = byte(payloadSize)
	b[4] = byte(payloadSize >> 8)
	b[5] = byte(payloadSize >> 16)
	b[6] = byte(payloadSize >> 24)
	return b
}

func TestRegisterSuccess(t *testing.T) {
	clientID := wire.ClientID{1, 2, 3, 4}
	resp := append(responseHeaderBytes(3, wire.CodeRegistrationOK, 16), clientID[:]...)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	var username [wire.ClientNameSize]byte
	copy(username[:], "alice")
	got, err := Register(c, username)
	if err != nil {
		t.Fatal(err)
	}
	if got != clientID {
		t.Errorf("got %v, want %v", got, clientID)
	}
}

func TestRegisterRefused(t *testing.T) {
	resp := responseHeaderBytes(3, wire.CodeRegistrationFailed, 0)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	var username [wire.ClientNameSize]byte
	_, err := Register(c, username)
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *protoerr.Error
	if !errors.As(err, &pe) || pe.Kind != protoerr.KindRegistrationRefused {
		t.Fatalf("got %v, want RegistrationRefused", err)
	}
}

func TestRegisterUnexpectedCode(t *testing.T) {
	resp := responseHeaderBytes(3, wire.CodeAESKey, 144)
	body := make([]byte, 144)
	c := &fakeCommunicator{responses: [][]byte{append(resp, body...)}}

	var username [wire.ClientNameSize]byte
	_, err := Register(c, username)
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *protoerr.Error
	if !errors.As(err, &pe) || pe.Kind != protoerr.KindProtocol {
		t.Fatalf("got %v, want Protocol", err)
	}
}

func TestSendPublicKeySuccess(t *testing.T) {
	clientID := wire.ClientID{9}
	wrapped := make([]byte, wire.WrappedAESKeySize)
	for i := range wrapped {
		wrapped[i] = byte(i)
	}
	payload := append(append([]byte{}, clientID[:]...), wrapped...)
	resp := append(responseHeaderBytes(3, wire.CodeAESKey, uint32(len(payload))), payload...)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	pubKey := make([]byte, wire.PublicKeySize)
	var username [wire.ClientNameSize]byte
	gotUnwrapInput := []byte(nil)
	aesKey, err := SendPublicKey(c, clientID, username, pubKey, func(w []byte) ([]byte, error) {
		gotUnwrapInput = w
		return []byte("0123456789abcdef"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(aesKey) != "0123456789abcdef" {
		t.Errorf("got %q", aesKey)
	}
	if len(gotUnwrapInput) != wire.WrappedAESKeySize {
		t.Errorf("unwrap received %d bytes, want %d", len(gotUnwrapInput), wire.WrappedAESKeySize)
	}
}

func TestSendPublicKeyRejectsWrongKeySize(t *testing.T) {
	c := &fakeCommunicator{}
	var username [wire.ClientNameSize]byte
	_, err := SendPublicKey(c, wire.ClientID{}, username, make([]byte, 10), func([]byte) ([]byte, error) {
		return nil, nil
	})
	var pe *protoerr.Error
	if !errors.As(err, &pe) || pe.Kind != protoerr.KindCryptoSize {
		t.Fatalf("got %v, want CryptoSize", err)
	}
}

func TestReconnectDenied(t *testing.T) {
	resp := responseHeaderBytes(3, wire.CodeReconnectDenied, 0)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	var username [wire.ClientNameSize]byte
	_, err := Reconnect(c, wire.ClientID{1}, username, func([]byte) ([]byte, error) { return nil, nil })
	var pe *protoerr.Error
	if !errors.As(err, &pe) || pe.Kind != protoerr.KindReconnectDenied {
		t.Fatalf("got %v, want ReconnectDenied", err)
	}
}

func TestSendFileSingleChunkCRCMatch(t *testing.T) {
	clientID := wire.ClientID{7}
	var fileName [wire.FileNameSize]byte
	copy(fileName[:], "a.txt")
	ciphertext := []byte("short ciphertext")

	payload := make([]byte, 16+4+wire.FileNameSize+4)
	off := 16
	payload[off] = byte(len(ciphertext))
	off += 4
	copy(payload[off:off+wire.FileNameSize], fileName[:])
	off += wire.FileNameSize
	payload[off] = 0xAA // low byte of crc, must equal crcLocal below
	copy(payload[:16], clientID[:])

	resp := append(responseHeaderBytes(3, wire.CodeFileReceived, uint32(len(payload))), payload...)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	result, err := SendFile(c, clientID, fileName, ciphertext, uint32(len(ciphertext)), 0x000000AA)
	if err != nil {
		t.Fatal(err)
	}
	if result.CRCMismatch {
		t.Error("expected CRC match")
	}
}

func TestSendFileMultiChunkExpectsAckThenReceived(t *testing.T) {
	clientID := wire.ClientID{3}
	var fileName [wire.FileNameSize]byte
	copy(fileName[:], "b.bin")
	ciphertext := make([]byte, 1000) // 2 chunks: 734 + 266

	ackResp := append(responseHeaderBytes(3, wire.CodeMessageAck, 16), clientID[:]...)

	payload := make([]byte, 16+4+wire.FileNameSize+4)
	copy(payload[:16], clientID[:])
	off := 16
	n := len(ciphertext)
	payload[off], payload[off+1], payload[off+2], payload[off+3] = byte(n), byte(n>>8), byte(n>>16), byte(n>>24)
	off += 4
	copy(payload[off:off+wire.FileNameSize], fileName[:])
	off += wire.FileNameSize
	payload[off] = 0x01 // mismatched crc on purpose
	finalResp := append(responseHeaderBytes(3, wire.CodeFileReceived, uint32(len(payload))), payload...)

	c := &fakeCommunicator{responses: [][]byte{ackResp, finalResp}}
	result, err := SendFile(c, clientID, fileName, ciphertext, uint32(len(ciphertext)), 0xFFFFFFFF)
	if err != nil {
		t.Fatal(err)
	}
	if !result.CRCMismatch {
		t.Error("expected CRC mismatch")
	}
	if c.calls != 2 {
		t.Errorf("expected 2 round trips for 2 chunks, got %d", c.calls)
	}
}

func TestSendCRCStatusSuccess(t *testing.T) {
	clientID := wire.ClientID{5}
	var fileName [wire.FileNameSize]byte
	copy(fileName[:], "f.txt")
	resp := append(responseHeaderBytes(3, wire.CodeMessageAck, 16), clientID[:]...)
	c := &fakeCommunicator{responses: [][]byte{resp}}

	if err := SendCRCStatus(c, clientID, wire.CodeCRCValid, fileName); err != nil {
		t.Fatal(err)
	}
}
