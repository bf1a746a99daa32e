// Package protocolops implements one function per protocol request/response
// pair, each building a wire request, round-tripping it through a
// Communicator, decoding the response, and validating its header against
// the rules in spec §4.5. Grounded on the one-method-per-operation shape of
// ClientLogic::registerClient/sendPublicKey/reconnectClient/
// sendEncryptedFileAndCorrespondedCRC/sendCRCMessage in
// original_source/Client/src/ClientLogic.cpp.
package protocolops

import (
	"fmt"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/chunker"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protoerr"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/wire"
)

// Communicator is the one method protocolops needs from a transport: send
// framed bytes, get back exactly expectRecv logical bytes. transport.Dialer
// satisfies this; tests use a fake.
type Communicator interface {
	Communicate(send []byte, expectRecv int) ([]byte, error)
}

// responseEnvelope is the decoded header plus whatever payload bytes follow
// it, common to every operation below.
type responseEnvelope struct {
	header  wire.ResponseHeader
	payload []byte
}

// roundTrip sends a fully-encoded request, decodes the response header, and
// applies spec §4.5's three validation rules. expectedCode is the success
// code this operation is calling for (e.g. 1600 for Register).
func roundTrip(c Communicator, requestBytes []byte, expectedCode uint16) (responseEnvelope, error) {
	expectedPayloadSize, ok := wire.ExpectedResponsePayloadSize(expectedCode)
	if !ok {
		return responseEnvelope{}, protoerr.New(protoerr.KindProtocol, fmt.Sprintf("unrecognized expected code %d", expectedCode))
	}
	expectRecv := 7 + int(expectedPayloadSize)

	recv, err := c.Communicate(requestBytes, expectRecv)
	if err != nil {
		return responseEnvelope{}, protoerr.Wrap(protoerr.KindTransport, "communicate", err)
	}

	header, payload, err := wire.DecodeResponseHeader(recv)
	if err != nil {
		return responseEnvelope{}, protoerr.Wrap(protoerr.KindTransport, "decode response header", err)
	}

	if wire.IsServerError(header.Code) {
		return responseEnvelope{header: header, payload: payload}, serverErrorFor(header.Code)
	}
	if header.Code != expectedCode {
		return responseEnvelope{}, protoerr.New(protoerr.KindProtocol,
			fmt.Sprintf("unexpected response code %d, want %d", header.Code, expectedCode))
	}
	wantSize, _ := wire.ExpectedResponsePayloadSize(header.Code)
	if header.PayloadSize != wantSize {
		return responseEnvelope{}, protoerr.New(protoerr.KindProtocol,
			fmt.Sprintf("response code %d: payload size %d, want %d", header.Code, header.PayloadSize, wantSize))
	}
	return responseEnvelope{header: header, payload: payload}, nil
}

func serverErrorFor(code uint16) error {
	switch code {
	case wire.CodeRegistrationFailed:
		return protoerr.New(protoerr.KindRegistrationRefused, "server refused registration")
	case wire.CodeReconnectDenied:
		return protoerr.New(protoerr.KindReconnectDenied, "server denied reconnect")
	case wire.CodeGenericError:
		return protoerr.New(protoerr.KindServerGenericError, "server returned a generic error")
	default:
		return protoerr.New(protoerr.KindProtocol, fmt.Sprintf("unrecognized server error code %d", code))
	}
}

// Register sends request 825 and returns the server-assigned client id on
// success, or RegistrationRefused on code 1601.
func Register(c Communicator, username [wire.ClientNameSize]byte) (wire.ClientID, error) {
	req := wire.RegisterRequest{Username: username}
	env, err := roundTrip(c, req.Encode(), wire.CodeRegistrationOK)
	if err != nil {
		return wire.ClientID{}, err
	}
	resp, err := wire.DecodeRegistrationOkResponse(env.payload)
	if err != nil {
		return wire.ClientID{}, protoerr.Wrap(protoerr.KindProtocol, "decode registration-ok payload", err)
	}
	return resp.ClientID, nil
}

// SendPublicKey sends request 826 and returns the unwrapped, server-supplied
// AES key on success.
func SendPublicKey(c Communicator, clientID wire.ClientID, username [wire.ClientNameSize]byte, publicKeyWire []byte, unwrap func(wrappedAESKey []byte) ([]byte, error)) ([]byte, error) {
	if len(publicKeyWire) != wire.PublicKeySize {
		return nil, protoerr.New(protoerr.KindCryptoSize,
			fmt.Sprintf("public key is %d bytes, want %d", len(publicKeyWire), wire.PublicKeySize))
	}
	req := wire.SendPublicKeyRequest{ClientID: clientID, Username: username}
	copy(req.PublicKey[:], publicKeyWire)

	env, err := roundTrip(c, req.Encode(), wire.CodeAESKey)
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeAESKeyResponse(env.payload)
	if err != nil {
		return nil, protoerr.Wrap(protoerr.KindProtocol, "decode aes-key payload", err)
	}
	aesKey, err := unwrap(resp.WrappedAESKey)
	if err != nil {
		return nil, protoerr.Wrap(protoerr.KindCryptoOp, "unwrap aes key", err)
	}
	return aesKey, nil
}

// Reconnect sends request 827 using the stored client id. On success it
// verifies the echoed client id matches and returns the unwrapped AES key.
func Reconnect(c Communicator, clientID wire.ClientID, username [wire.ClientNameSize]byte, unwrap func(wrappedAESKey []byte) ([]byte, error)) ([]byte, error) {
	req := wire.ReconnectRequest{ClientID: clientID, Username: username}
	env, err := roundTrip(c, req.Encode(), wire.CodeReconnectOK)
	if err != nil {
		return nil, err
	}
	resp, err := wire.DecodeAESKeyResponse(env.payload)
	if err != nil {
		return nil, protoerr.Wrap(protoerr.KindProtocol, "decode reconnect-ok payload", err)
	}
	if resp.ClientID != clientID {
		return nil, protoerr.New(protoerr.KindProtocol, "reconnect response echoed a different client id")
	}
	aesKey, err := unwrap(resp.WrappedAESKey)
	if err != nil {
		return nil, protoerr.Wrap(protoerr.KindCryptoOp, "unwrap aes key", err)
	}
	return aesKey, nil
}

// SendFileResult summarizes the final packet's response.
type SendFileResult struct {
	CRCMismatch bool
}

// SendFile sends every chunk of ciphertext as request 828, expecting 1604 on
// every intermediate packet and 1603 on the final one. On the final packet
// it verifies the echoed client id, content size, and file name, and
// compares the server's cksum against crcLocal.
func SendFile(c Communicator, clientID wire.ClientID, fileName [wire.FileNameSize]byte, ciphertext []byte, origFileSize uint32, crcLocal uint32) (SendFileResult, error) {
	chunks := chunker.Split(ciphertext)
	total := uint16(len(chunks))

	for i, ch := range chunks {
		isFinal := i == len(chunks)-1
		req := wire.SendFileRequest{
			ClientID:     clientID,
			ContentSize:  uint32(len(ciphertext)),
			OrigFileSize: origFileSize,
			PacketNumber: ch.PacketNumber,
			TotalPackets: total,
			FileName:     fileName,
			Chunk:        ch.Data,
		}

		expectedCode := wire.CodeMessageAck
		if isFinal {
			expectedCode = wire.CodeFileReceived
		}

		env, err := roundTrip(c, req.Encode(), expectedCode)
		if err != nil {
			return SendFileResult{}, err
		}

		if !isFinal {
			continue
		}

		resp, err := wire.DecodeFileReceivedResponse(env.payload)
		if err != nil {
			return SendFileResult{}, protoerr.Wrap(protoerr.KindProtocol, "decode file-received payload", err)
		}
		if resp.ClientID != clientID {
			return SendFileResult{}, protoerr.New(protoerr.KindProtocol, "file-received response echoed a different client id")
		}
		if resp.ContentSize != uint32(len(ciphertext)) {
			return SendFileResult{}, protoerr.New(protoerr.KindProtocol, "file-received response echoed a different content size")
		}
		if resp.FileName != fileName {
			return SendFileResult{}, protoerr.New(protoerr.KindProtocol, "file-received response echoed a different file name")
		}
		return SendFileResult{CRCMismatch: resp.CRC != crcLocal}, nil
	}
	return SendFileResult{}, protoerr.New(protoerr.KindProtocol, "no chunks sent")
}

// SendCRCStatus sends one of the CRC status codes (900/901/902) and
// verifies the echoed client id.
func SendCRCStatus(c Communicator, clientID wire.ClientID, code uint16, fileName [wire.FileNameSize]byte) error {
	req := wire.CRCStatusRequest{ClientID: clientID, Code: code, FileName: fileName}
	env, err := roundTrip(c, req.Encode(), wire.CodeMessageAck)
	if err != nil {
		return err
	}
	resp, err := wire.DecodeMessageAckResponse(env.payload)
	if err != nil {
		return protoerr.Wrap(protoerr.KindProtocol, "decode message-ack payload", err)
	}
	if resp.ClientID != clientID {
		return protoerr.New(protoerr.KindProtocol, "crc status ack echoed a different client id")
	}
	return nil
}
