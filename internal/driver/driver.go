// Package driver implements the outer session state machine of spec §4.8:
// init → (register+exchange-keys | reconnect) → upload → accept/retry×3/
// abort → terminate. Grounded on the nested `do { ... } while (!ok &&
// hasRemainingAttempts())` loops in original_source/Client/src/main.cpp,
// reproduced here as an explicit per-phase session.RetryCounter rather than
// the original's mutable global retry count (spec §9's redesign guidance).
package driver

import (
	"fmt"
	"os"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/chunker"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/cryptoutil"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/identitystore"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/progress"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protocolops"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protoerr"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/session"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/wire"
)

// maxAttempts is the per-phase retry budget fixed by spec §4.4.
const maxAttempts = 3

// Driver runs one end-to-end client session: identity resolution, key
// exchange or reconnect, upload, and the CRC accept/retry/abort loop.
type Driver struct {
	Comm       protocolops.Communicator
	Reporter   *progress.Reporter
	IdentityDir string // directory identitystore.Store writes into
}

// New builds a Driver over the given transport and reporter.
func New(comm protocolops.Communicator, reporter *progress.Reporter, identityDir string) *Driver {
	return &Driver{Comm: comm, Reporter: reporter, IdentityDir: identityDir}
}

// Run drives state to completion and returns the process exit code: 0 on
// ACCEPT, 1 on any fatal error or ABORT.
func (d *Driver) Run(state *session.State) int {
	if state.Identity.HasID() && state.Keys.RSAPrivateB64 != "" {
		if !d.reconnect(state) {
			d.Reporter.Fatal("reconnect", state.Log)
			return 1
		}
	} else {
		if !d.register(state) {
			d.Reporter.Fatal("register", state.Log)
			return 1
		}
		if !d.exchangeKeys(state) {
			d.Reporter.Fatal("exchange-keys", state.Log)
			return 1
		}
	}

	outcome := d.upload(state)
	switch outcome {
	case uploadAccepted:
		d.Reporter.Accept()
		return 0
	case uploadAborted:
		d.Reporter.Abort()
		return 1
	default:
		d.Reporter.Fatal("upload", state.Log)
		return 1
	}
}

// uploadOutcome distinguishes ACCEPT, the 3-mismatch ABORT path, and a
// fatal per-phase retry exhaustion, since spec §4.8/§7 narrate them
// differently even though both non-accept cases exit 1.
type uploadOutcome int

const (
	uploadFatal uploadOutcome = iota
	uploadAccepted
	uploadAborted
)

// withRetry invokes fn up to maxAttempts times, appending a log line to
// state and reporting each failed attempt, per spec §4.4's "while !ok &&
// attempt <= 3" loop.
func withRetry(state *session.State, reporter *progress.Reporter, phase string, fn func(attempt int) error) bool {
	rc := session.NewRetryCounter()
	for !rc.Exhausted() {
		err := fn(rc.Attempt())
		if err == nil {
			return true
		}
		msg := fmt.Sprintf("%s attempt %d: %v", phase, rc.Attempt(), err)
		state.AppendLog(msg)
		reporter.AttemptFailed(phase, rc.Attempt(), err)
		rc.Advance()
	}
	return false
}

func (d *Driver) register(state *session.State) bool {
	var username [wire.ClientNameSize]byte
	copy(username[:], state.Identity.Username)

	ok := withRetry(state, d.Reporter, "register", func(attempt int) error {
		id, err := protocolops.Register(d.Comm, username)
		if err != nil {
			return err
		}
		state.Identity = session.IdentityFromClientID(id, state.Identity.Username)
		return nil
	})
	if ok {
		d.Reporter.PhaseSucceeded("register")
	}
	return ok
}

func (d *Driver) exchangeKeys(state *session.State) bool {
	kp, err := cryptoutil.GenerateRSAKey()
	if err != nil {
		state.AppendLog(fmt.Sprintf("exchange-keys: generate rsa key: %v", err))
		return false
	}
	state.Keys.RSAPrivateB64 = kp.PrivateKeyB64
	state.Keys.PublicKeyWire = kp.PublicKeyWire

	var username [wire.ClientNameSize]byte
	copy(username[:], state.Identity.Username)
	clientID := state.Identity.ClientID()

	ok := withRetry(state, d.Reporter, "exchange-keys", func(attempt int) error {
		aesKey, err := protocolops.SendPublicKey(d.Comm, clientID, username, kp.PublicKeyWire, func(wrapped []byte) ([]byte, error) {
			return cryptoutil.DecryptAESKey(kp.Private, wrapped)
		})
		if err != nil {
			return err
		}
		state.Keys.AESKey = aesKey
		return nil
	})
	if !ok {
		return false
	}
	d.Reporter.PhaseSucceeded("exchange-keys")

	if err := identitystore.Store(d.IdentityDir, state.Identity.Username, state.Identity.ID, kp.PrivateKeyB64); err != nil {
		state.AppendLog(fmt.Sprintf("exchange-keys: persist identity: %v", err))
		return false
	}
	return true
}

func (d *Driver) reconnect(state *session.State) bool {
	priv, err := cryptoutil.DecodePrivateKeyB64(state.Keys.RSAPrivateB64)
	if err != nil {
		state.AppendLog(fmt.Sprintf("reconnect: decode private key: %v", err))
		return false
	}

	var username [wire.ClientNameSize]byte
	copy(username[:], state.Identity.Username)
	clientID := state.Identity.ClientID()

	ok := withRetry(state, d.Reporter, "reconnect", func(attempt int) error {
		aesKey, err := protocolops.Reconnect(d.Comm, clientID, username, func(wrapped []byte) ([]byte, error) {
			return cryptoutil.DecryptAESKey(priv, wrapped)
		})
		if err != nil {
			return err
		}
		state.Keys.AESKey = aesKey
		return nil
	})
	if ok {
		d.Reporter.PhaseSucceeded("reconnect")
	}
	return ok
}

// upload runs the send-file / CRC accept-retry-abort loop of spec §4.8. It
// returns uploadAccepted on ACCEPT (a 1603 response whose cksum matches
// crc_local), uploadAborted after the final mismatch, and uploadFatal on a
// per-phase retry exhaustion or a read/encrypt failure; failures are
// appended to state.Log, which Run then prints in the FATAL ERROR block.
func (d *Driver) upload(state *session.State) uploadOutcome {
	plaintext, err := os.ReadFile(state.File.Path)
	if err != nil {
		state.AppendLog(protoerr.Wrap(protoerr.KindFileIO, "upload: read file", err).Error())
		return uploadFatal
	}
	crcLocal := cryptoutil.CRC32(plaintext)
	ciphertext, err := cryptoutil.EncryptCBC(state.Keys.AESKey, plaintext)
	if err != nil {
		state.AppendLog(fmt.Sprintf("upload: encrypt: %v", err))
		return uploadFatal
	}
	state.Upload = session.UploadContext{
		Ciphertext:     ciphertext,
		CiphertextSize: uint32(len(ciphertext)),
		TotalPackets:   chunker.TotalPackets(len(ciphertext)),
		CRCLocal:       crcLocal,
	}

	clientID := state.Identity.ClientID()
	fileName := state.File.WireName
	origSize := state.File.PlaintextSize

	// try=0 is the initial upload, try=1..3 are RESEND(1..3) in spec §4.8's
	// state diagram; a mismatch on try==maxAttempts aborts instead of
	// sending another 901 and resending.
	for try := 0; try <= maxAttempts; try++ {
		var result protocolops.SendFileResult
		ok := withRetry(state, d.Reporter, "upload", func(attempt int) error {
			r, err := protocolops.SendFile(d.Comm, clientID, fileName, ciphertext, origSize, crcLocal)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
		if !ok {
			return uploadFatal
		}

		if !result.CRCMismatch {
			d.Reporter.PhaseSucceeded("upload")
			if !d.sendCRCStatus(state, wire.CodeCRCValid, fileName) {
				return uploadFatal
			}
			return uploadAccepted
		}

		if try == maxAttempts {
			d.sendCRCStatus(state, wire.CodeCRCAbort, fileName)
			return uploadAborted
		}

		if !d.sendCRCStatus(state, wire.CodeCRCInvalid, fileName) {
			return uploadFatal
		}
	}
	return uploadAborted
}

// sendCRCStatus reports one of the CRC status codes (900/901/902) to the
// server, retried per the usual per-phase budget.
func (d *Driver) sendCRCStatus(state *session.State, code uint16, fileName [wire.FileNameSize]byte) bool {
	clientID := state.Identity.ClientID()
	return withRetry(state, d.Reporter, "crc-status", func(attempt int) error {
		return protocolops.SendCRCStatus(d.Comm, clientID, code, fileName)
	})
}
