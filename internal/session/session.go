// Package session holds the process-wide state the driver and protocol
// operations share: Identity, KeyMaterial, FileSelection, UploadContext, and
// an explicit per-phase RetryCounter. Grounded on the SClient struct in
// original_source/Client/header/ClientLogic.h, split into focused structs
// per spec §3, with the retry count carried as an explicit value rather than
// the original's global mutable state (spec §9's redesign guidance).
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protoerr"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/wire"
)

// Identity is the client's 16-byte server-assigned id plus its username.
// Empty (zero uuid) until registration completes or an identity file is
// loaded; immutable afterward for the process lifetime.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// HasID reports whether the identity has been filled by registration or a
// loaded identity file.
func (id Identity) HasID() bool {
	return id.ID != uuid.Nil
}

// ClientID converts Identity.ID to the wire's fixed-width client-id field.
func (id Identity) ClientID() wire.ClientID {
	var out wire.ClientID
	copy(out[:], id.ID[:])
	return out
}

// IdentityFromClientID builds an Identity from a server-assigned wire client
// id and the username already known from config.
func IdentityFromClientID(id wire.ClientID, username string) Identity {
	u, _ := uuid.FromBytes(id[:])
	return Identity{ID: u, Username: username}
}

// KeyMaterial holds the RSA keypair and the unwrapped AES session key.
type KeyMaterial struct {
	RSAPrivateB64 string // persisted/loaded form, ASCII, <=856 bytes
	PublicKeyWire []byte // PublicKeyWireSize bytes, sent once during SendPublicKey
	AESKey        []byte // AESKeySize bytes, populated after key exchange
}

// FileSelection is the local file chosen for upload.
type FileSelection struct {
	Path           string
	WireName       [wire.FileNameSize]byte
	PlaintextSize  uint32
}

// NewFileSelection validates name length and plaintextSize against the
// protocol's fixed caps and builds a FileSelection.
func NewFileSelection(path, name string, plaintextSize int) (FileSelection, error) {
	if len(name) == 0 || len(name) > wire.FileNameSize {
		return FileSelection{}, protoerr.New(protoerr.KindFileIO, fmt.Sprintf("file name %q must be 1..%d bytes", name, wire.FileNameSize))
	}
	if plaintextSize > 65535 {
		return FileSelection{}, protoerr.New(protoerr.KindFileIO, fmt.Sprintf("plaintext size %d exceeds 65535-byte cap", plaintextSize))
	}
	var fs FileSelection
	fs.Path = path
	copy(fs.WireName[:], name)
	fs.PlaintextSize = uint32(plaintextSize)
	return fs, nil
}

// UploadContext is populated once per upload attempt: the whole plaintext is
// encrypted in memory and its CRC computed over the plaintext.
type UploadContext struct {
	Ciphertext     []byte
	CiphertextSize uint32
	TotalPackets   uint16
	CRCLocal       uint32
}

// RetryCounter tracks 1..3 attempts for a single driver phase. It is reset
// (via NewRetryCounter) at the start of each phase, never shared across phases.
type RetryCounter struct {
	attempt int
}

// NewRetryCounter returns a counter starting at attempt 1.
func NewRetryCounter() *RetryCounter {
	return &RetryCounter{attempt: 1}
}

// Attempt returns the current 1-based attempt number.
func (r *RetryCounter) Attempt() int {
	return r.attempt
}

// Exhausted reports whether the phase has used all 3 attempts.
func (r *RetryCounter) Exhausted() bool {
	return r.attempt > 3
}

// Advance increments the attempt counter after a failed attempt.
func (r *RetryCounter) Advance() {
	r.attempt++
}

// State bundles everything the driver threads through one run.
type State struct {
	Identity Identity
	Keys     KeyMaterial
	File     FileSelection
	Upload   UploadContext
	Log      []string // accumulated per-attempt error messages
}

// AppendLog records a per-attempt failure message, matching the original's
// running error log that gets printed in the FATAL ERROR block.
func (s *State) AppendLog(msg string) {
	s.Log = append(s.Log, msg)
}
