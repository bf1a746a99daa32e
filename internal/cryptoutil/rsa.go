// Package cryptoutil implements the protocol's cryptographic primitives:
// RSA-1024 keypair generation/decryption, AES-128-CBC with a fixed zero IV,
// and the cksum-style CRC-32 over plaintext. Spec §1 fixes these as library
// primitives with semantics pinned in §4.5-4.7; this package wires the
// standard library's implementations rather than hand-rolling RSA or AES.
package cryptoutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"
	"lukechampine.com/frand"
)

// RSAKeyBits is the protocol's fixed RSA modulus size.
const RSAKeyBits = 1024

// PublicKeyWireSize is the exact serialized public key length the protocol
// requires (spec §4.5): a 128-byte big-endian modulus (RSAKeyBits/8) plus a
// 32-byte big-endian exponent field. The original server's own RSA library
// (Crypto++) has its own 160-byte public-key wire format; Go's ASN.1 DER
// encodes to a different length, so this package defines its own fixed-width
// modulus||exponent form rather than reusing x509's, keeping the "if not
// 160, fail CryptoSize" contract meaningful instead of unconditionally true.
const PublicKeyWireSize = 160

const (
	modulusFieldSize  = RSAKeyBits / 8
	exponentFieldSize = PublicKeyWireSize - modulusFieldSize
)

// KeyPair wraps a generated RSA-1024 private key plus its two serialized
// forms: the wire public key sent to the server, and the base64 private key
// persisted to disk per ClientLogic::storeClientInfo.
type KeyPair struct {
	Private       *rsa.PrivateKey
	PublicKeyWire []byte // PublicKeyWireSize bytes
	PrivateKeyB64 string
}

// GenerateRSAKey generates a fresh RSA-1024 keypair using frand as the
// entropy source — the same library the teacher uses for all of its key
// material (rhp/v2/transport.go's generateX25519KeyPair) — and serializes
// both public and private forms.
func GenerateRSAKey() (KeyPair, error) {
	priv, err := rsa.GenerateKey(frand.Reader, RSAKeyBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("cryptoutil: generate rsa key: %w", err)
	}
	pubWire, err := encodePublicKeyWire(&priv.PublicKey)
	if err != nil {
		return KeyPair{}, err
	}
	privDER := x509.MarshalPKCS1PrivateKey(priv)
	return KeyPair{
		Private:       priv,
		PublicKeyWire: pubWire,
		PrivateKeyB64: base64.StdEncoding.EncodeToString(privDER),
	}, nil
}

// encodePublicKeyWire packs N and E into the fixed modulus||exponent layout.
// It fails with CryptoSize's underlying condition (wrong length) only if N
// or E cannot fit in their fixed fields, which cannot happen for a
// correctly-generated RSAKeyBits key with the standard exponent.
func encodePublicKeyWire(pub *rsa.PublicKey) ([]byte, error) {
	nBytes := pub.N.Bytes()
	if len(nBytes) > modulusFieldSize {
		return nil, fmt.Errorf("cryptoutil: modulus too large for wire field: %d bytes", len(nBytes))
	}
	eBytes := big.NewInt(int64(pub.E)).Bytes()
	if len(eBytes) > exponentFieldSize {
		return nil, fmt.Errorf("cryptoutil: exponent too large for wire field: %d bytes", len(eBytes))
	}
	wire := make([]byte, PublicKeyWireSize)
	copy(wire[modulusFieldSize-len(nBytes):modulusFieldSize], nBytes)
	copy(wire[PublicKeyWireSize-len(eBytes):], eBytes)
	return wire, nil
}

// DecodePublicKeyWire reverses encodePublicKeyWire, recovering the modulus
// and exponent from a PublicKeyWireSize-byte wire record. Used by tests to
// check the round trip; the protocol itself never decodes its own public
// key back on the client side.
func DecodePublicKeyWire(wire []byte) (*rsa.PublicKey, error) {
	if len(wire) != PublicKeyWireSize {
		return nil, fmt.Errorf("cryptoutil: public key wire record is %d bytes, want %d", len(wire), PublicKeyWireSize)
	}
	n := new(big.Int).SetBytes(wire[:modulusFieldSize])
	e := new(big.Int).SetBytes(wire[modulusFieldSize:])
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// DecodePrivateKeyB64 reverses GenerateRSAKey's persisted form, for the
// Reconnect path that loads a private key saved by an earlier run.
func DecodePrivateKeyB64(b64 string) (*rsa.PrivateKey, error) {
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: decode private key base64: %w", err)
	}
	priv, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: parse private key: %w", err)
	}
	return priv, nil
}

// DecryptAESKey RSA-decrypts the server's wrapped AES key (PKCS#1 v1.5,
// matching Crypto++'s default RSAES_PKCS1v15 used by the original's
// RSAWrapper) and returns the first 16 bytes of the resulting plaintext, per
// spec §4.5.
func DecryptAESKey(priv *rsa.PrivateKey, wrapped []byte) ([]byte, error) {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, priv, wrapped)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: rsa decrypt: %w", err)
	}
	if len(plain) < 16 {
		return nil, fmt.Errorf("cryptoutil: decrypted aes key material too short: %d bytes", len(plain))
	}
	return plain[:16], nil
}

// Fingerprint returns a short diagnostic hash of a wire-encoded public key,
// for log lines only — never used in the protocol's actual security
// properties. Grounded on the teacher's hashChallenge/hashKeys helpers,
// which blake2b-hash key material purely for display/verification.
func Fingerprint(publicKeyWire []byte) string {
	sum := blake2b.Sum256(publicKeyWire)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
