package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AESKeySize is the protocol's fixed AES-128 key length.
const AESKeySize = 16

// zeroIV is the protocol's fixed, shared AES-CBC initialization vector.
// Spec §4.6 requires this bit-exactly to interoperate with the reference
// server; it is not a design choice this package is free to vary.
var zeroIV = make([]byte, aes.BlockSize)

// EncryptCBC AES-128-CBC encrypts plaintext under key, zero-padding
// plaintext up to a multiple of the AES block size first. Zero-padding
// (rather than PKCS#7) is the protocol's fixed, documented behavior.
func EncryptCBC(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: new aes cipher: %w", err)
	}
	padded := zeroPad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cbc := cipher.NewCBCEncrypter(block, zeroIV)
	cbc.CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// DecryptCBC is EncryptCBC's inverse. The caller is responsible for
// discarding any trailing zero padding if it needs the exact original
// length; this protocol only ever re-encrypts, never re-decrypts, client
// side, so this exists mainly for tests and symmetry.
func DecryptCBC(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutil: new aes cipher: %w", err)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("cryptoutil: ciphertext length %d not a multiple of block size", len(ciphertext))
	}
	plaintext := make([]byte, len(ciphertext))
	cbc := cipher.NewCBCDecrypter(block, zeroIV)
	cbc.CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}

func zeroPad(b []byte, blockSize int) []byte {
	rem := len(b) % blockSize
	if rem == 0 {
		return b
	}
	padded := make([]byte, len(b)+blockSize-rem)
	copy(padded, b)
	return padded
}
