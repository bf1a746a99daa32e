// Package identitystore persists the client identity and private key after
// a successful key exchange, mirroring ClientLogic::storeClientInfo in
// original_source/Client/src/ClientLogic.cpp: me.info carries
// username+hex-id, priv.key carries the base64 private key alone (kept as a
// separate file so a future run can load just the key material without
// touching the identity record).
package identitystore

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/config"
)

// Store writes me.info and priv.key into dir, overwriting any existing
// files from a prior run.
func Store(dir, username string, id uuid.UUID, privateKeyB64 string) error {
	meInfoPath := filepath.Join(dir, config.ClientInfoFile)
	keyPath := filepath.Join(dir, config.KeyInfoFile)

	meInfo := username + "\n" + hex.EncodeToString(id[:]) + "\n"
	if err := os.WriteFile(meInfoPath, []byte(meInfo), 0o600); err != nil {
		return fmt.Errorf("identitystore: write %s: %w", meInfoPath, err)
	}
	if err := os.WriteFile(keyPath, []byte(privateKeyB64+"\n"), 0o600); err != nil {
		return fmt.Errorf("identitystore: write %s: %w", keyPath, err)
	}
	return nil
}
