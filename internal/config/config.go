// Package config parses the client's two fixed-format plaintext files:
// transfer.info (server address, username, upload file path) and the
// optional identity pair me.info/priv.key. Grounded on
// ClientLogic::parseInfo in original_source/Client/src/ClientLogic.cpp,
// which reads both with line-oriented scanning rather than a key/value
// format; that's why this package reaches for bufio.Scanner rather than a
// struct-tag config library like spf13/viper (see SPEC_FULL.md).
package config

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/protoerr"
)

const (
	// TransferInfoFile is the fixed filename for server/username/file config.
	TransferInfoFile = "transfer.info"
	// ClientInfoFile is the fixed filename for a persisted identity.
	ClientInfoFile = "me.info"
	// KeyInfoFile is the fixed filename for a persisted base64 private key.
	KeyInfoFile = "priv.key"

	maxUsernameLen = 100
)

// Transfer is the parsed contents of transfer.info.
type Transfer struct {
	ServerAddr string
	ServerPort int
	Username   string
	FilePath   string
}

// Identity is the parsed contents of me.info (plus the private key loaded
// separately from priv.key, since the original keeps them in two files).
type Identity struct {
	Username      string
	ID            uuid.UUID
	PrivateKeyB64 string
}

// LoadTransfer reads and validates transfer.info: three lines, address:port,
// username, file path.
func LoadTransfer(path string) (Transfer, error) {
	lines, err := readLines(path, 3)
	if err != nil {
		return Transfer{}, protoerr.Wrap(protoerr.KindConfig, fmt.Sprintf("%s: read", path), err)
	}
	addrPort := strings.TrimSpace(lines[0])
	host, portStr, ok := strings.Cut(addrPort, ":")
	if !ok {
		return Transfer{}, protoerr.New(protoerr.KindConfig, fmt.Sprintf("%s: line 1 must be host:port, got %q", path, addrPort))
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return Transfer{}, protoerr.New(protoerr.KindConfig, fmt.Sprintf("%s: invalid port %q", path, portStr))
	}
	username := strings.TrimSpace(lines[1])
	if err := validateUsername(username); err != nil {
		return Transfer{}, protoerr.Wrap(protoerr.KindConfig, path, err)
	}
	filePath := strings.TrimSpace(lines[2])
	if filePath == "" {
		return Transfer{}, protoerr.New(protoerr.KindConfig, fmt.Sprintf("%s: line 3 (file path) is empty", path))
	}
	return Transfer{ServerAddr: host, ServerPort: port, Username: username, FilePath: filePath}, nil
}

// validateUsername enforces the original's rule: 1-100 printable
// alphanumeric-or-space characters.
func validateUsername(s string) error {
	if len(s) == 0 || len(s) > maxUsernameLen {
		return fmt.Errorf("username %q must be 1..%d characters", s, maxUsernameLen)
	}
	for _, r := range s {
		if !(r == ' ' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return fmt.Errorf("username %q must be alphanumeric or space", s)
		}
	}
	return nil
}

// LoadIdentity reads me.info (username, hex-encoded 16-byte id) and
// priv.key (base64 private key) if both are present. It returns
// (Identity{}, false, nil) if me.info does not exist — a first run has no
// identity yet, which is not an error.
func LoadIdentity(meInfoPath, privKeyPath string) (Identity, bool, error) {
	if _, err := os.Stat(meInfoPath); os.IsNotExist(err) {
		return Identity{}, false, nil
	}
	lines, err := readLines(meInfoPath, 2)
	if err != nil {
		return Identity{}, false, protoerr.Wrap(protoerr.KindConfig, meInfoPath, err)
	}
	username := strings.TrimSpace(lines[0])
	idHex := strings.TrimSpace(lines[1])
	idBytes, err := hex.DecodeString(idHex)
	if err != nil || len(idBytes) != 16 {
		return Identity{}, false, protoerr.New(protoerr.KindConfig, fmt.Sprintf("%s: line 2 must be a 32-char hex client id", meInfoPath))
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return Identity{}, false, protoerr.Wrap(protoerr.KindConfig, meInfoPath, err)
	}

	keyLines, err := readLines(privKeyPath, 1)
	if err != nil {
		return Identity{}, false, protoerr.Wrap(protoerr.KindConfig, privKeyPath, err)
	}
	return Identity{Username: username, ID: id, PrivateKeyB64: strings.TrimSpace(keyLines[0])}, true, nil
}

func readLines(path string, min int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < min {
		return nil, fmt.Errorf("expected at least %d lines, got %d", min, len(lines))
	}
	return lines, nil
}
