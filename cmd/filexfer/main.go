// Command filexfer is the client half of the file-transfer protocol: it
// reads transfer.info (and, if present, a prior run's me.info/priv.key),
// drives the register/reconnect → exchange-keys → upload → accept/abort
// state machine of internal/driver, and exits 0 on ACCEPT or 1 otherwise.
// Grounded on original_source/Client/src/main.cpp's overall call sequence
// and on marmos91-dittofs/cmd/dittofs/commands' cobra command-tree shape.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/config"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/driver"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/progress"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/session"
	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/transport"
)

// Version is injected at build time, matching the teacher's ldflags convention.
var Version = "dev"

var (
	workDir     string
	dialTimeout time.Duration
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "filexfer",
	Short: "Secure file-transfer protocol client",
	Long: `filexfer is the client half of a secure file-transfer protocol: it
registers (or reconnects) with a server, performs an RSA/AES hybrid key
exchange, and uploads one local file in fixed-size encrypted chunks, verifying
the server's checksum with a bounded retry/abort state machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one transfer session to completion",
	Long: `Run reads transfer.info (and me.info/priv.key, if a prior run left
them) from --dir, connects to the configured server, and drives the session
to ACCEPT or ABORT.

Examples:
  # Run using config files in the current directory
  filexfer run

  # Run using config files in a specific directory
  filexfer run --dir /etc/filexfer`,
	RunE: runTransfer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", ".", "directory containing transfer.info and me.info/priv.key")
	rootCmd.PersistentFlags().DurationVar(&dialTimeout, "timeout", 30*time.Second, "per-round-trip TCP timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "structured log level: debug, info, warn, error")
	rootCmd.AddCommand(runCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	reporter := progress.New(os.Stdout, logger)

	transferPath := filepath.Join(workDir, config.TransferInfoFile)
	xfer, err := config.LoadTransfer(transferPath)
	if err != nil {
		return fmt.Errorf("filexfer: %w", err)
	}

	state := &session.State{}
	state.Identity.Username = xfer.Username
	fs, err := session.NewFileSelection(xfer.FilePath, filepath.Base(xfer.FilePath), fileSize(xfer.FilePath))
	if err != nil {
		return fmt.Errorf("filexfer: %w", err)
	}
	state.File = fs

	identity, ok, err := config.LoadIdentity(
		filepath.Join(workDir, config.ClientInfoFile),
		filepath.Join(workDir, config.KeyInfoFile),
	)
	if err != nil {
		return fmt.Errorf("filexfer: %w", err)
	}
	if ok {
		state.Identity.ID = identity.ID
		state.Identity.Username = identity.Username
		state.Keys.RSAPrivateB64 = identity.PrivateKeyB64
		logger.Info("loaded prior identity", "username", identity.Username)
	}

	addr := fmt.Sprintf("%s:%d", xfer.ServerAddr, xfer.ServerPort)
	dialer, err := transport.New(addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("filexfer: %w", err)
	}

	d := driver.New(dialer, reporter, workDir)
	code := d.Run(state)
	os.Exit(code)
	return nil
}

// fileSize returns the size of path in bytes, or 0 if it cannot be
// statted — session.NewFileSelection rejects an oversized value, and the
// driver's own os.ReadFile call surfaces a missing/unreadable file as a
// fatal upload error with the right phase name.
func fileSize(path string) int {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(info.Size())
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("filexfer: unrecognized --log-level %q", s)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
