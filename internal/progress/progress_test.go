package progress

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestReporter() (*Reporter, *bytes.Buffer) {
	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&out, nil))
	return New(&out, log), &out
}

func TestPhaseSucceededWritesBanner(t *testing.T) {
	r, out := newTestReporter()
	r.PhaseSucceeded("register")
	if !strings.Contains(out.String(), "register succeeded...") {
		t.Errorf("got %q", out.String())
	}
}

func TestFatalListsAttemptLog(t *testing.T) {
	r, out := newTestReporter()
	r.Fatal("upload", []string{"attempt 1: transport error", "attempt 2: protocol error"})
	got := out.String()
	if !strings.Contains(got, "FATAL ERROR:") {
		t.Errorf("missing FATAL ERROR banner: %q", got)
	}
	if !strings.Contains(got, "attempt 1: transport error") {
		t.Errorf("missing attempt log line: %q", got)
	}
}

func TestAcceptAndAbortBanners(t *testing.T) {
	r, out := newTestReporter()
	r.Accept()
	if !strings.Contains(out.String(), "Ending with: Accept") {
		t.Errorf("got %q", out.String())
	}

	r2, out2 := newTestReporter()
	r2.Abort()
	if !strings.Contains(out2.String(), "Ending with: Abort") {
		t.Errorf("got %q", out2.String())
	}
}

func TestAttemptFailedDoesNotPanic(t *testing.T) {
	r, _ := newTestReporter()
	r.AttemptFailed("exchange-keys", 2, errors.New("boom"))
}
