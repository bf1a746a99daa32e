// Package progress reports phase-by-phase narration over the shared
// structured logger, plus the literal terminal banner lines main.cpp prints
// outside of structured logging. Grounded on
// original_source/Client/src/main.cpp's std::cout narration and
// ClientHandle::reportErrorAndDecrementRetries, and on
// marmos91-dittofs/internal/logger's convention of threading one
// *slog.Logger through the call chain rather than a package-global.
package progress

import (
	"fmt"
	"io"
	"log/slog"
)

// Reporter narrates driver phase transitions and the final accept/abort
// banner. Out is where the plain banner lines are written (normally
// os.Stdout); Log is the structured logger for per-attempt detail.
type Reporter struct {
	Out io.Writer
	Log *slog.Logger
}

// New builds a Reporter writing banners to out and structured lines to log.
func New(out io.Writer, log *slog.Logger) *Reporter {
	return &Reporter{Out: out, Log: log}
}

// PhaseSucceeded narrates a completed phase, matching the original's
// "<phase> succeeded..." lines.
func (r *Reporter) PhaseSucceeded(phase string) {
	fmt.Fprintf(r.Out, "%s succeeded...\n", phase)
	r.Log.Info("phase succeeded", "phase", phase)
}

// AttemptFailed records one failed attempt within a phase's retry budget.
func (r *Reporter) AttemptFailed(phase string, attempt int, err error) {
	r.Log.Warn("attempt failed", "phase", phase, "attempt", attempt, "err", err)
}

// Fatal prints the FATAL ERROR block with the accumulated per-attempt log,
// matching main.cpp's behavior on phase exhaustion.
func (r *Reporter) Fatal(phase string, attemptLog []string) {
	fmt.Fprintln(r.Out, "FATAL ERROR:")
	fmt.Fprintf(r.Out, "  phase: %s\n", phase)
	for _, line := range attemptLog {
		fmt.Fprintf(r.Out, "  - %s\n", line)
	}
}

// Accept prints the terminal accept banner.
func (r *Reporter) Accept() {
	fmt.Fprintln(r.Out, "Ending with: Accept")
}

// Abort prints the terminal abort banner.
func (r *Reporter) Abort() {
	fmt.Fprintln(r.Out, "Ending with: Abort")
}
