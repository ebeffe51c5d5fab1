// package shared defines configuration, logging, errors and storage helpers used across hamilmoji
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w with timestamps, caller reporting and the "hamilmoji" prefix.
//
// The writer defaults to [os.Stderr] so that logs never mix with command output.
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true, Prefix: "hamilmoji"}
	return log.NewWithOptions(w, opts)
}

// SetVerbose switches l between [log.DebugLevel] and [log.InfoLevel].
func SetVerbose(l *log.Logger, verbose bool) {
	if verbose {
		l.SetLevel(log.DebugLevel)
		return
	}
	l.SetLevel(log.InfoLevel)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
