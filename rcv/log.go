package rcv

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger. The core has no
// networked surface to trace requests for (see SPEC_FULL.md §2.3); it
// logs the non-Condorcet diagnostic notice only.
// Callers that embed this library in a larger driver should call
// SetLogger with their own configured logger.
var Logger zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}
