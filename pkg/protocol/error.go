package protocol

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrFatal marks an internal error that is not attributable to any participant.
var ErrFatal = errors.New("protocol: fatal error")

// Fatalf logs the formatted message at error level on l and returns it wrapped in ErrFatal.
func Fatalf(l zerolog.Logger, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	l.Error().Msg(msg)
	return fmt.Errorf("%w: %s", ErrFatal, msg)
}

// Error wraps a fatal error with the round in which it occurred.
// Misbehaving parties are never reported here, they end up in Done.Faulters.
type Error struct {
	// RoundNumber where the error occurred
	RoundNumber int
	// Err is the underlying error
	Err error
}

func (e Error) Error() string {
	return fmt.Sprintf("round %d: %s", e.RoundNumber, e.Err)
}

func (e Error) Unwrap() error {
	return e.Err
}
