package protocol

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogger replaces the global logger used where no session logger is available,
// such as collection bounds checks and payload decoding.
// Session loggers are passed to New and are not affected.
func SetLogger(l zerolog.Logger) {
	log.Logger = l
}
