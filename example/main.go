// Command example runs a GG20 keygen followed by a signature in a single process,
// with every share driven by its own protocol.Handler over an in-memory network.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func parseInts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func main() {
	counts := flag.String("counts", "1,1,1", "comma separated share count of every party")
	threshold := flag.Int("threshold", 1, "threshold t, any t+1 shares can sign")
	signers := flag.String("signers", "0,1", "comma separated indices of the signing parties")
	message := flag.String("message", "hello", "message to sign")
	timeout := flag.Duration("timeout", 10*time.Minute, "abort after this long")
	debug := flag.Bool("debug", false, "log every round")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	partyShareCounts, err := parseInts(*counts)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -counts")
	}
	parties, err := parseInts(*signers)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -signers")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, log, partyShareCounts, *threshold, parties, []byte(*message)); err != nil {
		log.Fatal().Err(err).Msg("example failed")
	}
}
