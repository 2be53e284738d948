// Command coral is a small operational CLI over the Coral client
// SDK: balances, objects, checkpoints, transactions, and system
// state, against any JSON-RPC or GraphQL backend or the built-in
// in-memory ledger.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
