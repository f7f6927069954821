// Package cli implements the command-line interface for havagbot.
//
// The cli package provides the Cobra-based CLI with the long-running bot
// command and a one-shot departures command, formatting output (text/JSON).
// It coordinates the config, havag, connection and bot packages to serve
// next-connection lookups over Telegram.
package cli
