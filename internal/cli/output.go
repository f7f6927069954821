package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fgerlach/havagbot/internal/connection"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time               `json:"checked_at"`
	Stop        string                  `json:"stop"`
	Direction   string                  `json:"direction,omitempty"`
	Connections []connection.Connection `json:"connections"`
	Count       int                     `json:"count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult) error {
	if result.Count == 0 {
		fmt.Fprintln(w, "Keine Verbindung gefunden.")
		return nil
	}

	for _, conn := range result.Connections {
		fmt.Fprintln(w, connection.Format(conn))
	}
	fmt.Fprintf(w, "\nTotal: %d departures from %s\n", result.Count, result.Stop)

	return nil
}
