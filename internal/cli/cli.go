package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fgerlach/havagbot/internal/bot"
	"github.com/fgerlach/havagbot/internal/config"
	"github.com/fgerlach/havagbot/internal/connection"
	"github.com/fgerlach/havagbot/internal/havag"
	"github.com/fgerlach/havagbot/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagLogFile   string
	flagVerbose   bool
	flagDryRun    bool
	flagFormat    string
	flagDirection string
	flagSort      string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "havagbot <configfile>",
		Short: "Telegram bot answering HAVAG tram departures",
		Long: `A Telegram bot that answers /home and /work with the next tram
connection between the configured stops, looked up live from the
HAVAG real-time passenger information service.`,
		Args: cobra.ExactArgs(1),
		RunE: runBot,
	}

	// Define flags
	cmd.Flags().StringVar(&flagLogFile, "log-file", "bot.log", "Log file path ('-' for stdout)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log replies instead of sending them")

	cmd.AddCommand(newDeparturesCmd())

	return cmd
}

// newDeparturesCmd creates the one-shot departure board command
func newDeparturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departures <configfile> <stop>",
		Short: "Print upcoming departures for a stop",
		Args:  cobra.ExactArgs(2),
		RunE:  runDepartures,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagDirection, "direction", "", "Filter by configured direction: home or work")
	cmd.Flags().StringVar(&flagSort, "sort", "time", "Sort order: time or line")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runBot is the main command logic: it connects to Telegram and serves
// commands until interrupted.
func runBot(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logWriter, closeLog, err := openLogWriter(flagLogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	log := logger.New(logLevel(), logWriter)
	metrics := logger.NewMetrics()

	client, err := havag.NewClient(havag.DefaultEndpoint, log)
	if err != nil {
		return fmt.Errorf("creating departure client: %w", err)
	}
	selector := connection.NewSelector(client)

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return fmt.Errorf("connecting to Telegram: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot.New(api, cfg, selector, log, metrics, flagDryRun).Run(ctx)
	return nil
}

// runDepartures prints the upcoming departure board for one stop
func runDepartures(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != SortByTime && sortOrder != SortByLine {
		return fmt.Errorf("invalid sort order: %s (must be 'time' or 'line')", flagSort)
	}

	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	destinations, err := directionFilter(cfg, flagDirection)
	if err != nil {
		return err
	}

	log := logger.New(logLevel(), os.Stderr)
	client, err := havag.NewClient(havag.DefaultEndpoint, log)
	if err != nil {
		return fmt.Errorf("creating departure client: %w", err)
	}
	selector := connection.NewSelector(client)

	stop := args[1]
	upcoming, err := selector.Upcoming(context.Background(), stop, destinations)
	if err != nil {
		return fmt.Errorf("fetching departures: %w", err)
	}

	sortConnections(upcoming, sortOrder)

	result := &OutputResult{
		CheckedAt:   time.Now(),
		Stop:        stop,
		Direction:   flagDirection,
		Connections: upcoming,
		Count:       len(upcoming),
	}

	if err := WriteOutput(os.Stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// directionFilter maps a --direction value onto the configured
// destination list. An empty direction applies no filter.
func directionFilter(cfg *config.Config, direction string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "":
		return nil, nil
	case "home":
		return cfg.DirectionHome, nil
	case "work":
		return cfg.DirectionWorkplace, nil
	default:
		return nil, fmt.Errorf("invalid direction: %s (must be 'home' or 'work')", direction)
	}
}

func logLevel() logger.Level {
	if flagVerbose {
		return logger.LevelDebug
	}
	return logger.LevelInfo
}

// openLogWriter opens the log destination. "-" selects stdout, which
// is never closed.
func openLogWriter(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
