package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fgerlach/havagbot/internal/connection"
)

// Fixed reply texts.
const (
	msgGreeting           = "Hello"
	msgNoConnection       = "Keine Verbindung gefunden."
	msgServiceUnavailable = "Abfahrtsauskunft derzeit nicht erreichbar."
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	return msgGreeting, nil
}

func (b *Bot) handleHome(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	return b.nextConnection(ctx, b.cfg.Workplace, b.cfg.DirectionHome)
}

func (b *Bot) handleWork(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	return b.nextConnection(ctx, b.cfg.Home, b.cfg.DirectionWorkplace)
}

// nextConnection renders the next connection from stop toward one of the
// destinations, timing the lookup.
func (b *Bot) nextConnection(ctx context.Context, stop string, destinations []string) (string, error) {
	start := time.Now()
	conn, err := b.selector.Next(ctx, stop, destinations)
	b.metrics.RecordTiming("rtpi.next", time.Since(start))
	if err != nil {
		return "", err
	}
	return connection.Format(*conn), nil
}
