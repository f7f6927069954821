package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/fgerlach/havagbot/internal/config"
	"github.com/fgerlach/havagbot/internal/connection"
	"github.com/fgerlach/havagbot/internal/logger"
)

const (
	// updateTimeout is the getUpdates long-poll timeout in seconds.
	updateTimeout = 30

	// requestTimeout bounds the handling of one command, including the
	// departure service call.
	requestTimeout = 15 * time.Second
)

// API is the slice of the Telegram client the bot uses. Satisfied by
// *tgbotapi.BotAPI.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Selector picks the next matching connection. Satisfied by
// *connection.Selector.
type Selector interface {
	Next(ctx context.Context, stop string, destinations []string) (*connection.Connection, error)
}

// HandlerFunc produces the reply for one inbound command message. An
// empty reply with a nil error means stay silent.
type HandlerFunc func(ctx context.Context, msg *tgbotapi.Message) (string, error)

// Bot answers departure commands over Telegram.
type Bot struct {
	api      API
	cfg      *config.Config
	selector Selector
	log      *logger.Logger
	metrics  *logger.Metrics
	dryRun   bool

	routes map[string]HandlerFunc
}

// New wires a bot from its collaborators. With dryRun set, replies are
// logged instead of sent.
func New(api API, cfg *config.Config, selector Selector, log *logger.Logger, metrics *logger.Metrics, dryRun bool) *Bot {
	b := &Bot{
		api:      api,
		cfg:      cfg,
		selector: selector,
		log:      log,
		metrics:  metrics,
		dryRun:   dryRun,
	}

	b.routes = map[string]HandlerFunc{
		"start": b.handleStart,
		"home":  b.handleHome,
		"work":  b.handleWork,
	}

	return b
}

// Run consumes updates until ctx is canceled or the update channel
// closes. Each update is handled to completion before the next is read.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)

	b.metrics.SetGauge("allowlist.size", float64(len(b.cfg.AllowedIDs)))
	b.log.Info("bot started", logger.Fields{
		"allowed_ids": len(b.cfg.AllowedIDs),
		"dry_run":     b.dryRun,
	})

	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot stopping", logger.Fields{"metrics": b.metrics.GetSnapshot()})
			return
		case update, ok := <-updates:
			if !ok {
				b.log.Info("update channel closed", logger.Fields{"metrics": b.metrics.GetSnapshot()})
				return
			}
			reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			b.handleUpdate(reqCtx, update)
			cancel()
		}
	}
}

// handleUpdate dispatches one update through the access gate to its
// command handler and sends the reply. Non-commands and unknown commands
// are ignored.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	command := strings.ToLower(msg.Command())
	handler, ok := b.routes[command]
	if !ok {
		return
	}

	requestID := uuid.NewString()
	b.metrics.IncrCounter("commands." + command)
	b.log.Debug("command received", logger.Fields{
		"request_id": requestID,
		"command":    command,
		"chat_id":    msg.Chat.ID,
	})

	reply, err := b.guard(handler)(ctx, msg)
	if err != nil {
		if errors.Is(err, connection.ErrNoConnection) {
			reply = msgNoConnection
		} else {
			b.metrics.IncrCounter("errors.remote")
			b.log.Error("handling command", logger.Fields{
				"request_id": requestID,
				"command":    command,
			}, err)
			reply = msgServiceUnavailable
		}
	}
	if reply == "" {
		return
	}

	b.send(msg.Chat.ID, reply, requestID)
}

// send delivers a reply, or just logs it in dry-run mode.
func (b *Bot) send(chatID int64, text, requestID string) {
	if b.dryRun {
		b.log.Info("dry run: reply suppressed", logger.Fields{
			"request_id": requestID,
			"chat_id":    chatID,
			"text":       text,
		})
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.metrics.IncrCounter("errors.send")
		b.log.Error("sending reply", logger.Fields{
			"request_id": requestID,
			"chat_id":    chatID,
		}, err)
		return
	}

	b.log.Debug("reply sent", logger.Fields{
		"request_id": requestID,
		"chat_id":    chatID,
	})
}
