package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fgerlach/havagbot/internal/logger"
)

// guard wraps next so it only runs for chats on the allow-list. Requests
// from anyone else are dropped without a reply and logged once at warning
// level. An empty allow-list drops every request.
func (b *Bot) guard(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, msg *tgbotapi.Message) (string, error) {
		if !b.allowed(msg.Chat.ID) {
			b.metrics.IncrCounter("requests.denied")
			b.log.Warn("request from chat not on allow-list", logger.Fields{
				"first_name": msg.Chat.FirstName,
				"last_name":  msg.Chat.LastName,
				"chat_id":    msg.Chat.ID,
			})
			return "", nil
		}
		return next(ctx, msg)
	}
}

// allowed reports whether the chat id is on the allow-list.
func (b *Bot) allowed(id int64) bool {
	for _, allowedID := range b.cfg.AllowedIDs {
		if id == allowedID {
			return true
		}
	}
	return false
}
