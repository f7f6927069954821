// Package bot wires the Telegram side of the departure bot: it consumes
// command updates over long polling, gates them against the configured
// allow-list, and answers with the next matching connection.
//
// Three commands are served. /start replies with a fixed greeting, /home
// answers with the next connection from the workplace stop toward the
// home destinations, and /work with the opposite commute. Messages from
// chats outside the allow-list are dropped with a single warning log
// entry and no reply; an empty allow-list drops everything.
//
// The bot talks to Telegram through the API interface, satisfied by
// *tgbotapi.BotAPI, and picks connections through the Selector interface,
// satisfied by *connection.Selector. Each update is handled to completion
// before the next one is read, with the remote departure call bounded by
// a per-request timeout.
package bot
