// Package admincache answers "does the bot hold admin rights in this
// group" with a per-chat cache, so plain-text evaluation in groups does
// not hit the Bot API on every message.
package admincache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m3rciful/calcbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Lookup fetches the bot's membership role in a chat. In production it
// wraps tele.Bot.ChatMemberOf.
type Lookup func(chatID int64) (tele.MemberStatus, error)

// Cache memoizes the admin answer per chat. Entries live until the bot
// is observed leaving the chat; admin promotions after a negative probe
// take effect only after Invalidate or restart, which matches how the
// bot actually re-enters a chat.
type Cache struct {
	mu     sync.RWMutex
	lookup Lookup
	roles  map[int64]bool
}

// New builds a Cache over the given membership lookup.
func New(lookup Lookup) *Cache {
	return &Cache{
		lookup: lookup,
		roles:  make(map[int64]bool),
	}
}

// NewForBot builds a Cache backed by the live Bot API.
func NewForBot(bot *tele.Bot) *Cache {
	return New(func(chatID int64) (tele.MemberStatus, error) {
		member, err := bot.ChatMemberOf(&tele.Chat{ID: chatID}, &tele.User{ID: bot.Me.ID})
		if err != nil {
			return "", err
		}
		return member.Role, nil
	})
}

// IsAdmin reports whether the bot administers the chat, probing the API
// on first sight of the chat. Probe failures are treated as "not admin"
// and are not cached, so a transient API error does not stick.
func (c *Cache) IsAdmin(ctx context.Context, chatID int64) bool {
	c.mu.RLock()
	role, ok := c.roles[chatID]
	c.mu.RUnlock()
	if ok {
		return role
	}

	status, err := c.lookup(chatID)
	if err != nil {
		logger.Warn(ctx, "tg", "admincache.probe.fail",
			slog.Int64("chat_id", chatID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return false
	}

	isAdmin := status == tele.Administrator || status == tele.Creator

	c.mu.Lock()
	c.roles[chatID] = isAdmin
	c.mu.Unlock()

	logger.Debug(ctx, "tg", "admincache.probe",
		slog.Int64("chat_id", chatID),
		slog.String("role", string(status)),
		slog.Bool("admin", isAdmin),
	)

	return isAdmin
}

// Invalidate drops the cached role for a chat. Called when the bot's
// own membership changes (left, kicked, promoted, demoted).
func (c *Cache) Invalidate(chatID int64) {
	c.mu.Lock()
	delete(c.roles, chatID)
	c.mu.Unlock()
}

// Len reports the number of cached chats, used in diagnostics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roles)
}
