package bot

import (
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/calc/keypad"
	"github.com/m3rciful/calcbot/core/logger"
	tghelpers "github.com/m3rciful/calcbot/core/telegram/helpers"
	"github.com/m3rciful/calcbot/core/telegram/keyboard"
)

// keypadMarkup builds the inline keyboard from the fixed layout. Every
// key routes through the cbKeypad callback with its token as payload.
func keypadMarkup() *tele.ReplyMarkup {
	layout := keypad.Layout()
	rows := make([][]keyboard.InlineBtn, len(layout))
	for i, row := range layout {
		btns := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			btns[j] = keyboard.InlineBtn{Text: b.Label, Unique: cbKeypad, Data: b.Data}
		}
		rows[i] = btns
	}
	return keyboard.InlineButtonsRows(rows...)
}

// deliverFresh creates or reuses the chat session and sends a brand-new
// keypad message, recording it as the session's render target.
func (a *App) deliverFresh(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	var err error
	a.sessions.With(chat.ID, func(s *keypad.Session) {
		err = a.sendRender(c, chat.ID, s)
	})
	return err
}

// deliverRender refreshes the session's message in place. When the edit
// fails (message deleted, too old, never sent) it falls back to sending
// a new message exactly once and re-records the reference.
func (a *App) deliverRender(c tele.Context, chatID int64, s *keypad.Session) error {
	if s.Message.Zero() {
		return a.sendRender(c, chatID, s)
	}

	ref := tele.StoredMessage{
		MessageID: s.Message.MessageID,
		ChatID:    s.Message.ChatID,
	}
	_, err := c.Bot().Edit(ref, s.Render(), keypadMarkup(), tele.ModeMarkdown)
	if err == nil || isNotModified(err) {
		return nil
	}

	logger.Debug(tghelpers.BuildContext(c), "calc", "keypad.edit.fallback",
		slog.Int64("chat_id", chatID),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	return a.sendRender(c, chatID, s)
}

// sendRender sends a new keypad message and records its reference.
func (a *App) sendRender(c tele.Context, chatID int64, s *keypad.Session) error {
	msg, err := c.Bot().Send(&tele.Chat{ID: chatID}, s.Render(), keypadMarkup(), tele.ModeMarkdown)
	if err != nil {
		return err
	}
	s.Message = keypad.MessageRef{
		ChatID:    chatID,
		MessageID: strconv.Itoa(msg.ID),
	}
	return nil
}

// isNotModified detects the no-op edit rejection Telegram returns when
// the rendered text and markup did not change, e.g. pressing Clear on
// an already empty session.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
