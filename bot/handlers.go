package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/calc"
	"github.com/m3rciful/calcbot/calc/keypad"
	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/core/telegram/callbacks"
	"github.com/m3rciful/calcbot/core/telegram/format"
	tghelpers "github.com/m3rciful/calcbot/core/telegram/helpers"
	"github.com/m3rciful/calcbot/core/telegram/keyboard"
	"github.com/m3rciful/calcbot/core/telegram/ui"
	"github.com/m3rciful/calcbot/directory"
)

const helpText = `🧮 *Calculator bot*

Send me an arithmetic expression and I reply with the result.

Supported: ` + "`+ - * / ^ %`" + `, parentheses, decimals, and the constants ` + "`pi`" + ` and ` + "`e`" + `.

Commands:
/calc — open the interactive keypad
/eval <expression> — one-shot evaluation
/help — this message

I also work inline: mention me in any chat followed by an expression.`

// handleStart greets the user, records them in the directory, and
// offers the keypad shortcut.
func (a *App) handleStart(c tele.Context) error {
	a.trackSighting(c)

	greeting := "Hi!"
	if u := c.Sender(); u != nil && u.FirstName != "" {
		if name, err := format.EscapeMarkdown(u.FirstName, format.MarkdownV1); err == nil {
			greeting = "Hi, " + name + "!"
		}
	}

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🧮 Open calculator", Unique: cbOpen, Data: "open"},
	})
	return tghelpers.SendMD(c, greeting+" I evaluate arithmetic expressions.\nSend me one, or open the keypad below.", markup)
}

func (a *App) handleHelp(c tele.Context) error {
	a.trackSighting(c)
	return tghelpers.SendMD(c, helpText)
}

// handleCalc opens (or re-renders) the chat's calculator session with a
// freshly sent message.
func (a *App) handleCalc(c tele.Context) error {
	a.trackSighting(c)
	return a.deliverFresh(c)
}

// handleOpenCalculator is the inline-button twin of /calc.
func (a *App) handleOpenCalculator(c tele.Context) error {
	return a.deliverFresh(c)
}

// handleEval evaluates the command payload once and replies with the
// result or the error description.
func (a *App) handleEval(c tele.Context) error {
	a.trackSighting(c)

	expr := strings.TrimSpace(c.Message().Payload)
	out := a.evaluate(c, expr)
	if !out.OK() {
		return c.Reply(out.ErrorText())
	}
	return c.Reply(out.Value)
}

// handlePlainText evaluates free-form messages. Private chats always
// answer, including errors. Group chats answer only when the bot holds
// admin rights there, and rejections stay silent to avoid noise.
func (a *App) handlePlainText(c tele.Context) error {
	a.trackSighting(c)

	chat := c.Chat()
	if chat == nil {
		return nil
	}

	private := chat.Type == tele.ChatPrivate
	if !private {
		if a.admins == nil || !a.admins.IsAdmin(tghelpers.BuildContext(c), chat.ID) {
			return nil
		}
	}

	out := a.evaluate(c, c.Text())
	if !out.OK() {
		if private {
			return c.Reply(out.ErrorText())
		}
		return nil
	}
	return c.Reply(out.Value)
}

// handleKeypadPress advances the chat session by one key and re-renders.
func (a *App) handleKeypadPress(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	key := callbacks.CallbackPayload(c)
	if key == "" {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	var deliverErr error
	a.sessions.With(chat.ID, func(s *keypad.Session) {
		s.Apply(key)
		logger.Debug(ctx, "calc", "keypad.press",
			slog.String("key", key),
			slog.String("expr", logger.SanitizeLimit(s.Expression, 128)),
		)
		deliverErr = a.deliverRender(c, chat.ID, s)
	})
	return deliverErr
}

// handleInlineQuery answers with exactly one article carrying the
// evaluated value or the error description.
func (a *App) handleInlineQuery(c tele.Context) error {
	query := c.Query().Text
	out := a.evaluate(c, query)

	var article *tele.ArticleResult
	if out.OK() {
		article = ui.NewArticleResultMD("calc", out.Value, query,
			fmt.Sprintf("`%s = %s`", strings.TrimSpace(query), out.Value))
	} else {
		article = ui.NewSimpleArticleResult("calc", "Error", out.ErrorText())
	}

	return c.Answer(&tele.QueryResponse{
		Results:   tele.Results{article},
		CacheTime: 10,
	})
}

// handleStats reports directory counters to the admin.
func (a *App) handleStats(c tele.Context) error {
	stats, err := a.dir.Counts(tghelpers.BuildContext(c))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return tghelpers.SendMD(c, fmt.Sprintf("*Stats*\nusers: %d\ngroups: %d\nsessions: %d",
		stats.Users, stats.Groups, a.sessions.Len()))
}

// handleBroadcast fans the payload out to every known recipient and
// replies with the tally.
func (a *App) handleBroadcast(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Reply("Usage: /broadcast <text>")
	}
	if a.bcaster == nil {
		return c.Reply("Broadcast is not available yet.")
	}

	report, err := a.bcaster.Run(tghelpers.BuildContext(c), text)
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	return c.Reply(fmt.Sprintf("Broadcast done: %d recipients, %d sent, %d failed.",
		report.Recipients, report.Sent, report.Failed))
}

// handleMembershipChange reacts to the bot's own membership updates:
// groups are tracked while the bot stays, deactivated when it leaves.
func (a *App) handleMembershipChange(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.Chat == nil {
		return nil
	}
	if upd.Chat.Type == tele.ChatPrivate {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	chatID := upd.Chat.ID

	if a.admins != nil {
		a.admins.Invalidate(chatID)
	}

	role := tele.MemberStatus("")
	if upd.NewChatMember != nil {
		role = upd.NewChatMember.Role
	}
	switch role {
	case tele.Left, tele.Kicked:
		a.dir.DeactivateGroup(ctx, chatID)
	default:
		a.dir.TrackGroup(ctx, directory.Group{ID: chatID, Title: upd.Chat.Title})
	}
	return nil
}

// evaluate runs the calculator pipeline with structured logging.
func (a *App) evaluate(c tele.Context, expr string) calc.Outcome {
	out := calc.Evaluate(expr)
	ctx := tghelpers.BuildContext(c)
	if out.OK() {
		logger.Debug(ctx, "calc", "evaluate",
			slog.String("expr", logger.SanitizeLimit(expr, 128)),
			slog.String("result", out.Value),
		)
	} else {
		logger.Debug(ctx, "calc", "evaluate.rejected",
			slog.String("expr", logger.SanitizeLimit(expr, 128)),
			slog.String("kind", out.Kind.String()),
		)
	}
	return out
}

// trackSighting records the sender (and group chat, when applicable)
// in the directory. Failures never block the reply path.
func (a *App) trackSighting(c tele.Context) {
	ctx := tghelpers.BuildContext(c)
	if u := c.Sender(); u != nil {
		a.dir.TrackUser(ctx, directory.User{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		a.dir.TrackGroup(ctx, directory.Group{ID: chat.ID, Title: chat.Title})
	}
}
