// Package broadcast delivers an admin-authored message to every known
// user and active group exactly once per recipient.
package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/calcbot/core/logger"
	"github.com/m3rciful/calcbot/directory"
)

const componentName = "broadcast"

// Sender abstracts the outbound message call so fan-out can be tested
// without a live bot.
type Sender interface {
	SendTo(chatID int64, text string) error
}

// Config tunes fan-out pacing.
type Config struct {
	// Pause inserted between consecutive sends to stay under flood limits.
	PerSendPause time.Duration
}

// Report tallies the result of one broadcast run.
// Sent + Failed always equals Recipients.
type Report struct {
	Recipients int
	Sent       int
	Failed     int
}

// Broadcaster resolves recipients through the directory and fans a
// message out to them.
type Broadcaster struct {
	dir    *directory.Service
	sender Sender
	cfg    Config
}

// New builds a Broadcaster.
func New(dir *directory.Service, sender Sender, cfg Config) *Broadcaster {
	return &Broadcaster{dir: dir, sender: sender, cfg: cfg}
}

// Run sends text to every directory user and active group. Each
// recipient gets exactly one attempt; failures are tallied and logged,
// never retried. Context cancellation stops the run early with the
// partial tally.
func (b *Broadcaster) Run(ctx context.Context, text string) (Report, error) {
	users, err := b.dir.ListUsers(ctx)
	if err != nil {
		return Report{}, err
	}
	groups, err := b.dir.ListActiveGroups(ctx)
	if err != nil {
		return Report{}, err
	}

	recipients := make([]int64, 0, len(users)+len(groups))
	for _, u := range users {
		recipients = append(recipients, u.ID)
	}
	for _, g := range groups {
		recipients = append(recipients, g.ID)
	}

	report := Report{Recipients: len(recipients)}
	start := time.Now()

	logger.Info(ctx, componentName, "run.start",
		slog.Int("users", len(users)),
		slog.Int("groups", len(groups)),
		slog.Int("recipients", report.Recipients),
	)

	for i, chatID := range recipients {
		if err := ctx.Err(); err != nil {
			report.Failed += len(recipients) - i
			logger.Warn(ctx, componentName, "run.cancelled",
				slog.Int("sent", report.Sent),
				slog.Int("failed", report.Failed),
			)
			return report, err
		}

		if err := b.sender.SendTo(chatID, text); err != nil {
			report.Failed++
			logger.Warn(ctx, componentName, "send.fail",
				slog.Int64("chat_id", chatID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		} else {
			report.Sent++
		}

		if b.cfg.PerSendPause > 0 && i < len(recipients)-1 {
			timer := time.NewTimer(b.cfg.PerSendPause)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	logger.Info(ctx, componentName, "run.done",
		slog.Int("recipients", report.Recipients),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", logger.Took(start)),
	)

	return report, nil
}
