// Package bot assembles the calculator bot: command handlers, the
// keypad callback flow, plain-text evaluation, inline queries, and the
// admin surface, wired onto the reusable telegram core.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/calcbot/admincache"
	"github.com/m3rciful/calcbot/broadcast"
	"github.com/m3rciful/calcbot/calc/keypad"
	"github.com/m3rciful/calcbot/core/bootstrap"
	coretelegram "github.com/m3rciful/calcbot/core/telegram"
	"github.com/m3rciful/calcbot/core/telegram/commands"
	"github.com/m3rciful/calcbot/core/telegram/router"
	tgsender "github.com/m3rciful/calcbot/core/telegram/sender"
	"github.com/m3rciful/calcbot/directory"
)

// callback keys routed through the registry
const (
	cbKeypad = "calc"
	cbOpen   = "calc_open"
)

// App carries the assembled application state.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	dir      *directory.Service
	sessions *keypad.Store

	// populated in OnStart once the bot instance exists
	bot     *tele.Bot
	admins  *admincache.Cache
	bcaster *broadcast.Broadcaster
}

// Bootstrap initializes infrastructure (logger, database, migrations)
// and builds the application.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		db:       res.DB,
		dir:      directory.NewService(res.DB),
		sessions: keypad.NewStore(),
	}, nil
}

// TelegramRunOptions builds the full run configuration: registry,
// middleware chain, routes, and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()

	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := reg.RegisterCallback(cbKeypad, a.handleKeypadPress); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(cbOpen, a.handleOpenCalculator); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.handlePlainText)
	reg.SetInlineQuery(a.handleInlineQuery)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
		OnAdminReject: func(c tele.Context) error {
			return c.Send("This command is restricted to the bot administrator.")
		},
	})
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{}),
		router.TextRoute(reg, router.TextOptions{}),
		router.InlineQueryRoute(reg),
		coretelegram.Route{Endpoint: tele.OnMyChatMember, Handler: a.handleMembershipChange},
	)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
		DispatcherOptions: tgsender.Options{
			QueueSize:  256,
			Workers:    4,
			MaxRetries: 2,
		},
		OnStart: a.onStart,
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// onStart finishes wiring that needs the live bot instance.
func (a *App) onStart(_ context.Context, rt coretelegram.Runtime) error {
	a.bot = rt.Bot
	a.admins = admincache.NewForBot(rt.Bot)
	a.bcaster = broadcast.New(a.dir, botSender{bot: rt.Bot}, broadcast.Config{
		PerSendPause: time.Duration(a.cfg.Broadcast.PerSendPauseMS) * time.Millisecond,
	})
	return nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Greeting and calculator shortcut",
	})
	reg.RegisterCommand("/calc", commands.Command{
		Handler:     a.handleCalc,
		Description: "Open the interactive calculator",
	})
	reg.RegisterCommand("/eval", commands.Command{
		Handler:     a.handleEval,
		Description: "Evaluate an expression: /eval 2+2*2",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Show usage and supported operators",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Directory counters",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.handleBroadcast,
		Description: "Send a message to all users and groups",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// Close releases application resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// botSender adapts tele.Bot to the broadcast sender port.
type botSender struct {
	bot *tele.Bot
}

func (s botSender) SendTo(chatID int64, text string) error {
	_, err := s.bot.Send(&tele.Chat{ID: chatID}, text)
	return err
}
