package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/studybuddy/internal/config"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/sandevgo/studybuddy/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const welcome = "📚 **" + core.AppName + "**\n\nAsk me anything about your ingested notes. Type /help for commands."

type Asker interface {
	Ask(ctx context.Context, question string) (tutor.Answer, error)
}

type CommandRouter interface {
	Execute(ctx context.Context, input string) (string, bool)
}

// Bot answers the owner's questions through the tutor. Other senders are ignored.
type Bot struct {
	bot     *tele.Bot
	tutor   Asker
	router  CommandRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	tutor Asker,
	router CommandRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		tutor:   tutor,
		router:  router,
		sender:  newSender(b),
		ownerID: cfg.OwnerID,
	}

	// Carry the root context, with its logger, into handlers.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return b.sender.sendMarkdown(ctx, c.Recipient(), welcome, false)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	if out, ok := b.router.Execute(ctx, text); ok {
		return b.sender.sendMarkdown(ctx, c.Recipient(), out, true)
	}

	_ = c.Notify(tele.Typing)

	ans, err := b.tutor.Ask(ctx, text)
	if err != nil {
		logger.Error().Err(err).Msg("tutor turn failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	reply := ans.Text
	if ans.OptimizedQuery != "" && ans.OptimizedQuery != text {
		reply = fmt.Sprintf("_Searched for: %s_\n\n%s", ans.OptimizedQuery, ans.Text)
	}
	return b.sender.sendMarkdown(ctx, c.Recipient(), reply, false)
}
