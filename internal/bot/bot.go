// Package bot routes Telegram updates to the collection engine.
//
// One chat drives at most one run at a time. The dialog itself is a
// two-step exchange: /parse puts the chat into an awaiting-query stage,
// the next plain-text message becomes the search query and starts a run.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"hhscout/collector-service/internal/collector"
	"hhscout/collector-service/internal/model"
	"hhscout/collector-service/internal/session"
)

// Sender is the subset of the notifier the bot uses for its own replies.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) (collector.MessageRef, error)
	SendHTML(ctx context.Context, chatID int64, text string) error
}

// Config carries the search defaults applied to every run the bot starts.
type Config struct {
	AreaID     string
	WindowDays int
	ChunkDays  int
}

// Bot dispatches incoming updates and tracks the active run per chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	engine   *collector.Engine
	sessions session.Store
	out      Sender
	cfg      Config
	log      *zap.Logger

	mu   sync.Mutex
	runs map[int64]*collector.Run
}

// New assembles the bot. The api client is only used for long polling;
// outgoing replies go through out.
func New(api *tgbotapi.BotAPI, engine *collector.Engine, sessions session.Store, out Sender, cfg Config, log *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		engine:   engine,
		sessions: sessions,
		out:      out,
		cfg:      cfg,
		log:      log.Named("bot"),
		runs:     make(map[int64]*collector.Run),
	}
}

// Run long-polls Telegram for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate processes a single update. Exposed separately from Run so
// a webhook transport could feed updates in without the polling loop.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "parse":
		b.handleParse(ctx, msg)
	case "cancel":
		b.handleCancel(ctx, msg)
	default:
		b.log.Debug("unknown command",
			zap.String("command", msg.Command()),
			zap.Int64("chat_id", msg.Chat.ID))
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	text := fmt.Sprintf(welcomeTemplate, displayName(msg), b.cfg.WindowDays)
	if err := b.out.SendHTML(ctx, msg.Chat.ID, text); err != nil {
		b.log.Warn("failed to send welcome", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (b *Bot) handleParse(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if b.activeRun(chatID) != nil {
		b.reply(ctx, chatID, msgSearchBusy)
		return
	}

	if err := b.sessions.SetStage(ctx, chatID, session.StageAwaitingQuery); err != nil {
		b.log.Error("failed to store session", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.reply(ctx, chatID, msgAskProfession)
}

// handleText is reached for any non-command message. Outside the
// awaiting-query stage the text is ignored.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	st, err := b.sessions.Stage(ctx, chatID)
	if err != nil {
		b.log.Error("failed to read session", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if st != session.StageAwaitingQuery {
		return
	}

	query := strings.TrimSpace(msg.Text)
	req := model.SearchRequest{
		Query:      query,
		AreaID:     b.cfg.AreaID,
		WindowDays: b.cfg.WindowDays,
		ChunkDays:  b.cfg.ChunkDays,
	}
	if err := req.Validate(); err != nil {
		// Stage stays open so the user can try again.
		b.reply(ctx, chatID, msgBadProfession)
		return
	}

	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.log.Error("failed to clear session", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	b.mu.Lock()
	if cur := b.runs[chatID]; cur != nil && !collector.IsTerminal(cur.State()) {
		b.mu.Unlock()
		b.reply(ctx, chatID, msgSearchBusy)
		return
	}
	run := b.engine.Begin(ctx, req, chatID, b.runEvents(chatID, query))
	b.runs[chatID] = run
	b.mu.Unlock()

	go func() {
		<-run.Done()
		b.clearRun(chatID, run)
	}()

	b.reply(ctx, chatID, fmt.Sprintf(msgSearchStarted, query))
}

func (b *Bot) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if err := b.sessions.Clear(ctx, chatID); err != nil {
		b.log.Error("failed to clear session", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	// The confirmation is only sent when something was actually cancelled.
	if run := b.activeRun(chatID); run != nil {
		run.Cancel()
		b.reply(ctx, chatID, msgCancelled)
	}
}

// runEvents builds the per-run event callback. Chat delivery is handled
// by the engine's notifier; this is the operational log of the journey.
func (b *Bot) runEvents(chatID int64, query string) collector.EventFunc {
	log := b.log.With(zap.Int64("chat_id", chatID), zap.String("query", query))
	return func(ev collector.Event) {
		switch ev.Type {
		case collector.EventProgress:
			log.Debug("search progress", zap.Int("percent", ev.Percent))
		case collector.EventCompleted:
			log.Info("search delivered", zap.Int("found", ev.Found))
		case collector.EventEmpty:
			log.Info("search found nothing")
		case collector.EventError:
			log.Warn("search failed", zap.Error(ev.Err))
		}
	}
}

// activeRun returns the chat's run if it is still in flight. A finished
// run whose registry entry has not been evicted yet counts as absent.
func (b *Bot) activeRun(chatID int64) *collector.Run {
	b.mu.Lock()
	defer b.mu.Unlock()

	run := b.runs[chatID]
	if run == nil || collector.IsTerminal(run.State()) {
		return nil
	}
	return run
}

// clearRun removes the registry entry once a run finishes. The identity
// check keeps a late watcher from evicting a newer run for the same chat.
func (b *Bot) clearRun(chatID int64, run *collector.Run) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.runs[chatID] == run {
		delete(b.runs, chatID)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.out.SendText(ctx, chatID, text); err != nil {
		b.log.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func displayName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	name := msg.From.FirstName
	if msg.From.LastName != "" {
		name += " " + msg.From.LastName
	}
	return name
}
