package dumpybot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cron "github.com/robfig/cron/v3"

	"github.com/ArminGh02/dumpy-bot/pkg/config"
	"github.com/ArminGh02/dumpy-bot/pkg/database"
	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
	"github.com/ArminGh02/dumpy-bot/pkg/tts"
	"github.com/ArminGh02/dumpy-bot/pkg/util/sets"
)

type Bot struct {
	cfg    *config.Config
	api    *tgbotapi.BotAPI
	db     database.Store
	speech *tts.Client
	http   *http.Client

	inProcess gifmaker.Renderer
	// ffmpeg is nil when the external backend is disabled.
	ffmpeg gifmaker.Renderer

	renderSlots    chan struct{}
	rendering      sets.Set[int64]
	renderingMutex sync.Mutex

	gifsRenderedToday uint64
	usersJoinedToday  uint64
}

// New builds a bot. ffmpeg may be nil.
func New(cfg *config.Config, db database.Store, inProcess, ffmpeg gifmaker.Renderer) *Bot {
	return &Bot{
		cfg:         cfg,
		db:          db,
		speech:      tts.NewClient(cfg.TTSEndpoint, cfg.TTSTimeout),
		http:        &http.Client{Timeout: downloadTimeout},
		inProcess:   inProcess,
		ffmpeg:      ffmpeg,
		renderSlots: make(chan struct{}, cfg.MaxConcurrentRenders),
		rendering:   sets.New[int64](),
	}
}

// Run polls Telegram for updates until ctx is canceled.
func (bot *Bot) Run(ctx context.Context) error {
	var err error
	bot.api, err = tgbotapi.NewBotAPI(bot.cfg.Token)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bot.db.Disconnect(shutdownCtx); err != nil {
			slog.Error("failed to disconnect database", slog.Any("err", err))
		}
	}()

	slog.Info("bot started", slog.String("username", bot.api.Self.UserName))

	c := cron.New(cron.WithLocation(bot.cfg.Location))
	c.AddFunc("@daily", bot.resetDailyCounters)
	c.Start()
	defer c.Stop()

	if bot.cfg.MetricsAddr != "" {
		srv := bot.serveMetrics()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.api.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			bot.api.StopReceivingUpdates()
			slog.Info("bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				bot.handleUpdate(ctx, update)
			}()
		}
	}
}

func (bot *Bot) serveMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              bot.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("err", err))
		}
	}()
	slog.Info("metrics server listening", slog.String("addr", bot.cfg.MetricsAddr))
	return srv
}

func (bot *Bot) resetDailyCounters() {
	atomic.SwapUint64(&bot.gifsRenderedToday, 0)
	atomic.SwapUint64(&bot.usersJoinedToday, 0)
}

func (bot *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		bot.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		bot.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// send logs delivery failures and carries on.
func (bot *Bot) send(c tgbotapi.Chattable) {
	if _, err := bot.api.Send(c); err != nil {
		slog.Warn("send failed", slog.Any("err", err))
	}
}

func (bot *Bot) request(c tgbotapi.Chattable) {
	if _, err := bot.api.Request(c); err != nil {
		slog.Warn("request failed", slog.Any("err", err))
	}
}

func (bot *Bot) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	bot.send(msg)
}
