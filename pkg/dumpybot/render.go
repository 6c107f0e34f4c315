package dumpybot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
	"github.com/ArminGh02/dumpy-bot/pkg/telemetry"
)

var (
	errNoImage       = errors.New("no image attached")
	errInputTooLarge = errors.New("image is too large")
	errBusy          = errors.New("a render is already running for this user")
	errDownload      = errors.New("image download failed")
)

func (bot *Bot) handleDumpyCommand(ctx context.Context, message *tgbotapi.Message, args string) {
	user := message.From

	tileHeight := bot.tileHeightOf(ctx, user.ID)
	if strings.TrimSpace(args) != "" {
		var err error
		if tileHeight, err = parseTileHeight(args); err != nil {
			bot.reply(message, userMessage(err))
			return
		}
	}

	file := imageAttachment(message, bot.cfg.MaxInputBytes)
	if file == nil {
		bot.reply(message, userMessage(errNoImage))
		return
	}

	if !bot.tryStartRendering(user.ID) {
		bot.reply(message, userMessage(errBusy))
		return
	}
	defer bot.finishRendering(user.ID)

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()
	ctx = telemetry.WithCorrelation(ctx, newCorrelationID())
	logger := telemetry.LoggerWithCorr(ctx).With(slog.Int64("user_id", user.ID), slog.Int("tile_height", tileHeight))

	bot.request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatUploadVideo))

	filename, err := bot.renderAttachment(ctx, file, tileHeight)
	if err != nil {
		logger.Warn("render failed", slog.String("kind", gifmaker.Kind(err)), slog.Any("err", err))
		bot.reply(message, userMessage(err))
		return
	}
	defer func() {
		if err := os.Remove(filename); err != nil {
			logger.Error("failed to remove rendered gif", slog.String("file", filename), slog.Any("err", err))
		}
	}()

	animation := tgbotapi.NewAnimation(message.Chat.ID, tgbotapi.FilePath(filename))
	animation.ReplyToMessageID = message.MessageID
	if _, err := bot.api.Send(animation); err != nil {
		logger.Error("failed to send gif", slog.Any("err", err))
		bot.reply(message, userMessage(err))
		return
	}

	atomic.AddUint64(&bot.gifsRenderedToday, 1)
	if err := bot.db.IncrementGIFs(ctx, user.ID); err != nil {
		logger.Error("failed to count gif", slog.Any("err", err))
	}
	logger.Info("gif sent")
}

// renderAttachment downloads file, renders it and returns the GIF's path.
func (bot *Bot) renderAttachment(ctx context.Context, file *attachment, tileHeight int) (string, error) {
	if !bot.acquireRenderSlot(ctx) {
		return "", ctx.Err()
	}
	defer bot.releaseRenderSlot()

	url, err := bot.api.GetFileDirectURL(file.FileID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errDownload, err)
	}
	img, err := bot.fetchImage(ctx, url)
	if err != nil {
		return "", err
	}
	return bot.renderToFile(ctx, img, tileHeight)
}

// renderToFile renders img into a fresh file under the output directory.
func (bot *Bot) renderToFile(ctx context.Context, img image.Image, tileHeight int) (filename string, err error) {
	renderer := bot.rendererFor(tileHeight)
	ctx, span := telemetry.StartSpan(ctx, "gifmaker.render",
		attribute.String("renderer", renderer.Name()),
		attribute.Int("tile_height", tileHeight),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	filename = filepath.Join(bot.cfg.OutputDir, newFilename(".gif"))
	start := time.Now()
	err = renderer.Render(ctx, img, tileHeight, filename)
	telemetry.ObserveRender(renderer.Name(), gifmaker.Kind(err), time.Since(start))
	if err != nil {
		return "", err
	}
	return filename, nil
}

// rendererFor picks the ffmpeg backend for tall grids when it is enabled.
func (bot *Bot) rendererFor(tileHeight int) gifmaker.Renderer {
	minTile := bot.cfg.FFmpegMinTileHeight
	if bot.ffmpeg != nil && minTile > 0 && tileHeight >= minTile {
		return bot.ffmpeg
	}
	return bot.inProcess
}

func (bot *Bot) fetchImage(ctx context.Context, url string) (image.Image, error) {
	if !isStillImagePath(url) {
		return nil, errNoImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDownload, err)
	}
	resp, err := bot.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", errDownload, resp.Status)
	}
	if resp.ContentLength > bot.cfg.MaxInputBytes {
		return nil, errInputTooLarge
	}

	body := &limitedReader{r: resp.Body, n: bot.cfg.MaxInputBytes}
	img, err := gifmaker.DecodeInputLimit(body, bot.cfg.MaxInputPixels)
	if body.exceeded {
		return nil, errInputTooLarge
	}
	return img, err
}

// limitedReader fails once more than n bytes have been read.
type limitedReader struct {
	r        io.Reader
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		l.exceeded = true
		return n, errInputTooLarge
	}
	return n, err
}

func (bot *Bot) tileHeightOf(ctx context.Context, userID int64) int {
	tileHeight, err := bot.db.TileHeight(ctx, userID)
	if err != nil {
		slog.Warn("failed to load tile height", slog.Int64("user_id", userID), slog.Any("err", err))
	}
	if tileHeight < gifmaker.MinTileHeight || tileHeight > gifmaker.MaxTileHeight {
		return bot.cfg.DefaultTileHeight
	}
	return tileHeight
}

func (bot *Bot) tryStartRendering(userID int64) bool {
	bot.renderingMutex.Lock()
	defer bot.renderingMutex.Unlock()
	return bot.rendering.TryInsert(userID)
}

func (bot *Bot) finishRendering(userID int64) {
	bot.renderingMutex.Lock()
	bot.rendering.Remove(userID)
	bot.renderingMutex.Unlock()
}

// acquireRenderSlot blocks until a render slot is free or ctx is canceled.
func (bot *Bot) acquireRenderSlot(ctx context.Context) bool {
	select {
	case bot.renderSlots <- struct{}{}:
		if telemetry.ActiveRenders != nil {
			telemetry.ActiveRenders.Inc()
		}
		return true
	case <-ctx.Done():
		return false
	}
}

func (bot *Bot) releaseRenderSlot() {
	select {
	case <-bot.renderSlots:
		if telemetry.ActiveRenders != nil {
			telemetry.ActiveRenders.Dec()
		}
	default:
		slog.Warn("render slot release called without corresponding acquire")
	}
}
