package dumpybot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ArminGh02/dumpy-bot/pkg/telemetry"
	"github.com/ArminGh02/dumpy-bot/pkg/tts"
	"github.com/ArminGh02/dumpy-bot/pkg/util"
)

func (bot *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if command, args, ok := commandOf(message, bot.api.Self.UserName); ok {
		bot.handleCommand(ctx, message, command, args)
		return
	}

	switch message.Text {
	case makeGIFButtonText:
		bot.reply(message, "Send me a picture with /dumpy in the caption.")
	case heightButtonText:
		bot.showHeightKeyboard(ctx, message)
	case voicesButtonText:
		bot.showVoices(message)
	case helpButtonText:
		bot.showHelp(message)
	default:
		// A bare picture in a private chat is rendered with the saved height.
		if message.Chat.IsPrivate() && imageAttachment(message, bot.cfg.MaxInputBytes) != nil {
			bot.handleDumpyCommand(ctx, message, "")
		}
	}
}

func (bot *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, command, args string) {
	switch command {
	case "start":
		bot.handleStartCommand(ctx, message)
	case "help":
		bot.showHelp(message)
	case "dumpy":
		bot.handleDumpyCommand(ctx, message, args)
	case "height":
		bot.handleHeightCommand(ctx, message, args)
	case "say":
		bot.handleSayCommand(ctx, message, args)
	case "voices":
		bot.showVoices(message)
	case "stats":
		bot.showStats(ctx, message)
	default:
		bot.reply(message, fmt.Sprintf("Sorry! %s is not recognized as a command.", command))
	}
}

func (bot *Bot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) {
	user := message.From

	msgText := fmt.Sprintf("Hi %s\\!\n"+
		"I am *Dumpy Bot*\\.\n"+
		"Send me a picture and I will turn it into a dancing crewmate mosaic\\!",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, util.FirstNameElseLastName(user)))
	msg := tgbotapi.NewMessage(message.Chat.ID, msgText)
	msg.ReplyMarkup = buildMainKeyboard()
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	bot.send(msg)

	added, err := bot.db.AddUser(ctx, user.ID, util.FullNameOf(user))
	if err != nil {
		slog.Error("failed to add user", slog.Int64("user_id", user.ID), slog.Any("err", err))
		return
	}
	if added {
		atomic.AddUint64(&bot.usersJoinedToday, 1)
		if telemetry.UsersJoined != nil {
			telemetry.UsersJoined.Inc()
		}
	}

	slog.Info("bot started by user", slog.Int64("user_id", user.ID), slog.Bool("new", added))
}

func (bot *Bot) showHelp(message *tgbotapi.Message) {
	bot.send(tgbotapi.NewMessage(message.Chat.ID, helpMsg))
}

func (bot *Bot) showVoices(message *tgbotapi.Message) {
	bot.send(tgbotapi.NewMessage(message.Chat.ID, voicesText()))
}

func (bot *Bot) showStats(ctx context.Context, message *tgbotapi.Message) {
	users, err := bot.db.UsersCount(ctx)
	if err != nil {
		slog.Error("failed to count users", slog.Any("err", err))
	}
	msgText := fmt.Sprintf("🎞 GIFs rendered today: %d\n"+
		"👋 Users joined today: %d\n"+
		"👥 All users: %d",
		atomic.LoadUint64(&bot.gifsRenderedToday),
		atomic.LoadUint64(&bot.usersJoinedToday),
		users,
	)
	bot.send(tgbotapi.NewMessage(message.Chat.ID, msgText))
}

func (bot *Bot) handleHeightCommand(ctx context.Context, message *tgbotapi.Message, args string) {
	if strings.TrimSpace(args) == "" {
		bot.showHeightKeyboard(ctx, message)
		return
	}

	tileHeight, err := parseTileHeight(args)
	if err != nil {
		bot.reply(message, userMessage(err))
		return
	}
	if err := bot.db.SetTileHeight(ctx, message.From.ID, tileHeight); err != nil {
		slog.Error("failed to save tile height", slog.Int64("user_id", message.From.ID), slog.Any("err", err))
		bot.reply(message, userMessage(err))
		return
	}
	bot.reply(message, fmt.Sprintf("Your GIFs will now be %d crewmates tall.", tileHeight))
}

func (bot *Bot) showHeightKeyboard(ctx context.Context, message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(
		message.Chat.ID,
		fmt.Sprintf("Current height: %d. Pick a new one:", bot.tileHeightOf(ctx, message.From.ID)),
	)
	msg.ReplyMarkup = buildHeightKeyboard()
	bot.send(msg)
}

func (bot *Bot) handleSayCommand(ctx context.Context, message *tgbotapi.Message, args string) {
	alias, text, _ := strings.Cut(strings.TrimSpace(args), " ")
	text = strings.TrimSpace(text)
	if alias == "" || text == "" {
		bot.reply(message, "Usage: /say <voice> <text>. See /voices for the list.")
		return
	}

	ctx = telemetry.WithCorrelation(ctx, newCorrelationID())
	ctx, span := telemetry.StartSpan(ctx, "tts.speak")
	logger := telemetry.LoggerWithCorr(ctx)

	bot.request(tgbotapi.NewChatAction(message.Chat.ID, chatUploadVoice))

	audio, err := bot.speak(ctx, alias, text)
	telemetry.EndSpan(span, err)
	if err != nil {
		logger.Warn("speech synthesis failed", slog.String("voice", alias), slog.Any("err", err))
		bot.reply(message, userMessage(err))
		return
	}

	voice := tgbotapi.NewAudio(message.Chat.ID, tgbotapi.FileBytes{
		Name:  newFilename(".wav"),
		Bytes: audio,
	})
	voice.ReplyToMessageID = message.MessageID
	voice.Title = alias
	bot.send(voice)
}

func (bot *Bot) speak(ctx context.Context, alias, text string) ([]byte, error) {
	speaker, ok := tts.Lookup(alias)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tts.ErrUnknownVoice, alias)
	}

	var (
		audio []byte
		err   error
	)
	telemetry.TimeFunc(telemetry.TTSDuration, func() {
		audio, err = bot.speech.Speak(ctx, speaker, text)
	})
	telemetry.ObserveTTS(err)
	return audio, err
}
