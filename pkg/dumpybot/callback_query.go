package dumpybot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (bot *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	switch {
	case strings.HasPrefix(query.Data, heightCallbackPrefix):
		bot.setTileHeightFromKeyboard(ctx, query)
	default:
		bot.request(tgbotapi.NewCallback(query.ID, ""))
	}
}

func (bot *Bot) setTileHeightFromKeyboard(ctx context.Context, query *tgbotapi.CallbackQuery) {
	tileHeight, err := parseHeightCallback(query.Data)
	if err != nil {
		bot.request(tgbotapi.NewCallbackWithAlert(query.ID, userMessage(err)))
		return
	}

	if err := bot.db.SetTileHeight(ctx, query.From.ID, tileHeight); err != nil {
		slog.Error("failed to save tile height", slog.Int64("user_id", query.From.ID), slog.Any("err", err))
		bot.request(tgbotapi.NewCallbackWithAlert(query.ID, userMessage(err)))
		return
	}

	text := fmt.Sprintf("Height set to %d!", tileHeight)
	bot.request(tgbotapi.NewCallback(query.ID, text))

	if query.Message != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(
			query.Message.Chat.ID,
			query.Message.MessageID,
			fmt.Sprintf("Current height: %d. Pick a new one:", tileHeight),
			buildHeightKeyboard(),
		)
		bot.send(edit)
	}
}
