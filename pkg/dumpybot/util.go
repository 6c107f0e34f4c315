package dumpybot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
	"github.com/ArminGh02/dumpy-bot/pkg/tts"
)

var errBadHeight = fmt.Errorf("height must be a whole number from %d to %d", gifmaker.MinTileHeight, gifmaker.MaxTileHeight)

// commandOf returns the command of a message whose text or caption starts
// with one. Commands addressed to another bot are ignored.
func commandOf(message *tgbotapi.Message, botUsername string) (command, args string, ok bool) {
	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	head, args, _ := strings.Cut(text[1:], " ")
	command, target, addressed := strings.Cut(head, "@")
	if command == "" {
		return "", "", false
	}
	if addressed && !strings.EqualFold(target, botUsername) {
		return "", "", false
	}
	return strings.ToLower(command), strings.TrimSpace(args), true
}

func parseTileHeight(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < gifmaker.MinTileHeight || n > gifmaker.MaxTileHeight {
		return 0, errBadHeight
	}
	return n, nil
}

func parseHeightCallback(data string) (int, error) {
	return parseTileHeight(strings.TrimPrefix(data, heightCallbackPrefix))
}

type attachment struct {
	FileID   string
	FileSize int
}

// imageAttachment finds the picture a command refers to: the message's own
// photo or image document, else the one it replies to. It returns nil when
// there is none.
func imageAttachment(message *tgbotapi.Message, maxBytes int64) *attachment {
	if a := ownImage(message, maxBytes); a != nil {
		return a
	}
	if message.ReplyToMessage != nil {
		return ownImage(message.ReplyToMessage, maxBytes)
	}
	return nil
}

func ownImage(m *tgbotapi.Message, maxBytes int64) *attachment {
	if len(m.Photo) > 0 {
		return largestPhoto(m.Photo, maxBytes)
	}
	if d := m.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") {
		return &attachment{FileID: d.FileID, FileSize: d.FileSize}
	}
	if s := m.Sticker; s != nil && !s.IsAnimated {
		return &attachment{FileID: s.FileID, FileSize: s.FileSize}
	}
	return nil
}

// motionExts are formats Telegram serves for animated and video stickers
// and clips; they cannot be decoded as a still picture.
var motionExts = map[string]bool{
	".tgs":  true,
	".webm": true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
}

// isStillImagePath reports whether a file path or URL names something other
// than a known animation or video format.
func isStillImagePath(p string) bool {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return !motionExts[strings.ToLower(path.Ext(p))]
}

// largestPhoto picks the biggest size that fits under maxBytes, falling back
// to the smallest one.
func largestPhoto(sizes []tgbotapi.PhotoSize, maxBytes int64) *attachment {
	best := -1
	for i, p := range sizes {
		if maxBytes > 0 && int64(p.FileSize) > maxBytes {
			continue
		}
		if best < 0 || p.Width*p.Height > sizes[best].Width*sizes[best].Height {
			best = i
		}
	}
	if best < 0 {
		best = 0
		for i, p := range sizes {
			if p.FileSize < sizes[best].FileSize {
				best = i
			}
		}
	}
	return &attachment{FileID: sizes[best].FileID, FileSize: sizes[best].FileSize}
}

// userMessage turns an error into a reply fit for a chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errBadHeight):
		return "Height " + errBadHeight.Error() + "."
	case errors.Is(err, errNoImage):
		return "Send a picture with /dumpy in its caption, or reply to a picture with /dumpy."
	case errors.Is(err, errBusy):
		return "Hold on, I'm still working on your last picture."
	case errors.Is(err, errInputTooLarge), errors.Is(err, gifmaker.ErrInputTooLarge):
		return "That picture is too big for me."
	case errors.Is(err, errDownload):
		return "I couldn't download that picture. Please try again."
	case errors.Is(err, gifmaker.ErrInputDecode):
		return "I couldn't read that picture. Try a PNG or JPEG."
	case errors.Is(err, gifmaker.ErrDimension):
		return "That picture is too wide for this height. Try a smaller height."
	case errors.Is(err, context.DeadlineExceeded):
		return "That took too long. Try a smaller height."
	case errors.Is(err, context.Canceled):
		return "I'm shutting down. Please try again in a minute."
	case errors.Is(err, tts.ErrUnknownVoice):
		return "I don't know that voice. See /voices."
	case errors.Is(err, tts.ErrEmptyText):
		return "Tell me what to say: /say <voice> <text>."
	case errors.Is(err, tts.ErrBadStatus):
		return "The voice service refused that one. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}

func voicesText() string {
	var b strings.Builder
	b.WriteString("Available voices:\n")
	for _, alias := range tts.Aliases() {
		b.WriteString(alias)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func newFilename(ext string) string {
	return uuid.NewString() + ext
}

func newCorrelationID() string {
	return uuid.NewString()
}

func buildMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(makeGIFButtonText),
			tgbotapi.NewKeyboardButton(heightButtonText),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(voicesButtonText),
			tgbotapi.NewKeyboardButton(helpButtonText),
		),
	)
}

func buildHeightKeyboard() tgbotapi.InlineKeyboardMarkup {
	const perRow = 4
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(heightChoices); i += perRow {
		var row []tgbotapi.InlineKeyboardButton
		for _, h := range heightChoices[i:min(i+perRow, len(heightChoices))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				strconv.Itoa(h),
				heightCallbackPrefix+strconv.Itoa(h),
			))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
