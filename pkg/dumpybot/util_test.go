package dumpybot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
	"github.com/ArminGh02/dumpy-bot/pkg/tts"
)

func TestCommandOf(t *testing.T) {
	tests := []struct {
		name    string
		message tgbotapi.Message
		command string
		args    string
		ok      bool
	}{
		{"text", tgbotapi.Message{Text: "/dumpy 20"}, "dumpy", "20", true},
		{"caption", tgbotapi.Message{Caption: "/dumpy"}, "dumpy", "", true},
		{"addressed to us", tgbotapi.Message{Text: "/Height@DumpyBot  12 "}, "height", "12", true},
		{"addressed elsewhere", tgbotapi.Message{Text: "/dumpy@OtherBot"}, "", "", false},
		{"say keeps text", tgbotapi.Message{Text: "/say homer hello there"}, "say", "homer hello there", true},
		{"plain text", tgbotapi.Message{Text: "hello"}, "", "", false},
		{"lone slash", tgbotapi.Message{Text: "/"}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, args, ok := commandOf(&tt.message, "dumpybot")
			if command != tt.command || args != tt.args || ok != tt.ok {
				t.Errorf("commandOf = %q, %q, %v; want %q, %q, %v", command, args, ok, tt.command, tt.args, tt.ok)
			}
		})
	}
}

func TestParseTileHeight(t *testing.T) {
	for _, s := range []string{"1", " 15 ", "50"} {
		if _, err := parseTileHeight(s); err != nil {
			t.Errorf("parseTileHeight(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"0", "51", "-3", "ten", "1.5", ""} {
		if _, err := parseTileHeight(s); !errors.Is(err, errBadHeight) {
			t.Errorf("parseTileHeight(%q) error = %v, want errBadHeight", s, err)
		}
	}
	if h, err := parseHeightCallback("height25"); err != nil || h != 25 {
		t.Errorf("parseHeightCallback = %d, %v", h, err)
	}
}

func TestImageAttachment(t *testing.T) {
	photo := []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90, Height: 60, FileSize: 1_000},
		{FileID: "medium", Width: 320, Height: 240, FileSize: 20_000},
		{FileID: "large", Width: 1280, Height: 960, FileSize: 300_000},
	}

	tests := []struct {
		name     string
		message  tgbotapi.Message
		maxBytes int64
		want     string
	}{
		{"largest photo", tgbotapi.Message{Photo: photo}, 1 << 20, "large"},
		{"largest that fits", tgbotapi.Message{Photo: photo}, 50_000, "medium"},
		{"nothing fits", tgbotapi.Message{Photo: photo}, 10, "small"},
		{"image document", tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/webp"}}, 1 << 20, "doc"},
		{"pdf document", tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "application/pdf"}}, 1 << 20, ""},
		{"reply to photo", tgbotapi.Message{Text: "/dumpy", ReplyToMessage: &tgbotapi.Message{Photo: photo}}, 1 << 20, "large"},
		{"static sticker", tgbotapi.Message{Sticker: &tgbotapi.Sticker{FileID: "st"}}, 1 << 20, "st"},
		{"animated sticker", tgbotapi.Message{Sticker: &tgbotapi.Sticker{FileID: "st", IsAnimated: true}}, 1 << 20, ""},
		{"text only", tgbotapi.Message{Text: "/dumpy"}, 1 << 20, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := imageAttachment(&tt.message, tt.maxBytes)
			got := ""
			if a != nil {
				got = a.FileID
			}
			if got != tt.want {
				t.Errorf("attachment = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errBadHeight, "Height"},
		{fmt.Errorf("x: %w", gifmaker.ErrDimension), "too wide"},
		{fmt.Errorf("x: %w", gifmaker.ErrInputDecode), "couldn't read"},
		{errInputTooLarge, "too big"},
		{context.DeadlineExceeded, "too long"},
		{fmt.Errorf("%w: gandalf", tts.ErrUnknownVoice), "/voices"},
		{errors.New("boom"), "Something went wrong"},
	}
	for _, tt := range tests {
		if got := userMessage(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("userMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}

func TestBuildHeightKeyboard(t *testing.T) {
	kb := buildHeightKeyboard()

	var seen []int
	for _, row := range kb.InlineKeyboard {
		if len(row) > 4 {
			t.Errorf("row has %d buttons", len(row))
		}
		for _, b := range row {
			h, err := parseHeightCallback(*b.CallbackData)
			if err != nil {
				t.Errorf("button %q has bad data %q", b.Text, *b.CallbackData)
			}
			seen = append(seen, h)
		}
	}
	if fmt.Sprint(seen) != fmt.Sprint(heightChoices) {
		t.Errorf("keyboard heights = %v, want %v", seen, heightChoices)
	}
}

func TestVoicesText(t *testing.T) {
	text := voicesText()
	for _, alias := range []string{"altman", "zuckerberg", "homer"} {
		if !strings.Contains(text, "\n"+alias) {
			t.Errorf("voices text lacks %q", alias)
		}
	}
}

func TestIsStillImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"https://api.telegram.org/file/bot123:abc/photos/file_0.jpg", true},
		{"https://api.telegram.org/file/bot123:abc/stickers/file_1.webp", true},
		{"https://api.telegram.org/file/bot123:abc/stickers/file_2.WEBM", false},
		{"https://api.telegram.org/file/bot123:abc/stickers/file_3.tgs", false},
		{"https://api.telegram.org/file/bot123:abc/documents/clip.mp4?x=1", false},
		{"https://api.telegram.org/file/bot123:abc/documents/noext", true},
	}
	for _, tt := range tests {
		if got := isStillImagePath(tt.path); got != tt.want {
			t.Errorf("isStillImagePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
