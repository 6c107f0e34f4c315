// Package config loads the bot settings from the environment and applies
// defaults so the bot can run locally with only a token set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
	"github.com/ArminGh02/dumpy-bot/pkg/gifmaker"
)

var ErrMissingToken = errors.New("DUMPY_TOKEN environment variable is not set")

type Config struct {
	Token      string
	MongoDBURI string

	AssetsDir string
	OutputDir string
	Location  *time.Location

	DefaultTileHeight    int
	FrameDelay           int
	MaxConcurrentRenders int
	RenderWorkers        int
	// FFmpegMinTileHeight routes renders with at least this tile height to
	// the ffmpeg backend. Zero disables it.
	FFmpegMinTileHeight int
	MaxInputBytes       int64
	// MaxInputPixels bounds width*height of an input, checked before decoding.
	MaxInputPixels int64

	TTSEndpoint string
	TTSTimeout  time.Duration

	Palette gifmaker.Palette

	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// Load reads the environment. It does not fail on a missing token; call
// Validate before starting the bot.
func Load() (*Config, error) {
	cfg := &Config{
		Token:       os.Getenv("DUMPY_TOKEN"),
		MongoDBURI:  os.Getenv("DUMPY_MONGODB_URI"),
		AssetsDir:   getenv("ASSETS_DIR", "assets/dumpy"),
		OutputDir:   getenv("OUTPUT_DIR", os.TempDir()),
		TTSEndpoint: getenv("TTS_ENDPOINT", "http://mumble.stream/speak"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
	}

	var err error
	cfg.Location, err = time.LoadLocation(getenv("TIME_ZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"DEFAULT_TILE_HEIGHT", 15, &cfg.DefaultTileHeight},
		{"FRAME_DELAY", gifmaker.DefaultDelay, &cfg.FrameDelay},
		{"MAX_CONCURRENT_RENDERS", 2, &cfg.MaxConcurrentRenders},
		{"RENDER_WORKERS", 1, &cfg.RenderWorkers},
		{"FFMPEG_MIN_TILE_HEIGHT", 0, &cfg.FFmpegMinTileHeight},
	}
	for _, v := range ints {
		if *v.dst, err = getInt(v.key, v.def); err != nil {
			return nil, err
		}
	}

	maxInput, err := getInt("MAX_INPUT_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxInputBytes = int64(maxInput)

	maxPixels, err := getInt("MAX_INPUT_PIXELS", gifmaker.DefaultMaxInputPixels)
	if err != nil {
		return nil, err
	}
	cfg.MaxInputPixels = int64(maxPixels)

	cfg.TTSTimeout = 60 * time.Second
	if v := os.Getenv("TTS_TIMEOUT"); v != "" {
		if cfg.TTSTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid TTS_TIMEOUT: %w", err)
		}
	}

	cfg.Palette = gifmaker.DefaultPalette()
	colors := []struct {
		key string
		dst *colorspace.RGB
	}{
		{"HIGHLIGHT_MARKER", &cfg.Palette.Highlight},
		{"SHADOW_MARKER", &cfg.Palette.Shadow},
		{"BACKGROUND_FILL", &cfg.Palette.BackgroundFill},
	}
	for _, c := range colors {
		v := os.Getenv(c.key)
		if v == "" {
			continue
		}
		if *c.dst, err = ParseColor(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", c.key, err)
		}
	}

	return cfg, nil
}

// Validate reports settings the bot cannot start with.
func (cfg *Config) Validate() error {
	if cfg.Token == "" {
		return ErrMissingToken
	}
	if cfg.DefaultTileHeight < gifmaker.MinTileHeight || cfg.DefaultTileHeight > gifmaker.MaxTileHeight {
		return fmt.Errorf("DEFAULT_TILE_HEIGHT must be in [%d, %d], got %d",
			gifmaker.MinTileHeight, gifmaker.MaxTileHeight, cfg.DefaultTileHeight)
	}
	if cfg.FrameDelay <= 0 {
		return fmt.Errorf("FRAME_DELAY must be positive, got %d", cfg.FrameDelay)
	}
	if cfg.MaxConcurrentRenders <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_RENDERS must be positive, got %d", cfg.MaxConcurrentRenders)
	}
	if cfg.RenderWorkers <= 0 {
		return fmt.Errorf("RENDER_WORKERS must be positive, got %d", cfg.RenderWorkers)
	}
	if cfg.MaxInputBytes <= 0 {
		return fmt.Errorf("MAX_INPUT_BYTES must be positive, got %d", cfg.MaxInputBytes)
	}
	if cfg.MaxInputPixels <= 0 {
		return fmt.Errorf("MAX_INPUT_PIXELS must be positive, got %d", cfg.MaxInputPixels)
	}
	p := cfg.Palette
	if p.Highlight == p.Shadow || p.Highlight == p.BackgroundMarker || p.Shadow == p.BackgroundMarker {
		return errors.New("HIGHLIGHT_MARKER, SHADOW_MARKER and the white background marker must differ")
	}
	return nil
}

// RenderOptions returns the compositor options derived from the config.
func (cfg *Config) RenderOptions() gifmaker.Options {
	opts := gifmaker.DefaultOptions()
	opts.Palette = cfg.Palette
	opts.Delay = cfg.FrameDelay
	opts.Workers = cfg.RenderWorkers
	return opts
}

// ParseColor parses a "#rrggbb" or "#rgb" hex color.
func ParseColor(s string) (colorspace.RGB, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorspace.RGB{}, err
	}
	r, g, b := c.RGB255()
	return colorspace.RGB{R: r, G: g, B: b}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
