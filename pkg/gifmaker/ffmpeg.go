package gifmaker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// paletteFilter builds one palette for the whole animation and maps the
// frames onto it without dithering.
const paletteFilter = "split[a][b];[a]palettegen=reserve_transparent=0:stats_mode=full[p];[b][p]paletteuse=dither=none"

// FFmpeg composes the frames in-process and hands the encoding to an ffmpeg
// binary found in PATH.
type FFmpeg struct {
	assets *Assets
	opts   Options
}

var _ Renderer = (*FFmpeg)(nil)

func NewFFmpeg(assets *Assets, opts Options) *FFmpeg {
	return &FFmpeg{assets: assets, opts: opts}
}

func (r *FFmpeg) Name() string {
	return "ffmpeg"
}

func (r *FFmpeg) Render(ctx context.Context, input image.Image, tileHeight int, outputFilename string) (err error) {
	frames, _, err := Build(ctx, input, tileHeight, r.assets, r.opts)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "dumpy-frames-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	defer os.RemoveAll(dir)

	for i, frame := range frames {
		if err := imaging.Save(frame, filepath.Join(dir, fmt.Sprintf("frame_%d.png", i))); err != nil {
			return fmt.Errorf("%w: frame %d: %w", ErrEncode, i, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputFilename), "."+filepath.Base(outputFilename)+".*.gif")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	tmp.Close()
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	delay := r.opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	var stderr bytes.Buffer
	cmd := ffmpeg.Input(filepath.Join(dir, "frame_%d.png"), ffmpeg.KwArgs{
		"framerate":    fmt.Sprintf("100/%d", delay),
		"start_number": 0,
	}).
		Output(tmp.Name(), ffmpeg.KwArgs{
			"filter_complex": paletteFilter,
			"loop":           0,
			"f":              "gif",
		}).
		OverWriteOutput().
		WithErrorOutput(&stderr)
	cmd.Context = ctx

	if err = cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: ffmpeg: %w: %s", ErrEncode, err, lastLine(stderr.String()))
	}

	if err = os.Chmod(tmp.Name(), outputFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err = os.Rename(tmp.Name(), outputFilename); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
