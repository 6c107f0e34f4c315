package gifmaker

import (
	"context"
	"image"
	"image/draw"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
	"golang.org/x/sync/errgroup"
)

// DefaultDelay is the per-frame delay in 1/100 s.
const DefaultDelay = 10

// DefaultMaxInputSide bounds the input before it is downsampled.
const DefaultMaxInputSide = 4096

// DefaultMaxInputPixels bounds the raster DecodeInput is willing to allocate.
const DefaultMaxInputPixels = 40_000_000

type Options struct {
	Palette Palette
	// Delay between frames in 1/100 s.
	Delay int
	// Workers > 1 builds frames concurrently.
	Workers      int
	MaxInputSide int
}

func DefaultOptions() Options {
	return Options{
		Palette:      DefaultPalette(),
		Delay:        DefaultDelay,
		Workers:      1,
		MaxInputSide: DefaultMaxInputSide,
	}
}

// Frames is an animation sequence in playback order.
type Frames [FrameCount]*image.NRGBA

// Build downsamples input for the given tile height and composes the frames.
func Build(ctx context.Context, input image.Image, tileHeight int, assets *Assets, opts Options) (Frames, Grid, error) {
	grid, err := NewGrid(input.Bounds().Size(), tileHeight)
	if err != nil {
		return Frames{}, Grid{}, err
	}
	small := Downsample(input, grid, opts.MaxInputSide)
	frames, err := Compose(ctx, small, assets, grid, opts)
	return frames, grid, err
}

// Compose builds the six animation frames from a downsampled input whose
// size equals the grid.
func Compose(ctx context.Context, small *image.NRGBA, assets *Assets, grid Grid, opts Options) (Frames, error) {
	var frames Frames
	canvas := Resize(assets.Background, grid.FrameSize().X, grid.FrameSize().Y)

	if opts.Workers <= 1 {
		for a := range frames {
			if err := ctx.Err(); err != nil {
				return Frames{}, err
			}
			f, err := composeFrame(a, small, canvas, assets, grid, opts.Palette)
			if err != nil {
				return Frames{}, err
			}
			frames[a] = f
		}
		return frames, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for a := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := composeFrame(a, small, canvas, assets, grid, opts.Palette)
			if err != nil {
				return err
			}
			frames[a] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Frames{}, err
	}
	return frames, nil
}

type shadeKey struct {
	sprite int
	color  colorspace.RGB
}

func composeFrame(a int, small, background *image.NRGBA, assets *Assets, grid Grid, p Palette) (*image.NRGBA, error) {
	frame := image.NewNRGBA(background.Bounds())
	copy(frame.Pix, background.Pix)

	shaded := make(map[shadeKey]*image.NRGBA)
	for y := 0; y < grid.TY; y++ {
		for x := 0; x < grid.TX; x++ {
			sample := colorspace.FromColor(small.NRGBAAt(x, y))
			if sample == p.BackgroundMarker {
				sample = nudge(sample)
			}

			key := shadeKey{SpriteIndex(a, x, y), sample}
			sprite, ok := shaded[key]
			if !ok {
				var err error
				sprite, err = Shade(assets.Sprites[key.sprite], sample, p)
				if err != nil {
					return nil, err
				}
				shaded[key] = sprite
			}

			at := grid.CellOrigin(x, y)
			draw.Draw(
				frame,
				image.Rect(at.X, at.Y, at.X+SpriteWidth, at.Y+SpriteHeight),
				sprite,
				image.Point{},
				draw.Over,
			)
		}
	}

	return Substitute(frame, Substitution{From: p.BackgroundMarker, To: p.BackgroundFill}), nil
}

// SpriteIndex selects the sprite for cell (x, y) of animation frame a. Each
// row starts one phase behind the row above, so the pattern marches
// diagonally as a advances.
func SpriteIndex(a, x, y int) int {
	base := (a - y) % FrameCount
	if base < 0 {
		base += FrameCount
	}
	return (base + x) % FrameCount
}

// nudge moves c off a reserved marker color; white becomes (254, 254, 254).
func nudge(c colorspace.RGB) colorspace.RGB {
	dec := func(v uint8) uint8 {
		if v == 0 {
			return 1
		}
		return v - 1
	}
	return colorspace.RGB{R: dec(c.R), G: dec(c.G), B: dec(c.B)}
}
