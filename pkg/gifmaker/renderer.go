package gifmaker

import (
	"context"
	"image"
)

// Renderer turns an input image into a looping mosaic GIF at outputFilename.
// Implementations never leave a partial file at outputFilename.
type Renderer interface {
	Name() string
	Render(ctx context.Context, input image.Image, tileHeight int, outputFilename string) error
}

// InProcess composes and encodes entirely inside the process.
type InProcess struct {
	assets *Assets
	opts   Options
}

var _ Renderer = (*InProcess)(nil)

func NewInProcess(assets *Assets, opts Options) *InProcess {
	return &InProcess{assets: assets, opts: opts}
}

func (r *InProcess) Name() string {
	return "inprocess"
}

func (r *InProcess) Render(ctx context.Context, input image.Image, tileHeight int, outputFilename string) error {
	frames, _, err := Build(ctx, input, tileHeight, r.assets, r.opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteGIF(outputFilename, frames, r.opts.Delay)
}
