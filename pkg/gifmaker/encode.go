package gifmaker

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
)

// Encode writes frames as an infinitely looping GIF.
func Encode(w io.Writer, frames Frames, delay int) error {
	g := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for i, frame := range frames {
		if frame == nil {
			return fmt.Errorf("%w: frame %d is missing", ErrEncode, i)
		}
		g.Image = append(g.Image, convertImageToPaletted(toOpaqueRGBA(frame)))
		g.Delay = append(g.Delay, delay)
	}

	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// WriteGIF encodes frames to outputFilename. On failure nothing is left at
// outputFilename.
func WriteGIF(outputFilename string, frames Frames, delay int) error {
	err := writeFileAtomic(outputFilename, func(w io.Writer) error {
		return Encode(w, frames, delay)
	})
	if err != nil {
		if errors.Is(err, ErrEncode) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrEncode, outputFilename, err)
	}
	return nil
}
