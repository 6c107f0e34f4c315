package gifmaker

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

const (
	SpriteWidth  = 74
	SpriteHeight = 63
	Padding      = 10
	FrameCount   = 6

	MinTileHeight = 1
	MaxTileHeight = 50

	// aspectCorrection compensates for the non-square 74x63 sprite footprint
	// so the mosaic keeps the aspect ratio of the source image.
	aspectCorrection = 0.862

	// maxFrameSide is the largest width or height a GIF logical screen can have.
	maxFrameSide = math.MaxUint16
)

// Grid is the number of sprite cells across (TX) and down (TY).
type Grid struct {
	TX, TY int
}

// NewGrid derives the mosaic grid from the input size and the requested tile
// height.
func NewGrid(size image.Point, tileHeight int) (Grid, error) {
	if tileHeight < MinTileHeight || tileHeight > MaxTileHeight {
		return Grid{}, fmt.Errorf("%w: tile height %d is outside [%d, %d]",
			ErrDimension, tileHeight, MinTileHeight, MaxTileHeight)
	}
	if size.X <= 0 || size.Y <= 0 {
		return Grid{}, fmt.Errorf("%w: empty input image %v", ErrDimension, size)
	}

	ratio := float64(size.X) / float64(size.Y)
	tx := int(math.Round(float64(tileHeight) * ratio * aspectCorrection))
	if tx < 1 {
		return Grid{}, fmt.Errorf("%w: image %dx%d is too narrow for tile height %d",
			ErrDimension, size.X, size.Y, tileHeight)
	}

	g := Grid{TX: tx, TY: tileHeight}
	if fs := g.FrameSize(); fs.X > maxFrameSide || fs.Y > maxFrameSide {
		return Grid{}, fmt.Errorf("%w: frame %dx%d exceeds gif limits", ErrDimension, fs.X, fs.Y)
	}
	return g, nil
}

func (g Grid) FrameSize() image.Point {
	return image.Pt(g.TX*SpriteWidth+2*Padding, g.TY*SpriteHeight+2*Padding)
}

// CellOrigin is the top-left pixel of cell (x, y) inside a frame.
func (g Grid) CellOrigin(x, y int) image.Point {
	return image.Pt(x*SpriteWidth+Padding, y*SpriteHeight+Padding)
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.TX, g.TY)
}

// Resize resamples img to exactly w x h with a Gaussian filter.
func Resize(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Gaussian)
}

// shrink bounds the longest side of img to maxSide. The grid must be derived
// from the original size, not from the result.
func shrink(img image.Image, maxSide int) image.Image {
	size := img.Bounds().Size()
	if maxSide <= 0 || (size.X <= maxSide && size.Y <= maxSide) {
		return img
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), img, resize.Lanczos3)
}

// Downsample reduces input to one pixel per grid cell.
func Downsample(input image.Image, g Grid, maxInputSide int) *image.NRGBA {
	return Resize(shrink(input, maxInputSide), g.TX, g.TY)
}
