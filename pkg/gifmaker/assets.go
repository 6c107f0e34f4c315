package gifmaker

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const backgroundFilename = "black.png"

// Assets holds the sprite frame set and the background template. It is
// read-only once built and may be shared by concurrent renders.
type Assets struct {
	Sprites    [FrameCount]*image.NRGBA
	Background *image.NRGBA
}

// LoadAssets reads 0.png..5.png and black.png from dir.
func LoadAssets(dir string) (*Assets, error) {
	var sprites [FrameCount]image.Image
	for i := range sprites {
		img, err := readImage(filepath.Join(dir, strconv.Itoa(i)+".png"))
		if err != nil {
			return nil, err
		}
		sprites[i] = img
	}

	bg, err := readImage(filepath.Join(dir, backgroundFilename))
	if err != nil {
		return nil, err
	}
	return NewAssets(sprites, bg)
}

// NewAssets validates the templates and copies them into NRGBA buffers.
func NewAssets(sprites [FrameCount]image.Image, background image.Image) (*Assets, error) {
	a := &Assets{}
	for i, s := range sprites {
		if s == nil {
			return nil, fmt.Errorf("%w: sprite %d is missing", ErrAssetLoad, i)
		}
		if size := s.Bounds().Size(); size != image.Pt(SpriteWidth, SpriteHeight) {
			return nil, fmt.Errorf("%w: sprite %d is %dx%d, want %dx%d",
				ErrAssetLoad, i, size.X, size.Y, SpriteWidth, SpriteHeight)
		}
		a.Sprites[i] = imaging.Clone(s)
	}

	if background == nil || background.Bounds().Empty() {
		return nil, fmt.Errorf("%w: background is missing", ErrAssetLoad)
	}
	a.Background = imaging.Clone(background)
	return a, nil
}

func readImage(filename string) (image.Image, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoad, filename, err)
	}
	return img, nil
}

// DecodeInput decodes a user-supplied image in any registered format,
// refusing images above DefaultMaxInputPixels.
func DecodeInput(r io.Reader) (image.Image, error) {
	return DecodeInputLimit(r, DefaultMaxInputPixels)
}

// DecodeInputLimit decodes a user-supplied image after checking from its
// header that it has at most maxPixels pixels. maxPixels <= 0 disables the
// check.
func DecodeInputLimit(r io.Reader, maxPixels int64) (image.Image, error) {
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputDecode, err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInputTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(io.MultiReader(&header, r), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputDecode, err)
	}
	return img, nil
}

func LoadInput(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputDecode, filename, err)
	}
	defer f.Close()
	return DecodeInput(bufio.NewReader(f))
}
