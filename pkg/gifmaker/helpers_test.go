package gifmaker

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
)

var (
	highlightAt = image.Pt(30, 20)
	shadowAt    = image.Pt(30, 45)
	tagAt       = image.Pt(1, 1)
)

// spriteTag is a color unique to sprite i, used to tell which sprite landed
// in a cell.
func spriteTag(i int) colorspace.RGB {
	return colorspace.RGB{R: uint8(10 + i), G: 50, B: 60}
}

func fill(img *image.NRGBA, r image.Rectangle, c colorspace.RGB) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
}

func testSprite(i int, p Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SpriteWidth, SpriteHeight))
	fill(img, img.Bounds(), colorspace.White)
	fill(img, image.Rect(15, 8, 55, 40), p.Highlight)
	fill(img, image.Rect(15, 40, 55, 58), p.Shadow)
	fill(img, image.Rect(55, 15, 60, 30), colorspace.Black)
	img.SetNRGBA(tagAt.X, tagAt.Y, spriteTag(i).NRGBA())
	return img
}

func testAssets(t *testing.T) *Assets {
	t.Helper()
	p := DefaultPalette()
	var sprites [FrameCount]image.Image
	for i := range sprites {
		sprites[i] = testSprite(i, p)
	}
	bg := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fill(bg, bg.Bounds(), colorspace.White)

	a, err := NewAssets(sprites, bg)
	if err != nil {
		t.Fatalf("NewAssets: %v", err)
	}
	return a
}

func solid(w, h int, c colorspace.RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), c)
	return img
}

func rgbAt(img image.Image, p image.Point) colorspace.RGB {
	return colorspace.FromColor(img.At(p.X, p.Y))
}

func writePNG(t *testing.T, filename string, img image.Image) {
	t.Helper()
	f, err := os.Create(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeAssetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := DefaultPalette()
	for i := 0; i < FrameCount; i++ {
		writePNG(t, filepath.Join(dir, strconv.Itoa(i)+".png"), testSprite(i, p))
	}
	writePNG(t, filepath.Join(dir, backgroundFilename), solid(8, 8, colorspace.Black))
	return dir
}
