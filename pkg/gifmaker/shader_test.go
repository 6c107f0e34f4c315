package gifmaker

import (
	"bytes"
	"image"
	"testing"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
)

var rgbRed = colorspace.RGB{R: 255}

func TestShadeIsDeterministic(t *testing.T) {
	p := DefaultPalette()
	sprite := testSprite(0, p)
	for _, c := range []colorspace.RGB{rgbRed, {R: 12, G: 200, B: 99}, {R: 3, G: 3, B: 9}} {
		a, err := Shade(sprite, c, p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Shade(sprite, c, p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("Shade(%v) is not deterministic", c)
		}
	}
}

func TestShadeRecolorsMarkersOnly(t *testing.T) {
	p := DefaultPalette()
	sprite := testSprite(3, p)
	before := append([]uint8(nil), sprite.Pix...)

	sample := colorspace.RGB{R: 40, G: 180, B: 220}
	got, err := Shade(sprite, sample, p)
	if err != nil {
		t.Fatal(err)
	}
	entry, shade, err := ShadeColors(sample)
	if err != nil {
		t.Fatal(err)
	}

	if c := rgbAt(got, highlightAt); c != entry {
		t.Errorf("highlight pixel = %v, want %v", c, entry)
	}
	if c := rgbAt(got, shadowAt); c != shade {
		t.Errorf("shadow pixel = %v, want %v", c, shade)
	}
	if c := rgbAt(got, tagAt); c != spriteTag(3) {
		t.Errorf("tag pixel = %v, want untouched %v", c, spriteTag(3))
	}
	if c := rgbAt(got, image.Pt(0, 0)); c != colorspace.White {
		t.Errorf("background pixel = %v, want white", c)
	}
	if !bytes.Equal(sprite.Pix, before) {
		t.Error("Shade modified the template")
	}
}

func TestShadeColorsBrightSampleIsKept(t *testing.T) {
	entry, shade, err := ShadeColors(rgbRed)
	if err != nil {
		t.Fatal(err)
	}
	if entry != rgbRed {
		t.Errorf("entry = %v, want %v", entry, rgbRed)
	}

	h, s, v := colorspace.RGBToHSV(rgbRed.Scale(shadowFactor))
	want, err := colorspace.HSVToRGB(colorspace.ShiftHue(h, shadowHueShift), s, v)
	if err != nil {
		t.Fatal(err)
	}
	if shade != want {
		t.Errorf("shade = %v, want %v", shade, want)
	}
	if shade.R <= shade.B || shade.G != 0 {
		t.Errorf("shade %v of red should lean towards magenta", shade)
	}
}

func TestShadeColorsBlackLevelClamp(t *testing.T) {
	dark := []colorspace.RGB{
		colorspace.Black,
		{R: 50, G: 0, B: 0},
		{R: 10, G: 20, B: 30},
		{R: 0, G: 2, B: 0},
		{R: 33, G: 33, B: 33},
		{R: 50, G: 49, B: 1},
	}
	for _, c := range dark {
		if _, _, v := colorspace.RGBToHSV(c); v >= blackLevel {
			t.Fatalf("test color %v is not below the black level", c)
		}
		entry, _, err := ShadeColors(c)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, v := colorspace.RGBToHSV(entry); v != blackLevel {
			t.Errorf("ShadeColors(%v) entry %v has value %v, want exactly %v", c, entry, v, blackLevel)
		}
	}
}
