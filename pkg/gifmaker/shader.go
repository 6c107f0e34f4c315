package gifmaker

import (
	"fmt"
	"image"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
)

const (
	blackLevel     = 0.2
	shadowFactor   = 0.66
	shadowHueShift = -0.0635
)

// Palette holds the reserved marker colors of the templates and the color
// that replaces the background marker in the final frames.
type Palette struct {
	Highlight        colorspace.RGB
	Shadow           colorspace.RGB
	BackgroundMarker colorspace.RGB
	BackgroundFill   colorspace.RGB
}

func DefaultPalette() Palette {
	return Palette{
		Highlight:        colorspace.RGB{R: 197, G: 17, B: 17},
		Shadow:           colorspace.RGB{R: 122, G: 8, B: 56},
		BackgroundMarker: colorspace.White,
		BackgroundFill:   colorspace.RGB{R: 0, G: 2, B: 0},
	}
}

// ShadeColors returns the body color and the shadow color used to recolor a
// sprite for the sampled color.
func ShadeColors(sample colorspace.RGB) (entry, shade colorspace.RGB, err error) {
	entry = sample
	h, s, v := colorspace.RGBToHSV(sample)
	if v < blackLevel {
		entry, err = colorspace.HSVToRGB(h, s, blackLevel)
		if err != nil {
			return colorspace.RGB{}, colorspace.RGB{}, err
		}
	}

	h, s, v = colorspace.RGBToHSV(entry.Scale(shadowFactor))
	shade, err = colorspace.HSVToRGB(colorspace.ShiftHue(h, shadowHueShift), s, v)
	if err != nil {
		return colorspace.RGB{}, colorspace.RGB{}, err
	}
	return entry, shade, nil
}

// Shade recolors one sprite template for the sampled color. The template is
// not modified.
func Shade(sprite image.Image, sample colorspace.RGB, p Palette) (*image.NRGBA, error) {
	entry, shade, err := ShadeColors(sample)
	if err != nil {
		return nil, fmt.Errorf("shade %v: %w", sample, err)
	}
	return Substitute(sprite,
		Substitution{From: p.Highlight, To: entry},
		Substitution{From: p.Shadow, To: shade},
	), nil
}
