// Package colorspace converts between 8-bit RGB and HSV.
package colorspace

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrHueSector is returned by HSVToRGB when the hue does not fall into one of
// the six sectors. For h in [0,1) this cannot happen; NaN or infinite input
// is the only way to reach it.
var ErrHueSector = errors.New("colorspace: hue sector out of range")

type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Scale multiplies every channel by k and truncates.
func (c RGB) Scale(k float64) RGB {
	return RGB{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
	}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBToHSV returns hue, saturation and value, each in [0,1).
func RGBToHSV(c RGB) (h, s, v float64) {
	maxc := max(c.R, c.G, c.B)
	minc := min(c.R, c.G, c.B)
	v = float64(maxc) / 255
	if minc == maxc {
		return 0, 0, v
	}

	diff := float64(maxc - minc)
	s = diff / float64(maxc)
	rc := float64(maxc-c.R) / diff
	gc := float64(maxc-c.G) / diff
	bc := float64(maxc-c.B) / diff

	switch maxc {
	case c.R:
		h = bc - gc
	case c.G:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}

	h = math.Mod(h/6, 1)
	if h < 0 {
		h++
	}
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV. Channels are truncated, so a round
// trip may be off by one.
func HSVToRGB(h, s, v float64) (RGB, error) {
	value := uint8(v * 255)
	if s == 0 {
		return RGB{value, value, value}, nil
	}

	sector := math.Floor(h * 6)
	f := h*6 - sector
	p := uint8(float64(value) * (1 - s))
	q := uint8(float64(value) * (1 - s*f))
	t := uint8(float64(value) * (1 - s*(1-f)))

	if math.IsNaN(sector) || math.IsInf(sector, 0) {
		return RGB{}, fmt.Errorf("%w: h=%v", ErrHueSector, h)
	}
	i := int(sector) % 6
	if i < 0 {
		i += 6
	}

	switch i {
	case 0:
		return RGB{value, t, p}, nil
	case 1:
		return RGB{q, value, p}, nil
	case 2:
		return RGB{p, value, t}, nil
	case 3:
		return RGB{p, q, value}, nil
	case 4:
		return RGB{t, p, value}, nil
	case 5:
		return RGB{value, p, q}, nil
	default:
		return RGB{}, fmt.Errorf("%w: h=%v", ErrHueSector, h)
	}
}

// ShiftHue adds delta to h and wraps the result into [0,1).
func ShiftHue(h, delta float64) float64 {
	h += delta
	if h < 0 {
		h++
	}
	if h >= 1 {
		h--
	}
	return h
}
