package gifmaker

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ArminGh02/dumpy-bot/pkg/colorspace"
	"github.com/disintegration/gift"
)

// Substitution replaces every pixel whose RGB equals From with To. The alpha
// channel is dropped: the result is always opaque.
type Substitution struct {
	From colorspace.RGB
	To   colorspace.RGB
}

var _ gift.Filter = Substitution{}

func (s Substitution) Bounds(srcBounds image.Rectangle) image.Rectangle {
	return image.Rect(0, 0, srcBounds.Dx(), srcBounds.Dy())
}

func (s Substitution) Draw(dst draw.Image, src image.Image, _ *gift.Options) {
	sb := src.Bounds()
	db := dst.Bounds()

	if d, ok := dst.(*image.NRGBA); ok {
		if n, ok := src.(*image.NRGBA); ok {
			s.drawNRGBA(d, n)
			return
		}
	}

	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			c := colorspace.FromColor(src.At(sb.Min.X+x, sb.Min.Y+y))
			if c == s.From {
				c = s.To
			}
			dst.Set(db.Min.X+x, db.Min.Y+y, c.NRGBA())
		}
	}
}

func (s Substitution) drawNRGBA(dst, src *image.NRGBA) {
	sb := src.Bounds()
	db := dst.Bounds()
	w, h := min(sb.Dx(), db.Dx()), min(sb.Dy(), db.Dy())
	for y := 0; y < h; y++ {
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		di := dst.PixOffset(db.Min.X, db.Min.Y+y)
		for x := 0; x < w; x++ {
			r, g, b := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			if r == s.From.R && g == s.From.G && b == s.From.B {
				r, g, b = s.To.R, s.To.G, s.To.B
			}
			dst.Pix[di] = r
			dst.Pix[di+1] = g
			dst.Pix[di+2] = b
			dst.Pix[di+3] = 0xff
			si += 4
			di += 4
		}
	}
}

// Substitute applies the rules to img in order and returns a new opaque image.
// img is not modified.
func Substitute(img image.Image, rules ...Substitution) *image.NRGBA {
	if len(rules) == 0 {
		return opaqueCopy(img)
	}
	filters := make([]gift.Filter, len(rules))
	for i, rule := range rules {
		filters[i] = rule
	}
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func opaqueCopy(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}
