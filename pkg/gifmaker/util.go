package gifmaker

import (
	"bufio"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
)

func toOpaqueRGBA(img *image.NRGBA) *image.RGBA {
	res := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i += 4 {
		res.Pix[i] = img.Pix[i]
		res.Pix[i+1] = img.Pix[i+1]
		res.Pix[i+2] = img.Pix[i+2]
		res.Pix[i+3] = 0xff
	}
	return res
}

// convertImageToPaletted keeps every color when the image has at most 256 of
// them and dithers against Plan9 otherwise.
func convertImageToPaletted(img *image.RGBA) *image.Paletted {
	if res, ok := exactPaletted(img); ok {
		return res
	}

	opts := gif.Options{
		NumColors: 256,
		Drawer:    draw.FloydSteinberg,
	}

	res := image.NewPaletted(img.Bounds(), palette.Plan9[:opts.NumColors])
	opts.Drawer.Draw(res, img.Bounds(), img, image.Point{})
	return res
}

func exactPaletted(img *image.RGBA) (*image.Paletted, bool) {
	index := make(map[color.RGBA]uint8)
	var pal color.Palette
	for i := 0; i < len(img.Pix); i += 4 {
		c := color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
		if _, ok := index[c]; ok {
			continue
		}
		if len(pal) == 256 {
			return nil, false
		}
		index[c] = uint8(len(pal))
		pal = append(pal, c)
	}

	res := image.NewPaletted(img.Bounds(), pal)
	for i := 0; i < len(img.Pix); i += 4 {
		c := color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
		res.Pix[i/4] = index[c]
	}
	return res, true
}

// outputFileMode matches what os.Create gives under the usual umask.
const outputFileMode = 0o644

// writeFileAtomic writes through a temporary file in the destination
// directory and renames it into place, so filename never holds partial data.
func writeFileAtomic(filename string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = write(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(outputFileMode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
