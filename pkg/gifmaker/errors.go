package gifmaker

import (
	"context"
	"errors"
)

var (
	ErrAssetLoad     = errors.New("gifmaker: cannot load template asset")
	ErrInputDecode   = errors.New("gifmaker: cannot decode input image")
	ErrInputTooLarge = errors.New("gifmaker: input image has too many pixels")
	ErrDimension     = errors.New("gifmaker: invalid mosaic dimensions")
	ErrEncode        = errors.New("gifmaker: cannot encode gif")
)

// Kind returns a short label for err, suitable for metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAssetLoad):
		return "asset_load"
	case errors.Is(err, ErrInputDecode):
		return "input_decode"
	case errors.Is(err, ErrInputTooLarge):
		return "input_too_large"
	case errors.Is(err, ErrDimension):
		return "dimension"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
