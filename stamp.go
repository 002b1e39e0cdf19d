package nearcaptcha

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/k1LoW/errors"
)

//go:embed assets/stamp.png
var embeddedStamp []byte

const embeddedStampKey = "embedded:stamp.png"

// LoadStamp decodes the stamp bitmap at path, or the embedded one when path is empty.
// Decoded stamps are cached by path for the lifetime of the process.
func LoadStamp(path string) (_ image.Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	key := path
	if key == "" {
		key = embeddedStampKey
	}
	if i, ok := LoadStampCache(key); ok {
		return i, nil
	}
	var i image.Image
	if path == "" {
		i, err = imaging.Decode(bytes.NewReader(embeddedStamp))
	} else {
		i, err = imaging.Open(path, imaging.AutoOrientation(true))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode stamp %s: %w", key, err)
	}
	StoreStampCache(key, i)
	return i, nil
}

// tint scales the red, green and blue channels of img by r, g and b. Alpha is kept.
func tint(img image.Image, r, g, b float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scale(c.R, r),
			G: scale(c.G, g),
			B: scale(c.B, b),
			A: c.A,
		}
	})
}

func scale(v uint8, f float64) uint8 {
	s := float64(v) * f
	switch {
	case s <= 0:
		return 0
	case s >= 255:
		return 255
	}
	return uint8(s)
}
