package nearcaptcha

import (
	"fmt"
	"hash/crc32"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/k1LoW/errors"
)

// Image is a rendered captcha.
type Image struct {
	i        image.Image
	checksum uint32                 // Checksum of the pixel data
	pHash    *goimagehash.ImageHash // Perceptual hash
}

func NewImage(i image.Image) *Image {
	return &Image{i: i}
}

func (i *Image) Image() image.Image {
	if i == nil {
		return nil
	}
	return i.i
}

func (i *Image) Bounds() image.Rectangle {
	if i == nil || i.i == nil {
		return image.Rectangle{}
	}
	return i.i.Bounds()
}

func (i *Image) Checksum() uint32 {
	if i == nil || i.i == nil {
		return 0
	}
	if i.checksum == 0 {
		i.checksum = crc32.ChecksumIEEE(imaging.Clone(i.i).Pix)
	}
	return i.checksum
}

func (i *Image) PHash() (_ *goimagehash.ImageHash, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i == nil || i.i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.pHash == nil {
		pHash, err := goimagehash.PerceptionHash(i.i)
		if err != nil {
			return nil, fmt.Errorf("failed to compute perceptual hash: %w", err)
		}
		i.pHash = pHash
	}
	return i.pHash, nil
}

// Equivalent reports whether the two images are identical or perceptually close.
func (i *Image) Equivalent(ii *Image) bool {
	if i == nil || ii == nil {
		return false
	}
	if i.Bounds() != ii.Bounds() {
		return false
	}
	if i.Checksum() == ii.Checksum() {
		return true
	}
	aHash, err := i.PHash()
	if err != nil {
		return false
	}
	bHash, err := ii.PHash()
	if err != nil {
		return false
	}
	distance, err := aHash.Distance(bHash)
	if err != nil {
		return false
	}
	return distance < 5
}

// Encode writes the image to w in the given format.
func (i *Image) Encode(w io.Writer, format imaging.Format) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i == nil || i.i == nil {
		return fmt.Errorf("image is nil")
	}
	if err := imaging.Encode(w, i.i, format); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Save writes the image to path. The format follows the file extension.
func (i *Image) Save(path string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := i.Encode(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
