package nearcaptcha

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/nearcaptcha/config"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	noiseColor      = color.RGBA{R: 134, G: 134, B: 134, A: 255}
	textColor       = color.RGBA{R: 178, G: 0, B: 0, A: 255}
	lineColor       = color.RGBA{R: 192, G: 192, B: 192, A: 255}
)

// Renderer draws text into a noisy fixed-size image.
type Renderer struct {
	width       int
	height      int
	stamps      int
	lines       int
	maxRotation int
	textX       float64
	textY       float64
	stamp       image.Image
	face        font.Face
	rnd         *rand.Rand
	logger      *slog.Logger
}

// NewRenderer returns a Renderer for cfg. stamp may be nil when cfg asks for no stamps.
func NewRenderer(cfg *config.Captcha, stamp image.Image, rnd *rand.Rand, logger *slog.Logger) (_ *Renderer, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid captcha size: %dx%d", cfg.Width, cfg.Height)
	}
	if stamp == nil && *cfg.Stamps > 0 {
		return nil, fmt.Errorf("stamp is required to draw %d stamps", *cfg.Stamps)
	}
	face, err := newFace(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		width:       cfg.Width,
		height:      cfg.Height,
		stamps:      *cfg.Stamps,
		lines:       *cfg.Lines,
		maxRotation: *cfg.MaxRotation,
		textX:       cfg.TextX,
		textY:       cfg.TextY,
		stamp:       stamp,
		face:        face,
		rnd:         rnd,
		logger:      logger,
	}, nil
}

func newFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size: size,
	}), nil
}

// Render draws text over the noise background, the tinted stamps and the line clutter.
func (r *Renderer) Render(text string) *Image {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	r.drawBackground(img)

	dc := gg.NewContextForRGBA(img)
	r.drawStamps(dc)

	// rotation stays in effect for the clutter lines
	dc.Rotate(gg.Radians(float64(r.rotation())))
	dc.SetFontFace(r.face)
	dc.SetColor(textColor)
	dc.DrawString(text, r.textX, r.textY)

	dc.SetColor(lineColor)
	dc.SetLineWidth(1)
	for range r.lines {
		x1 := float64(r.rnd.IntN(r.width))
		y1 := float64(r.rnd.IntN(r.height))
		x2 := float64(r.rnd.IntN(r.width))
		y2 := float64(r.rnd.IntN(r.height))
		dc.DrawLine(x1, y1, x2, y2)
	}
	dc.Stroke()

	r.logger.Info("rendered captcha", slog.Int("width", r.width), slog.Int("height", r.height))
	return NewImage(img)
}

func (r *Renderer) drawBackground(img *image.RGBA) {
	for y := range r.height {
		for x := range r.width {
			if r.rnd.IntN(2) == 0 {
				img.SetRGBA(x, y, backgroundColor)
			} else {
				img.SetRGBA(x, y, noiseColor)
			}
		}
	}
}

func (r *Renderer) drawStamps(dc *gg.Context) {
	if r.stamps == 0 {
		return
	}
	b := r.stamp.Bounds()
	if b.Dx() >= r.width || b.Dy() >= r.height {
		r.logger.Warn("skipped stamp: stamp does not fit the captcha", slog.Int("stamp_width", b.Dx()), slog.Int("stamp_height", b.Dy()))
		return
	}
	for range r.stamps {
		tinted := tint(r.stamp, r.rnd.Float64(), r.rnd.Float64(), r.rnd.Float64())
		x := r.rnd.IntN(r.width - b.Dx())
		y := r.rnd.IntN(r.height - b.Dy())
		dc.DrawImage(tinted, x, y)
	}
}

// rotation returns an angle in degrees within [-maxRotation, maxRotation].
func (r *Renderer) rotation() int {
	positive := r.rnd.IntN(2) == 0
	deg := r.rnd.IntN(r.maxRotation + 1)
	if positive {
		return deg
	}
	return -deg
}
