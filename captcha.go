package nearcaptcha

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/nearcaptcha/config"
)

// Captcha locates the nearest store and renders its address as a puzzle image.
type Captcha struct {
	cfg        *config.Config
	logger     *slog.Logger
	rnd        *rand.Rand
	httpClient *http.Client
	locator    *Locator
}

type Option func(*Captcha) error

func WithConfig(cfg *config.Config) Option {
	return func(c *Captcha) error {
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.cfg = cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Captcha) error {
		c.logger = logger
		return nil
	}
}

// WithRand sets the random source shared by the puzzle and the renderer.
func WithRand(rnd *rand.Rand) Option {
	return func(c *Captcha) error {
		c.rnd = rnd
		return nil
	}
}

// WithSeed seeds the random source so that output is reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Captcha) error {
		c.rnd = rand.New(rand.NewPCG(seed, seed))
		return nil
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Captcha) error {
		c.httpClient = hc
		return nil
	}
}

// Result is the outcome of Generate.
type Result struct {
	Store  *Store
	Puzzle *Puzzle
	Path   string
	Image  *Image
	// PHash is the perceptual hash of Image, empty when it cannot be computed.
	PHash string
}

// New creates a new Captcha.
func New(opts ...Option) (_ *Captcha, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c := &Captcha{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		c.rnd = rand.New(rand.NewPCG(seed, rand.Uint64()))
	}
	client := newRetryableClient(c.httpClient, *c.cfg.Retries, c.logger)
	c.locator = NewLocator(client, c.cfg.Locator, c.logger)
	return c, nil
}

// Locate resolves the nearest store.
func (c *Captcha) Locate(ctx context.Context) (*Store, error) {
	return c.locator.Locate(ctx)
}

// Render draws text into a new captcha image.
func (c *Captcha) Render(text string) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var stamp image.Image
	if *c.cfg.Captcha.Stamps > 0 {
		stamp, err = LoadStamp(c.cfg.Captcha.StampPath)
		if err != nil {
			return nil, err
		}
	}
	r, err := NewRenderer(c.cfg.Captcha, stamp, c.rnd, c.logger)
	if err != nil {
		return nil, err
	}
	return r.Render(text), nil
}

// Generate runs the whole pipeline and writes the captcha to the configured output.
func (c *Captcha) Generate(ctx context.Context) (_ *Result, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	s, err := c.Locate(ctx)
	if err != nil {
		return nil, err
	}
	p := NewPuzzle(s, c.rnd)
	img, err := c.Render(p.Text())
	if err != nil {
		return nil, err
	}
	if err := img.Save(c.cfg.Output); err != nil {
		c.logger.Error("failed to save captcha", slog.String("path", c.cfg.Output), slog.String("error", err.Error()))
		return nil, err
	}
	var phash string
	if h, err := img.PHash(); err == nil {
		phash = h.ToString()
	}
	c.logger.Info("saved captcha", slog.String("path", c.cfg.Output), slog.String("phash", phash))
	c.logger.Info("generate completed")
	return &Result{
		Store:  s,
		Puzzle: p,
		Path:   c.cfg.Output,
		Image:  img,
		PHash:  phash,
	}, nil
}

// Report prints the instructions and the answer to w.
func (r *Result) Report(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Captcha Created"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Instructions: %s\n", Instructions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Answer: %s\n", r.Puzzle.Answer()); err != nil {
		return err
	}
	return nil
}
