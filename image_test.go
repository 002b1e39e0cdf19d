package nearcaptcha

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func uniform(w, h int, c color.Color) *Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return NewImage(img)
}

func TestSave(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		format  string
		wantErr bool
	}{
		{"png", "captcha.png", "png", false},
		{"jpeg", "captcha.jpg", "jpeg", false},
		{"nested directory", "out/dir/captcha.png", "png", false},
		{"unsupported extension", "captcha.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			err := uniform(32, 16, color.White).Save(path)
			if tt.wantErr {
				if err == nil {
					t.Error("Save() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, format, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatal(err)
			}
			if format != tt.format {
				t.Errorf("format = %s, want %s", format, tt.format)
			}
			if cfg.Width != 32 || cfg.Height != 16 {
				t.Errorf("size = %dx%d, want 32x16", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestEquivalent(t *testing.T) {
	white := uniform(64, 64, color.White)
	if !white.Equivalent(uniform(64, 64, color.White)) {
		t.Error("identical images should be equivalent")
	}
	if white.Equivalent(uniform(32, 32, color.White)) {
		t.Error("images of different size should not be equivalent")
	}
	if white.Equivalent(nil) {
		t.Error("nil image should not be equivalent")
	}
	if _, err := (*Image)(nil).PHash(); err == nil {
		t.Error("PHash() of nil image should fail")
	}
}

func TestChecksumStable(t *testing.T) {
	a := uniform(8, 8, color.Black)
	if a.Checksum() != a.Checksum() {
		t.Error("Checksum() is not stable")
	}
	if a.Checksum() == uniform(8, 8, color.White).Checksum() {
		t.Error("different pixels should have different checksums")
	}
	if err := a.Encode(&discardWriter{}, imaging.PNG); err != nil {
		t.Errorf("Encode() error = %v", err)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
