package dot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fatih/color"
)

func TestHandle(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{
			name:     "full pipeline",
			messages: []string{"geolocated", "found store", "rendered captcha", "saved captcha", "generate completed"},
			want:     "...✓\n",
		},
		{
			name:     "skipped stamp",
			messages: []string{"geolocated", "found store", "skipped stamp: stamp does not fit the captcha", "rendered captcha"},
			want:     "..*.",
		},
		{
			name:     "failure",
			messages: []string{"failed to geolocate"},
			want:     "!",
		},
		{
			name:     "ignored messages",
			messages: []string{"fetched", "performing request"},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			h, err := newWithWriter(slog.NewTextHandler(io.Discard, nil), buf)
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(h.Stop)
			logger := slog.New(h)
			for _, m := range tt.messages {
				logger.Info(m)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithGroupSharesPrefix(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	buf := new(bytes.Buffer)
	h, err := newWithWriter(slog.NewTextHandler(io.Discard, nil), buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Stop)
	logger := slog.New(h)
	logger.Info("geolocated")
	if err := logger.WithGroup("api").Handler().Handle(context.Background(), slog.Record{Message: "found store"}); err != nil {
		t.Fatal(err)
	}
	if got := string(*h.prefix); got != ".." {
		t.Errorf("prefix = %q, want %q", got, "..")
	}
}

func TestHandleRetrying(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	buf := new(bytes.Buffer)
	h, err := newWithWriter(slog.NewTextHandler(io.Discard, nil), buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Stop)
	logger := slog.New(h)

	logger.Info("geolocated")
	logger.WithGroup("api").Info("retrying request")
	if !h.spinner.Enabled() {
		t.Error("spinner should be enabled while retrying")
	}
	if got := buf.String(); got != "." {
		t.Errorf("retrying wrote a glyph: got %q, want %q", got, ".")
	}

	// the next record stops the spinner and redraws the progress so far
	logger.Info("found store")
	if h.spinner.Enabled() {
		t.Error("spinner should be disabled after the retry")
	}
	if got := buf.String(); got != "..." {
		t.Errorf("got %q, want %q", got, "...")
	}
}
