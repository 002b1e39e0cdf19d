package nearcaptcha

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/nearcaptcha/version"
)

var userAgent = "k1LoW-nearcaptcha/" + version.Version + " (+https://github.com/k1LoW/nearcaptcha)"

func newRetryableClient(hc *http.Client, retries int, logger *slog.Logger) *retryablehttp.Client {
	if hc == nil {
		hc = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	c := retryablehttp.NewClient()
	c.HTTPClient = hc
	c.RetryMax = retries
	c.RetryWaitMin = 1 * time.Second
	c.RetryWaitMax = 30 * time.Second
	c.Logger = newAPILogger(logger)
	return c
}

var _ retryablehttp.LeveledLogger = (*apiLogger)(nil)

type apiLogger struct {
	l *slog.Logger
}

func (l *apiLogger) Error(msg string, keysAndValues ...any) {
	l.l.Error(msg, append([]any{slog.String("original_log_level", "error")}, keysAndValues...)...)
}
func (l *apiLogger) Info(msg string, keysAndValues ...any) {
	l.l.Info(msg, append([]any{slog.String("original_log_level", "info")}, keysAndValues...)...)
}
func (l *apiLogger) Debug(msg string, keysAndValues ...any) {
	if strings.HasPrefix(msg, "retrying") {
		// promoted so the console handler can show a spinner
		l.l.Info(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
		return
	}
	l.l.Debug(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
}
func (l *apiLogger) Warn(msg string, keysAndValues ...any) {
	l.l.Warn(msg, append([]any{slog.String("original_log_level", "warn")}, keysAndValues...)...)
}

func newAPILogger(l *slog.Logger) retryablehttp.LeveledLogger {
	return &apiLogger{
		l: l.WithGroup("api"),
	}
}
