/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/nearcaptcha/config"
	"github.com/k1LoW/nearcaptcha/logger/dot"
	"github.com/k1LoW/nearcaptcha/version"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "nearcaptcha.log"

var profile string

var rootCmd = &cobra.Command{
	Use:          "nearcaptcha",
	Short:        "nearcaptcha renders the address of the nearest McDonald's as a captcha puzzle",
	Long:         `nearcaptcha renders the address of the nearest McDonald's as a captcha puzzle.`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
	RunE:         runGenerate,
}

type errorData struct {
	StackTraces any       `json:"stack_traces"`
	LogPath     string    `json:"log_path"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		d := &errorData{
			StackTraces: errors.StackTraces(err),
			LogPath:     logPath(),
			CreatedAt:   time.Now(),
			Version:     version.Version,
			Revision:    version.Revision,
		}
		b, err := json.Marshal(d)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			dumpPath := filepath.Join(config.StateHomePath(), "error.json")
			if err := os.MkdirAll(config.StateHomePath(), 0o700); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", config.StateHomePath(), err)
			} else if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "failed to write error.json to %s: %v\n", dumpPath, err)
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	addGenerateFlags(rootCmd)
}

func logPath() string {
	return filepath.Join(config.StateHomePath(), logFileName)
}

// newLogger returns a logger that draws progress glyphs on stdout and
// keeps a debug trail in the state directory.
func newLogger() (*slog.Logger, func(), error) {
	fileLogger := &lumberjack.Logger{
		Filename:   logPath(),
		MaxSize:    1, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	h, err := dot.New(slog.NewTextHandler(os.Stdout, nil))
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slogmulti.Fanout(
		h,
		slog.NewJSONHandler(fileLogger, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))
	return logger, func() {
		h.Stop()
		_ = fileLogger.Close()
	}, nil
}
