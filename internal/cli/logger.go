// Package cli holds the pieces shared by the rws command line tools.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/cwbudde/rws"
)

// NewLogger returns a logger writing to w. Terminals get the text handler,
// anything else gets JSON records. verbose lowers the level to Debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}

	return slog.New(slog.NewJSONHandler(w, options))
}

// DecodeFile reads and decodes the container at path.
func DecodeFile(ctx context.Context, path string, workers int, logger *slog.Logger) (*rws.Container, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := &rws.Decoder{Logger: logger.With("file", path), Workers: workers}

	c, err := dec.Decode(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return c, nil
}
