// Package clipboard copies text to the system clipboard, falling back to an
// OSC 52 terminal escape sequence when no clipboard utility is available
// (for example over SSH).
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"

	"github.com/yacobolo/gradgen/internal/logging"
)

// Method identifies how text reached the clipboard.
type Method string

// Copy methods
const (
	MethodNone   Method = ""
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// ErrCopyFailed is returned when every mechanism failed.
var ErrCopyFailed = errors.New("copy failed: please select and copy the code manually")

// WriteFunc puts text on a clipboard.
type WriteFunc func(text string) error

// Copier tries a primary clipboard writer and then a fallback.
type Copier struct {
	primary  WriteFunc
	fallback WriteFunc
}

// Option configures a Copier.
type Option func(*Copier)

// WithPrimary replaces the system clipboard writer.
func WithPrimary(fn WriteFunc) Option {
	return func(c *Copier) { c.primary = fn }
}

// WithFallback replaces the OSC 52 writer.
func WithFallback(fn WriteFunc) Option {
	return func(c *Copier) { c.fallback = fn }
}

// New returns a Copier using the system clipboard and OSC 52 sequences
// written to out.
func New(out io.Writer, opts ...Option) *Copier {
	c := &Copier{
		primary:  systemWrite,
		fallback: OSC52Writer(out),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy places text on the clipboard and reports which mechanism succeeded.
// When both fail the returned error wraps ErrCopyFailed and each cause.
func (c *Copier) Copy(text string) (Method, error) {
	var primaryErr, fallbackErr error

	if c.primary != nil {
		if primaryErr = c.primary(text); primaryErr == nil {
			return MethodSystem, nil
		}
		logging.Logger().Debug("system clipboard unavailable", "error", primaryErr)
	} else {
		primaryErr = errors.New("no system clipboard configured")
	}

	if c.fallback != nil {
		if fallbackErr = c.fallback(text); fallbackErr == nil {
			return MethodOSC52, nil
		}
		logging.Logger().Debug("osc52 clipboard unavailable", "error", fallbackErr)
	} else {
		fallbackErr = errors.New("no fallback configured")
	}

	return MethodNone, fmt.Errorf("%w (system: %v; osc52: %v)", ErrCopyFailed, primaryErr, fallbackErr)
}

// systemWrite uses the platform clipboard utility
func systemWrite(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

// OSC52Writer returns a WriteFunc emitting an OSC 52 sequence to out. The
// sequence is wrapped for tmux or screen when running inside one. Writing
// to a file that is not a terminal fails since nothing would interpret it.
func OSC52Writer(out io.Writer) WriteFunc {
	return func(text string) error {
		if out == nil {
			return errors.New("no terminal output")
		}
		if f, ok := out.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("%s is not a terminal", f.Name())
		}

		seq := osc52.New(text)
		switch {
		case os.Getenv("TMUX") != "":
			seq = seq.Tmux()
		case os.Getenv("STY") != "":
			seq = seq.Screen()
		}

		if _, err := seq.WriteTo(out); err != nil {
			return fmt.Errorf("writing osc52 sequence: %w", err)
		}
		return nil
	}
}
