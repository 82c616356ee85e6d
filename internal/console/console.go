// Package console prints engine progress with the colored, emoji-prefixed
// style used across the CLI.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink is a line-oriented logger. The zero value is not usable; call New.
type Sink struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool

	info    *color.Color
	success *color.Color
	warn    *color.Color
	err     *color.Color
}

func New(out io.Writer, quiet bool) *Sink {
	if out == nil {
		out = os.Stdout
	}
	return &Sink{
		out:     out,
		quiet:   quiet,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
	}
}

// Info and Success are suppressed in quiet mode; warnings and errors never are.
func (s *Sink) Info(format string, args ...any) {
	if s.quiet {
		return
	}
	s.print(s.info, "", format, args...)
}

func (s *Sink) Success(format string, args ...any) {
	if s.quiet {
		return
	}
	s.print(s.success, "✅ ", format, args...)
}

func (s *Sink) Warn(format string, args ...any) {
	s.print(s.warn, "⚠️  ", format, args...)
}

func (s *Sink) Error(format string, args ...any) {
	s.print(s.err, "❌ ", format, args...)
}

func (s *Sink) print(c *color.Color, prefix, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Fprintf(s.out, "%s%s\n", prefix, fmt.Sprintf(format, args...))
}
