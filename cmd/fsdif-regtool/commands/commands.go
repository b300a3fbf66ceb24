// Package commands implements the fsdif-regtool subcommands.
package commands

import (
	"flag"
	"io"
	"log/slog"
	"strings"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// newLogger returns a text logger on w. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// stringList is a repeatable string flag. Values may also be comma-separated.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

var _ flag.Value = (*stringList)(nil)
