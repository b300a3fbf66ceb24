package regdef

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/tools/imports"
)

// Format selects the generator output language.
type Format string

const (
	// FormatRust emits bitflags! definitions, one block per invocation.
	FormatRust Format = "rust"

	// FormatGo emits a single formatted Go source file.
	FormatGo Format = "go"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses a format name. The empty string selects FormatRust.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "rust", "rs":
		return FormatRust, nil
	case "go":
		return FormatGo, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// Render expands the variant's layout for one register.
// The name and address are substituted verbatim.
func Render(v *Variant, name, addr string) (string, error) {
	var b strings.Builder
	if err := renderTemplate(&b, "rustRegister", newRegisterData(v, name, addr)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderGo produces a gofmt'ed Go file declaring one type per invocation.
func RenderGo(pkg string, v *Variant, invs []Invocation) ([]byte, error) {
	if pkg == "" {
		pkg = "regs"
	}

	var b strings.Builder
	if err := renderTemplate(&b, "goHeader", goFileData{Package: pkg, Macro: v.Macro}); err != nil {
		return nil, err
	}
	for _, inv := range invs {
		if err := renderTemplate(&b, "goRegister", newRegisterData(v, inv.Name, inv.Addr)); err != nil {
			return nil, err
		}
	}

	formatted, err := imports.Process(strings.ToLower(v.Name)+"_gen.go", []byte(b.String()), nil)
	if err != nil {
		return nil, &FormatError{Source: []byte(b.String()), Err: err}
	}
	return formatted, nil
}

// FormatError is returned when generated Go source does not format.
// Source holds the unformatted output for debugging.
type FormatError struct {
	Source []byte
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting generated Go: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MaxLineSize is the longest input line the generator accepts.
const MaxLineSize = 1 << 20

// Stats summarizes a generator run.
type Stats struct {
	Lines     int
	Generated int
	Skipped   int
}

// Generator expands an invocation list for a single variant.
type Generator struct {
	Variant *Variant

	// Format defaults to FormatRust.
	Format Format

	// Package is the Go package name for FormatGo output.
	Package string

	// KeepGoing skips malformed lines instead of stopping at the first one.
	// All line errors are returned together once the input is exhausted.
	KeepGoing bool

	// Logger is the optional logger for progress and skipped lines.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Generate reads invocation lines from r and writes generated definitions to w.
// Rust blocks are written as soon as their line is parsed; Go output is
// written once after the whole input has been read.
func (g *Generator) Generate(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	if g.Variant == nil {
		return stats, fmt.Errorf("%w: no variant selected", ErrUnknownVariant)
	}
	format, err := ParseFormat(string(g.Format))
	if err != nil {
		return stats, err
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parser := NewParser(g.Variant)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	var (
		lineErrs []error
		invs     []Invocation
	)

	for scanner.Scan() {
		stats.Lines++
		text := scanner.Text()

		// Skip empty lines
		if strings.TrimSpace(text) == "" {
			continue
		}

		inv, err := parser.Parse(text)
		if err != nil {
			lineErr := &LineError{Line: stats.Lines, Text: text, Err: err}
			if !g.KeepGoing {
				return stats, lineErr
			}
			logger.Warn("skipping malformed line",
				slog.Int("line", stats.Lines),
				slog.String("text", text))
			stats.Skipped++
			lineErrs = append(lineErrs, lineErr)
			continue
		}
		inv.Line = stats.Lines

		switch format {
		case FormatGo:
			invs = append(invs, inv)
		default:
			block, err := Render(g.Variant, inv.Name, inv.Addr)
			if err != nil {
				return stats, err
			}
			if _, err := io.WriteString(w, block); err != nil {
				return stats, fmt.Errorf("writing %s: %w", inv.Name, err)
			}
		}
		stats.Generated++
		logger.Debug("generated register",
			slog.String("variant", g.Variant.Name),
			slog.String("name", inv.Name),
			slog.String("addr", inv.Addr))
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			lineErrs = append(lineErrs, &LineError{
				Line: stats.Lines + 1,
				Err:  fmt.Errorf("%w: line longer than %d bytes", ErrMalformedInvocation, MaxLineSize),
			})
			return stats, errors.Join(lineErrs...)
		}
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	if format == FormatGo && len(invs) > 0 {
		code, err := RenderGo(g.Package, g.Variant, invs)
		if err != nil {
			return stats, err
		}
		if _, err := w.Write(code); err != nil {
			return stats, fmt.Errorf("writing Go output: %w", err)
		}
	}

	return stats, errors.Join(lineErrs...)
}
