package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fsdif/fsdif-tools/pkg/regdef"
)

// GenOptions configures the gen command.
type GenOptions struct {
	Variant   string
	Config    string
	Format    string
	Package   string
	KeepGoing bool
	Output    string
	Verbose   bool
	Files     []string
}

// RunGen runs the gen command.
func RunGen(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseGenArgs("gen", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printGenUsage(stderr, "gen")
			return exitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.Variant == "" {
		fmt.Fprintln(stderr, "Error: no variant specified")
		printGenUsage(stderr, "gen")
		return exitCommandError
	}
	return runGen(opts, stdin, stdout, stderr)
}

// RunXReg0 runs gen with the xreg0 variant.
func RunXReg0(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runFixedVariant(regdef.XReg0.Name, args, stdin, stdout, stderr)
}

// RunXReg1 runs gen with the xreg1 variant.
func RunXReg1(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runFixedVariant(regdef.XReg1.Name, args, stdin, stdout, stderr)
}

func runFixedVariant(variant string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseGenArgs(variant, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printGenUsage(stderr, variant)
			return exitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	opts.Variant = variant
	return runGen(opts, stdin, stdout, stderr)
}

func runGen(opts GenOptions, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := newLogger(stderr, opts.Verbose)

	registry := regdef.NewRegistry()
	if opts.Config != "" {
		if err := registry.LoadFile(opts.Config); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
	}

	variant, err := registry.Lookup(opts.Variant)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	format, err := regdef.ParseFormat(opts.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	out := stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		defer f.Close()
		out = f
	}

	files := opts.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	// Go output is one file; gather every input before rendering.
	if format == regdef.FormatGo && len(files) > 1 {
		fmt.Fprintln(stderr, "Error: -format go accepts a single input")
		return exitCommandError
	}

	gen := &regdef.Generator{
		Variant:   variant,
		Format:    format,
		Package:   opts.Package,
		KeepGoing: opts.KeepGoing,
		Logger:    logger,
	}

	exitCode := exitSuccess
	for _, file := range files {
		code := generateFile(gen, file, stdin, out, opts.Output, stderr)
		if code == exitSuccess {
			continue
		}
		exitCode = max(exitCode, code)
		if !opts.KeepGoing {
			break
		}
	}
	return exitCode
}

func generateFile(gen *regdef.Generator, file string, stdin io.Reader, out io.Writer, outPath string, stderr io.Writer) int {
	in := stdin
	name := "<stdin>"
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		defer f.Close()
		in = f
		name = file
	}

	stats, err := gen.Generate(in, out)
	gen.Logger.Debug("generated",
		"file", name,
		"lines", stats.Lines,
		"registers", stats.Generated,
		"skipped", stats.Skipped)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", name, err)

		// Keep the unformatted source next to the output so the generator can be debugged
		var fmtErr *regdef.FormatError
		if outPath != "" && errors.As(err, &fmtErr) {
			_ = os.WriteFile(outPath+".broken", fmtErr.Source, 0o644)
		}
		if errors.Is(err, regdef.ErrMalformedInvocation) {
			return exitValidation
		}
		return exitCommandError
	}
	return exitSuccess
}

func parseGenArgs(name string, args []string) (GenOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := GenOptions{}

	if name == "gen" {
		fs.StringVar(&opts.Variant, "variant", "", "Register variant (xreg0, xreg1, or from -config)")
	}
	fs.StringVar(&opts.Config, "config", "", "YAML file with additional variants")
	fs.StringVar(&opts.Format, "format", "rust", "Output format: rust or go")
	fs.StringVar(&opts.Package, "package", "regs", "Package name for Go output")
	fs.BoolVar(&opts.KeepGoing, "keep-going", false, "Skip malformed lines instead of stopping")
	fs.StringVar(&opts.Output, "o", "", "Write output to file instead of stdout")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Log progress to stderr")
	fs.BoolVar(&opts.Verbose, "v", false, "Log progress to stderr (shorthand)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

func printGenUsage(w io.Writer, name string) {
	variantFlag := ""
	if name == "gen" {
		variantFlag = " -variant <name>"
	}
	fmt.Fprintf(w, `
Usage: fsdif-regtool %s%s [options] [files...]

Reads macro invocation lines (MACRO!(NAME, ADDR);) from files or stdin and
writes one register definition per line.

Options:
  -config <file>   YAML file with additional variants
  -format <fmt>    Output format: rust (default) or go
  -package <name>  Package name for Go output (default regs)
  -keep-going      Skip malformed lines and report them at the end
  -o <file>        Write output to file instead of stdout
  -v, -verbose     Log progress to stderr

Examples:
  fsdif-regtool xreg0 input.rs
  fsdif-regtool xreg1 -keep-going input_xreg1.rs
  fsdif-regtool gen -variant xreg2 -config variants.yaml pads.rs
`, name, variantFlag)
}
