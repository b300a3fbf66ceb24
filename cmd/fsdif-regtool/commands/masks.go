package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fsdif/fsdif-tools/pkg/intmask"
)

// MasksOptions configures the masks command.
type MasksOptions struct {
	Calcs   stringList
	Format  string
	Check   bool
	Config  string
	List    bool
	Verbose bool
}

// RunMasks runs the masks command.
func RunMasks(args []string, stdout, stderr io.Writer) int {
	opts, err := parseMasksArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printMasksUsage(stderr)
			return exitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	logger := newLogger(stderr, opts.Verbose)

	calc := intmask.NewCalculator()
	if opts.Config != "" {
		if err := calc.LoadFile(opts.Config); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		logger.Debug("loaded mask config", "path", opts.Config)
	}

	if opts.List {
		for _, c := range calc.Calculations {
			fmt.Fprintf(stdout, "%-14s %s\n", c.Name, c.Description)
		}
		return exitSuccess
	}

	format, err := intmask.ParseFormat(opts.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	results, err := calc.Run(opts.Calcs...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if err := intmask.Encode(stdout, results, format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if !opts.Check {
		return exitSuccess
	}

	mismatches, unchecked, err := calc.Verify()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	for _, lit := range unchecked {
		logger.Warn("no computed mask for literal", "literal", lit.Name(), "label", lit.Label)
	}
	if len(mismatches) == 0 {
		fmt.Fprintf(stderr, "check: %d driver literals OK\n", len(calc.Literals)-len(unchecked))
		return exitSuccess
	}
	for _, m := range mismatches {
		fmt.Fprintf(stderr, "MISMATCH %s\n", m)
	}
	return exitValidation
}

func parseMasksArgs(args []string) (MasksOptions, error) {
	fs := flag.NewFlagSet("masks", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := MasksOptions{}

	fs.Var(&opts.Calcs, "calc", "Calculation to run (repeatable; \"all\" for every calculation)")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text, json, yaml or cbor")
	fs.BoolVar(&opts.Check, "check", false, "Verify driver mask literals against computed masks")
	fs.StringVar(&opts.Config, "config", "", "YAML file with additional bits, calculations and literals")
	fs.BoolVar(&opts.List, "list", false, "List available calculations")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Log progress to stderr")
	fs.BoolVar(&opts.Verbose, "v", false, "Log progress to stderr (shorthand)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func printMasksUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fsdif-regtool masks [options]

Folds named interrupt bits into aggregate masks and prints them as
"<LABEL>: <hex>". Without -calc the int-mask calculation is run.

Options:
  -calc <name>     Calculation to run (repeatable, or "all")
  -format <fmt>    Output format: text (default), json, yaml, cbor
  -check           Verify driver mask literals; exit 2 on mismatch
  -config <file>   YAML file with additional bits, calculations and literals
  -list            List available calculations
  -v, -verbose     Log progress to stderr

Examples:
  fsdif-regtool masks
  fsdif-regtool masks -calc dmac-int-ena
  fsdif-regtool masks -calc all -format json -check`)
}
