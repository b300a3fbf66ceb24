package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
	"github.com/fsdif/fsdif-tools/pkg/regdef"
)

// RunVariants lists the register variants and their layouts.
func RunVariants(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("variants", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	config := fs.String("config", "", "YAML file with additional variants")
	name := fs.String("name", "", "Show only this variant")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "Usage: fsdif-regtool variants [-config <file>] [-name <variant>]")
			return exitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	registry := regdef.NewRegistry()
	if *config != "" {
		if err := registry.LoadFile(*config); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
	}

	variants := registry.Variants()
	if *name != "" {
		v, err := registry.Lookup(*name)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		variants = []*regdef.Variant{v}
	}

	for i, v := range variants {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		printVariant(stdout, v)
	}
	return exitSuccess
}

func printVariant(w io.Writer, v *regdef.Variant) {
	fmt.Fprintf(w, "%s: %s!(NAME, ADDR); trait %s\n", v.Name, v.Macro, v.Trait)
	if v.Description != "" {
		fmt.Fprintf(w, "  %s\n", v.Description)
	}
	width := 0
	for _, f := range v.Flags {
		width = max(width, len(f.Name))
	}
	for _, f := range v.Flags {
		fmt.Fprintf(w, "  %-*s %-16s %s\n", width, f.Name, f.Expr(), bitfield.Hex(f.Value()))
	}
	fmt.Fprintf(w, "  bits: %s (%d flags)\n", bitfield.Hex(v.Bits()), len(v.Flags))
}

// RunGenMask prints genmask(hi, lo).
func RunGenMask(args []string, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Usage: fsdif-regtool genmask <hi> <lo>")
		return exitCommandError
	}

	var bounds [2]uint
	for i, arg := range args {
		n, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			fmt.Fprintf(stderr, "Error: invalid bit %q\n", arg)
			return exitCommandError
		}
		bounds[i] = uint(n)
	}

	hi, lo := bounds[0], bounds[1]
	if err := bitfield.CheckRange(hi, lo); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	fmt.Fprintf(stdout, "genmask(%d, %d): %s\n", hi, lo, bitfield.Hex(bitfield.GenMask(hi, lo)))
	return exitSuccess
}
