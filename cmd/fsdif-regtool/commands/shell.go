package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fsdif/fsdif-tools/cmd/fsdif-regtool/interactive"
	"github.com/fsdif/fsdif-tools/pkg/intmask"
	"github.com/fsdif/fsdif-tools/pkg/regdef"
)

// RunShell starts the interactive calculator.
func RunShell(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	maskConfig := fs.String("masks", "", "YAML file with additional bits, calculations and literals")
	variantConfig := fs.String("variants", "", "YAML file with additional variants")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "Usage: fsdif-regtool shell [-masks <file>] [-variants <file>]")
			return exitSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	calc, registry, err := loadShellConfig(*maskConfig, *variantConfig)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	sh, err := interactive.New(calc, registry, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	sh.Run(ctx)
	return exitSuccess
}

func loadShellConfig(maskConfig, variantConfig string) (*intmask.Calculator, *regdef.Registry, error) {
	calc := intmask.NewCalculator()
	if maskConfig != "" {
		if err := calc.LoadFile(maskConfig); err != nil {
			return nil, nil, err
		}
	}
	registry := regdef.NewRegistry()
	if variantConfig != "" {
		if err := registry.LoadFile(variantConfig); err != nil {
			return nil, nil, err
		}
	}
	return calc, registry, nil
}
