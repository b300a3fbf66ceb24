// fsdif-regtool generates FSDIF/IOPAD register definitions and derives
// interrupt masks.
package main

import (
	"fmt"
	"os"

	"github.com/fsdif/fsdif-tools/cmd/fsdif-regtool/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "gen":
		exitCode = commands.RunGen(args, os.Stdin, os.Stdout, os.Stderr)
	case "xreg0":
		exitCode = commands.RunXReg0(args, os.Stdin, os.Stdout, os.Stderr)
	case "xreg1":
		exitCode = commands.RunXReg1(args, os.Stdin, os.Stdout, os.Stderr)
	case "masks":
		exitCode = commands.RunMasks(args, os.Stdout, os.Stderr)
	case "variants":
		exitCode = commands.RunVariants(args, os.Stdout, os.Stderr)
	case "genmask":
		exitCode = commands.RunGenMask(args, os.Stdout, os.Stderr)
	case "shell":
		exitCode = commands.RunShell(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("fsdif-regtool version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`fsdif-regtool - FSDIF register definition generator and mask calculator

Usage:
  fsdif-regtool <command> [options] [files...]

Commands:
  gen        Generate register definitions for a variant (-variant <name>)
  xreg0      Generate X_REG0 (function/drive/pull) register definitions
  xreg1      Generate X_REG1 (delay) register definitions
  masks      Compute interrupt masks and verify driver literals
  variants   List register variants and their layouts
  genmask    Print the contiguous mask genmask(hi, lo)
  shell      Interactive bit, mask and register calculator

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  fsdif-regtool xreg0 input.rs
  fsdif-regtool xreg1 input_xreg1.rs > xreg1_gen.rs
  fsdif-regtool masks -calc all -check
  fsdif-regtool genmask 9 8

For command-specific help, run:
  fsdif-regtool <command> --help`)
}
