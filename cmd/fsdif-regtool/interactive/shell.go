// Package interactive provides the interactive calculator for fsdif-regtool.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fsdif/fsdif-tools/pkg/bitfield"
	"github.com/fsdif/fsdif-tools/pkg/intmask"
	"github.com/fsdif/fsdif-tools/pkg/regdef"
)

// Shell evaluates mask and register commands typed at a prompt.
type Shell struct {
	calc     *intmask.Calculator
	registry *regdef.Registry
	rl       *readline.Instance
}

// New creates a shell reading from the terminal and printing to stdout.
func New(calc *intmask.Calculator, registry *regdef.Registry, stdout, stderr io.Writer) (*Shell, error) {
	s := newShell(calc, registry)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "regtool> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	return s, nil
}

func newShell(calc *intmask.Calculator, registry *regdef.Registry) *Shell {
	return &Shell{calc: calc, registry: registry}
}

func (s *Shell) completer() readline.AutoCompleter {
	bitNames := func(string) []string {
		return s.calc.Table.Names()
	}
	calcNames := func(string) []string {
		names := make([]string, 0, len(s.calc.Calculations)+1)
		for _, c := range s.calc.Calculations {
			names = append(names, c.Name)
		}
		return append(names, intmask.AllCalculations)
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("genmask"),
		readline.PcItem("bit"),
		readline.PcItem("mask", readline.PcItemDynamic(bitNames)),
		readline.PcItem("decode"),
		readline.PcItem("calc", readline.PcItemDynamic(calcNames)),
		readline.PcItem("check"),
		readline.PcItem("bits"),
		readline.PcItem("variants"),
		readline.PcItem("expand"),
		readline.PcItem("quit"),
	)
}

// Run reads commands until EOF, quit, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	out := s.rl.Stdout()
	s.printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}
		if !s.execute(out, line) {
			return
		}
	}
}

// execute runs one command line and reports whether the shell should continue.
func (s *Shell) execute(w io.Writer, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp(w)
	case "genmask", "g":
		s.cmdGenMask(w, args)
	case "bit":
		s.cmdBit(w, args)
	case "mask", "m":
		s.cmdMask(w, args)
	case "decode", "d":
		s.cmdDecode(w, args)
	case "calc", "c":
		s.cmdCalc(w, args)
	case "check":
		s.cmdCheck(w)
	case "bits":
		s.cmdBits(w)
	case "variants", "v":
		s.cmdVariants(w)
	case "expand", "x":
		s.cmdExpand(w, rest)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
fsdif-regtool Commands:
  Bits:
    genmask <hi> <lo>      - Contiguous mask from bit lo to bit hi
    bit <n>                - Single bit 1 << n
    mask <NAME>...         - OR named bit constants together
    decode <value>         - List the set bits of a value and their names
    bits                   - List the known bit constants

  Interrupt masks:
    calc [name]...         - Run mask calculations (default int-mask, or all)
    check                  - Compare computed masks against driver literals

  Registers:
    variants               - List register variants
    expand <MACRO!(N, A);> - Expand one macro invocation

  Other:
    help                   - Show this help
    quit                   - Exit`)
}

func parseBit(arg string) (uint, error) {
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid bit %q", arg)
	}
	return uint(n), nil
}

func (s *Shell) cmdGenMask(w io.Writer, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(w, "Usage: genmask <hi> <lo>")
		return
	}
	hi, err := parseBit(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	lo, err := parseBit(args[1])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if err := bitfield.CheckRange(hi, lo); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "genmask(%d, %d) = %s\n", hi, lo, bitfield.Hex(bitfield.GenMask(hi, lo)))
}

func (s *Shell) cmdBit(w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: bit <n>")
		return
	}
	n, err := parseBit(args[0])
	if err == nil {
		err = bitfield.CheckRange(n, n)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "1 << %d = %s\n", n, bitfield.Hex(bitfield.Bit(n)))
}

func (s *Shell) cmdMask(w io.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(w, "Usage: mask <NAME>...")
		return
	}
	members := make([]string, len(args))
	for i, arg := range args {
		members[i] = strings.ToUpper(arg)
	}
	res, err := s.calc.Table.Fold(intmask.Mask{Label: "mask", Members: members})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, res.Hex())
}

func (s *Shell) cmdDecode(w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: decode <value>")
		return
	}
	v, err := strconv.ParseUint(args[0], 0, bitfield.Width)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid value %q\n", args[0])
		return
	}

	byValue := make(map[uint32][]string)
	for _, name := range s.calc.Table.Names() {
		bit := s.calc.Table[name]
		byValue[bit] = append(byValue[bit], name)
	}

	positions := bitfield.Positions(uint32(v))
	if len(positions) == 0 {
		fmt.Fprintln(w, "no bits set")
		return
	}
	for _, pos := range positions {
		names := byValue[bitfield.Bit(pos)]
		if len(names) == 0 {
			fmt.Fprintf(w, "  bit %2d\n", pos)
			continue
		}
		fmt.Fprintf(w, "  bit %2d  %s\n", pos, strings.Join(names, ", "))
	}
}

func (s *Shell) cmdCalc(w io.Writer, args []string) {
	results, err := s.calc.Run(args...)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, r.String())
	}
}

func (s *Shell) cmdCheck(w io.Writer) {
	mismatches, unchecked, err := s.calc.Verify()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	for _, m := range mismatches {
		fmt.Fprintf(w, "MISMATCH %s\n", m.String())
	}
	for _, l := range unchecked {
		fmt.Fprintf(w, "unchecked %s (no result for %s)\n", l.Name(), l.Label)
	}
	if len(mismatches) == 0 {
		fmt.Fprintln(w, "all driver literals match")
	}
}

func (s *Shell) cmdBits(w io.Writer) {
	for _, name := range s.calc.Table.Names() {
		fmt.Fprintf(w, "  %-24s %s\n", name, bitfield.Hex(s.calc.Table[name]))
	}
}

func (s *Shell) cmdVariants(w io.Writer) {
	for _, v := range s.registry.Variants() {
		fmt.Fprintf(w, "  %-8s %s!(NAME, ADDR);  %d flags\n", v.Name, v.Macro, len(v.Flags))
	}
}

func (s *Shell) cmdExpand(w io.Writer, line string) {
	macro, _, ok := strings.Cut(line, "!")
	if !ok || macro == "" {
		fmt.Fprintln(w, "Usage: expand MACRO!(NAME, ADDR);")
		return
	}
	v, err := s.registry.Lookup(strings.TrimSpace(macro))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	inv, err := regdef.NewParser(v).Parse(line)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	block, err := regdef.Render(v, inv.Name, inv.Addr)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprint(w, block)
}
