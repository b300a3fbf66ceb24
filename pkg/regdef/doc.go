// Package regdef generates bit-flag register definitions from macro
// invocation lists.
//
// An invocation list is plain text with one macro call per line:
//
//	X_REG0!(An59Reg0, 0x0300);
//	X_REG1!(J53Reg1, FIOPAD_J53_REG1_OFFSET);
//
// Each [Variant] binds a macro token (X_REG0, X_REG1, ...) to a fixed register
// layout. The generator matches every non-empty line against the variant's
// macro, extracts the register name and address, and expands the layout into a
// bitflags definition. Names and addresses are substituted verbatim.
//
// # Variants
//
// Two variants are built in:
//   - xreg0: IOPAD function, drive and pull configuration (bits 0-9)
//   - xreg1: IOPAD input/output delay tuning (bits 0-14)
//
// Further variants can be declared in YAML and loaded with [LoadVariants].
//
// # Error Handling
//
// A line that does not match MACRO!(NAME, ADDR); fails with
// [ErrMalformedInvocation], wrapped in a [*LineError] carrying the line number.
// By default generation stops at the first malformed line; set
// [Generator.KeepGoing] to skip bad lines and collect their errors instead.
package regdef
