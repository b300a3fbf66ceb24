package regdef

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
)

// Variant errors.
var (
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrDuplicateVariant = errors.New("duplicate variant")
	ErrInvalidLayout    = errors.New("invalid register layout")
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Flag is a named constant inside a register layout: either a single bit
// or a contiguous multi-bit mask.
type Flag struct {
	Name string
	Hi   uint
	Lo   uint
	Mask bool
}

// BitFlag returns a single-bit flag at position n.
func BitFlag(name string, n uint) Flag {
	return Flag{Name: name, Hi: n, Lo: n}
}

// MaskFlag returns a flag covering bits lo..hi.
func MaskFlag(name string, hi, lo uint) Flag {
	return Flag{Name: name, Hi: hi, Lo: lo, Mask: true}
}

// Value returns the flag's numeric value.
func (f Flag) Value() uint32 {
	if f.Mask {
		return bitfield.GenMask(f.Hi, f.Lo)
	}
	return bitfield.Bit(f.Lo)
}

// Expr returns the Rust constant expression for the flag.
func (f Flag) Expr() string {
	if f.Mask {
		return fmt.Sprintf("genmask!(%d, %d)", f.Hi, f.Lo)
	}
	return fmt.Sprintf("1 << %d", f.Lo)
}

// Variant describes one register macro and the layout it expands to.
type Variant struct {
	// Name is the short identifier used on the command line (e.g. "xreg0").
	Name string

	// Macro is the macro token matched in invocation lines (e.g. "X_REG0").
	Macro string

	// Trait is the marker trait implemented by every generated register.
	Trait string

	Description string

	// Flags are emitted in order.
	Flags []Flag
}

// Validate checks the variant's identifiers and layout. Every mask must be
// fully covered by the single-bit flags declared inside it.
func (v *Variant) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: variant name is empty", ErrInvalidLayout)
	}
	if !identRegex.MatchString(v.Macro) {
		return fmt.Errorf("%w: %s: invalid macro %q", ErrInvalidLayout, v.Name, v.Macro)
	}
	if !identRegex.MatchString(v.Trait) {
		return fmt.Errorf("%w: %s: invalid trait %q", ErrInvalidLayout, v.Name, v.Trait)
	}
	if len(v.Flags) == 0 {
		return fmt.Errorf("%w: %s: no flags", ErrInvalidLayout, v.Name)
	}

	seen := make(map[string]bool, len(v.Flags))
	var bits uint32
	for _, f := range v.Flags {
		if !identRegex.MatchString(f.Name) {
			return fmt.Errorf("%w: %s: invalid flag name %q", ErrInvalidLayout, v.Name, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s: duplicate flag %s", ErrInvalidLayout, v.Name, f.Name)
		}
		seen[f.Name] = true

		if err := bitfield.CheckRange(f.Hi, f.Lo); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidLayout, v.Name, f.Name, err)
		}
		if !f.Mask {
			if f.Hi != f.Lo {
				return fmt.Errorf("%w: %s.%s: single-bit flag spans %d..%d", ErrInvalidLayout, v.Name, f.Name, f.Hi, f.Lo)
			}
			if bits&f.Value() != 0 {
				return fmt.Errorf("%w: %s.%s: bit %d declared twice", ErrInvalidLayout, v.Name, f.Name, f.Lo)
			}
			bits |= f.Value()
		}
	}

	for _, f := range v.Flags {
		if f.Mask && bits&f.Value() != f.Value() {
			missing := f.Value() &^ bits
			return fmt.Errorf("%w: %s.%s: bits %v have no single-bit flag", ErrInvalidLayout, v.Name, f.Name, bitfield.Positions(missing))
		}
	}
	return nil
}

// Bits returns the OR of every single-bit flag in the layout.
func (v *Variant) Bits() uint32 {
	var bits uint32
	for _, f := range v.Flags {
		if !f.Mask {
			bits |= f.Value()
		}
	}
	return bits
}

// XReg0 is the IOPAD REG0 layout: pin function, drive strength and pull
// resistor selection.
var XReg0 = &Variant{
	Name:        "xreg0",
	Macro:       "X_REG0",
	Trait:       "XReg0",
	Description: "IOPAD function, drive and pull configuration",
	Flags: []Flag{
		MaskFlag("PULL_MASK", 9, 8),
		MaskFlag("DRIVE_MASK", 7, 4),
		MaskFlag("FUNC_MASK", 2, 0),
		BitFlag("FUNC_BIT0", 0),
		BitFlag("FUNC_BIT1", 1),
		BitFlag("FUNC_BIT2", 2),
		BitFlag("DRIVE_BIT0", 4),
		BitFlag("DRIVE_BIT1", 5),
		BitFlag("DRIVE_BIT2", 6),
		BitFlag("DRIVE_BIT3", 7),
		BitFlag("PULL_BIT0", 8),
		BitFlag("PULL_BIT1", 9),
	},
}

// XReg1 is the IOPAD REG1 layout: output and input delay tuning, each with an
// enable bit, a 3-bit delicate field and a 3-bit rough field.
var XReg1 = &Variant{
	Name:        "xreg1",
	Macro:       "X_REG1",
	Trait:       "XReg1",
	Description: "IOPAD input/output delay configuration",
	Flags: []Flag{
		BitFlag("OUT_DELAY_EN", 8),
		MaskFlag("OUT_DELAY_DELICATE_MASK", 11, 9),
		BitFlag("OUT_DELAY_DELICATE_BIT0", 9),
		BitFlag("OUT_DELAY_DELICATE_BIT1", 10),
		BitFlag("OUT_DELAY_DELICATE_BIT2", 11),
		MaskFlag("OUT_DELAY_ROUGH_MASK", 14, 12),
		BitFlag("OUT_DELAY_ROUGH_BIT0", 12),
		BitFlag("OUT_DELAY_ROUGH_BIT1", 13),
		BitFlag("OUT_DELAY_ROUGH_BIT2", 14),
		BitFlag("IN_DELAY_EN", 0),
		MaskFlag("IN_DELAY_DELICATE_MASK", 3, 1),
		BitFlag("IN_DELAY_DELICATE_BIT0", 1),
		BitFlag("IN_DELAY_DELICATE_BIT1", 2),
		BitFlag("IN_DELAY_DELICATE_BIT2", 3),
		MaskFlag("IN_DELAY_ROUGH_MASK", 6, 4),
		BitFlag("IN_DELAY_ROUGH_BIT0", 4),
		BitFlag("IN_DELAY_ROUGH_BIT1", 5),
		BitFlag("IN_DELAY_ROUGH_BIT2", 6),
	},
}

// Registry holds the variants available to the generator.
type Registry struct {
	variants map[string]*Variant
}

// NewRegistry creates a registry containing the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]*Variant)}
	r.variants[XReg0.Name] = XReg0
	r.variants[XReg1.Name] = XReg1
	return r
}

// selectedBy reports whether key names v by its name or macro, ignoring case.
func (v *Variant) selectedBy(key string) bool {
	return strings.EqualFold(v.Name, key) || strings.EqualFold(v.Macro, key)
}

// Add validates v and registers it. Neither its name nor its macro may
// select an already registered variant, so Lookup stays unambiguous.
func (r *Registry) Add(v *Variant) error {
	if err := v.Validate(); err != nil {
		return err
	}
	for _, existing := range r.Variants() {
		if existing.selectedBy(v.Name) {
			return fmt.Errorf("%w: name %s already used by %s", ErrDuplicateVariant, v.Name, existing.Name)
		}
		if existing.selectedBy(v.Macro) {
			return fmt.Errorf("%w: macro %s already used by %s", ErrDuplicateVariant, v.Macro, existing.Name)
		}
	}
	r.variants[v.Name] = v
	return nil
}

// Lookup finds a variant by name or macro token, ignoring case.
func (r *Registry) Lookup(name string) (*Variant, error) {
	for _, v := range r.Variants() {
		if v.selectedBy(name) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
}

// Variants returns all registered variants sorted by name.
func (r *Registry) Variants() []*Variant {
	out := make([]*Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
