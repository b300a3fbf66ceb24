package intmask

import (
	"fmt"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
)

// DriverLiteral is a mask value hardcoded in a driver register definition
// together with the computed mask it is expected to match.
type DriverLiteral struct {
	Register string `yaml:"register"`
	Const    string `yaml:"const"`
	Value    uint32 `yaml:"value"`
	Label    string `yaml:"label"`
}

// Name returns "Register.Const".
func (l DriverLiteral) Name() string {
	return l.Register + "." + l.Const
}

// DriverLiterals are the precomputed masks written as hex literals in the
// FSDIF register definitions.
var DriverLiterals = []DriverLiteral{
	{Register: "MCIIntMask", Const: "INTS_CMD_MASK", Value: 0x1546, Label: LabelCmdMask},
	{Register: "MCIIntMask", Const: "INTS_DATA_MASK", Value: 0x2288, Label: LabelDataMask},
	{Register: "MCIMaskedInts", Const: "INTS_CMD_MASK", Value: 0x5446, Label: LabelCmdMask},
	{Register: "MCIMaskedInts", Const: "INTS_DATA_MASK", Value: 0x2288, Label: LabelDataMask},
	{Register: "MCIRawInts", Const: "INTS_CMD_MASK", Value: 0x1546, Label: LabelCmdMask},
	{Register: "MCIRawInts", Const: "INTS_DATA_MASK", Value: 0x2288, Label: LabelDataMask},
	{Register: "MCIRawInts", Const: "CMD_ERR_INTS_MASK", Value: 0x23c2, Label: LabelCmdErrMask},
	{Register: "MCIDMACStatus", Const: "DMAC_ERR_INTS_MASK", Value: 0x314, Label: LabelDMACMask},
	{Register: "MCIDMACIntEn", Const: "INTS_MASK", Value: 0x314, Label: LabelDMACMask},
}

// Mismatch reports a driver literal that differs from the computed mask.
type Mismatch struct {
	Literal DriverLiteral
	Want    uint32

	// Extra are bits set in the literal but not in the computed mask.
	Extra []uint

	// Missing are bits set in the computed mask but not in the literal.
	Missing []uint
}

func (m Mismatch) String() string {
	s := fmt.Sprintf("%s = %s, computed %s = %s", m.Literal.Name(), bitfield.Hex(m.Literal.Value), m.Literal.Label, bitfield.Hex(m.Want))
	if len(m.Extra) > 0 {
		s += fmt.Sprintf(" (extra bits %v)", m.Extra)
	}
	if len(m.Missing) > 0 {
		s += fmt.Sprintf(" (missing bits %v)", m.Missing)
	}
	return s
}

// Verify compares literals against computed results. Literals whose label
// was not computed are skipped and returned separately.
func Verify(results []Result, literals []DriverLiteral) (mismatches []Mismatch, unchecked []DriverLiteral) {
	computed := make(map[string]uint32, len(results))
	for _, r := range results {
		computed[r.Label] = r.Value
	}

	for _, lit := range literals {
		want, ok := computed[lit.Label]
		if !ok {
			unchecked = append(unchecked, lit)
			continue
		}
		if lit.Value == want {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			Literal: lit,
			Want:    want,
			Extra:   bitfield.Positions(lit.Value &^ want),
			Missing: bitfield.Positions(want &^ lit.Value),
		})
	}
	return mismatches, unchecked
}

// Verify runs every calculation and checks the calculator's literals.
func (c *Calculator) Verify() ([]Mismatch, []DriverLiteral, error) {
	results, err := c.Run(AllCalculations)
	if err != nil {
		return nil, nil, err
	}
	mismatches, unchecked := Verify(results, c.Literals)
	return mismatches, unchecked, nil
}
