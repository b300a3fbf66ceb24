package intmask

import (
	"errors"
	"fmt"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
)

// ErrUnknownCalculation is returned when a calculation name is not registered.
var ErrUnknownCalculation = errors.New("unknown calculation")

// Mask is an aggregate of named bit constants.
type Mask struct {
	Label   string   `yaml:"label"`
	Members []string `yaml:"members"`
}

// Result is a folded mask value.
type Result struct {
	Label string
	Value uint32
}

// Hex returns the value as 0x-prefixed lowercase hex.
func (r Result) Hex() string {
	return bitfield.Hex(r.Value)
}

// String returns "<LABEL>: <hex>".
func (r Result) String() string {
	return r.Label + ": " + r.Hex()
}

// Calculation is a named group of masks computed and printed together.
type Calculation struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Masks       []Mask `yaml:"masks"`
}

// Run folds every mask of the calculation in order.
func (c Calculation) Run(t Table) ([]Result, error) {
	results := make([]Result, 0, len(c.Masks))
	for _, m := range c.Masks {
		r, err := t.Fold(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Built-in mask labels.
const (
	LabelCmdMask    = "FSDIF_INTS_CMD_MASK"
	LabelDataMask   = "FSDIF_INTS_DATA_MASK"
	LabelDMACMask   = "FSDIF_DMAC_INTS_MASK"
	LabelCmdErrMask = "FSDIF_CMD_ERR_INTS_MASK"
)

// Calculation selectors.
const (
	DefaultCalcName = "int-mask"
	AllCalculations = "all"
)

// IntMask computes the command and data interrupt masks.
var IntMask = Calculation{
	Name:        DefaultCalcName,
	Description: "command and data interrupt masks",
	Masks: []Mask{
		{
			Label: LabelCmdMask,
			Members: []string{
				"FSDIF_INT_RE_BIT", "FSDIF_INT_CMD_BIT", "FSDIF_INT_RCRC_BIT",
				"FSDIF_INT_RTO_BIT", "FSDIF_INT_HTO_BIT", "FSDIF_INT_HLE_BIT",
			},
		},
		{
			Label: LabelDataMask,
			Members: []string{
				"FSDIF_INT_DTO_BIT", "FSDIF_INT_DCRC_BIT", "FSDIF_INT_DRTO_BIT",
				"FSDIF_INT_SBE_BCI_BIT",
			},
		},
	},
}

// DMACIntEna computes the DMA controller interrupt-enable mask.
var DMACIntEna = Calculation{
	Name:        "dmac-int-ena",
	Description: "DMA controller interrupt-enable mask",
	Masks: []Mask{
		{
			Label: LabelDMACMask,
			Members: []string{
				"FSDIF_DMAC_INT_ENA_FBE", "FSDIF_DMAC_INT_ENA_DU",
				"FSDIF_DMAC_INT_ENA_NIS", "FSDIF_DMAC_INT_ENA_AIS",
			},
		},
	},
}

// CmdErr computes the command error mask checked against raw interrupt status.
var CmdErr = Calculation{
	Name:        "cmd-err",
	Description: "command error interrupt mask",
	Masks: []Mask{
		{
			Label: LabelCmdErrMask,
			Members: []string{
				"FSDIF_INT_RTO_BIT", "FSDIF_INT_RCRC_BIT", "FSDIF_INT_RE_BIT",
				"FSDIF_INT_DCRC_BIT", "FSDIF_INT_DRTO_BIT", "FSDIF_INT_SBE_BCI_BIT",
			},
		},
	},
}

// Calculator holds the bit table, the calculations that can be run and the
// driver literals they are checked against.
type Calculator struct {
	Table        Table
	Calculations []Calculation

	// Literals are checked by Verify.
	Literals []DriverLiteral
}

// NewCalculator creates a calculator with the built-in table and calculations.
func NewCalculator() *Calculator {
	return &Calculator{
		Table:        DefaultTable(),
		Calculations: []Calculation{IntMask, DMACIntEna, CmdErr},
		Literals:     append([]DriverLiteral(nil), DriverLiterals...),
	}
}

// Lookup returns the calculation with the given name.
func (c *Calculator) Lookup(name string) (Calculation, error) {
	for _, calc := range c.Calculations {
		if calc.Name == name {
			return calc, nil
		}
	}
	return Calculation{}, fmt.Errorf("%w: %s", ErrUnknownCalculation, name)
}

// Run executes the named calculations in order. "all" selects every
// calculation; no names selects the default int-mask calculation.
func (c *Calculator) Run(names ...string) ([]Result, error) {
	if len(names) == 0 {
		names = []string{DefaultCalcName}
	}

	var selected []Calculation
	for _, name := range names {
		if name == AllCalculations {
			selected = append(selected, c.Calculations...)
			continue
		}
		calc, err := c.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, calc)
	}

	var results []Result
	for _, calc := range selected {
		r, err := calc.Run(c.Table)
		if err != nil {
			return nil, err
		}
		results = append(results, r...)
	}
	return results, nil
}
