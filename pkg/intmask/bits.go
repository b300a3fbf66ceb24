package intmask

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
)

// Interrupt status bits (RINTSTS / INTMASK / MINTSTS).
const (
	IntCD     uint32 = 1 << 0  // Card detect
	IntRE     uint32 = 1 << 1  // Response error
	IntCMD    uint32 = 1 << 2  // Command done
	IntDTO    uint32 = 1 << 3  // Data transfer over
	IntTXDR   uint32 = 1 << 4  // Transmit FIFO data request
	IntRXDR   uint32 = 1 << 5  // Receive FIFO data request
	IntRCRC   uint32 = 1 << 6  // Response CRC error
	IntDCRC   uint32 = 1 << 7  // Data CRC error
	IntRTO    uint32 = 1 << 8  // Response timeout
	IntDRTO   uint32 = 1 << 9  // Data read timeout
	IntHTO    uint32 = 1 << 10 // Data starvation-by-host timeout
	IntFRUN   uint32 = 1 << 11 // FIFO underrun/overrun
	IntHLE    uint32 = 1 << 12 // Hardware locked write error
	IntSBEBCI uint32 = 1 << 13 // Start-bit error / busy clear
	IntACD    uint32 = 1 << 14 // Auto command done
	IntEBE    uint32 = 1 << 15 // End-bit error (read) / write no CRC
	IntSDIO   uint32 = 1 << 16 // SDIO interrupt
)

// DMA controller interrupt-enable bits.
const (
	DMACIntTI  uint32 = 1 << 0 // Transmit complete
	DMACIntRI  uint32 = 1 << 1 // Receive complete
	DMACIntFBE uint32 = 1 << 2 // Fatal bus error
	DMACIntDU  uint32 = 1 << 4 // Descriptor unavailable
	DMACIntCES uint32 = 1 << 5 // Card error summary
	DMACIntNIS uint32 = 1 << 8 // Normal interrupt summary
	DMACIntAIS uint32 = 1 << 9 // Abnormal interrupt summary
)

// Table errors.
var (
	ErrUnknownBit   = errors.New("unknown bit constant")
	ErrDuplicateBit = errors.New("duplicate bit constant")
)

// Table maps constant names to their values.
type Table map[string]uint32

// DefaultTable returns the FSDIF interrupt and DMAC interrupt-enable bits
// under their register-map names.
func DefaultTable() Table {
	return Table{
		"FSDIF_INT_CD_BIT":      IntCD,
		"FSDIF_INT_RE_BIT":      IntRE,
		"FSDIF_INT_CMD_BIT":     IntCMD,
		"FSDIF_INT_DTO_BIT":     IntDTO,
		"FSDIF_INT_TXDR_BIT":    IntTXDR,
		"FSDIF_INT_RXDR_BIT":    IntRXDR,
		"FSDIF_INT_RCRC_BIT":    IntRCRC,
		"FSDIF_INT_DCRC_BIT":    IntDCRC,
		"FSDIF_INT_RTO_BIT":     IntRTO,
		"FSDIF_INT_DRTO_BIT":    IntDRTO,
		"FSDIF_INT_HTO_BIT":     IntHTO,
		"FSDIF_INT_FRUN_BIT":    IntFRUN,
		"FSDIF_INT_HLE_BIT":     IntHLE,
		"FSDIF_INT_SBE_BCI_BIT": IntSBEBCI,
		"FSDIF_INT_ACD_BIT":     IntACD,
		"FSDIF_INT_EBE_BIT":     IntEBE,
		"FSDIF_INT_SDIO_BIT":    IntSDIO,

		"FSDIF_DMAC_INT_ENA_TI":  DMACIntTI,
		"FSDIF_DMAC_INT_ENA_RI":  DMACIntRI,
		"FSDIF_DMAC_INT_ENA_FBE": DMACIntFBE,
		"FSDIF_DMAC_INT_ENA_DU":  DMACIntDU,
		"FSDIF_DMAC_INT_ENA_CES": DMACIntCES,
		"FSDIF_DMAC_INT_ENA_NIS": DMACIntNIS,
		"FSDIF_DMAC_INT_ENA_AIS": DMACIntAIS,
	}
}

// Define adds a constant at bit position pos.
func (t Table) Define(name string, pos uint) error {
	if err := bitfield.CheckRange(pos, pos); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if _, ok := t[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBit, name)
	}
	t[name] = bitfield.Bit(pos)
	return nil
}

// Names returns the constant names sorted by value, then name.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if t[names[i]] != t[names[j]] {
			return t[names[i]] < t[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Fold ORs the members of m together.
func (t Table) Fold(m Mask) (Result, error) {
	var v uint32
	for _, name := range m.Members {
		bit, ok := t[name]
		if !ok {
			return Result{}, fmt.Errorf("%s: %w: %s", m.Label, ErrUnknownBit, name)
		}
		v |= bit
	}
	return Result{Label: m.Label, Value: v}, nil
}
