// Package intmask folds named FSDIF interrupt bits into aggregate masks.
//
// The SD/MMC host driver enables and clears interrupts through precomputed
// masks such as FSDIF_INTS_CMD_MASK. This package derives those masks from
// the individual bit constants so they can be compared against the register
// documentation and the hex literals written into the driver:
//
//	calc := intmask.NewCalculator()
//	results, _ := calc.Run("int-mask")
//	// FSDIF_INTS_CMD_MASK: 0x1546
//	// FSDIF_INTS_DATA_MASK: 0x2288
//
// [Calculator.Verify] reports every driver literal that disagrees with its
// computed mask, including which bits differ.
package intmask
