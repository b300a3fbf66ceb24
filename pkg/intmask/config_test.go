package intmask

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_LoadFile(t *testing.T) {
	calc := NewCalculator()
	require.NoError(t, calc.LoadFile("../../testdata/intmask/card.yaml"))

	assert.Equal(t, uint32(1<<20), calc.Table["FSDIF_INT_CARD_VDD_BIT"])

	results, err := calc.Run("card")
	require.NoError(t, err)
	assert.Equal(t, []Result{{Label: "FSDIF_INTS_CARD_MASK", Value: 0x110001}}, results)

	mismatches, unchecked, err := calc.Verify()
	require.NoError(t, err)
	assert.Empty(t, unchecked)
	assert.Len(t, mismatches, 1, "card literal matches, masked-status literal does not")
}

func TestCalculator_ApplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"invalid yaml", "bits: [", "parsing mask config"},
		{"missing name", "calculations:\n  - masks: [{label: X, members: []}]\n", "calculation 0 missing name"},
		{"no masks", "calculations:\n  - name: empty\n", "calculation empty has no masks"},
		{"duplicate bit", "bits:\n  FSDIF_INT_RE_BIT: 1\n", "duplicate bit constant"},
		{"unknown member", "calculations:\n  - name: x\n    masks: [{label: X, members: [NOPE]}]\n", "unknown bit constant: NOPE"},
		{"duplicate calculation", "calculations:\n  - name: int-mask\n    masks: [{label: X, members: []}]\n", "duplicate calculation int-mask"},
		{"reserved name", "calculations:\n  - name: all\n    masks: [{label: X, members: []}]\n", "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data))
			if err == nil {
				err = NewCalculator().Apply(cfg)
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCalculator_LoadFileMissing(t *testing.T) {
	err := NewCalculator().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
