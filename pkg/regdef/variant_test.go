package regdef

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinVariantsValid(t *testing.T) {
	for _, v := range []*Variant{XReg0, XReg1} {
		t.Run(v.Name, func(t *testing.T) {
			assert.NoError(t, v.Validate())
		})
	}
}

func TestXReg0Layout(t *testing.T) {
	require.Len(t, XReg0.Flags, 12)

	want := map[string]uint32{
		"PULL_MASK":  0x300,
		"DRIVE_MASK": 0xf0,
		"FUNC_MASK":  0x7,
		"FUNC_BIT0":  1 << 0,
		"FUNC_BIT1":  1 << 1,
		"FUNC_BIT2":  1 << 2,
		"DRIVE_BIT0": 1 << 4,
		"DRIVE_BIT1": 1 << 5,
		"DRIVE_BIT2": 1 << 6,
		"DRIVE_BIT3": 1 << 7,
		"PULL_BIT0":  1 << 8,
		"PULL_BIT1":  1 << 9,
	}
	for _, f := range XReg0.Flags {
		assert.Equal(t, want[f.Name], f.Value(), f.Name)
	}
	assert.Equal(t, uint32(0x3f7), XReg0.Bits(), "bits 0-9 except 3")
}

func TestXReg1Layout(t *testing.T) {
	require.Len(t, XReg1.Flags, 18)

	var masks, bits int
	for _, f := range XReg1.Flags {
		if f.Mask {
			masks++
		} else {
			bits++
		}
	}
	assert.Equal(t, 4, masks)
	assert.Equal(t, 14, bits)
	assert.Equal(t, uint32(0x7fff)&^(1<<7), XReg1.Bits(), "bits 0-14 except 7")

	byName := make(map[string]Flag)
	for _, f := range XReg1.Flags {
		byName[f.Name] = f
	}
	assert.Equal(t, uint32(0x100), byName["OUT_DELAY_EN"].Value())
	assert.Equal(t, uint32(0xe00), byName["OUT_DELAY_DELICATE_MASK"].Value())
	assert.Equal(t, uint32(0x7000), byName["OUT_DELAY_ROUGH_MASK"].Value())
	assert.Equal(t, uint32(0x1), byName["IN_DELAY_EN"].Value())
	assert.Equal(t, uint32(0xe), byName["IN_DELAY_DELICATE_MASK"].Value())
	assert.Equal(t, uint32(0x70), byName["IN_DELAY_ROUGH_MASK"].Value())
}

func TestFlagExpr(t *testing.T) {
	assert.Equal(t, "genmask!(9, 8)", MaskFlag("PULL_MASK", 9, 8).Expr())
	assert.Equal(t, "1 << 8", BitFlag("PULL_BIT0", 8).Expr())
	assert.Equal(t, "1 << 0", BitFlag("FUNC_BIT0", 0).Expr())
}

func TestVariantValidate_Errors(t *testing.T) {
	base := func() *Variant {
		return &Variant{
			Name:  "test",
			Macro: "X_TEST",
			Trait: "XTest",
			Flags: []Flag{
				MaskFlag("MODE_MASK", 1, 0),
				BitFlag("MODE_BIT0", 0),
				BitFlag("MODE_BIT1", 1),
			},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name    string
		mutate  func(v *Variant)
		wantMsg string
	}{
		{"empty name", func(v *Variant) { v.Name = "" }, "name is empty"},
		{"bad macro", func(v *Variant) { v.Macro = "X-TEST" }, "invalid macro"},
		{"bad trait", func(v *Variant) { v.Trait = "" }, "invalid trait"},
		{"no flags", func(v *Variant) { v.Flags = nil }, "no flags"},
		{"bad flag name", func(v *Variant) { v.Flags[1].Name = "1BIT" }, "invalid flag name"},
		{"duplicate flag", func(v *Variant) { v.Flags[2].Name = "MODE_BIT0" }, "duplicate flag"},
		{"out of range", func(v *Variant) { v.Flags = append(v.Flags, BitFlag("HIGH", 32)) }, "exceeds 31"},
		{"inverted mask", func(v *Variant) { v.Flags[0] = MaskFlag("MODE_MASK", 0, 1) }, "above high bit"},
		{"bit declared twice", func(v *Variant) { v.Flags = append(v.Flags, BitFlag("ALIAS", 1)) }, "declared twice"},
		{"uncovered mask", func(v *Variant) { v.Flags[0] = MaskFlag("MODE_MASK", 2, 0) }, "bits [2] have no single-bit flag"},
		{"wide bit flag", func(v *Variant) { v.Flags[1] = Flag{Name: "MODE_BIT0", Hi: 1, Lo: 0} }, "single-bit flag spans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base()
			tt.mutate(v)
			err := v.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLayout))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	v, err := r.Lookup("xreg0")
	require.NoError(t, err)
	assert.Same(t, XReg0, v)

	v, err = r.Lookup("X_REG1")
	require.NoError(t, err)
	assert.Same(t, XReg1, v)

	v, err = r.Lookup("XREG1")
	require.NoError(t, err)
	assert.Same(t, XReg1, v)

	_, err = r.Lookup("xreg9")
	assert.True(t, errors.Is(err, ErrUnknownVariant))

	names := []string{}
	for _, v := range r.Variants() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"xreg0", "xreg1"}, names)
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := NewRegistry()

	dupName := &Variant{Name: "XREG0", Macro: "X_OTHER", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}}
	err := r.Add(dupName)
	assert.True(t, errors.Is(err, ErrDuplicateVariant))

	dupMacro := &Variant{Name: "other", Macro: "X_REG1", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}}
	err = r.Add(dupMacro)
	assert.True(t, errors.Is(err, ErrDuplicateVariant))
	assert.Contains(t, err.Error(), "already used by xreg1")

	// Names and macros share one case-insensitive namespace.
	crossed := []*Variant{
		{Name: "X_REG1", Macro: "FOO", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}},
		{Name: "other", Macro: "x_reg0", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}},
		{Name: "other", Macro: "XREG1", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}},
	}
	for _, v := range crossed {
		err := r.Add(v)
		assert.True(t, errors.Is(err, ErrDuplicateVariant), "%s/%s: err = %v", v.Name, v.Macro, err)
	}
	assert.Len(t, r.Variants(), 2)

	ok := &Variant{Name: "other", Macro: "X_OTHER", Trait: "XOther", Flags: []Flag{BitFlag("EN", 0)}}
	require.NoError(t, r.Add(ok))
	assert.Len(t, r.Variants(), 3)

	for i := 0; i < 50; i++ {
		v, err := r.Lookup("X_REG1")
		require.NoError(t, err)
		require.Equal(t, "xreg1", v.Name)
	}
}
