package regdef

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		variant  *Variant
		line     string
		wantName string
		wantAddr string
	}{
		{"hex address", XReg0, "X_REG0!(GpioPinA, 0x0300);", "GpioPinA", "0x0300"},
		{"symbolic address", XReg0, "X_REG0!(An59Reg0, FIOPAD_AN59_REG0_OFFSET);", "An59Reg0", "FIOPAD_AN59_REG0_OFFSET"},
		{"no space after comma", XReg0, "X_REG0!(Aw47Reg0,0x0304);", "Aw47Reg0", "0x0304"},
		{"extra spaces after comma", XReg1, "X_REG1!(GpioDelay3,    0x40);", "GpioDelay3", "0x40"},
		{"trailing newline", XReg1, "X_REG1!(J53Reg1, 64);\r\n", "J53Reg1", "64"},
		{"case preserved", XReg1, "X_REG1!(lower_case_reg, abc);", "lower_case_reg", "abc"},
		{"trailing comment", XReg0, "X_REG0!(GpioPinA, 0x0300); // pad A", "GpioPinA", "0x0300"},
		{"trailing invocation", XReg0, "X_REG0!(GpioPinA, 0x0300);X_REG0!(GpioPinB, 0x0304);", "GpioPinA", "0x0300"},
		{"unicode name", XReg0, "X_REG0!(Régistre, ADRESSE_É);", "Régistre", "ADRESSE_É"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := NewParser(tt.variant).Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.variant.Macro, inv.Macro)
			assert.Equal(t, tt.wantName, inv.Name)
			assert.Equal(t, tt.wantAddr, inv.Addr)
		})
	}
}

func TestParser_ParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing comma", "X_REG0!(GpioPinA 0x0300)"},
		{"missing semicolon", "X_REG0!(GpioPinA, 0x0300)"},
		{"wrong macro", "X_REG1!(GpioPinA, 0x0300);"},
		{"leading whitespace", "  X_REG0!(GpioPinA, 0x0300);"},
		{"space before paren", "X_REG0! (GpioPinA, 0x0300);"},
		{"space before comma", "X_REG0!(GpioPinA , 0x0300);"},
		{"expression address", "X_REG0!(GpioPinA, 0x03 + 4);"},
		{"punctuation in name", "X_REG0!(Gpio-PinA, 0x0300);"},
		{"three arguments", "X_REG0!(GpioPinA, 0x0300, 1);"},
		{"macro prefix only", "X_REG00!(GpioPinA, 0x0300);"},
		{"empty", ""},
	}

	parser := NewParser(XReg0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInvocation), "err = %v", err)
			assert.Contains(t, err.Error(), "X_REG0!(NAME, ADDR);")
		})
	}
}

func TestLineError(t *testing.T) {
	err := &LineError{Line: 7, Text: "bogus", Err: ErrMalformedInvocation}

	assert.Equal(t, `line 7: malformed macro invocation: "bogus"`, err.Error())
	assert.True(t, errors.Is(err, ErrMalformedInvocation))

	var lineErr *LineError
	wrapped := errors.Join(errors.New("other"), err)
	require.True(t, errors.As(wrapped, &lineErr))
	assert.Equal(t, 7, lineErr.Line)
}
