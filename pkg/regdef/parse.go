package regdef

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedInvocation is returned for lines that are not MACRO!(NAME, ADDR);.
var ErrMalformedInvocation = errors.New("malformed macro invocation")

// Invocation is one parsed macro call.
type Invocation struct {
	Macro string
	Name  string
	Addr  string

	// Line is the 1-based input line, zero when parsed standalone.
	Line int
}

// LineError reports a malformed input line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parser matches invocation lines for a single macro.
type Parser struct {
	macro string
	re    *regexp.Regexp
}

// word matches a Unicode word: letters, digits and underscore.
const word = `[\p{L}\p{N}_]+`

// NewParser creates a parser for the variant's macro token.
// The match ends at the terminal ';'; anything after it is ignored.
func NewParser(v *Variant) *Parser {
	// Groups: 1=Name, 2=Addr
	pattern := `^` + regexp.QuoteMeta(v.Macro) + `!\((` + word + `),\s*(` + word + `)\);`
	return &Parser{
		macro: v.Macro,
		re:    regexp.MustCompile(pattern),
	}
}

// Parse extracts the register name and address from a single line.
func (p *Parser) Parse(line string) (Invocation, error) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Invocation{}, fmt.Errorf("%w: expected %s!(NAME, ADDR);", ErrMalformedInvocation, p.macro)
	}
	return Invocation{
		Macro: p.macro,
		Name:  m[1],
		Addr:  m[2],
	}, nil
}
