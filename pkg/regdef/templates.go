package regdef

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/fsdif/fsdif-tools/pkg/bitfield"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"goConstName": goConstName,
	"hex":         bitfield.Hex,
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	rustRegisterTmpl +
		goHeaderTmpl +
		goRegisterTmpl,
))

// registerData is the input to the register templates.
type registerData struct {
	Name  string
	Addr  string
	Macro string
	Trait string
	Flags []Flag
}

// goFileData is the input to the Go file header.
type goFileData struct {
	Package string
	Macro   string
}

func newRegisterData(v *Variant, name, addr string) registerData {
	return registerData{
		Name:  name,
		Addr:  addr,
		Macro: v.Macro,
		Trait: v.Trait,
		Flags: v.Flags,
	}
}

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) error {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}
	return nil
}

// goConstName converts "OUT_DELAY_EN" to "OutDelayEn".
func goConstName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(name), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// --- Template definitions ---

const rustRegisterTmpl = `{{define "rustRegister" -}}
bitflags! {
    struct {{.Name}}: u32 {
{{- range .Flags}}
        const {{.Name}} = {{.Expr}};
{{- end}}
    }
}

impl FlagReg for {{.Name}} {
    const REG: u32 = {{.Addr}};
}

impl From<u32> for {{.Name}} {
    fn from(x: u32) -> Self {
        Self::from_bits_truncate(x)
    }
}

impl Into<u32> for {{.Name}} {
    fn into(self) -> u32 {
        self.bits()
    }
}

impl {{.Trait}} for {{.Name}} {

}

{{end}}`

const goHeaderTmpl = `{{define "goHeader" -}}
// Code generated by fsdif-regtool from {{.Macro}} invocations. DO NOT EDIT.

package {{.Package}}
{{end}}`

const goRegisterTmpl = `{{define "goRegister"}}
// {{.Name}} is a {{.Macro}} register.
type {{.Name}} uint32

// {{.Name}}Reg is the {{.Name}} register offset.
const {{.Name}}Reg = {{.Addr}}

// {{.Name}} flags.
const (
{{- range .Flags}}
	{{$.Name}}{{goConstName .Name}} {{$.Name}} = {{hex .Value}}
{{- end}}
)
{{end}}`
