package intmask

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat parses an output format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// cborEncMode encodes results deterministically so identical inputs give
// identical bytes.
var cborEncMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	cborEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}
}

// resultRecord is the structured form of a Result.
type resultRecord struct {
	Label string `json:"label" yaml:"label" cbor:"1,keyasint"`
	Value uint32 `json:"value" yaml:"value" cbor:"2,keyasint"`
	Hex   string `json:"hex" yaml:"hex" cbor:"3,keyasint"`
}

func records(results []Result) []resultRecord {
	out := make([]resultRecord, 0, len(results))
	for _, r := range results {
		out = append(out, resultRecord{Label: r.Label, Value: r.Value, Hex: r.Hex()})
	}
	return out
}

// Encode writes results to w. Text output is one "<LABEL>: <hex>" line per result.
func Encode(w io.Writer, results []Result, format Format) error {
	switch format {
	case FormatText, "":
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r.String()); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		data, err := json.MarshalIndent(records(results), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records(results)); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case FormatCBOR:
		data, err := cborEncMode.Marshal(records(results))
		if err != nil {
			return fmt.Errorf("encoding CBOR: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
