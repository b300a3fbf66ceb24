package intmask

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sampleResults = []Result{
	{Label: LabelCmdMask, Value: 0x1546},
	{Label: LabelDataMask, Value: 0x2288},
}

func TestEncode_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResults, FormatText))
	assert.Equal(t, "FSDIF_INTS_CMD_MASK: 0x1546\nFSDIF_INTS_DATA_MASK: 0x2288\n", buf.String())
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResults, FormatJSON))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "FSDIF_INTS_CMD_MASK", got[0]["label"])
	assert.Equal(t, float64(0x1546), got[0]["value"])
	assert.Equal(t, "0x1546", got[0]["hex"])
}

func TestEncode_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResults, FormatYAML))
	assert.Contains(t, buf.String(), "- label: FSDIF_INTS_DATA_MASK\n  value: 8840\n  hex: \"0x2288\"\n")

	var got []resultRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, records(sampleResults), got)
}

func TestEncode_CBOR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResults, FormatCBOR))

	var got []resultRecord
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, records(sampleResults), got)
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sampleResults, Format("xml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, "yml": FormatYAML, "cbor": FormatCBOR} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
