// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apiinfo

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.yaml.in/yaml/v3"
)

// encodeAPIInfo builds the msgpack payload for a minimal API description:
// {"version": "0.9", "functions": [{"name": "nvim_get_mode", "since": 0}]}.
func encodeAPIInfo(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeMapLen(2))
	require.NoError(t, enc.EncodeString("version"))
	require.NoError(t, enc.EncodeString("0.9"))
	require.NoError(t, enc.EncodeString("functions"))
	require.NoError(t, enc.EncodeArrayLen(1))
	require.NoError(t, enc.EncodeMapLen(2))
	require.NoError(t, enc.EncodeString("name"))
	require.NoError(t, enc.EncodeString("nvim_get_mode"))
	require.NoError(t, enc.EncodeString("since"))
	require.NoError(t, enc.EncodeInt(0))
	return buf.Bytes()
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(encodeAPIInfo(t))
	require.NoError(t, err)

	require.Equal(t, KindMap, doc.Kind)
	require.Len(t, doc.Entries, 2)

	assert.Equal(t, "version", doc.Entries[0].Key.Str)
	assert.Equal(t, "0.9", doc.Entries[0].Value.Str)

	assert.Equal(t, "functions", doc.Entries[1].Key.Str)
	functions := doc.Entries[1].Value
	require.Equal(t, KindArray, functions.Kind)
	require.Len(t, functions.Items, 1)

	fn := functions.Items[0]
	require.Equal(t, KindMap, fn.Kind)
	require.Len(t, fn.Entries, 2)
	assert.Equal(t, "nvim_get_mode", fn.Entries[0].Value.Str)
	assert.Equal(t, int64(0), fn.Entries[1].Value.Int)
}

func TestDecodeDocument_Scalars(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeArrayLen(6))
	require.NoError(t, enc.EncodeNil())
	require.NoError(t, enc.EncodeBool(true))
	require.NoError(t, enc.EncodeInt(-7))
	require.NoError(t, enc.EncodeUint(math.MaxUint64))
	require.NoError(t, enc.EncodeFloat64(1.5))
	require.NoError(t, enc.EncodeBytes([]byte{0x01, 0x02}))

	doc, err := DecodeDocument(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, KindArray, doc.Kind)
	require.Len(t, doc.Items, 6)

	assert.Equal(t, KindNil, doc.Items[0].Kind)
	assert.True(t, doc.Items[1].Bool)
	assert.Equal(t, int64(-7), doc.Items[2].Int)
	assert.Equal(t, uint64(math.MaxUint64), doc.Items[3].Uint)
	assert.Equal(t, 1.5, doc.Items[4].Float)
	assert.Equal(t, []byte{0x01, 0x02}, doc.Items[5].Bytes)
}

func TestDecodeDocument_PreservesKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	require.NoError(t, enc.EncodeMapLen(3))
	for _, key := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, enc.EncodeString(key))
		require.NoError(t, enc.EncodeInt(1))
	}

	doc, err := DecodeDocument(buf.Bytes())
	require.NoError(t, err)

	keys := make([]string, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		keys = append(keys, entry.Key.Str)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)
}

func TestDecodeDocument_Ext(t *testing.T) {
	// fixext1, type 0 (Buffer), payload 0x2a.
	doc, err := DecodeDocument([]byte{0xd4, 0x00, 0x2a})
	require.NoError(t, err)
	assert.Equal(t, KindExt, doc.Kind)
	assert.Equal(t, int8(0), doc.Ext.Type)
	assert.Equal(t, []byte{0x2a}, doc.Ext.Data)
}

func TestDecodeDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "reserved code", data: []byte{0xc1}},
		{name: "truncated map", data: encodeAPIInfo(t)[:5]},
		{name: "truncated string", data: []byte{0xa5, 'a', 'b'}},
		{name: "array length overruns input", data: []byte{0xdd, 0xff, 0xff, 0xff, 0xff}},
		{name: "map length overruns input", data: []byte{0xdf, 0xff, 0xff, 0xff, 0xff}},
		{name: "ext length overruns input", data: []byte{0xc9, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	doc, err := DecodeDocument(encodeAPIInfo(t))
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, map[string]any{
		"version": "0.9",
		"functions": []any{
			map[string]any{"name": "nvim_get_mode", "since": 0},
		},
	}, parsed)
}

func TestDocument_YAMLDeterministic(t *testing.T) {
	payload := encodeAPIInfo(t)

	first, err := DecodeDocument(payload)
	require.NoError(t, err)
	second, err := DecodeDocument(payload)
	require.NoError(t, err)

	a, err := yaml.Marshal(first)
	require.NoError(t, err)
	b, err := yaml.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDocument_YAMLStringVersionStaysString(t *testing.T) {
	doc, err := DecodeDocument(encodeAPIInfo(t))
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	// "0.9" must stay a string, not turn into a float.
	assert.True(t, strings.Contains(string(out), `"0.9"`), "output:\n%s", out)
}

func TestDocument_YAMLRejectsContainerKeys(t *testing.T) {
	doc := Document{
		Kind: KindMap,
		Entries: []MapEntry{{
			Key:   Document{Kind: KindArray},
			Value: Document{Kind: KindNil},
		}},
	}
	_, err := yaml.Marshal(doc)
	assert.Error(t, err)
}

func TestDocument_YAMLBinaryKey(t *testing.T) {
	doc := Document{
		Kind: KindMap,
		Entries: []MapEntry{{
			Key:   Document{Kind: KindBinary, Bytes: []byte{0x01}},
			Value: Document{Kind: KindBool, Bool: true},
		}},
	}
	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "!!binary")
}

func TestDocument_YAMLExt(t *testing.T) {
	doc, err := DecodeDocument([]byte{0xd4, 0x01, 0x07})
	require.NoError(t, err)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	assert.Equal(t, 1, parsed["ext_type"])
}
