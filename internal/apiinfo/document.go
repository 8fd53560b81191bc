// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apiinfo decodes the MessagePack API description emitted by
// `nvim --api-info`. It provides two views of the payload: a generic
// order-preserving Document tree for lossless conversion to YAML, and a
// typed Root model for inspection, snapshots, and code generation.
package apiinfo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"go.yaml.in/yaml/v3"
)

// Kind identifies the shape of a Document node.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt
)

// Document is a generic MessagePack value. Unlike a Go map, it preserves
// the order of mapping keys as they appeared on the wire, so re-encoding
// the same payload always produces identical output.
type Document struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Uint    uint64
	Float   float64
	Str     string
	Bytes   []byte
	Items   []Document
	Entries []MapEntry
	Ext     ExtValue
}

// MapEntry is one key/value pair of a mapping node.
type MapEntry struct {
	Key   Document
	Value Document
}

// ExtValue holds a MessagePack extension value verbatim. Neovim uses
// extension types for Buffer, Window, and Tabpage handles.
type ExtValue struct {
	Type int8
	Data []byte
}

// preallocLimit caps slice preallocation from wire length headers. The
// headers are untrusted: a bogus length must fail at the read, not by
// exhausting memory at the allocation.
const preallocLimit = 4096

// DecodeDocument decodes a single MessagePack value from data.
func DecodeDocument(data []byte) (Document, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	doc, err := decodeValue(dec)
	if err != nil {
		return Document{}, fmt.Errorf("decoding msgpack: %w", err)
	}
	return doc, nil
}

func decodeValue(d *msgpack.Decoder) (Document, error) {
	c, err := d.PeekCode()
	if err != nil {
		return Document{}, err
	}

	switch {
	case c == msgpcode.Nil:
		return Document{Kind: KindNil}, d.DecodeNil()

	case c == msgpcode.True || c == msgpcode.False:
		b, err := d.DecodeBool()
		return Document{Kind: KindBool, Bool: b}, err

	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64,
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32:
		n, err := d.DecodeInt64()
		return Document{Kind: KindInt, Int: n}, err

	case c == msgpcode.Uint64:
		n, err := d.DecodeUint64()
		return Document{Kind: KindUint, Uint: n}, err

	case c == msgpcode.Float:
		f, err := d.DecodeFloat32()
		return Document{Kind: KindFloat, Float: float64(f)}, err

	case c == msgpcode.Double:
		f, err := d.DecodeFloat64()
		return Document{Kind: KindFloat, Float: f}, err

	case msgpcode.IsFixedString(c), c == msgpcode.Str8, c == msgpcode.Str16, c == msgpcode.Str32:
		s, err := d.DecodeString()
		return Document{Kind: KindString, Str: s}, err

	case c == msgpcode.Bin8, c == msgpcode.Bin16, c == msgpcode.Bin32:
		b, err := d.DecodeBytes()
		return Document{Kind: KindBinary, Bytes: b}, err

	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := d.DecodeArrayLen()
		if err != nil {
			return Document{}, err
		}
		items := make([]Document, 0, min(n, preallocLimit))
		for i := 0; i < n; i++ {
			item, err := decodeValue(d)
			if err != nil {
				return Document{}, err
			}
			items = append(items, item)
		}
		return Document{Kind: KindArray, Items: items}, nil

	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := d.DecodeMapLen()
		if err != nil {
			return Document{}, err
		}
		entries := make([]MapEntry, 0, min(n, preallocLimit))
		for i := 0; i < n; i++ {
			key, err := decodeValue(d)
			if err != nil {
				return Document{}, err
			}
			value, err := decodeValue(d)
			if err != nil {
				return Document{}, err
			}
			entries = append(entries, MapEntry{Key: key, Value: value})
		}
		return Document{Kind: KindMap, Entries: entries}, nil

	case isExtCode(c):
		id, n, err := d.DecodeExtHeader()
		if err != nil {
			return Document{}, err
		}
		data := make([]byte, 0, min(n, preallocLimit))
		for read := 0; read < n; {
			chunk := make([]byte, min(n-read, preallocLimit))
			if err := d.ReadFull(chunk); err != nil {
				return Document{}, err
			}
			data = append(data, chunk...)
			read += len(chunk)
		}
		return Document{Kind: KindExt, Ext: ExtValue{Type: id, Data: data}}, nil
	}

	return Document{}, fmt.Errorf("unexpected msgpack code %#x", c)
}

func isExtCode(c byte) bool {
	if c >= msgpcode.FixExt1 && c <= msgpcode.FixExt16 {
		return true
	}
	return c == msgpcode.Ext8 || c == msgpcode.Ext16 || c == msgpcode.Ext32
}

// MarshalYAML renders the document as a yaml.Node tree, keeping mapping
// keys in wire order.
func (d Document) MarshalYAML() (any, error) {
	return d.yamlNode()
}

func (d Document) yamlNode() (*yaml.Node, error) {
	switch d.Kind {
	case KindNil:
		return scalarNode("!!null", "null"), nil
	case KindBool:
		return scalarNode("!!bool", strconv.FormatBool(d.Bool)), nil
	case KindInt:
		return scalarNode("!!int", strconv.FormatInt(d.Int, 10)), nil
	case KindUint:
		return scalarNode("!!int", strconv.FormatUint(d.Uint, 10)), nil
	case KindFloat:
		return scalarNode("!!float", formatFloat(d.Float)), nil
	case KindString:
		return scalarNode("!!str", d.Str), nil
	case KindBinary:
		return scalarNode("!!binary", base64.StdEncoding.EncodeToString(d.Bytes)), nil

	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range d.Items {
			child, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil

	case KindMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range d.Entries {
			if !entry.Key.isScalar() {
				return nil, fmt.Errorf("mapping key of kind %d cannot be represented in YAML", entry.Key.Kind)
			}
			key, err := entry.Key.yamlNode()
			if err != nil {
				return nil, err
			}
			value, err := entry.Value.yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, value)
		}
		return node, nil

	case KindExt:
		// Buffer/Window/Tabpage handles surface as an explicit pair so
		// nothing is lost in the text form.
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		node.Content = append(node.Content,
			scalarNode("!!str", "ext_type"),
			scalarNode("!!int", strconv.FormatInt(int64(d.Ext.Type), 10)),
			scalarNode("!!str", "data"),
			scalarNode("!!binary", base64.StdEncoding.EncodeToString(d.Ext.Data)),
		)
		return node, nil
	}

	return nil, fmt.Errorf("unknown document kind %d", d.Kind)
}

func (d Document) isScalar() bool {
	switch d.Kind {
	case KindNil, KindBool, KindInt, KindUint, KindFloat, KindString, KindBinary:
		return true
	}
	return false
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
