// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apiinfo

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Root is the top-level API description.
type Root struct {
	Version    Version              `msgpack:"version"`
	ErrorTypes map[string]ErrorType `msgpack:"error_types"`
	Types      map[string]ExtType   `msgpack:"types"`
	Functions  []Function           `msgpack:"functions"`
	UIOptions  []string             `msgpack:"ui_options"`
	UIEvents   []UIEvent            `msgpack:"ui_events"`
}

// Version describes the Neovim build and its API level.
type Version struct {
	APICompatible int64  `msgpack:"api_compatible"`
	APILevel      int64  `msgpack:"api_level"`
	APIPrerelease bool   `msgpack:"api_prerelease"`
	Major         int64  `msgpack:"major"`
	Minor         int64  `msgpack:"minor"`
	Patch         int64  `msgpack:"patch"`
	Prerelease    bool   `msgpack:"prerelease"`
	Build         string `msgpack:"build"`
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ErrorType describes one of Neovim's error categories.
type ErrorType struct {
	ID int64 `msgpack:"id"`
}

// ExtType describes a MessagePack extension type (Buffer, Window, Tabpage).
type ExtType struct {
	ID     int64  `msgpack:"id"`
	Prefix string `msgpack:"prefix"`
}

// Function describes one API function.
type Function struct {
	Name            string      `msgpack:"name"`
	Method          bool        `msgpack:"method"`
	Since           int64       `msgpack:"since"`
	DeprecatedSince *int64      `msgpack:"deprecated_since"`
	Parameters      []Parameter `msgpack:"parameters"`
	ReturnType      TypeName    `msgpack:"return_type"`
}

// Deprecated reports whether the function carries a deprecated_since marker.
func (f Function) Deprecated() bool {
	return f.DeprecatedSince != nil
}

// UIEvent describes one UI protocol event.
type UIEvent struct {
	Name       string      `msgpack:"name"`
	Parameters []Parameter `msgpack:"parameters"`
	Since      int64       `msgpack:"since"`
}

// Parameter is a function or event parameter. Neovim encodes it as a
// two-element array of [type, name].
type Parameter struct {
	Type TypeName
	Name string
}

var _ msgpack.CustomDecoder = (*Parameter)(nil)

// DecodeMsgpack decodes the [type, name] tuple form.
func (p *Parameter) DecodeMsgpack(d *msgpack.Decoder) error {
	n, err := d.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("decoding parameter: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("decoding parameter: expected 2 elements, got %d", n)
	}
	if err := d.Decode(&p.Type); err != nil {
		return fmt.Errorf("decoding parameter type: %w", err)
	}
	name, err := d.DecodeString()
	if err != nil {
		return fmt.Errorf("decoding parameter name: %w", err)
	}
	p.Name = name
	return nil
}

// DecodeRoot decodes the typed API description from a MessagePack payload.
func DecodeRoot(data []byte) (*Root, error) {
	var root Root
	if err := msgpack.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding api info: %w", err)
	}
	return &root, nil
}
