// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apiinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeName is a parsed API type string. Neovim writes types as "Integer",
// "ArrayOf(Integer)", or "ArrayOf(Integer, 2)" for fixed-size arrays.
type TypeName struct {
	// Name is the element type for arrays, otherwise the type itself.
	Name string

	// Array reports whether the type is an ArrayOf(...) form.
	Array bool

	// Size is the fixed array length; zero for dynamic arrays.
	Size int64
}

const (
	arrayPrefix = "ArrayOf("
	arraySep    = ", "
)

// ParseTypeName parses a type string. Strings that look almost like the
// ArrayOf form but do not parse cleanly are kept verbatim as plain names,
// matching how unknown types pass through untouched.
func ParseTypeName(s string) TypeName {
	if !strings.HasPrefix(s, arrayPrefix) || !strings.HasSuffix(s, ")") {
		return TypeName{Name: s}
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(s, arrayPrefix), ")")
	if inner == "" {
		return TypeName{Name: s}
	}

	name, sizeStr, fixed := strings.Cut(inner, arraySep)
	if !fixed {
		return TypeName{Name: name, Array: true}
	}

	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return TypeName{Name: s}
	}
	return TypeName{Name: name, Array: true, Size: size}
}

// String renders the type back into Neovim's notation.
func (t TypeName) String() string {
	if !t.Array {
		return t.Name
	}
	if t.Size > 0 {
		return fmt.Sprintf("%s%s%s%d)", arrayPrefix, t.Name, arraySep, t.Size)
	}
	return arrayPrefix + t.Name + ")"
}

var _ msgpack.CustomDecoder = (*TypeName)(nil)

// DecodeMsgpack decodes the wire string and parses it.
func (t *TypeName) DecodeMsgpack(d *msgpack.Decoder) error {
	s, err := d.DecodeString()
	if err != nil {
		return fmt.Errorf("decoding type name: %w", err)
	}
	*t = ParseTypeName(s)
	return nil
}
