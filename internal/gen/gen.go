// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gen produces Go binding stubs from a typed API description:
// handle types for Neovim's extension types, the version the bindings were
// generated from, and a client interface with one method per API function.
package gen

import (
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strings"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
)

// Source renders the API description as a Go source file for the named
// package. Functions taking a LuaRef parameter are skipped; they cannot be
// called over the wire.
func Source(root *apiinfo.Root, pkg string) ([]byte, error) {
	if pkg == "" {
		pkg = "nvimapi"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by nvim-sys. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import \"context\"\n\n")

	writeVersion(&b, root.Version)
	writeHandleTypes(&b, root.Types)
	writeClient(&b, root.Functions)

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

func writeVersion(b *strings.Builder, v apiinfo.Version) {
	b.WriteString("// Version describes the Neovim build the bindings were generated from.\n")
	b.WriteString("type Version struct {\n")
	b.WriteString("\tAPICompatible int64\n\tAPILevel int64\n\tAPIPrerelease bool\n")
	b.WriteString("\tMajor int64\n\tMinor int64\n\tPatch int64\n\tPrerelease bool\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(b, `var CurrentVersion = Version{
	APICompatible: %d,
	APILevel: %d,
	APIPrerelease: %t,
	Major: %d,
	Minor: %d,
	Patch: %d,
	Prerelease: %t,
}

`, v.APICompatible, v.APILevel, v.APIPrerelease, v.Major, v.Minor, v.Patch, v.Prerelease)
}

func writeHandleTypes(b *strings.Builder, types map[string]apiinfo.ExtType) {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return types[names[i]].ID < types[names[j]].ID
	})

	for _, name := range names {
		fmt.Fprintf(b, "// %s is a remote handle (msgpack extension type %d).\n", name, types[name].ID)
		fmt.Fprintf(b, "type %s int64\n\n", name)
	}
}

func writeClient(b *strings.Builder, functions []apiinfo.Function) {
	b.WriteString("// Client exposes the Neovim API surface.\n")
	b.WriteString("type Client interface {\n")
	for _, fn := range functions {
		if takesLuaRef(fn) {
			continue
		}
		b.WriteString("\t")
		b.WriteString(signature(fn))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

func takesLuaRef(fn apiinfo.Function) bool {
	for _, p := range fn.Parameters {
		if !p.Type.Array && p.Type.Name == "LuaRef" {
			return true
		}
	}
	return false
}

func signature(fn apiinfo.Function) string {
	var b strings.Builder
	b.WriteString(snakeToCamel(fn.Name))
	b.WriteString("(ctx context.Context")
	for _, p := range fn.Parameters {
		fmt.Fprintf(&b, ", %s %s", paramName(p.Name), goType(p.Type))
	}
	b.WriteString(") ")

	ret := returnType(fn)
	if ret == "" {
		b.WriteString("error")
	} else {
		fmt.Fprintf(&b, "(%s, error)", ret)
	}
	return b.String()
}

func returnType(fn apiinfo.Function) string {
	t := fn.ReturnType
	if !t.Array && t.Name == "void" {
		return ""
	}
	if !t.Array && t.Name == "Object" {
		// Pre-level-1 functions name their handle in the function
		// prefix rather than the return type.
		switch {
		case strings.HasPrefix(fn.Name, "window_"):
			return "Window"
		case strings.HasPrefix(fn.Name, "tabpage_"):
			return "Tabpage"
		case strings.HasPrefix(fn.Name, "buffer_"):
			return "Buffer"
		}
	}
	return goType(t)
}

var typeNames = map[string]string{
	"Boolean":    "bool",
	"Integer":    "int64",
	"Float":      "float64",
	"String":     "string",
	"Object":     "any",
	"Array":      "[]any",
	"Dictionary": "map[string]any",
}

func goType(t apiinfo.TypeName) string {
	elem := t.Name
	if mapped, ok := typeNames[elem]; ok {
		elem = mapped
	}
	switch {
	case t.Array && t.Size > 0:
		return fmt.Sprintf("[%d]%s", t.Size, elem)
	case t.Array:
		return "[]" + elem
	}
	return elem
}

// paramName converts a wire parameter name to a Go identifier, renaming
// names that collide with Go keywords.
func paramName(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		parts[i] = capitalize(parts[i])
	}
	ident := strings.Join(parts, "")
	if token.IsKeyword(ident) {
		ident += "_"
	}
	return ident
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, "")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
