package index

import (
	"github.com/protolens/protolens/pkg/ast"
)

// SymbolKind classifies an indexed symbol.
type SymbolKind int

const (
	KindMessage SymbolKind = iota
	KindEnum
	KindEnumValue
	KindField
	KindOneof
	KindService
	KindRPC
)

func (k SymbolKind) String() string {
	return []string{
		"message", "enum", "enum_value", "field", "oneof", "service", "rpc",
	}[k]
}

// SymbolInfo describes one indexed declaration.
type SymbolInfo struct {
	Name          string
	FullName      string
	Kind          SymbolKind
	URI           string
	Range         ast.Range // range of the name token
	ContainerName string    // fully-qualified enclosing scope, empty at file scope
}

// Location is a resolved source position for definition and reference results.
type Location struct {
	URI   string
	Range ast.Range
}

// joinName appends a segment to a dotted prefix.
func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// extractSymbols walks a parsed file and returns every symbol it declares,
// fully qualified against the file's package. Symbols carry the caller's
// normalized uri, not the raw file.URI, so removal by uri always matches.
func extractSymbols(uri string, file *ast.ProtoFile) []SymbolInfo {
	var out []SymbolInfo
	pkg := file.Package

	for _, msg := range file.Messages {
		out = append(out, messageSymbols(uri, pkg, msg)...)
	}
	for _, enum := range file.Enums {
		out = append(out, enumSymbols(uri, pkg, enum)...)
	}
	for _, svc := range file.Services {
		out = append(out, serviceSymbols(uri, pkg, svc)...)
	}
	return out
}

func messageSymbols(uri, container string, msg *ast.MessageDecl) []SymbolInfo {
	full := joinName(container, msg.Name)
	out := []SymbolInfo{{
		Name:          msg.Name,
		FullName:      full,
		Kind:          KindMessage,
		URI:           uri,
		Range:         msg.NameRange,
		ContainerName: container,
	}}

	for _, field := range msg.Fields {
		out = append(out, fieldSymbol(uri, full, field))
	}
	for _, oneof := range msg.Oneofs {
		out = append(out, SymbolInfo{
			Name:          oneof.Name,
			FullName:      joinName(full, oneof.Name),
			Kind:          KindOneof,
			URI:           uri,
			Range:         oneof.NameRange,
			ContainerName: full,
		})
		// Oneof members share the parent message's namespace.
		for _, field := range oneof.Fields {
			out = append(out, fieldSymbol(uri, full, field))
		}
	}
	for _, nested := range msg.Nested {
		out = append(out, messageSymbols(uri, full, nested)...)
	}
	for _, enum := range msg.Enums {
		out = append(out, enumSymbols(uri, full, enum)...)
	}
	return out
}

func fieldSymbol(uri, container string, field *ast.FieldDecl) SymbolInfo {
	return SymbolInfo{
		Name:          field.Name,
		FullName:      joinName(container, field.Name),
		Kind:          KindField,
		URI:           uri,
		Range:         field.NameRange,
		ContainerName: container,
	}
}

func enumSymbols(uri, container string, enum *ast.EnumDecl) []SymbolInfo {
	full := joinName(container, enum.Name)
	out := []SymbolInfo{{
		Name:          enum.Name,
		FullName:      full,
		Kind:          KindEnum,
		URI:           uri,
		Range:         enum.NameRange,
		ContainerName: container,
	}}
	for _, value := range enum.Values {
		out = append(out, SymbolInfo{
			Name:          value.Name,
			FullName:      joinName(full, value.Name),
			Kind:          KindEnumValue,
			URI:           uri,
			Range:         value.NameRange,
			ContainerName: full,
		})
	}
	return out
}

func serviceSymbols(uri, container string, svc *ast.ServiceDecl) []SymbolInfo {
	full := joinName(container, svc.Name)
	out := []SymbolInfo{{
		Name:          svc.Name,
		FullName:      full,
		Kind:          KindService,
		URI:           uri,
		Range:         svc.NameRange,
		ContainerName: container,
	}}
	for _, rpc := range svc.RPCs {
		out = append(out, SymbolInfo{
			Name:          rpc.Name,
			FullName:      joinName(full, rpc.Name),
			Kind:          KindRPC,
			URI:           uri,
			Range:         rpc.NameRange,
			ContainerName: full,
		})
	}
	return out
}
