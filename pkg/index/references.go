package index

import (
	"sort"
	"strings"

	"github.com/protolens/protolens/pkg/ast"
)

// FindReferences scans the whole workspace for references to the
// fully-qualified name: field types, map value types, rpc input and output
// types, and extend targets. A reference matches when its text equals the
// name or is a dotted suffix of it. The scan is O(files x declarations) and
// is meant for on-demand queries, not per-edit recomputation.
func (idx *Index) FindReferences(fullName string) []Location {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	uris := make([]string, 0, len(idx.files))
	for uri := range idx.files {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	var out []Location
	for _, uri := range uris {
		file := idx.files[uri]
		for _, msg := range file.Messages {
			out = append(out, messageReferences(uri, msg, fullName)...)
		}
		for _, svc := range file.Services {
			for _, rpc := range svc.RPCs {
				if referenceMatches(rpc.InputType, fullName) {
					out = append(out, Location{URI: uri, Range: rpc.InputRange})
				}
				if referenceMatches(rpc.OutputType, fullName) {
					out = append(out, Location{URI: uri, Range: rpc.OutputRange})
				}
			}
		}
		for _, ext := range file.Extends {
			out = append(out, extendReferences(uri, ext, fullName)...)
		}
	}
	return out
}

func messageReferences(uri string, msg *ast.MessageDecl, fullName string) []Location {
	var out []Location
	for _, field := range msg.Fields {
		if loc, ok := fieldReference(uri, field, fullName); ok {
			out = append(out, loc)
		}
	}
	for _, oneof := range msg.Oneofs {
		for _, field := range oneof.Fields {
			if loc, ok := fieldReference(uri, field, fullName); ok {
				out = append(out, loc)
			}
		}
	}
	for _, ext := range msg.Extends {
		out = append(out, extendReferences(uri, ext, fullName)...)
	}
	for _, nested := range msg.Nested {
		out = append(out, messageReferences(uri, nested, fullName)...)
	}
	return out
}

func extendReferences(uri string, ext *ast.ExtendDecl, fullName string) []Location {
	var out []Location
	if referenceMatches(ext.Target, fullName) {
		out = append(out, Location{URI: uri, Range: ext.TargetRange})
	}
	for _, field := range ext.Fields {
		if loc, ok := fieldReference(uri, field, fullName); ok {
			out = append(out, loc)
		}
	}
	return out
}

func fieldReference(uri string, field *ast.FieldDecl, fullName string) (Location, bool) {
	text := field.Type
	if field.IsMap {
		text = field.ValueType
	}
	if referenceMatches(text, fullName) {
		return Location{URI: uri, Range: field.TypeRange}, true
	}
	return Location{}, false
}

// referenceMatches reports whether the reference text as written points at
// the fully-qualified name.
func referenceMatches(text, fullName string) bool {
	text = strings.TrimPrefix(text, ".")
	return text == fullName || strings.HasSuffix(fullName, "."+text)
}
