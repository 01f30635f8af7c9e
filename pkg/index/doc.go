// Package index maintains the workspace-wide symbol and import tables.
//
// # Overview
//
// The Index is the shared state between parsing and analysis: the workspace
// scanner and watcher feed it parsed files, and the diagnostics engine,
// definition lookups and reference queries read from it. Updates are
// serialized by a single writer lock; reads see the state left by the last
// completed update.
//
// # Import Resolution
//
// Proto import paths are matched against the set of known files through an
// ordered list of conventions: direct suffix match, bare filename match,
// importer-relative paths, configured include paths, workspace roots,
// discovered proto roots, and finally a substring match. The first
// convention that produces a hit wins and the result is cached by the raw
// import string.
//
// # Type Resolution
//
// ResolveType resolves a type reference the way protoc scoping works, in
// priority order: exact fully-qualified name, the current package, each
// ancestor package, the file's resolved imports, then a global fallback
// across every known symbol. Built-in scalars never resolve to a symbol.
//
// # Usage Example
//
//	idx := index.New(index.Options{WorkspaceRoots: []string{"/work"}})
//	file, _, _ := ast.Parse(content, "/work/api/user.proto")
//	idx.UpdateFile("/work/api/user.proto", file)
//	sym, ok := idx.ResolveType("User", "/work/api/user.proto", "api")
//
// # Related Packages
//
//   - pkg/ast: The parse trees the index is built from
//   - pkg/diagnostics: The main consumer of type resolution
package index
