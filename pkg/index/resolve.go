package index

import (
	"path"
	"sort"
	"strings"

	"github.com/protolens/protolens/pkg/ast"
)

// Import resolution strategy names, in the order they are tried.
const (
	strategySuffix        = "suffix"
	strategyFilename      = "filename"
	strategyRelative      = "relative"
	strategyIncludePath   = "include_path"
	strategyWorkspaceRoot = "workspace_root"
	strategyProtoRoot     = "proto_root"
	strategySubstring     = "substring"
)

// resolveImportLocked resolves a raw import path against the known files,
// caching the first successful resolution by the raw string. Later files
// never invalidate a cached entry; only reparsing the importer does.
func (idx *Index) resolveImportLocked(raw, importerURI string) (string, bool) {
	if resolved, ok := idx.importResolutions[raw]; ok {
		return resolved, true
	}

	uri, strategy := idx.lookupImportLocked(raw, importerURI)
	if uri == "" {
		idx.metrics.ImportMissesTotal.Inc()
		return "", false
	}

	idx.importResolutions[raw] = uri
	idx.metrics.ImportResolutionsTotal.WithLabelValues(strategy).Inc()
	return uri, true
}

// lookupImportLocked tries each resolution convention in priority order and
// returns the first hit with the strategy that produced it.
func (idx *Index) lookupImportLocked(raw, importerURI string) (string, string) {
	imp := normalizePath(raw)
	known := make([]string, 0, len(idx.files))
	for uri := range idx.files {
		known = append(known, uri)
	}
	sort.Strings(known)

	// 1. Direct suffix match.
	for _, uri := range known {
		if uri == imp || strings.HasSuffix(uri, "/"+imp) {
			return uri, strategySuffix
		}
	}

	// 2. Filename-only match for bare imports.
	if !strings.Contains(imp, "/") {
		for _, uri := range known {
			if path.Base(uri) == imp {
				return uri, strategyFilename
			}
		}
	}

	// 3. Relative to the importing file's directory.
	if importerURI != "" {
		candidate := path.Join(path.Dir(importerURI), imp)
		if _, ok := idx.files[candidate]; ok {
			return candidate, strategyRelative
		}
	}

	// 4. Configured external include paths.
	for _, inc := range idx.includePaths {
		candidate := path.Join(inc, imp)
		if _, ok := idx.files[candidate]; ok {
			return candidate, strategyIncludePath
		}
	}

	// 5. Workspace roots.
	for _, root := range idx.workspaceRoots {
		candidate := path.Join(root, imp)
		if _, ok := idx.files[candidate]; ok {
			return candidate, strategyWorkspaceRoot
		}
	}

	// 6. Discovered proto roots.
	roots := make([]string, 0, len(idx.protoRoots))
	for r := range idx.protoRoots {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	for _, root := range roots {
		candidate := path.Join(root, imp)
		if _, ok := idx.files[candidate]; ok {
			return candidate, strategyProtoRoot
		}
	}

	// 7. Last resort: the import appears as a slash-delimited piece anywhere
	// inside a known file's path.
	for _, uri := range known {
		if strings.Contains("/"+uri, "/"+imp) {
			return uri, strategySubstring
		}
	}

	return "", ""
}

// isTypeKind reports whether a symbol can stand in a type position.
func isTypeKind(k SymbolKind) bool {
	return k == KindMessage || k == KindEnum
}

// ResolveType resolves a textual type reference as written in a field, map
// value or rpc signature, from the point of view of the given file and
// package. Built-in scalar types short-circuit to no symbol: they are known,
// just not user-defined. The second return value reports whether a symbol
// was found.
func (idx *Index) ResolveType(name, uri, currentPackage string) (SymbolInfo, bool) {
	if name == "" || ast.IsScalarType(name) {
		return SymbolInfo{}, false
	}
	name = strings.TrimPrefix(name, ".")
	uri = normalizePath(uri)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	// 1. Exact fully-qualified match. A bare-name fallback entry is keyed
	// by less than its FullName and must not satisfy this step: an
	// unqualified reference belongs to the package-relative steps below,
	// not to whichever same-named symbol happened to be indexed first.
	if sym, ok := idx.symbols[name]; ok && sym.FullName == name && isTypeKind(sym.Kind) {
		return sym, true
	}

	// 2. Relative to the current package.
	if currentPackage != "" {
		if sym, ok := idx.symbols[currentPackage+"."+name]; ok && isTypeKind(sym.Kind) {
			return sym, true
		}
	}

	// 3. Walk up the package hierarchy one dot segment at a time.
	pkg := currentPackage
	for {
		i := strings.LastIndex(pkg, ".")
		if i < 0 {
			break
		}
		pkg = pkg[:i]
		if sym, ok := idx.symbols[pkg+"."+name]; ok && isTypeKind(sym.Kind) {
			return sym, true
		}
	}

	// 4. Files reachable through the current file's resolved imports.
	for _, raw := range idx.imports[uri] {
		impURI, ok := idx.importResolutions[raw]
		if !ok {
			continue
		}
		impFile, ok := idx.files[impURI]
		if !ok {
			continue
		}
		if impFile.Package != "" {
			if sym, ok := idx.symbols[impFile.Package+"."+name]; ok && isTypeKind(sym.Kind) {
				return sym, true
			}
		}
		if sym, ok := idx.lookupInFileLocked(impURI, name); ok {
			return sym, true
		}
	}

	// 5. Global fallback over every known symbol.
	keys := make([]string, 0, len(idx.symbols))
	for k := range idx.symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sym := idx.symbols[k]
		if !isTypeKind(sym.Kind) {
			continue
		}
		if sym.Name == name || strings.HasSuffix(sym.FullName, "."+name) {
			return sym, true
		}
	}

	return SymbolInfo{}, false
}

// lookupInFileLocked finds a symbol declared in the given file whose bare
// name or dotted suffix equals name.
func (idx *Index) lookupInFileLocked(uri, name string) (SymbolInfo, bool) {
	keys := make([]string, 0, len(idx.symbols))
	for k := range idx.symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sym := idx.symbols[k]
		if sym.URI != uri || !isTypeKind(sym.Kind) {
			continue
		}
		if sym.Name == name || strings.HasSuffix(sym.FullName, "."+name) {
			return sym, true
		}
	}
	return SymbolInfo{}, false
}
