package index

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/observability"
)

// Index is the workspace-wide symbol and import table. It is the single
// shared mutable state of the analysis pipeline: parsers feed it files, and
// diagnostics, definition and reference queries read from it.
//
// Writes are serialized by an internal mutex (single-writer), and every read
// observes the state left by the last completed update.
type Index struct {
	mu sync.RWMutex

	// files maps URI to the last successfully parsed tree. Replaced
	// wholesale on update, never partially mutated.
	files map[string]*ast.ProtoFile

	// symbols maps fully-qualified name to symbol. A second entry is
	// registered under the bare name the first time that name is seen, as a
	// best-effort fallback for unqualified lookups; later same-named symbols
	// do not overwrite it.
	symbols map[string]SymbolInfo

	// imports maps URI to the raw import path strings as written.
	imports map[string][]string

	// importResolutions caches raw import path -> resolved URI. The cache is
	// keyed by the raw string, not per importing file: two files spelling an
	// import identically share one resolution.
	importResolutions map[string]string

	// protoRoots is the discovered set of base directories for
	// workspace-relative imports. It grows, never shrinks.
	protoRoots map[string]bool

	includePaths   []string
	workspaceRoots []string

	logger  *observability.Logger
	metrics *Metrics
}

// Options configures a new Index.
type Options struct {
	// IncludePaths are configured external include directories, tried when
	// resolving imports.
	IncludePaths []string

	// WorkspaceRoots are the open workspace root directories.
	WorkspaceRoots []string

	Logger  *observability.Logger
	Metrics *Metrics
}

// New creates an empty Index.
func New(opts Options) *Index {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	idx := &Index{
		files:             make(map[string]*ast.ProtoFile),
		symbols:           make(map[string]SymbolInfo),
		imports:           make(map[string][]string),
		importResolutions: make(map[string]string),
		protoRoots:        make(map[string]bool),
		logger:            logger,
		metrics:           metrics,
	}
	for _, p := range opts.IncludePaths {
		idx.includePaths = append(idx.includePaths, normalizePath(p))
	}
	for _, r := range opts.WorkspaceRoots {
		root := normalizePath(r)
		idx.workspaceRoots = append(idx.workspaceRoots, root)
		idx.protoRoots[root] = true
	}
	return idx
}

// normalizePath puts a path into the canonical slash-separated clean form
// used for all matching.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "file://")
	return path.Clean(p)
}

// UpdateFile replaces everything known about uri with the given tree:
// previously attributed symbols are removed, the new symbols extracted, the
// file's imports recorded and resolved, and unresolved imports of other
// files retried against the new file.
func (idx *Index) UpdateFile(uri string, file *ast.ProtoFile) {
	if file == nil {
		return
	}
	uri = normalizePath(uri)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeSymbolsLocked(uri)
	idx.files[uri] = file

	var paths []string
	for _, imp := range file.Imports {
		paths = append(paths, imp.Path)
	}
	idx.imports[uri] = paths

	for _, raw := range paths {
		idx.resolveImportLocked(raw, uri)
	}

	// A newly known file may satisfy imports other files could not resolve
	// before, so resolution does not depend on indexing order.
	for otherURI, otherPaths := range idx.imports {
		if otherURI == uri {
			continue
		}
		for _, raw := range otherPaths {
			if _, ok := idx.importResolutions[raw]; !ok {
				idx.resolveImportLocked(raw, otherURI)
			}
		}
	}

	for _, sym := range extractSymbols(uri, file) {
		idx.registerSymbolLocked(sym)
	}

	idx.growProtoRootsLocked(uri)

	idx.metrics.FileUpdatesTotal.Inc()
	idx.metrics.SymbolsTotal.Set(float64(len(idx.symbols)))
	idx.logger.WithField("uri", uri).Debug("indexed file")
}

// RemoveFile forgets a file: its tree, its symbols, its import records, and
// any cached resolutions that pointed at it.
func (idx *Index) RemoveFile(uri string) {
	uri = normalizePath(uri)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.files[uri]; !ok {
		return
	}
	delete(idx.files, uri)
	delete(idx.imports, uri)
	idx.removeSymbolsLocked(uri)

	for raw, resolved := range idx.importResolutions {
		if resolved == uri {
			delete(idx.importResolutions, raw)
		}
	}

	idx.metrics.FileRemovalsTotal.Inc()
	idx.metrics.SymbolsTotal.Set(float64(len(idx.symbols)))
	idx.logger.WithField("uri", uri).Debug("removed file from index")
}

// GetFile returns the last indexed tree for uri, or nil if unknown.
func (idx *Index) GetFile(uri string) *ast.ProtoFile {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.files[normalizePath(uri)]
}

// FileURIs returns the URIs of all indexed files, sorted.
func (idx *Index) FileURIs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	uris := make([]string, 0, len(idx.files))
	for uri := range idx.files {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// AllSymbols returns a snapshot of every indexed symbol keyed by its table
// key (fully-qualified names plus first-seen bare-name fallbacks).
func (idx *Index) AllSymbols() map[string]SymbolInfo {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]SymbolInfo, len(idx.symbols))
	for k, v := range idx.symbols {
		out[k] = v
	}
	return out
}

// Symbol returns the symbol registered under the exact key.
func (idx *Index) Symbol(key string) (SymbolInfo, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sym, ok := idx.symbols[key]
	return sym, ok
}

// ImportResolution pairs a raw import path with its resolution, if any.
type ImportResolution struct {
	Path     string
	Resolved string // empty when unresolved
}

// ImportsWithResolutions returns the file's imports in declaration order
// with their cached resolutions.
func (idx *Index) ImportsWithResolutions(uri string) []ImportResolution {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	paths := idx.imports[normalizePath(uri)]
	out := make([]ImportResolution, 0, len(paths))
	for _, raw := range paths {
		out = append(out, ImportResolution{
			Path:     raw,
			Resolved: idx.importResolutions[raw],
		})
	}
	return out
}

// ImportedFileIDs returns the URIs of the files the given file imports,
// limited to imports that resolved.
func (idx *Index) ImportedFileIDs(uri string) []string {
	resolutions := idx.ImportsWithResolutions(uri)
	var out []string
	for _, r := range resolutions {
		if r.Resolved != "" {
			out = append(out, r.Resolved)
		}
	}
	return out
}

// ProtoRoots returns the discovered proto root directories, sorted.
func (idx *Index) ProtoRoots() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	roots := make([]string, 0, len(idx.protoRoots))
	for r := range idx.protoRoots {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	return roots
}

func (idx *Index) removeSymbolsLocked(uri string) {
	for key, sym := range idx.symbols {
		if sym.URI == uri {
			delete(idx.symbols, key)
		}
	}
}

func (idx *Index) registerSymbolLocked(sym SymbolInfo) {
	idx.symbols[sym.FullName] = sym
	// First-seen bare-name fallback for best-effort unqualified lookups.
	if sym.Name != sym.FullName {
		if _, exists := idx.symbols[sym.Name]; !exists {
			idx.symbols[sym.Name] = sym
		}
	}
}

// growProtoRootsLocked adds every ancestor directory of uri to the proto
// root set.
func (idx *Index) growProtoRootsLocked(uri string) {
	dir := path.Dir(uri)
	for dir != "." && dir != "/" && dir != "" {
		idx.protoRoots[dir] = true
		next := path.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
}
