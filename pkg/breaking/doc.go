// Package breaking detects breaking changes between two versions of a proto
// file.
//
// # Overview
//
// Detect is a pure diff: given the current parse tree and a baseline tree it
// reports field removals, type changes, number reuse, enum value removals
// and rpc removals. Declarations are matched by fully-qualified name,
// recursing into nested messages and enums. A message that disappeared is
// reported as each of its fields being removed. A nil baseline produces no
// changes; this is a difference tool, not an absolute validator.
//
// # Wire vs Source Breakage
//
// Each change carries WireBreaking and SourceBreaking flags. Reusing a field
// number breaks old payloads without breaking a single caller; removing an
// rpc breaks callers without touching the wire.
//
// # Baselines
//
// BaselineStore keeps the last known good tree per file in an expiring LRU,
// so editors can diff against "the file as it was when opened".
//
//	store := breaking.NewBaselineStore(breaking.DefaultStoreConfig())
//	store.Set(uri, openedFile)
//	changes := store.DetectAgainstBaseline(uri, editedFile)
//
// # Related Packages
//
//   - pkg/ast: The trees being compared
package breaking
