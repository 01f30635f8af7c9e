// Package renumber computes minimal text edits that reassign field and enum
// value numbers.
//
// # Overview
//
// Renumbering works on the raw source text, not a parse tree: containers are
// located by brace balance over the token stream, so exact formatting,
// comments and even partially malformed surroundings survive untouched. The
// output is a list of TextEdits covering only the number tokens that change.
//
// # Numbering
//
// Numbers are assigned sequentially from a configured start and increment.
// Assignment skips the implementation band 19000-19999 and every number the
// container declares reserved; "to max" ranges are honored without being
// expanded. Oneof members share the enclosing message's number space, while
// nested messages keep their own.
//
// # Scopes
//
//	edits := renumber.Document(text, renumber.DefaultOptions())
//	edits := renumber.Message(text, "Outer.Inner", renumber.DefaultOptions())
//	edits := renumber.Enum(text, "Status", renumber.DefaultEnumOptions())
//	edits := renumber.FromPosition(text, offset, renumber.DefaultOptions())
//
// FromPosition leaves numbers before the offset in place and treats them as
// taken.
//
// # Related Packages
//
//   - pkg/ast: Supplies the scanner the token stream comes from
package renumber
