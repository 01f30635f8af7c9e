// Package ast provides the lexer, parser and syntax tree for protobuf-style
// IDL source files.
//
// # Overview
//
// The tree is an immutable set of declaration nodes. Every named declaration
// carries a NameRange (the name token) and a full body range (Pos/EndPos),
// and a node's body range contains all descendant ranges, which makes
// position-based context lookup an O(depth) walk (see PathAt).
//
// # Tolerant parsing
//
// Parse is best-effort: a malformed statement is recorded as a ParseError
// and skipped at the statement boundary, so downstream consumers always get
// some tree to index. Recovered-but-degraded trees are visible through the
// returned ParseError slice. ParseStrict is the complementary path: it runs
// the input through protocompile and reports compiler-grade findings that
// the tolerant parser deliberately ignores.
//
// # Usage Example
//
//	file, parseErrs, err := ast.Parse(content, "foo/bar.proto")
//	if err != nil {
//		// tokenizer could not make progress; no tree available
//	}
//	for _, msg := range file.Messages {
//		fmt.Println(msg.Name, msg.NameRange.Start.Line)
//	}
//
// # Related Packages
//
//   - pkg/index: workspace-wide symbol and import resolution over these trees
//   - pkg/diagnostics: structural and stylistic validation
package ast
