// Package diagnostics runs rule-based checks over parsed proto files.
//
// # Overview
//
// The Engine orchestrates a Registry of Rule implementations. Each rule
// inspects one file at a time through a RuleContext that also exposes the
// workspace index, so rules can resolve type references across files.
// Parse errors from the tolerant parser surface as syntax findings next to
// rule findings: a file that only half-parsed still reports everything
// visible in the part that did.
//
// # Built-in Rules
//
// The rules subpackage ships naming conventions (PascalCase messages,
// lower_snake_case fields, SCREAMING_SNAKE_CASE enum values), field number
// checks (duplicates, reserved collisions, the 19000-19999 implementation
// range), type resolution checks with close-match suggestions, and editions
// presence rules.
//
// # Usage Example
//
//	engine := diagnostics.NewEngine(nil, logger)
//	rules.RegisterDefaultRules(engine.Registry())
//	result := engine.CheckFile(uri, file, parseErrs, idx)
//	for _, d := range result.Diagnostics {
//		fmt.Printf("%s:%d:%d %s: %s\n", uri, d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message)
//	}
//
// # Configuration
//
// Config disables rules by name and overrides default severities. Rules
// absent from the config run at their default severity.
//
// # Related Packages
//
//   - pkg/ast: The trees rules inspect
//   - pkg/index: Cross-file type resolution for the type rules
package diagnostics
