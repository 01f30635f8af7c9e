package rules

import (
	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
)

// BaseRule provides the descriptive half of a rule implementation.
type BaseRule struct {
	RuleName        string
	RuleCategory    diagnostics.Category
	RuleSeverity    diagnostics.Severity
	RuleDescription string
}

func (r *BaseRule) Name() string                   { return r.RuleName }
func (r *BaseRule) Category() diagnostics.Category { return r.RuleCategory }
func (r *BaseRule) Severity() diagnostics.Severity { return r.RuleSeverity }
func (r *BaseRule) Description() string            { return r.RuleDescription }

// finding builds a diagnostic carrying the rule's identity.
func (r *BaseRule) finding(message string, rng ast.Range) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Rule:     r.RuleName,
		Severity: r.RuleSeverity,
		Category: r.RuleCategory,
		Message:  message,
		Range:    rng,
	}
}
