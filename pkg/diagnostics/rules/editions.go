package rules

import (
	"fmt"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
)

// EditionsFieldPresenceRule flags proto2-style field labels in editions
// files, where presence is controlled by features instead.
type EditionsFieldPresenceRule struct {
	BaseRule
}

// NewEditionsFieldPresenceRule creates a new editions field presence rule.
func NewEditionsFieldPresenceRule() *EditionsFieldPresenceRule {
	return &EditionsFieldPresenceRule{
		BaseRule: BaseRule{
			RuleName:        "editions-field-presence",
			RuleCategory:    diagnostics.CategoryEditions,
			RuleSeverity:    diagnostics.SeverityError,
			RuleDescription: "Editions files control field presence through features, not labels",
		},
	}
}

// Check walks fields in messages and oneofs of editions files.
func (r *EditionsFieldPresenceRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	if !ctx.File.IsEdition() {
		return nil
	}

	findings := make([]diagnostics.Diagnostic, 0)
	check := func(field *ast.FieldDecl) {
		switch {
		case field.Optional:
			d := r.finding(
				fmt.Sprintf("field %q: the optional label is not allowed under editions; explicit presence is the default", field.Name),
				field.NameRange)
			d.Suggestions = []string{"remove the optional label"}
			findings = append(findings, d)
		case field.Required:
			d := r.finding(
				fmt.Sprintf("field %q: the required label is not allowed under editions", field.Name),
				field.NameRange)
			d.Suggestions = []string{"use [features.field_presence = LEGACY_REQUIRED]"}
			findings = append(findings, d)
		}
	}

	var walk func(msg *ast.MessageDecl)
	walk = func(msg *ast.MessageDecl) {
		for _, field := range msg.Fields {
			check(field)
		}
		for _, oneof := range msg.Oneofs {
			for _, field := range oneof.Fields {
				check(field)
			}
		}
		for _, nested := range msg.Nested {
			walk(nested)
		}
	}
	for _, msg := range ctx.File.Messages {
		walk(msg)
	}
	return findings
}
