package rules

import (
	"fmt"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
)

// Field numbers 19000-19999 are set aside for the protobuf implementation.
const (
	implReservedStart = 19000
	implReservedEnd   = 19999
)

// DuplicateFieldNumberRule flags field numbers used more than once in a
// message. Oneof members share the parent message's number space, so a
// collision between a plain field and a oneof member counts too.
type DuplicateFieldNumberRule struct {
	BaseRule
}

// NewDuplicateFieldNumberRule creates a new duplicate field number rule.
func NewDuplicateFieldNumberRule() *DuplicateFieldNumberRule {
	return &DuplicateFieldNumberRule{
		BaseRule: BaseRule{
			RuleName:        "duplicate-field-number",
			RuleCategory:    diagnostics.CategoryNumbering,
			RuleSeverity:    diagnostics.SeverityError,
			RuleDescription: "Field numbers must be unique within a message",
		},
	}
}

// Check walks every message, including nested ones.
func (r *DuplicateFieldNumberRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	var walk func(msg *ast.MessageDecl)
	walk = func(msg *ast.MessageDecl) {
		findings = append(findings, r.checkMessage(msg)...)
		for _, nested := range msg.Nested {
			walk(nested)
		}
	}
	for _, msg := range ctx.File.Messages {
		walk(msg)
	}
	return findings
}

// checkMessage fires once per extra occurrence: the first use of a number is
// never flagged, each later use is.
func (r *DuplicateFieldNumberRule) checkMessage(msg *ast.MessageDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	seen := make(map[int]string)

	check := func(field *ast.FieldDecl) {
		if first, ok := seen[field.Number]; ok {
			findings = append(findings, r.finding(
				fmt.Sprintf("field number %d is already used by field %q", field.Number, first),
				field.NameRange))
			return
		}
		seen[field.Number] = field.Name
	}

	for _, field := range msg.Fields {
		check(field)
	}
	for _, oneof := range msg.Oneofs {
		for _, field := range oneof.Fields {
			check(field)
		}
	}
	return findings
}

// ReservedFieldNumberRule flags fields numbered in the implementation
// reserved range or colliding with the message's own reserved statements.
type ReservedFieldNumberRule struct {
	BaseRule
}

// NewReservedFieldNumberRule creates a new reserved field number rule.
func NewReservedFieldNumberRule() *ReservedFieldNumberRule {
	return &ReservedFieldNumberRule{
		BaseRule: BaseRule{
			RuleName:        "reserved-field-number",
			RuleCategory:    diagnostics.CategoryNumbering,
			RuleSeverity:    diagnostics.SeverityError,
			RuleDescription: "Fields must not use reserved numbers or names",
		},
	}
}

// Check walks every message, including nested ones.
func (r *ReservedFieldNumberRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	var walk func(msg *ast.MessageDecl)
	walk = func(msg *ast.MessageDecl) {
		findings = append(findings, r.checkMessage(msg)...)
		for _, nested := range msg.Nested {
			walk(nested)
		}
	}
	for _, msg := range ctx.File.Messages {
		walk(msg)
	}
	return findings
}

func (r *ReservedFieldNumberRule) checkMessage(msg *ast.MessageDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)

	reservedNames := make(map[string]bool)
	var reservedRanges []ast.ReservedRange
	for _, res := range msg.Reserved {
		reservedRanges = append(reservedRanges, res.Ranges...)
		for _, name := range res.Names {
			reservedNames[name] = true
		}
	}

	check := func(field *ast.FieldDecl) {
		if field.Number >= implReservedStart && field.Number <= implReservedEnd {
			findings = append(findings, r.finding(
				fmt.Sprintf("field number %d is in the reserved range %d-%d", field.Number, implReservedStart, implReservedEnd),
				field.NameRange))
		}
		for _, rng := range reservedRanges {
			if field.Number >= rng.Start && field.Number <= rng.End {
				findings = append(findings, r.finding(
					fmt.Sprintf("field number %d is declared reserved", field.Number),
					field.NameRange))
				break
			}
		}
		if reservedNames[field.Name] {
			findings = append(findings, r.finding(
				fmt.Sprintf("field name %q is declared reserved", field.Name),
				field.NameRange))
		}
	}

	for _, field := range msg.Fields {
		check(field)
	}
	for _, oneof := range msg.Oneofs {
		for _, field := range oneof.Fields {
			check(field)
		}
	}
	return findings
}

// FirstEnumValueZeroRule requires the first value of a proto3 or editions
// enum to be zero. proto2 files are exempt.
type FirstEnumValueZeroRule struct {
	BaseRule
}

// NewFirstEnumValueZeroRule creates a new first enum value rule.
func NewFirstEnumValueZeroRule() *FirstEnumValueZeroRule {
	return &FirstEnumValueZeroRule{
		BaseRule: BaseRule{
			RuleName:        "first-enum-value-zero",
			RuleCategory:    diagnostics.CategoryNumbering,
			RuleSeverity:    diagnostics.SeverityError,
			RuleDescription: "The first enum value must be zero",
		},
	}
}

// Check walks enums at file scope and inside messages.
func (r *FirstEnumValueZeroRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	if ctx.File.Syntax == "proto2" {
		return nil
	}

	findings := make([]diagnostics.Diagnostic, 0)
	checkEnum := func(enum *ast.EnumDecl) {
		if len(enum.Values) == 0 {
			return
		}
		first := enum.Values[0]
		if first.Number != 0 {
			findings = append(findings, r.finding(
				fmt.Sprintf("first value of enum %q must be zero, got %d", enum.Name, first.Number),
				first.NameRange))
		}
	}

	for _, enum := range ctx.File.Enums {
		checkEnum(enum)
	}
	var walk func(msg *ast.MessageDecl)
	walk = func(msg *ast.MessageDecl) {
		for _, enum := range msg.Enums {
			checkEnum(enum)
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
