package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
)

var (
	pascalCaseRe         = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	snakeCaseRe          = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	screamingSnakeCaseRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// MessageNamingRule checks that message names follow PascalCase.
type MessageNamingRule struct {
	BaseRule
}

// NewMessageNamingRule creates a new message naming rule.
func NewMessageNamingRule() *MessageNamingRule {
	return &MessageNamingRule{
		BaseRule: BaseRule{
			RuleName:        "message-naming",
			RuleCategory:    diagnostics.CategoryNaming,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Message names must use PascalCase",
		},
	}
}

// Check validates message names, including nested messages.
func (r *MessageNamingRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, msg := range ctx.File.Messages {
		findings = append(findings, r.checkMessage(msg)...)
	}
	return findings
}

func (r *MessageNamingRule) checkMessage(msg *ast.MessageDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	if !pascalCaseRe.MatchString(msg.Name) {
		d := r.finding(fmt.Sprintf("message name %q should be PascalCase", msg.Name), msg.NameRange)
		d.Suggestions = []string{toPascalCase(msg.Name)}
		findings = append(findings, d)
	}
	for _, nested := range msg.Nested {
		findings = append(findings, r.checkMessage(nested)...)
	}
	return findings
}

// FieldNamingRule checks that field names follow lower_snake_case.
type FieldNamingRule struct {
	BaseRule
}

// NewFieldNamingRule creates a new field naming rule.
func NewFieldNamingRule() *FieldNamingRule {
	return &FieldNamingRule{
		BaseRule: BaseRule{
			RuleName:        "field-naming",
			RuleCategory:    diagnostics.CategoryNaming,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Field names must use lower_snake_case",
		},
	}
}

// Check validates field names in messages, oneofs and extend blocks.
func (r *FieldNamingRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, msg := range ctx.File.Messages {
		findings = append(findings, r.checkMessage(msg)...)
	}
	for _, ext := range ctx.File.Extends {
		findings = append(findings, r.checkFields(ext.Fields)...)
	}
	return findings
}

func (r *FieldNamingRule) checkMessage(msg *ast.MessageDecl) []diagnostics.Diagnostic {
	findings := r.checkFields(msg.Fields)
	for _, oneof := range msg.Oneofs {
		findings = append(findings, r.checkFields(oneof.Fields)...)
	}
	for _, ext := range msg.Extends {
		findings = append(findings, r.checkFields(ext.Fields)...)
	}
	for _, nested := range msg.Nested {
		findings = append(findings, r.checkMessage(nested)...)
	}
	return findings
}

func (r *FieldNamingRule) checkFields(fields []*ast.FieldDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, field := range fields {
		if !snakeCaseRe.MatchString(field.Name) {
			d := r.finding(fmt.Sprintf("field name %q should be lower_snake_case", field.Name), field.NameRange)
			d.Suggestions = []string{toSnakeCase(field.Name)}
			findings = append(findings, d)
		}
	}
	return findings
}

// EnumNamingRule checks that enum names follow PascalCase.
type EnumNamingRule struct {
	BaseRule
}

// NewEnumNamingRule creates a new enum naming rule.
func NewEnumNamingRule() *EnumNamingRule {
	return &EnumNamingRule{
		BaseRule: BaseRule{
			RuleName:        "enum-naming",
			RuleCategory:    diagnostics.CategoryNaming,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Enum names must use PascalCase",
		},
	}
}

// Check validates enum names at file scope and inside messages.
func (r *EnumNamingRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, enum := range ctx.File.Enums {
		findings = append(findings, r.checkEnum(enum)...)
	}
	for _, msg := range ctx.File.Messages {
		findings = append(findings, r.checkMessage(msg)...)
	}
	return findings
}

func (r *EnumNamingRule) checkMessage(msg *ast.MessageDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, enum := range msg.Enums {
		findings = append(findings, r.checkEnum(enum)...)
	}
	for _, nested := range msg.Nested {
		findings = append(findings, r.checkMessage(nested)...)
	}
	return findings
}

func (r *EnumNamingRule) checkEnum(enum *ast.EnumDecl) []diagnostics.Diagnostic {
	if pascalCaseRe.MatchString(enum.Name) {
		return nil
	}
	d := r.finding(fmt.Sprintf("enum name %q should be PascalCase", enum.Name), enum.NameRange)
	d.Suggestions = []string{toPascalCase(enum.Name)}
	return []diagnostics.Diagnostic{d}
}

// EnumValueNamingRule checks that enum values follow SCREAMING_SNAKE_CASE.
type EnumValueNamingRule struct {
	BaseRule
}

// NewEnumValueNamingRule creates a new enum value naming rule.
func NewEnumValueNamingRule() *EnumValueNamingRule {
	return &EnumValueNamingRule{
		BaseRule: BaseRule{
			RuleName:        "enum-value-naming",
			RuleCategory:    diagnostics.CategoryNaming,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Enum values must use SCREAMING_SNAKE_CASE",
		},
	}
}

// Check validates enum value names at file scope and inside messages.
func (r *EnumValueNamingRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, enum := range ctx.File.Enums {
		findings = append(findings, r.checkEnum(enum)...)
	}
	var walk func(msg *ast.MessageDecl)
	walk = func(msg *ast.MessageDecl) {
		for _, enum := range msg.Enums {
			findings = append(findings, r.checkEnum(enum)...)
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

func (r *EnumValueNamingRule) checkEnum(enum *ast.EnumDecl) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, value := range enum.Values {
		if !screamingSnakeCaseRe.MatchString(value.Name) {
			d := r.finding(fmt.Sprintf("enum value %q should be SCREAMING_SNAKE_CASE", value.Name), value.NameRange)
			d.Suggestions = []string{toScreamingSnakeCase(value.Name)}
			findings = append(findings, d)
		}
	}
	return findings
}

// ServiceNamingRule checks that service and rpc names follow PascalCase.
type ServiceNamingRule struct {
	BaseRule
}

// NewServiceNamingRule creates a new service naming rule.
func NewServiceNamingRule() *ServiceNamingRule {
	return &ServiceNamingRule{
		BaseRule: BaseRule{
			RuleName:        "service-naming",
			RuleCategory:    diagnostics.CategoryNaming,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Service and rpc names must use PascalCase",
		},
	}
}

// Check validates service and rpc names.
func (r *ServiceNamingRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	findings := make([]diagnostics.Diagnostic, 0)
	for _, svc := range ctx.File.Services {
		if !pascalCaseRe.MatchString(svc.Name) {
			d := r.finding(fmt.Sprintf("service name %q should be PascalCase", svc.Name), svc.NameRange)
			d.Suggestions = []string{toPascalCase(svc.Name)}
			findings = append(findings, d)
		}
		for _, rpc := range svc.RPCs {
			if !pascalCaseRe.MatchString(rpc.Name) {
				d := r.finding(fmt.Sprintf("rpc name %q should be PascalCase", rpc.Name), rpc.NameRange)
				d.Suggestions = []string{toPascalCase(rpc.Name)}
				findings = append(findings, d)
			}
		}
	}
	return findings
}

// toPascalCase converts snake_case or lowercase names to PascalCase.
func toPascalCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// toSnakeCase converts PascalCase or camelCase names to lower_snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// toScreamingSnakeCase converts a name to SCREAMING_SNAKE_CASE.
func toScreamingSnakeCase(s string) string {
	return strings.ToUpper(toSnakeCase(s))
}
