package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
	"github.com/protolens/protolens/pkg/index"
)

// typeRef is one textual type reference with its source range.
type typeRef struct {
	Text  string
	Range ast.Range
}

// collectTypeRefs gathers every place a file refers to a named type: field
// types, map value types, rpc signatures and extend targets.
func collectTypeRefs(file *ast.ProtoFile) []typeRef {
	var refs []typeRef

	addField := func(field *ast.FieldDecl) {
		text := field.Type
		if field.IsMap {
			text = field.ValueType
		}
		if text == "" || ast.IsScalarType(text) {
			return
		}
		refs = append(refs, typeRef{Text: text, Range: field.TypeRange})
	}

	var walkExtend func(ext *ast.ExtendDecl)
	walkExtend = func(ext *ast.ExtendDecl) {
		refs = append(refs, typeRef{Text: ext.Target, Range: ext.TargetRange})
		for _, field := range ext.Fields {
			addField(field)
		}
	}

	var walkMessage func(msg *ast.MessageDecl)
	walkMessage = func(msg *ast.MessageDecl) {
		for _, field := range msg.Fields {
			addField(field)
		}
		for _, oneof := range msg.Oneofs {
			for _, field := range oneof.Fields {
				addField(field)
			}
		}
		for _, ext := range msg.Extends {
			walkExtend(ext)
		}
		for _, nested := range msg.Nested {
			walkMessage(nested)
		}
	}

	for _, msg := range file.Messages {
		walkMessage(msg)
	}
	for _, ext := range file.Extends {
		walkExtend(ext)
	}
	for _, svc := range file.Services {
		for _, rpc := range svc.RPCs {
			if rpc.InputType != "" {
				refs = append(refs, typeRef{Text: rpc.InputType, Range: rpc.InputRange})
			}
			if rpc.OutputType != "" {
				refs = append(refs, typeRef{Text: rpc.OutputType, Range: rpc.OutputRange})
			}
		}
	}
	return refs
}

// UnknownTypeRule flags type references that resolve to nothing in the
// workspace, with close-match suggestions.
type UnknownTypeRule struct {
	BaseRule
}

// NewUnknownTypeRule creates a new unknown type rule.
func NewUnknownTypeRule() *UnknownTypeRule {
	return &UnknownTypeRule{
		BaseRule: BaseRule{
			RuleName:        "unknown-type",
			RuleCategory:    diagnostics.CategoryTypes,
			RuleSeverity:    diagnostics.SeverityError,
			RuleDescription: "Type references must resolve to a known message or enum",
		},
	}
}

// Check resolves each reference against the workspace index.
func (r *UnknownTypeRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	if ctx.Index == nil {
		return nil
	}

	findings := make([]diagnostics.Diagnostic, 0)
	for _, ref := range collectTypeRefs(ctx.File) {
		if _, ok := ctx.Index.ResolveType(ref.Text, ctx.URI, ctx.File.Package); ok {
			continue
		}
		d := r.finding(fmt.Sprintf("unknown type %q", ref.Text), ref.Range)
		d.Suggestions = suggestTypeNames(ctx, ref.Text)
		findings = append(findings, d)
	}
	return findings
}

// suggestTypeNames ranks known type names by string similarity to the
// unresolved reference and returns the closest few.
func suggestTypeNames(ctx *diagnostics.RuleContext, name string) []string {
	const (
		minSimilarity  = 0.8
		maxSuggestions = 3
	)

	bare := name
	if i := strings.LastIndex(bare, "."); i >= 0 {
		bare = bare[i+1:]
	}

	type scored struct {
		name  string
		score float32
	}
	var candidates []scored
	seen := make(map[string]bool)
	for _, sym := range ctx.Index.AllSymbols() {
		if sym.Kind != index.KindMessage && sym.Kind != index.KindEnum {
			continue
		}
		if seen[sym.FullName] {
			continue
		}
		seen[sym.FullName] = true

		score, err := edlib.StringsSimilarity(bare, sym.Name, edlib.JaroWinkler)
		if err != nil || score < minSimilarity {
			continue
		}
		candidates = append(candidates, scored{name: sym.FullName, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	var out []string
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// UnqualifiedReferenceRule flags unqualified references that resolve into a
// different package. References into the current package or one of its
// ancestors are fine unqualified, as are references in package-less files.
type UnqualifiedReferenceRule struct {
	BaseRule
}

// NewUnqualifiedReferenceRule creates a new unqualified reference rule.
func NewUnqualifiedReferenceRule() *UnqualifiedReferenceRule {
	return &UnqualifiedReferenceRule{
		BaseRule: BaseRule{
			RuleName:        "unqualified-cross-package-reference",
			RuleCategory:    diagnostics.CategoryTypes,
			RuleSeverity:    diagnostics.SeverityWarning,
			RuleDescription: "Cross-package type references should be package-qualified",
		},
	}
}

// Check resolves each unqualified reference and compares packages.
func (r *UnqualifiedReferenceRule) Check(ctx *diagnostics.RuleContext) []diagnostics.Diagnostic {
	if ctx.Index == nil || ctx.File.Package == "" {
		return nil
	}

	findings := make([]diagnostics.Diagnostic, 0)
	for _, ref := range collectTypeRefs(ctx.File) {
		if strings.Contains(ref.Text, ".") {
			continue
		}
		sym, ok := ctx.Index.ResolveType(ref.Text, ctx.URI, ctx.File.Package)
		if !ok {
			continue
		}
		targetFile := ctx.Index.GetFile(sym.URI)
		if targetFile == nil || targetFile.Package == "" {
			continue
		}
		targetPkg := targetFile.Package
		if targetPkg == ctx.File.Package || strings.HasPrefix(ctx.File.Package, targetPkg+".") {
			continue
		}
		d := r.finding(
			fmt.Sprintf("type %q resolves to %q in package %q; qualify the reference", ref.Text, sym.FullName, targetPkg),
			ref.Range)
		d.Suggestions = []string{sym.FullName}
		findings = append(findings, d)
	}
	return findings
}
