package diagnostics

import (
	"sort"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/index"
	"github.com/protolens/protolens/pkg/observability"
)

// Engine orchestrates diagnostic rules over parsed files.
type Engine struct {
	config   *Config
	registry *Registry
	logger   *observability.Logger
}

// NewEngine creates an engine with an empty registry. Built-in rules are
// registered through rules.RegisterDefaultRules(engine.Registry()).
func NewEngine(config *Config, logger *observability.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Engine{
		config:   config,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Registry exposes the engine's rule registry for registration.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// CheckFile runs every enabled rule against one parsed file and returns the
// combined findings, sorted by position. Parse errors surface as syntax
// diagnostics ahead of rule findings, so a file that only half-parsed still
// reports everything visible in the part that did.
func (e *Engine) CheckFile(uri string, file *ast.ProtoFile, parseErrs []ast.ParseError, idx *index.Index) Result {
	result := Result{
		URI:         uri,
		Diagnostics: make([]Diagnostic, 0),
	}
	if file == nil {
		return result
	}

	for _, perr := range parseErrs {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Rule:     "syntax",
			Severity: SeverityError,
			Category: CategorySyntax,
			Message:  perr.Message,
			Range:    perr.Range,
		})
	}

	ctx := &RuleContext{
		URI:    uri,
		File:   file,
		Index:  idx,
		Config: e.config,
	}

	for _, rule := range e.registry.EnabledRules(e.config) {
		findings := rule.Check(ctx)
		for i := range findings {
			if override, ok := e.config.SeverityOverride(rule.Name()); ok {
				findings[i].Severity = override
			}
		}
		result.Diagnostics = append(result.Diagnostics, findings...)
	}

	sortDiagnostics(result.Diagnostics)

	e.logger.WithFields(map[string]interface{}{
		"uri":   uri,
		"count": len(result.Diagnostics),
	}).Debug("checked file")
	return result
}

// CheckAll runs CheckFile over every file the index knows about.
func (e *Engine) CheckAll(idx *index.Index) []Result {
	results := make([]Result, 0)
	for _, uri := range idx.FileURIs() {
		file := idx.GetFile(uri)
		if file == nil {
			continue
		}
		results = append(results, e.CheckFile(uri, file, nil, idx))
	}
	return results
}

// Summarize aggregates results by severity.
func (e *Engine) Summarize(results []Result) Summary {
	summary := Summary{TotalFiles: len(results)}
	for _, result := range results {
		summary.TotalFindings += len(result.Diagnostics)
		for _, d := range result.Diagnostics {
			switch d.Severity {
			case SeverityError:
				summary.Errors++
			case SeverityWarning:
				summary.Warnings++
			case SeverityInfo:
				summary.Infos++
			case SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

// sortDiagnostics orders findings by start offset, then rule name, so output
// is stable across runs.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Range.Start.Offset != diags[j].Range.Start.Offset {
			return diags[i].Range.Start.Offset < diags[j].Range.Start.Offset
		}
		return diags[i].Rule < diags[j].Rule
	})
}

// Result contains the findings for a single file.
type Result struct {
	URI         string
	Diagnostics []Diagnostic
}

// Diagnostic is one finding against a source range.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Category Category
	Message  string
	Range    ast.Range

	// Suggestions are candidate replacements for the flagged text, best
	// first. Empty for findings with no obvious fix.
	Suggestions []string
}

// Severity indicates how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Category groups related rules.
type Category string

const (
	CategorySyntax    Category = "syntax"
	CategoryNaming    Category = "naming"
	CategoryNumbering Category = "numbering"
	CategoryTypes     Category = "types"
	CategoryEditions  Category = "editions"
)

// Summary provides an overview across files.
type Summary struct {
	TotalFiles    int
	TotalFindings int
	Errors        int
	Warnings      int
	Infos         int
	Hints         int
}

// RuleContext carries what a rule may consult during a check.
type RuleContext struct {
	URI    string
	File   *ast.ProtoFile
	Index  *index.Index
	Config *Config
}
