package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
	"github.com/protolens/protolens/pkg/diagnostics/rules"
)

// newLintCommand creates a new lint command
func newLintCommand() *Command {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)

	var (
		dir           = fs.String("dir", ".", "Directory containing proto files")
		configFile    = fs.String("config", "", "Path to config file (protolens.yaml)")
		format        = fs.String("format", "text", "Output format: text, json, github")
		failOnError   = fs.Bool("fail-on-error", true, "Exit with error code on error findings")
		failOnWarning = fs.Bool("fail-on-warning", false, "Exit with error code on warning findings")
		strict        = fs.Bool("strict", false, "Also run the full protobuf compiler over each file")
		verbose       = fs.Bool("verbose", false, "Verbose output")
		rulesOnly     = fs.Bool("rules", false, "List available rules and exit")
	)

	return &Command{
		Name:        "lint",
		Description: "Check protobuf files for naming, numbering and type problems",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			return runLint(*dir, *configFile, *format, *failOnError, *failOnWarning, *strict, *verbose, *rulesOnly)
		},
	}
}

func runLint(dir, configFile, format string, failOnError, failOnWarning, strict, verbose, rulesOnly bool) error {
	ws, err := loadWorkspace(dir, configFile, verbose)
	if err != nil {
		return err
	}

	engine := diagnostics.NewEngine(&ws.cfg.Diagnostics, ws.obs)
	rules.RegisterDefaultRules(engine.Registry())

	if rulesOnly {
		return lintListRules(engine)
	}

	scan, err := ws.scanner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}
	if scan.Parsed == 0 {
		fmt.Printf("No proto files found in %s\n", dir)
		return nil
	}
	if verbose {
		ws.log.Debugf("checking %d proto files", scan.Parsed)
	}
	for _, failed := range scan.Failed {
		ws.log.Warnf("skipped unreadable file: %s", failed)
	}

	results := engine.CheckAll(ws.index)
	if strict {
		if err := appendCompilerFindings(ws, results); err != nil {
			return err
		}
	}
	summary := engine.Summarize(results)

	switch format {
	case "json":
		return lintOutputJSON(results, summary)
	case "github":
		return lintOutputGitHub(results)
	default:
		return lintOutputText(results, summary, failOnError, failOnWarning)
	}
}

// appendCompilerFindings runs the strict protocompile pass over every indexed
// file and appends compiler errors to the matching results. Sources are keyed
// by their path relative to each discovered proto root, so workspace imports
// resolve during the compile.
func appendCompilerFindings(ws *workspaceContext, results []diagnostics.Result) error {
	uris := ws.index.FileURIs()
	roots := ws.index.ProtoRoots()

	sources := make(map[string]string, len(uris))
	for _, uri := range uris {
		data, err := os.ReadFile(uri)
		if err != nil {
			ws.log.Warnf("strict pass skipped unreadable file: %s", uri)
			continue
		}
		content := string(data)
		sources[uri] = content
		for _, root := range roots {
			if strings.HasPrefix(uri, root+"/") {
				sources[strings.TrimPrefix(uri, root+"/")] = content
			}
		}
	}

	byURI := make(map[string]int, len(results))
	for i, result := range results {
		byURI[result.URI] = i
	}

	for _, uri := range uris {
		if _, ok := sources[uri]; !ok {
			continue
		}
		_, compileErrs, err := ast.ParseStrictWithSources(context.Background(), uri, sources)
		if err != nil {
			ws.log.Warnf("strict pass failed for %s: %v", uri, err)
			continue
		}
		i, ok := byURI[uri]
		if !ok {
			continue
		}
		for _, cerr := range compileErrs {
			results[i].Diagnostics = append(results[i].Diagnostics, diagnostics.Diagnostic{
				Rule:     "compiler",
				Severity: diagnostics.SeverityError,
				Category: diagnostics.CategorySyntax,
				Message:  cerr.Message,
				Range:    ast.Range{Start: cerr.Pos, End: cerr.Pos},
			})
		}
	}
	return nil
}

func lintListRules(engine *diagnostics.Engine) error {
	allRules := engine.Registry().AllRules()

	fmt.Printf("Available rules (%d):\n\n", len(allRules))

	byCategory := make(map[diagnostics.Category][]diagnostics.Rule)
	for _, rule := range allRules {
		byCategory[rule.Category()] = append(byCategory[rule.Category()], rule)
	}

	for _, cat := range []diagnostics.Category{
		diagnostics.CategoryNaming,
		diagnostics.CategoryNumbering,
		diagnostics.CategoryTypes,
		diagnostics.CategoryEditions,
	} {
		catRules := byCategory[cat]
		if len(catRules) == 0 {
			continue
		}

		catName := string(cat)
		catName = strings.ToUpper(catName[:1]) + catName[1:]

		fmt.Printf("%s Rules:\n", catName)
		for _, rule := range catRules {
			fmt.Printf("  - %-35s [%s]\n    %s\n",
				rule.Name(),
				rule.Severity(),
				rule.Description(),
			)
		}
		fmt.Println()
	}

	return nil
}

func lintOutputText(results []diagnostics.Result, summary diagnostics.Summary, failOnError, failOnWarning bool) error {
	for _, result := range results {
		if len(result.Diagnostics) == 0 {
			continue
		}

		fmt.Printf("\n%s:\n", result.URI)
		for _, d := range result.Diagnostics {
			fmt.Printf("  %d:%d: [%s] %s (%s)\n",
				d.Range.Start.Line,
				d.Range.Start.Column,
				d.Severity,
				d.Message,
				d.Rule,
			)
			for _, suggestion := range d.Suggestions {
				fmt.Printf("      suggestion: %s\n", suggestion)
			}
		}
	}

	fmt.Printf("\nChecked %d files: %d errors, %d warnings, %d infos, %d hints\n",
		summary.TotalFiles, summary.Errors, summary.Warnings, summary.Infos, summary.Hints)

	if failOnError && summary.Errors > 0 {
		return fmt.Errorf("found %d error findings", summary.Errors)
	}
	if failOnWarning && summary.Warnings > 0 {
		return fmt.Errorf("found %d warning findings", summary.Warnings)
	}
	return nil
}

func lintOutputJSON(results []diagnostics.Result, summary diagnostics.Summary) error {
	out := struct {
		Results []diagnostics.Result `json:"results"`
		Summary diagnostics.Summary  `json:"summary"`
	}{Results: results, Summary: summary}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// lintOutputGitHub emits GitHub Actions workflow annotations.
func lintOutputGitHub(results []diagnostics.Result) error {
	for _, result := range results {
		for _, d := range result.Diagnostics {
			level := "warning"
			if d.Severity == diagnostics.SeverityError {
				level = "error"
			}
			fmt.Printf("::%s file=%s,line=%d,col=%d::%s (%s)\n",
				level, result.URI, d.Range.Start.Line, d.Range.Start.Column, d.Message, d.Rule)
		}
	}
	return nil
}
