package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/protolens/protolens/pkg/breaking"
)

// newBreakingCommand creates a new breaking command
func newBreakingCommand() *Command {
	fs := flag.NewFlagSet("breaking", flag.ExitOnError)

	var (
		dir        = fs.String("dir", ".", "Directory containing the current proto files")
		against    = fs.String("against", "", "Directory containing the baseline proto files (required)")
		configFile = fs.String("config", "", "Path to config file (protolens.yaml)")
		format     = fs.String("format", "text", "Output format: text, json")
		failOnWire = fs.Bool("fail-on-wire-breaking", true, "Exit with error code on wire-breaking changes")
		verbose    = fs.Bool("verbose", false, "Verbose output")
	)

	return &Command{
		Name:        "breaking",
		Description: "Detect breaking changes against a baseline version",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}
			if *against == "" {
				return fmt.Errorf("the -against flag is required")
			}

			return runBreaking(*dir, *against, *configFile, *format, *failOnWire, *verbose)
		},
	}
}

// fileChanges pairs a workspace-relative path with its detected changes.
type fileChanges struct {
	Path    string            `json:"path"`
	Changes []breaking.Change `json:"changes"`
}

func runBreaking(dir, against, configFile, format string, failOnWire, verbose bool) error {
	current, err := loadWorkspace(dir, configFile, verbose)
	if err != nil {
		return err
	}
	baseline, err := loadWorkspace(against, configFile, verbose)
	if err != nil {
		return err
	}

	if _, err := baseline.scanner.Scan(context.Background()); err != nil {
		return fmt.Errorf("failed to scan baseline: %w", err)
	}
	if _, err := current.scanner.Scan(context.Background()); err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}

	// Baselines are keyed by root-relative path so the two trees line up no
	// matter where they live on disk.
	store := breaking.NewBaselineStore(breaking.StoreConfig{
		MaxEntries: current.cfg.Breaking.BaselineMaxEntries,
		TTL:        current.cfg.Breaking.BaselineTTL.Std(),
	})
	for _, uri := range baseline.index.FileURIs() {
		store.Set(relativeToRoots(baseline, uri), baseline.index.GetFile(uri))
	}

	var perFile []fileChanges
	var all []breaking.Change
	for _, uri := range current.index.FileURIs() {
		rel := relativeToRoots(current, uri)
		changes := store.DetectAgainstBaseline(rel, current.index.GetFile(uri))
		if len(changes) == 0 {
			continue
		}
		perFile = append(perFile, fileChanges{Path: rel, Changes: changes})
		all = append(all, changes...)
	}

	summary := breaking.Summarize(all)

	switch format {
	case "json":
		return breakingOutputJSON(perFile, summary)
	default:
		return breakingOutputText(perFile, summary, failOnWire)
	}
}

// relativeToRoots strips the longest matching workspace root prefix.
func relativeToRoots(ws *workspaceContext, uri string) string {
	for _, root := range ws.cfg.Workspace.Roots {
		if strings.HasPrefix(uri, root+"/") {
			return strings.TrimPrefix(uri, root+"/")
		}
	}
	return uri
}

func breakingOutputText(perFile []fileChanges, summary breaking.Summary, failOnWire bool) error {
	for _, fc := range perFile {
		fmt.Printf("\n%s:\n", fc.Path)
		for _, change := range fc.Changes {
			marker := ""
			if change.WireBreaking {
				marker = " [wire-breaking]"
			}
			fmt.Printf("  %s: %s%s\n", change.Category, change.Message, marker)
			if change.Suggestion != "" {
				fmt.Printf("      suggestion: %s\n", change.Suggestion)
			}
		}
	}

	fmt.Printf("\n%d changes: %d wire-breaking, %d source-breaking\n",
		summary.TotalChanges, summary.WireBreaking, summary.SourceBreaking)

	if failOnWire && summary.WireBreaking > 0 {
		return fmt.Errorf("found %d wire-breaking changes", summary.WireBreaking)
	}
	return nil
}

func breakingOutputJSON(perFile []fileChanges, summary breaking.Summary) error {
	out := struct {
		Files   []fileChanges    `json:"files"`
		Summary breaking.Summary `json:"summary"`
	}{Files: perFile, Summary: summary}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
