package cli

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/protolens/protolens/pkg/renumber"
)

// newRenumberCommand creates a new renumber command
func newRenumberCommand() *Command {
	fs := flag.NewFlagSet("renumber", flag.ExitOnError)

	var (
		file       = fs.String("file", "", "Proto file to renumber (required)")
		message    = fs.String("message", "", "Renumber only the named message (dotted names allowed)")
		enum       = fs.String("enum", "", "Renumber only the named enum")
		offset     = fs.Int("offset", -1, "Renumber fields after this byte offset in their container")
		start      = fs.Int("start", 0, "First number to assign (0 uses the configured default)")
		increment  = fs.Int("increment", 0, "Gap between assigned numbers (0 uses the configured default)")
		write      = fs.Bool("write", false, "Rewrite the file in place instead of printing the result")
		configFile = fs.String("config", "", "Path to config file (protolens.yaml)")
		verbose    = fs.Bool("verbose", false, "Verbose output")
	)

	return &Command{
		Name:        "renumber",
		Description: "Reassign field numbers in a proto file",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}
			if *file == "" {
				return fmt.Errorf("the -file flag is required")
			}
			if *message != "" && *enum != "" {
				return fmt.Errorf("-message and -enum are mutually exclusive")
			}

			return runRenumber(*file, *message, *enum, *offset, *start, *increment, *write, *configFile, *verbose)
		},
	}
}

func runRenumber(file, message, enum string, offset, start, increment int, write bool, configFile string, verbose bool) error {
	ws, err := loadWorkspace("", configFile, verbose)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	text := string(data)

	opts := renumber.Options{Start: ws.cfg.Renumber.Start, Increment: ws.cfg.Renumber.Increment}
	if enum != "" && start == 0 && ws.cfg.Renumber.Start == 1 {
		// Enums keep their zero value unless the user asked otherwise.
		opts = renumber.DefaultEnumOptions()
	}
	if start > 0 {
		opts.Start = start
	}
	if increment > 0 {
		opts.Increment = increment
	}

	var edits []renumber.TextEdit
	switch {
	case message != "":
		edits = renumber.Message(text, message, opts)
	case enum != "":
		edits = renumber.Enum(text, enum, opts)
	case offset >= 0:
		edits = renumber.FromPosition(text, offset, opts)
	default:
		edits = renumber.Document(text, opts)
	}

	if len(edits) == 0 {
		ws.log.Infof("%s: nothing to renumber", file)
		return nil
	}
	if verbose {
		ws.log.Debugf("%s: %d edits", file, len(edits))
	}

	updated := applyTextEdits(text, edits)
	if write {
		return os.WriteFile(file, []byte(updated), 0644)
	}
	fmt.Print(updated)
	return nil
}

// applyTextEdits splices the edits into text, last edit first so earlier
// offsets stay valid.
func applyTextEdits(text string, edits []renumber.TextEdit) string {
	sorted := make([]renumber.TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Offset > sorted[j].Range.Start.Offset
	})

	for _, edit := range sorted {
		text = text[:edit.Range.Start.Offset] + edit.NewText + text[edit.Range.End.Offset:]
	}
	return text
}
