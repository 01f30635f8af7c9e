package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/protolens/protolens/pkg/diagnostics"
	"github.com/protolens/protolens/pkg/diagnostics/rules"
	"github.com/protolens/protolens/pkg/workspace"
)

// newWatchCommand creates a new watch command
func newWatchCommand() *Command {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)

	var (
		dir        = fs.String("dir", ".", "Directory containing proto files")
		configFile = fs.String("config", "", "Path to config file (protolens.yaml)")
		verbose    = fs.Bool("verbose", false, "Verbose output")
	)

	return &Command{
		Name:        "watch",
		Description: "Watch a workspace and report findings as files change",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			return runWatch(*dir, *configFile, *verbose)
		},
	}
}

func runWatch(dir, configFile string, verbose bool) error {
	ws, err := loadWorkspace(dir, configFile, verbose)
	if err != nil {
		return err
	}

	engine := diagnostics.NewEngine(&ws.cfg.Diagnostics, ws.obs)
	rules.RegisterDefaultRules(engine.Registry())

	scan, err := ws.scanner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}
	ws.log.Infof("indexed %d proto files", scan.Parsed)

	results := engine.CheckAll(ws.index)
	summary := engine.Summarize(results)
	printFindings(results)
	fmt.Printf("%d errors, %d warnings\n", summary.Errors, summary.Warnings)

	watcher, err := workspace.NewWatcher(ws.cfg, ws.scanner, ws.index, ws.obs)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	watcher.SetOnFlush(func(sessionID string, changed, removed []string) {
		for _, path := range removed {
			ws.log.Infof("removed %s", path)
		}
		for _, path := range changed {
			uri := filepath.ToSlash(path)
			result := engine.CheckFile(uri, ws.index.GetFile(uri), nil, ws.index)
			printFindings([]diagnostics.Result{result})
			ws.log.WithField("scan_session", sessionID).Infof("%s: %d findings", path, len(result.Diagnostics))
		}
	})

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	ws.log.Infof("watching %v, press Ctrl-C to stop", ws.cfg.Workspace.Roots)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	return nil
}

func printFindings(results []diagnostics.Result) {
	for _, result := range results {
		if len(result.Diagnostics) == 0 {
			continue
		}
		fmt.Printf("%s:\n", result.URI)
		for _, d := range result.Diagnostics {
			fmt.Printf("  %d:%d: [%s] %s (%s)\n",
				d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Message, d.Rule)
		}
	}
}
