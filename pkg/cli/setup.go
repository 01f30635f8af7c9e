package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/protolens/protolens/pkg/config"
	"github.com/protolens/protolens/pkg/index"
	"github.com/protolens/protolens/pkg/observability"
	"github.com/protolens/protolens/pkg/workspace"
)

// workspaceContext bundles everything a command needs to operate on a
// workspace.
type workspaceContext struct {
	cfg     *config.Config
	index   *index.Index
	scanner *workspace.Scanner
	obs     *observability.Logger
	log     *logrus.Logger
}

// loadWorkspace builds the analysis stack for the given directory. An empty
// dir keeps the roots from the config file; a non-empty dir replaces them.
func loadWorkspace(dir, configFile string, verbose bool) (*workspaceContext, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dir != "" {
		cfg.Workspace.Roots = []string{dir}
	}

	// Roots become part of file URIs, so resolve them up front.
	roots := make([]string, 0, len(cfg.Workspace.Roots))
	for _, root := range cfg.Workspace.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", root, err)
		}
		roots = append(roots, filepath.ToSlash(abs))
	}
	cfg.Workspace.Roots = roots

	// Library logging stays quiet unless asked for; command output goes
	// through the logrus logger and plain prints.
	obsLevel := observability.WarnLevel
	if verbose {
		obsLevel = observability.DebugLevel
	}
	obs := observability.NewLogger(obsLevel, os.Stderr)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else if level, err := logrus.ParseLevel(cfg.Observability.LogLevel); err == nil {
		log.SetLevel(level)
	}

	idx := index.New(index.Options{
		IncludePaths:   cfg.Workspace.IncludePaths,
		WorkspaceRoots: cfg.Workspace.Roots,
		Logger:         obs,
	})

	return &workspaceContext{
		cfg:     cfg,
		index:   idx,
		scanner: workspace.NewScanner(cfg, idx, obs),
		obs:     obs,
		log:     log,
	}, nil
}
