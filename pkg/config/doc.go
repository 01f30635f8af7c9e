// Package config provides application configuration from an optional YAML file
// and environment variables.
//
// # Overview
//
// Configuration starts from defaults, is overlaid with an optional
// protolens.yaml from the workspace root, then with PROTOLENS_* environment
// variables, and is validated before use. Environment variables always win
// over the file.
//
// # Configuration Structure
//
// Workspace settings:
//
//	PROTOLENS_WORKSPACE_ROOTS="proto,vendor/proto"
//	PROTOLENS_INCLUDE_PATHS="/usr/local/include"
//	PROTOLENS_EXCLUDE="**/generated/**"
//
// Renumbering settings:
//
//	PROTOLENS_RENUMBER_START="1"
//	PROTOLENS_RENUMBER_INCREMENT="1"
//
// Breaking-change settings:
//
//	PROTOLENS_BASELINE_MAX_ENTRIES="1024"
//	PROTOLENS_BASELINE_TTL="4h"
//
// Watcher and observability settings:
//
//	PROTOLENS_WATCH_DEBOUNCE="250ms"
//	PROTOLENS_LOG_LEVEL="info"  # debug, info, warn, error
//	PROTOLENS_METRICS_ENABLED="true"
//
// The YAML file mirrors the same structure and additionally carries the
// diagnostics rule enablement and severity overrides:
//
//	workspace:
//	  roots: [proto]
//	  include_paths: [/usr/local/include]
//	diagnostics:
//	  rules:
//	    field-naming: false
//	  severities:
//	    unknown-type: warning
//	renumber:
//	  start: 1
//	  increment: 1
//	watcher:
//	  debounce: 250ms
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Roots: %v\n", cfg.Workspace.Roots)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/diagnostics: Consumes rule enablement and severity overrides
//   - pkg/workspace: Uses workspace roots and watcher debounce
//   - pkg/observability: Uses the log level setting
package config
