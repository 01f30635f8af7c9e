// Package workspace discovers proto files on disk and keeps the index in
// sync with them.
//
// # Overview
//
// The Scanner walks the configured workspace roots, matching **/*.proto with
// glob exclusions, and parses the discovered files concurrently. Parse
// failures are reported per file and never abort a pass. The Watcher layers
// fsnotify on top: change events are debounced over a configurable window,
// then applied incrementally, with deletions removing files from the index.
//
// # Usage Example
//
// Initial scan followed by watching:
//
//	idx := index.New(index.Options{WorkspaceRoots: cfg.Workspace.Roots})
//	scanner := workspace.NewScanner(cfg, idx, logger)
//	result, err := scanner.Scan(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("indexed %d files\n", result.Parsed)
//
//	watcher, err := workspace.NewWatcher(cfg, scanner, idx, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := watcher.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer watcher.Stop()
//
// # Related Packages
//
//   - pkg/index: Receives the parsed files
//   - pkg/ast: Parses the discovered files
//   - pkg/config: Supplies roots, exclusions and the debounce window
package workspace
