package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/config"
	"github.com/protolens/protolens/pkg/index"
	"github.com/protolens/protolens/pkg/observability"
)

// protoGlob matches every proto file under a root, at any depth.
const protoGlob = "**/*.proto"

// Scanner discovers proto files under the configured workspace roots and
// feeds them into the index. Files are parsed concurrently; index updates go
// through Index.UpdateFile, which serializes writers internally.
type Scanner struct {
	cfg    *config.Config
	index  *index.Index
	logger *observability.Logger

	// parallelism bounds concurrent parses. Zero means NumCPU.
	parallelism int
}

// ScanResult summarizes one scan pass.
type ScanResult struct {
	// SessionID tags every log line of the pass, so interleaved scans can
	// be told apart.
	SessionID string

	// Parsed counts files indexed during this pass.
	Parsed int

	// Failed lists files that could not be read or tokenized. They are
	// skipped without aborting the pass.
	Failed []string

	Duration time.Duration
}

// NewScanner creates a scanner over the given index.
func NewScanner(cfg *config.Config, idx *index.Index, logger *observability.Logger) *Scanner {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Scanner{
		cfg:    cfg,
		index:  idx,
		logger: logger,
	}
}

// Scan walks every configured root, parses all discovered proto files and
// updates the index. A file that fails to parse is recorded in the result
// and skipped; it never aborts the rest of the pass.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	result := &ScanResult{SessionID: uuid.NewString()}
	start := time.Now()

	log := s.logger.WithField("scan_session", result.SessionID)
	log.Info("starting workspace scan")

	paths, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("discovering proto files: %w", err)
	}

	parallelism := s.parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.indexFile(p); err != nil {
				log.WithError(err).WithField("path", p).Warn("skipping unparseable file")
				mu.Lock()
				result.Failed = append(result.Failed, p)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Parsed++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Failed)
	result.Duration = time.Since(start)
	log.WithFields(map[string]interface{}{
		"files":    result.Parsed,
		"failed":   len(result.Failed),
		"duration": result.Duration.String(),
	}).Info("workspace scan complete")

	return result, nil
}

// IndexFile parses a single file on disk and updates the index. The watcher
// uses it for incremental updates between full scans.
func (s *Scanner) IndexFile(path string) error {
	return s.indexFile(path)
}

func (s *Scanner) indexFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	uri := filepath.ToSlash(path)
	file, findings, err := ast.Parse(string(data), uri)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(findings) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"path":     path,
			"findings": len(findings),
		}).Debug("indexed file with recovered parse errors")
	}

	s.index.UpdateFile(uri, file)
	return nil
}

// discover returns the absolute paths of all proto files under the roots,
// minus exclusions, deduplicated and sorted.
func (s *Scanner) discover() ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, root := range s.cfg.Workspace.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", root, err)
		}
		if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("workspace root %s is not a directory", root)
		}

		matches, err := doublestar.Glob(os.DirFS(absRoot), protoGlob)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", root, err)
		}

		for _, rel := range matches {
			if s.excluded(rel) {
				continue
			}
			abs := filepath.Join(absRoot, filepath.FromSlash(rel))
			// Lstat so a dangling symlink still reaches the parse stage and
			// is reported as a failed file rather than silently dropped.
			if info, err := os.Lstat(abs); err != nil || info.IsDir() {
				continue
			}
			if !seen[abs] {
				seen[abs] = true
				paths = append(paths, abs)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// excluded reports whether a root-relative slash path matches any configured
// exclude glob.
func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.cfg.Workspace.ExcludeGlobs {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// ShouldIndex reports whether an absolute path is a proto file the scanner
// would pick up: under some root and not excluded.
func (s *Scanner) ShouldIndex(path string) bool {
	if filepath.Ext(path) != ".proto" {
		return false
	}
	for _, root := range s.cfg.Workspace.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !s.excluded(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// walkDirs calls fn for every directory under root that is not excluded,
// root included. Used by the watcher to register watches.
func (s *Scanner) walkDirs(root string, fn func(dir string) error) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr == nil && rel != "." && s.excluded(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return fn(path)
	})
}
