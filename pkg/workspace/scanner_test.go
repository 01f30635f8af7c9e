package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/config"
	"github.com/protolens/protolens/pkg/index"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(roots ...string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workspace.Roots = roots
	return cfg
}

func TestScannerScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "api", "user.proto"), `syntax = "proto3";
package api;
message User {
  string name = 1;
}`)
	writeFile(t, filepath.Join(root, "api", "v1", "types.proto"), `syntax = "proto3";
package api.v1;
enum Status {
  STATUS_UNSPECIFIED = 0;
}`)
	writeFile(t, filepath.Join(root, "notes.txt"), "not a proto file")

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	scanner := NewScanner(testConfig(root), idx, nil)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 2, result.Parsed)
	assert.Empty(t, result.Failed)
	assert.Len(t, idx.FileURIs(), 2)

	sym, ok := idx.Symbol("api.User")
	require.True(t, ok)
	assert.Equal(t, "api.User", sym.FullName)
	_, ok = idx.Symbol("api.v1.Status")
	assert.True(t, ok)
}

func TestScannerExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "api", "user.proto"), `syntax = "proto3"; message User {}`)
	writeFile(t, filepath.Join(root, "generated", "gen.proto"), `syntax = "proto3"; message Gen {}`)

	cfg := testConfig(root)
	cfg.Workspace.ExcludeGlobs = []string{"generated/**"}

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	result, err := NewScanner(cfg, idx, nil).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Parsed)
	_, ok := idx.Symbol("User")
	assert.True(t, ok)
	_, ok = idx.Symbol("Gen")
	assert.False(t, ok)
}

func TestScannerSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.proto"), `syntax = "proto3"; message Good {}`)
	// Dangling symlink: discovered by the glob, unreadable at parse time.
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "bad.proto")))

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	result, err := NewScanner(testConfig(root), idx, nil).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Parsed)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0], "bad.proto")
}

func TestScannerToleratesSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken.proto"), `syntax = "proto3";
message Broken {
  string = 1
}`)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	result, err := NewScanner(testConfig(root), idx, nil).Scan(context.Background())
	require.NoError(t, err)

	// Recoverable syntax errors still produce an indexed tree.
	assert.Equal(t, 1, result.Parsed)
	assert.Empty(t, result.Failed)
	assert.Len(t, idx.FileURIs(), 1)
}

func TestScannerDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.proto"), `syntax = "proto3"; message A {}`)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	result, err := NewScanner(testConfig(root, root), idx, nil).Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Parsed)
}

func TestScannerMissingRoot(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "does-not-exist"))
	idx := index.New(index.Options{})
	_, err := NewScanner(cfg, idx, nil).Scan(context.Background())
	assert.Error(t, err)
}

func TestShouldIndex(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Workspace.ExcludeGlobs = []string{"vendor/**"}
	scanner := NewScanner(cfg, index.New(index.Options{}), nil)

	assert.True(t, scanner.ShouldIndex(filepath.Join(root, "api", "user.proto")))
	assert.False(t, scanner.ShouldIndex(filepath.Join(root, "api", "user.txt")))
	assert.False(t, scanner.ShouldIndex(filepath.Join(root, "vendor", "dep.proto")))
	assert.False(t, scanner.ShouldIndex(filepath.Join(t.TempDir(), "outside.proto")))
}
