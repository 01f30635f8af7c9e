package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/config"
	"github.com/protolens/protolens/pkg/index"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, cfg *config.Config, idx *index.Index) *Watcher {
	t.Helper()
	scanner := NewScanner(cfg, idx, nil)
	watcher, err := NewWatcher(cfg, scanner, idx, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	t.Cleanup(func() { watcher.Stop() })
	return watcher
}

func TestWatcherIndexesNewFile(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Watcher.Debounce = config.Duration(30 * time.Millisecond)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	startWatcher(t, cfg, idx)

	path := filepath.Join(root, "user.proto")
	writeFile(t, path, `syntax = "proto3"; package api; message User { string name = 1; }`)

	uri := filepath.ToSlash(path)
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return idx.GetFile(uri) != nil
	}), "file was not indexed after creation")

	_, ok := idx.Symbol("api.User")
	assert.True(t, ok)
}

func TestWatcherReindexesChangedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "user.proto")
	writeFile(t, path, `syntax = "proto3"; package api; message User {}`)

	cfg := testConfig(root)
	cfg.Watcher.Debounce = config.Duration(30 * time.Millisecond)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	scanner := NewScanner(cfg, idx, nil)
	_, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	startWatcher(t, cfg, idx)

	writeFile(t, path, `syntax = "proto3"; package api; message Account {}`)

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		_, ok := idx.Symbol("api.Account")
		return ok
	}), "changed file was not reindexed")

	_, ok := idx.Symbol("api.User")
	assert.False(t, ok, "stale symbol survived reindex")
}

func TestWatcherRemovesDeletedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "user.proto")
	writeFile(t, path, `syntax = "proto3"; package api; message User {}`)

	cfg := testConfig(root)
	cfg.Watcher.Debounce = config.Duration(30 * time.Millisecond)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	scanner := NewScanner(cfg, idx, nil)
	_, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	startWatcher(t, cfg, idx)

	require.NoError(t, os.Remove(path))

	uri := filepath.ToSlash(path)
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		return idx.GetFile(uri) == nil
	}), "deleted file was not removed from the index")

	_, ok := idx.Symbol("api.User")
	assert.False(t, ok)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Watcher.Debounce = config.Duration(30 * time.Millisecond)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	startWatcher(t, cfg, idx)

	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// Give the watcher a moment to register the new directory before
	// creating a file inside it.
	require.True(t, waitFor(t, 2*time.Second, func() bool {
		path := filepath.Join(sub, "probe.proto")
		writeFile(t, path, `syntax = "proto3"; message Probe {}`)
		indexed := waitFor(t, 200*time.Millisecond, func() bool {
			return idx.GetFile(filepath.ToSlash(path)) != nil
		})
		if !indexed {
			os.Remove(path)
		}
		return indexed
	}), "file in new directory was not indexed")
}

func TestWatcherIgnoresNonProtoFiles(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Watcher.Debounce = config.Duration(30 * time.Millisecond)

	idx := index.New(index.Options{WorkspaceRoots: []string{root}})
	startWatcher(t, cfg, idx)

	writeFile(t, filepath.Join(root, "notes.txt"), "not a proto")

	assert.False(t, waitFor(t, 300*time.Millisecond, func() bool {
		return len(idx.FileURIs()) > 0
	}))
}
