package breaking

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/protolens/protolens/pkg/ast"
)

// BaselineStore keeps the last known good version of each file so later
// edits can be diffed against it. Entries expire so a long session does not
// pin stale baselines forever; a miss simply means "no baseline", which
// Detect treats as no changes.
type BaselineStore struct {
	cache *lru.LRU[string, *ast.ProtoFile]
}

// StoreConfig bounds the baseline store.
type StoreConfig struct {
	MaxEntries int
	TTL        time.Duration
}

// DefaultStoreConfig holds enough baselines for a large workspace and keeps
// them for a working session.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		MaxEntries: 1024,
		TTL:        4 * time.Hour,
	}
}

// NewBaselineStore creates a baseline store.
func NewBaselineStore(config StoreConfig) *BaselineStore {
	if config.MaxEntries < 10 {
		config.MaxEntries = 10
	}
	return &BaselineStore{
		cache: lru.NewLRU[string, *ast.ProtoFile](config.MaxEntries, nil, config.TTL),
	}
}

// Set records the baseline for a file.
func (s *BaselineStore) Set(uri string, file *ast.ProtoFile) {
	if file == nil {
		return
	}
	s.cache.Add(uri, file)
}

// Get returns the stored baseline, or nil when none is known.
func (s *BaselineStore) Get(uri string) *ast.ProtoFile {
	file, ok := s.cache.Get(uri)
	if !ok {
		return nil
	}
	return file
}

// Remove forgets a file's baseline.
func (s *BaselineStore) Remove(uri string) {
	s.cache.Remove(uri)
}

// DetectAgainstBaseline diffs the current version against the stored
// baseline. With no baseline stored the result is empty.
func (s *BaselineStore) DetectAgainstBaseline(uri string, current *ast.ProtoFile) []Change {
	return Detect(current, s.Get(uri))
}
