package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/ast"
)

// indexFile parses src and feeds it to the index under uri.
func indexFile(t *testing.T, idx *Index, uri, src string) {
	t.Helper()
	file, _, err := ast.Parse(src, uri)
	require.NoError(t, err)
	require.NotNil(t, file)
	idx.UpdateFile(uri, file)
}

func TestIndexUpdateFile(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/api/user.proto", `
syntax = "proto3";
package api;

message User {
  string id = 1;
  Status status = 2;
}

enum Status {
  STATUS_UNSPECIFIED = 0;
  STATUS_ACTIVE = 1;
}
`)

	sym, ok := idx.Symbol("api.User")
	require.True(t, ok)
	assert.Equal(t, KindMessage, sym.Kind)
	assert.Equal(t, "User", sym.Name)
	assert.Equal(t, "/work/api/user.proto", sym.URI)
	assert.Equal(t, "api", sym.ContainerName)

	_, ok = idx.Symbol("api.User.id")
	assert.True(t, ok, "field symbols should be indexed")

	val, ok := idx.Symbol("api.Status.STATUS_ACTIVE")
	require.True(t, ok)
	assert.Equal(t, KindEnumValue, val.Kind)
	assert.Equal(t, "api.Status", val.ContainerName)
}

func TestIndexUpdateFileIdempotent(t *testing.T) {
	idx := New(Options{})

	src := `
syntax = "proto3";
package api;
message User { string id = 1; }
`
	indexFile(t, idx, "/work/user.proto", src)
	before := len(idx.AllSymbols())

	indexFile(t, idx, "/work/user.proto", src)
	after := len(idx.AllSymbols())

	assert.Equal(t, before, after, "reindexing the same file must not grow the symbol table")
}

func TestIndexUpdateReplacesSymbols(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/user.proto", `
syntax = "proto3";
package api;
message User { string id = 1; }
`)
	_, ok := idx.Symbol("api.User")
	require.True(t, ok)

	indexFile(t, idx, "/work/user.proto", `
syntax = "proto3";
package api;
message Account { string id = 1; }
`)

	_, ok = idx.Symbol("api.User")
	assert.False(t, ok, "symbols from the previous parse must be gone")
	_, ok = idx.Symbol("api.Account")
	assert.True(t, ok)
}

func TestIndexBareNameFallback(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/a/thing.proto", `
syntax = "proto3";
package a;
message Thing { string id = 1; }
`)
	indexFile(t, idx, "/work/b/thing.proto", `
syntax = "proto3";
package b;
message Thing { string id = 1; }
`)

	// Both fully-qualified entries exist.
	_, ok := idx.Symbol("a.Thing")
	assert.True(t, ok)
	_, ok = idx.Symbol("b.Thing")
	assert.True(t, ok)

	// The bare name keeps pointing at the first occurrence.
	sym, ok := idx.Symbol("Thing")
	require.True(t, ok)
	assert.Equal(t, "a.Thing", sym.FullName)
}

func TestIndexNestedSymbols(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/nested.proto", `
syntax = "proto3";
package api;

message Outer {
  message Inner {
    string value = 1;
  }
  enum Mode {
    MODE_UNSPECIFIED = 0;
  }
  oneof choice {
    string text = 1;
    int32 number = 2;
  }
}

service Greeter {
  rpc Greet(Outer) returns (Outer);
}
`)

	inner, ok := idx.Symbol("api.Outer.Inner")
	require.True(t, ok)
	assert.Equal(t, KindMessage, inner.Kind)
	assert.Equal(t, "api.Outer", inner.ContainerName)

	_, ok = idx.Symbol("api.Outer.Mode")
	assert.True(t, ok)

	// Oneof members live in the message namespace, not under the oneof.
	text, ok := idx.Symbol("api.Outer.text")
	require.True(t, ok)
	assert.Equal(t, "api.Outer", text.ContainerName)

	rpc, ok := idx.Symbol("api.Greeter.Greet")
	require.True(t, ok)
	assert.Equal(t, KindRPC, rpc.Kind)
}

func TestIndexRemoveFile(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/foo/types.proto", `
syntax = "proto3";
package foo;
message Base { string id = 1; }
`)
	indexFile(t, idx, "/work/foo/bar.proto", `
syntax = "proto3";
package foo;
import "foo/types.proto";
message Bar { Base base = 1; }
`)

	res := idx.ImportsWithResolutions("/work/foo/bar.proto")
	require.Len(t, res, 1)
	assert.Equal(t, "/work/foo/types.proto", res[0].Resolved)

	idx.RemoveFile("/work/foo/types.proto")

	assert.Nil(t, idx.GetFile("/work/foo/types.proto"))
	_, ok := idx.Symbol("foo.Base")
	assert.False(t, ok)

	// Cached resolutions that pointed at the removed file are pruned.
	res = idx.ImportsWithResolutions("/work/foo/bar.proto")
	require.Len(t, res, 1)
	assert.Empty(t, res[0].Resolved)

	// Removing an unknown file is a no-op.
	idx.RemoveFile("/work/foo/types.proto")
}

func TestIndexProtoRootsGrow(t *testing.T) {
	idx := New(Options{WorkspaceRoots: []string{"/work"}})

	indexFile(t, idx, "/work/vendor/corp/api/v1/user.proto", `
syntax = "proto3";
package corp.api.v1;
message User { string id = 1; }
`)

	roots := idx.ProtoRoots()
	assert.Contains(t, roots, "/work")
	assert.Contains(t, roots, "/work/vendor")
	assert.Contains(t, roots, "/work/vendor/corp")
	assert.Contains(t, roots, "/work/vendor/corp/api/v1")

	// Roots never shrink, not even when the file that grew them goes away.
	idx.RemoveFile("/work/vendor/corp/api/v1/user.proto")
	assert.Equal(t, roots, idx.ProtoRoots())
}

func TestIndexFileURIs(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "/work/b.proto", `syntax = "proto3"; message B {}`)
	indexFile(t, idx, "/work/a.proto", `syntax = "proto3"; message A {}`)

	assert.Equal(t, []string{"/work/a.proto", "/work/b.proto"}, idx.FileURIs())
}

func TestIndexFileSchemeURILifecycle(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "file:///work/a.proto", `syntax = "proto3"; message Old {}`)
	indexFile(t, idx, "file:///work/a.proto", `syntax = "proto3"; message New {}`)

	_, ok := idx.Symbol("New")
	assert.True(t, ok)
	_, ok = idx.Symbol("Old")
	assert.False(t, ok, "stale symbol survived the update")

	idx.RemoveFile("file:///work/a.proto")
	assert.Nil(t, idx.GetFile("/work/a.proto"))
	_, ok = idx.Symbol("New")
	assert.False(t, ok, "symbol survived removal")
}

func TestIndexNormalizesURIs(t *testing.T) {
	idx := New(Options{})

	indexFile(t, idx, "file:///work/a.proto", `syntax = "proto3"; message A {}`)

	assert.NotNil(t, idx.GetFile("/work/a.proto"))
	assert.NotNil(t, idx.GetFile("file:///work/a.proto"))

	sym, ok := idx.Symbol("A")
	require.True(t, ok)
	assert.Equal(t, "/work/a.proto", sym.URI)
}
