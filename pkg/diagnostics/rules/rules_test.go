package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/diagnostics"
	"github.com/protolens/protolens/pkg/index"
)

// indexedFile is one workspace file for rule tests. Files are indexed in
// slice order.
type indexedFile struct {
	uri string
	src string
}

// buildContext parses and indexes the given files and returns a rule
// context for the last one.
func buildContext(t *testing.T, files ...indexedFile) *diagnostics.RuleContext {
	t.Helper()
	require.NotEmpty(t, files)

	idx := index.New(index.Options{})
	var last *ast.ProtoFile
	for _, f := range files {
		file, _, err := ast.Parse(f.src, f.uri)
		require.NoError(t, err)
		require.NotNil(t, file)
		idx.UpdateFile(f.uri, file)
		last = file
	}

	target := files[len(files)-1]
	return &diagnostics.RuleContext{
		URI:    target.uri,
		File:   last,
		Index:  idx,
		Config: diagnostics.DefaultConfig(),
	}
}

// singleFileContext is buildContext for the common one-file case.
func singleFileContext(t *testing.T, src string) *diagnostics.RuleContext {
	t.Helper()
	return buildContext(t, indexedFile{uri: "/work/test.proto", src: src})
}

func messagesOf(diags []diagnostics.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}
