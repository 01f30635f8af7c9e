package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/ast"
	"github.com/protolens/protolens/pkg/renumber"
)

func writeProto(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// silenceStdout redirects stdout for the duration of fn so command report
// output does not pollute test logs.
func silenceStdout(t *testing.T, fn func()) {
	t.Helper()
	oldStdout := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	os.Stdout = devNull
	defer func() {
		os.Stdout = oldStdout
		devNull.Close()
	}()
	fn()
}

func TestRunLintCleanWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeProto(t, dir, "user.proto", `syntax = "proto3";
package api;
message User {
  string name = 1;
}`)

	var err error
	silenceStdout(t, func() {
		err = runLint(dir, "", "text", true, false, false, false, false)
	})
	assert.NoError(t, err)
}

func TestRunLintFailsOnErrors(t *testing.T) {
	dir := t.TempDir()
	writeProto(t, dir, "bad.proto", `syntax = "proto3";
package api;
message User {
  string name = 1;
  string email = 1;
}`)

	var err error
	silenceStdout(t, func() {
		err = runLint(dir, "", "text", true, false, false, false, false)
	})
	assert.Error(t, err)

	// The same findings with fail-on-error off exit cleanly.
	silenceStdout(t, func() {
		err = runLint(dir, "", "text", false, false, false, false, false)
	})
	assert.NoError(t, err)
}

func TestRunLintStrictMode(t *testing.T) {
	dir := t.TempDir()
	// Field number 0 passes the tolerant rules but fails the compiler.
	writeProto(t, dir, "zero.proto", `syntax = "proto3";
package api;
message Zero {
  int32 value = 0;
}`)

	var err error
	silenceStdout(t, func() {
		err = runLint(dir, "", "text", true, false, false, false, false)
	})
	assert.NoError(t, err, "tolerant pass should not flag field number 0")

	silenceStdout(t, func() {
		err = runLint(dir, "", "text", true, false, true, false, false)
	})
	assert.Error(t, err, "strict pass should surface the compiler error")
}

func TestRunLintEmptyWorkspace(t *testing.T) {
	var err error
	silenceStdout(t, func() {
		err = runLint(t.TempDir(), "", "text", true, false, false, false, false)
	})
	assert.NoError(t, err)
}

func TestRunBreaking(t *testing.T) {
	baseline := t.TempDir()
	writeProto(t, baseline, "user.proto", `syntax = "proto3";
package api;
message User {
  string name = 1;
  int32 age = 2;
}`)

	current := t.TempDir()
	writeProto(t, current, "user.proto", `syntax = "proto3";
package api;
message User {
  string name = 1;
}`)

	var err error
	silenceStdout(t, func() {
		err = runBreaking(current, baseline, "", "text", true, false)
	})
	assert.Error(t, err, "removed field should fail with fail-on-wire-breaking")

	silenceStdout(t, func() {
		err = runBreaking(current, baseline, "", "text", false, false)
	})
	assert.NoError(t, err)
}

func TestRunBreakingNoChanges(t *testing.T) {
	dir := t.TempDir()
	writeProto(t, dir, "user.proto", `syntax = "proto3";
package api;
message User {
  string name = 1;
}`)

	var err error
	silenceStdout(t, func() {
		err = runBreaking(dir, dir, "", "text", true, false)
	})
	assert.NoError(t, err)
}

func TestRunRenumberWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeProto(t, dir, "user.proto", `syntax = "proto3";
package api;
message User {
  string name = 7;
  int32 age = 42;
}`)

	var err error
	silenceStdout(t, func() {
		err = runRenumber(path, "", "", -1, 0, 0, true, "", false)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	file, _, err := ast.Parse(string(data), path)
	require.NoError(t, err)
	require.Len(t, file.Messages, 1)
	require.Len(t, file.Messages[0].Fields, 2)
	assert.Equal(t, 1, file.Messages[0].Fields[0].Number)
	assert.Equal(t, 2, file.Messages[0].Fields[1].Number)
}

func TestRunRenumberMissingFile(t *testing.T) {
	err := runRenumber(filepath.Join(t.TempDir(), "nope.proto"), "", "", -1, 0, 0, false, "", false)
	assert.Error(t, err)
}

func TestApplyTextEdits(t *testing.T) {
	text := "aa bb cc"
	edits := []renumber.TextEdit{
		{
			Range: ast.Range{
				Start: ast.Position{Offset: 0},
				End:   ast.Position{Offset: 2},
			},
			NewText: "xx",
		},
		{
			Range: ast.Range{
				Start: ast.Position{Offset: 6},
				End:   ast.Position{Offset: 8},
			},
			NewText: "zz",
		},
	}

	assert.Equal(t, "xx bb zz", applyTextEdits(text, edits))
}

func TestRelativeToRoots(t *testing.T) {
	ws, err := loadWorkspace(t.TempDir(), "", false)
	require.NoError(t, err)

	root := ws.cfg.Workspace.Roots[0]
	assert.Equal(t, "api/user.proto", relativeToRoots(ws, root+"/api/user.proto"))
	assert.Equal(t, "/elsewhere/x.proto", relativeToRoots(ws, "/elsewhere/x.proto"))
}
