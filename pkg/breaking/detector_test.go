package breaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolens/protolens/pkg/ast"
)

func parseFile(t *testing.T, src string) *ast.ProtoFile {
	t.Helper()
	file, errs, err := ast.Parse(src, "/work/test.proto")
	require.NoError(t, err)
	require.Empty(t, errs)
	return file
}

func TestDetectNilBaseline(t *testing.T) {
	current := parseFile(t, `syntax = "proto3";
message User { string name = 1; }`)

	assert.Empty(t, Detect(current, nil))
	assert.Empty(t, Detect(nil, current))
}

func TestDetectNoChanges(t *testing.T) {
	src := `syntax = "proto3";
package api;
message User {
  string name = 1;
  int32 age = 2;
}`
	assert.Empty(t, Detect(parseFile(t, src), parseFile(t, src)))
}

func TestDetectFieldRemoved(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message User {
  string name = 1;
  int32 age = 2;
}`)
	current := parseFile(t, `syntax = "proto3";
package api;
message User {
  string name = 1;
}`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	change := changes[0]
	assert.Equal(t, CategoryFieldRemoved, change.Category)
	assert.Equal(t, "api.User.age", change.Location)
	assert.Contains(t, change.Message, "number 2")
	assert.True(t, change.WireBreaking)
	assert.Contains(t, change.Suggestion, "reserve 2")
}

func TestDetectFieldTypeChanged(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message User { int32 age = 1; }`)
	current := parseFile(t, `syntax = "proto3";
package api;
message User { string age = 1; }`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, CategoryFieldTypeChanged, changes[0].Category)
	assert.Equal(t, "int32", changes[0].OldValue)
	assert.Equal(t, "string", changes[0].NewValue)
}

func TestDetectRepeatedChangeIsTypeChange(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
message User { string tag = 1; }`)
	current := parseFile(t, `syntax = "proto3";
message User { repeated string tag = 1; }`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, CategoryFieldTypeChanged, changes[0].Category)
}

func TestDetectFieldNumberReused(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message User { string name = 1; }`)
	current := parseFile(t, `syntax = "proto3";
package api;
message User { string email = 1; }`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 2, "removal plus reuse")
	assert.Equal(t, CategoryFieldRemoved, changes[1].Category)
	assert.Equal(t, "api.User.name", changes[1].Location)

	reuse := changes[0]
	assert.Equal(t, CategoryFieldNumberReused, reuse.Category)
	assert.Equal(t, "api.User.email", reuse.Location)
	assert.True(t, reuse.WireBreaking)
}

func TestDetectFieldNumberChanged(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
message User { string name = 1; }`)
	current := parseFile(t, `syntax = "proto3";
message User { string name = 5; }`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, CategoryFieldNumberReused, changes[0].Category)
}

func TestDetectRemovedMessageReportsItsFields(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message Kept { string id = 1; }
message Dropped {
  string a = 1;
  string b = 2;
}`)
	current := parseFile(t, `syntax = "proto3";
package api;
message Kept { string id = 1; }`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 2)
	assert.Equal(t, "api.Dropped.a", changes[0].Location)
	assert.Equal(t, "api.Dropped.b", changes[1].Location)
	for _, c := range changes {
		assert.Equal(t, CategoryFieldRemoved, c.Category)
	}
}

func TestDetectNestedMessages(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message Outer {
  message Inner { string deep = 1; }
}`)
	current := parseFile(t, `syntax = "proto3";
package api;
message Outer {
  message Inner {}
}`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, "api.Outer.Inner.deep", changes[0].Location)
}

func TestDetectOneofMembers(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
message User {
  oneof contact {
    string email = 1;
    string phone = 2;
  }
}`)
	current := parseFile(t, `syntax = "proto3";
message User {
  oneof contact {
    string email = 1;
  }
}`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, CategoryFieldRemoved, changes[0].Category)
	assert.Equal(t, "User.phone", changes[0].Location)
}

func TestDetectEnumValueRemoved(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
enum Status {
  STATUS_UNSPECIFIED = 0;
  STATUS_ACTIVE = 1;
}`)
	current := parseFile(t, `syntax = "proto3";
package api;
enum Status {
  STATUS_UNSPECIFIED = 0;
}`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	assert.Equal(t, CategoryEnumValueRemoved, changes[0].Category)
	assert.Equal(t, "api.Status.STATUS_ACTIVE", changes[0].Location)
}

func TestDetectRPCRemoved(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
package api;
message Empty {}
service Users {
  rpc Get(Empty) returns (Empty);
  rpc Delete(Empty) returns (Empty);
}`)
	current := parseFile(t, `syntax = "proto3";
package api;
message Empty {}
service Users {
  rpc Get(Empty) returns (Empty);
}`)

	changes := Detect(current, baseline)
	require.Len(t, changes, 1)
	change := changes[0]
	assert.Equal(t, CategoryRPCRemoved, change.Category)
	assert.Equal(t, "api.Users.Delete", change.Location)
	assert.False(t, change.WireBreaking)
	assert.True(t, change.SourceBreaking)
}

func TestDetectAddedFieldIsNotBreaking(t *testing.T) {
	baseline := parseFile(t, `syntax = "proto3";
message User { string name = 1; }`)
	current := parseFile(t, `syntax = "proto3";
message User {
  string name = 1;
  string email = 2;
}`)

	assert.Empty(t, Detect(current, baseline))
}

func TestSummarize(t *testing.T) {
	changes := []Change{
		{Category: CategoryFieldRemoved, WireBreaking: true, SourceBreaking: true},
		{Category: CategoryRPCRemoved, SourceBreaking: true},
	}
	summary := Summarize(changes)
	assert.Equal(t, 2, summary.TotalChanges)
	assert.Equal(t, 1, summary.WireBreaking)
	assert.Equal(t, 2, summary.SourceBreaking)
}
