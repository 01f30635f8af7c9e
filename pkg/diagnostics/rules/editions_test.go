package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditionsFieldPresenceRule(t *testing.T) {
	rule := NewEditionsFieldPresenceRule()

	t.Run("proto3 optional exempt", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User { optional string nickname = 1; }`)
		assert.Empty(t, rule.Check(ctx))
	})

	t.Run("proto2 required exempt", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto2";
message User { required string id = 1; }`)
		assert.Empty(t, rule.Check(ctx))
	})

	t.Run("editions optional flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `edition = "2023";
message User { optional string nickname = 1; }`)

		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "optional label")
		assert.Equal(t, []string{"remove the optional label"}, findings[0].Suggestions)
	})

	t.Run("editions required flagged with feature suggestion", func(t *testing.T) {
		ctx := singleFileContext(t, `edition = "2023";
message User { required string id = 1; }`)

		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "required label")
		assert.Equal(t, []string{"use [features.field_presence = LEGACY_REQUIRED]"}, findings[0].Suggestions)
	})

	t.Run("plain editions fields pass", func(t *testing.T) {
		ctx := singleFileContext(t, `edition = "2023";
message User {
  string id = 1;
  repeated string tags = 2;
}`)
		assert.Empty(t, rule.Check(ctx))
	})
}
