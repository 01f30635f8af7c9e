package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateFieldNumberRule(t *testing.T) {
	rule := NewDuplicateFieldNumberRule()

	t.Run("unique numbers pass", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  string id = 1;
  string name = 2;
}`)
		assert.Empty(t, rule.Check(ctx))
	})

	t.Run("fires once per extra occurrence", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  string a = 1;
  string b = 1;
  string c = 1;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 2, "findings: %v", messagesOf(findings))
		assert.Contains(t, findings[0].Message, `already used by field "a"`)
	})

	t.Run("oneof members share the message number space", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  string id = 1;
  oneof contact {
    string email = 1;
  }
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "field number 1")
	})

	t.Run("nested messages have their own number space", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message Outer {
  string id = 1;
  message Inner {
    string id = 1;
  }
}`)
		assert.Empty(t, rule.Check(ctx))
	})
}

func TestReservedFieldNumberRule(t *testing.T) {
	rule := NewReservedFieldNumberRule()

	t.Run("implementation range flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  string id = 1;
  string bad = 19000;
  string also_bad = 19999;
  string fine = 20000;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 2, "findings: %v", messagesOf(findings))
		assert.Contains(t, findings[0].Message, "19000")
	})

	t.Run("declared reserved number flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  reserved 2, 5 to 8;
  string a = 1;
  string b = 2;
  string c = 6;
  string d = 9;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 2, "findings: %v", messagesOf(findings))
	})

	t.Run("declared reserved name flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  reserved "old_name";
  string old_name = 1;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, `"old_name"`)
	})

	t.Run("open ended reserved range flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  reserved 100 to max;
  string late = 200;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
	})
}

func TestFirstEnumValueZeroRule(t *testing.T) {
	rule := NewFirstEnumValueZeroRule()

	t.Run("zero first passes", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
enum Status {
  STATUS_UNSPECIFIED = 0;
  STATUS_ACTIVE = 1;
}`)
		assert.Empty(t, rule.Check(ctx))
	})

	t.Run("nonzero first flagged", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
enum Status {
  STATUS_ACTIVE = 1;
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, `enum "Status"`)
	})

	t.Run("proto2 exempt", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto2";
enum Status {
  STATUS_ACTIVE = 1;
}`)
		assert.Empty(t, rule.Check(ctx))
	})

	t.Run("nested enums checked", func(t *testing.T) {
		ctx := singleFileContext(t, `syntax = "proto3";
message User {
  enum Kind {
    KIND_ADMIN = 5;
  }
}`)
		findings := rule.Check(ctx)
		require.Len(t, findings, 1)
	})
}
