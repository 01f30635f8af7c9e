package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageNamingRule(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantCount int
	}{
		{
			name:      "pascal case passes",
			src:       `syntax = "proto3"; message UserProfile {}`,
			wantCount: 0,
		},
		{
			name:      "snake case flagged",
			src:       `syntax = "proto3"; message user_profile {}`,
			wantCount: 1,
		},
		{
			name:      "lowercase flagged",
			src:       `syntax = "proto3"; message user {}`,
			wantCount: 1,
		},
		{
			name: "nested messages checked",
			src: `syntax = "proto3";
message Outer {
  message inner_thing {}
}`,
			wantCount: 1,
		},
	}

	rule := NewMessageNamingRule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := singleFileContext(t, tt.src)
			findings := rule.Check(ctx)
			assert.Len(t, findings, tt.wantCount, "findings: %v", messagesOf(findings))
		})
	}
}

func TestMessageNamingSuggestion(t *testing.T) {
	rule := NewMessageNamingRule()
	ctx := singleFileContext(t, `syntax = "proto3"; message user_profile {}`)

	findings := rule.Check(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"UserProfile"}, findings[0].Suggestions)
}

func TestFieldNamingRule(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantCount int
	}{
		{
			name: "snake case passes",
			src: `syntax = "proto3";
message User { string first_name = 1; }`,
			wantCount: 0,
		},
		{
			name: "camel case flagged",
			src: `syntax = "proto3";
message User { string firstName = 1; }`,
			wantCount: 1,
		},
		{
			name: "oneof members checked",
			src: `syntax = "proto3";
message User {
  oneof contact {
    string emailAddress = 1;
    string phone = 2;
  }
}`,
			wantCount: 1,
		},
	}

	rule := NewFieldNamingRule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := singleFileContext(t, tt.src)
			findings := rule.Check(ctx)
			assert.Len(t, findings, tt.wantCount, "findings: %v", messagesOf(findings))
		})
	}
}

func TestFieldNamingSuggestion(t *testing.T) {
	rule := NewFieldNamingRule()
	ctx := singleFileContext(t, `syntax = "proto3";
message User { string firstName = 1; }`)

	findings := rule.Check(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"first_name"}, findings[0].Suggestions)
}

func TestEnumNamingRules(t *testing.T) {
	src := `syntax = "proto3";
enum status_code {
  ok = 0;
  NotFound = 1;
  INTERNAL_ERROR = 2;
}`
	ctx := singleFileContext(t, src)

	enumFindings := NewEnumNamingRule().Check(ctx)
	require.Len(t, enumFindings, 1)
	assert.Equal(t, []string{"StatusCode"}, enumFindings[0].Suggestions)

	valueFindings := NewEnumValueNamingRule().Check(ctx)
	require.Len(t, valueFindings, 2, "findings: %v", messagesOf(valueFindings))
	assert.Equal(t, []string{"OK"}, valueFindings[0].Suggestions)
	assert.Equal(t, []string{"NOT_FOUND"}, valueFindings[1].Suggestions)
}

func TestServiceNamingRule(t *testing.T) {
	src := `syntax = "proto3";
message Empty {}
service user_service {
  rpc getUser(Empty) returns (Empty);
  rpc DeleteUser(Empty) returns (Empty);
}`
	ctx := singleFileContext(t, src)

	findings := NewServiceNamingRule().Check(ctx)
	require.Len(t, findings, 2, "findings: %v", messagesOf(findings))
	assert.Equal(t, []string{"UserService"}, findings[0].Suggestions)
	assert.Equal(t, []string{"GetUser"}, findings[1].Suggestions)
}

func TestCaseConversions(t *testing.T) {
	tests := []struct {
		in        string
		pascal    string
		snake     string
		screaming string
	}{
		{"user_profile", "UserProfile", "user_profile", "USER_PROFILE"},
		{"firstName", "FirstName", "first_name", "FIRST_NAME"},
		{"HTTPServer", "HTTPServer", "h_t_t_p_server", "H_T_T_P_SERVER"},
		{"ok", "Ok", "ok", "OK"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, toPascalCase(tt.in))
			assert.Equal(t, tt.snake, toSnakeCase(tt.in))
			assert.Equal(t, tt.screaming, toScreamingSnakeCase(tt.in))
		})
	}
}
