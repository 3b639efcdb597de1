package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specNamed(name string) ToolSpec {
	return ToolSpec{
		Name:        name,
		Description: "test tool",
		Backend:     BackendLocal,
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(specNamed("local_git_status")))

	err := r.Register(specNamed("local_git_status"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(ToolSpec{Name: "   "}))
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_Resolve_Idempotent(t *testing.T) {
	r := NewRegistry()
	spec := ToolSpec{
		Name:        "local_git_commit",
		Description: "Record changes to the repository",
		Parameters: []Parameter{
			{Name: "message", Type: "string", Required: true},
		},
		Destructive: true,
		Backend:     BackendLocal,
	}
	require.NoError(t, r.Register(spec))

	first, err := r.Resolve("local_git_commit")
	require.NoError(t, err)
	second, err := r.Resolve("local_git_commit")
	require.NoError(t, err)

	assert.Equal(t, spec, first)
	assert.Equal(t, first, second)
}

func TestRegistry_List_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		require.NoError(t, r.Register(specNamed(n)))
	}

	listed := r.List()
	require.Len(t, listed, len(names))
	for i, n := range names {
		assert.Equal(t, n, listed[i].Name)
	}

	// A second listing must come back in the same order.
	again := r.List()
	assert.Equal(t, listed, again)
}

func TestToolSpec_Schema_FromParameters(t *testing.T) {
	spec := ToolSpec{
		Name: "local_git_log",
		Parameters: []Parameter{
			{Name: "n", Type: "integer", Description: "number of commits", Required: false},
			{Name: "path", Type: "string", Required: true},
		},
	}

	schema := spec.Schema()
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "n")
	require.Contains(t, props, "path")

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"path"}, required)
}

func TestToolSpec_Schema_RawSchemaWins(t *testing.T) {
	raw := map[string]any{
		"type":       "object",
		"properties": map[string]any{"issue_number": map[string]any{"type": "number"}},
	}
	spec := ToolSpec{
		Name:       "get_issue",
		Parameters: []Parameter{{Name: "ignored", Type: "string"}},
		RawSchema:  raw,
	}

	assert.Equal(t, raw, spec.Schema())
}

func TestToolResult_Text(t *testing.T) {
	ok := Success("call-1", "On branch main")
	assert.True(t, ok.OK())
	assert.Equal(t, "On branch main", ok.Text())

	failed := Failure("call-2", KindAuth, "bad credentials")
	assert.False(t, failed.OK())
	assert.Equal(t, "auth: bad credentials", failed.Text())
}

func TestToolError_Retryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindRateLimited, true},
		{KindNetwork, true},
		{KindAuth, false},
		{KindExecution, false},
		{KindConfirmationDenied, false},
		{KindUnknownTool, false},
	}
	for _, tt := range tests {
		e := &ToolError{Kind: tt.kind, Message: "x"}
		assert.Equal(t, tt.want, e.Retryable(), "kind %s", tt.kind)
	}
}
