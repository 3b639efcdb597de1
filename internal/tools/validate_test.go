package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArgs(t *testing.T) {
	spec := ToolSpec{
		Name: "local_git_commit",
		Parameters: []Parameter{
			{Name: "message", Type: "string", Required: true},
			{Name: "path", Type: "string", Required: false},
			{Name: "amend", Type: "boolean", Required: false},
			{Name: "files", Type: "array", Required: false},
			{Name: "n", Type: "integer", Required: false},
		},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{
			name: "all valid",
			args: map[string]any{"message": "Initial commit", "path": ".", "amend": false},
		},
		{
			name:    "missing required",
			args:    map[string]any{"path": "."},
			wantErr: true,
		},
		{
			name:    "wrong type for string",
			args:    map[string]any{"message": 42},
			wantErr: true,
		},
		{
			name: "integer as whole float",
			args: map[string]any{"message": "m", "n": float64(10)},
		},
		{
			name:    "integer as fractional float",
			args:    map[string]any{"message": "m", "n": 10.5},
			wantErr: true,
		},
		{
			name: "array of any",
			args: map[string]any{"message": "m", "files": []any{"a.txt", "."}},
		},
		{
			name: "undeclared argument passes through",
			args: map[string]any{"message": "m", "extra": map[string]any{"k": "v"}},
		},
		{
			name: "nil value accepted",
			args: map[string]any{"message": "m", "path": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArgs(spec, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), spec.Name)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateArgs_NoParameters(t *testing.T) {
	// Remote specs carry RawSchema only; nothing to check locally.
	spec := ToolSpec{Name: "search_repositories", RawSchema: map[string]any{"type": "object"}}
	assert.NoError(t, ValidateArgs(spec, map[string]any{"query": "gitbot"}))
}
