package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"path":   {Type: TypeString},
			"offset": {Type: TypeInteger},
			"mode":   {Type: TypeString, Enum: []string{"text", "hex"}},
			"ratio":  {Type: TypeNumber},
			"follow": {Type: TypeBoolean},
			"tags":   {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"env": {
				Type:       TypeObject,
				Properties: map[string]*Schema{"name": {Type: TypeString}},
			},
		},
		Required: []string{"path"},
	}
}

func TestSchemaValidate_Valid(t *testing.T) {
	args := map[string]any{
		"path":   "/ws/a.txt",
		"offset": float64(10),
		"mode":   "hex",
		"ratio":  0.5,
		"follow": true,
		"tags":   []any{"a", "b"},
		"env":    map[string]any{"name": "x"},
	}
	assert.NoError(t, readSchema().Validate(args))
}

func TestSchemaValidate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		path string
	}{
		{"missing required", map[string]any{}, "path"},
		{"null required", map[string]any{"path": nil}, "path"},
		{"wrong type", map[string]any{"path": 42.0}, "path"},
		{"fractional integer", map[string]any{"path": "p", "offset": 1.5}, "offset"},
		{"enum mismatch", map[string]any{"path": "p", "mode": "binary"}, "mode"},
		{"unknown key", map[string]any{"path": "p", "recursive": true}, "recursive"},
		{"bad array item", map[string]any{"path": "p", "tags": []any{"a", 1.0}}, "tags[1]"},
		{"bad nested", map[string]any{"path": "p", "env": map[string]any{"name": false}}, "env.name"},
		{"bool as string", map[string]any{"path": "p", "follow": "true"}, "follow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := readSchema().Validate(tt.args)
			require.Error(t, err)
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.path, argErr.Path)
		})
	}
}

func TestSchemaValidate_NilSchema(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(nil))
	assert.Error(t, s.Validate(map[string]any{"x": 1}))
}

func TestError_IsByCode(t *testing.T) {
	err := NewError(CodePathEscape, "", errors.New("outside root"))

	assert.Equal(t, "outside root", err.Message)
	assert.ErrorIs(t, err, &Error{Code: CodePathEscape})
	assert.NotErrorIs(t, err, &Error{Code: CodeUnsafeCommand})
	assert.Equal(t, CodePathEscape, CodeOf(err))
}

func TestResultConstructors(t *testing.T) {
	ok := Success("c1", "read_file", Output{Content: "hello"})
	assert.Equal(t, StatusSuccess, ok.Status)
	assert.Equal(t, TextDisplay("hello"), ok.Display)
	assert.Nil(t, ok.Err)

	failed := Failure("c2", "run_shell", NewError(CodeExecutionFailure, "exit status 1", nil), "stderr: boom")
	assert.Equal(t, StatusError, failed.Status)
	assert.Contains(t, failed.ModelPayload, "TOOL_EXECUTION_FAILURE")
	assert.Contains(t, failed.ModelPayload, "stderr: boom")

	declined := Declined("c3", "write_file")
	assert.Equal(t, CodeUserDeclined, declined.Err.Code)
	assert.Equal(t, DisplayText, declined.Display.Kind())
}
