package controller

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverToolCall(t *testing.T) {
	t.Run("single-quoted raw fragment", func(t *testing.T) {
		call, ok := RecoverToolCall(
			`error parsing tool call: invalid character 'x', raw='{"name": "search", "arguments": {"query": "foo"}}'`,
		)
		require.True(t, ok)
		assert.Equal(t, "search", call.Name)
		assert.Equal(t, "foo", call.Args["query"])
	})

	t.Run("backtick raw fragment", func(t *testing.T) {
		call, ok := RecoverToolCall(
			"error parsing tool call: unexpected token, raw=`{\"name\": \"terminal\", \"arguments\": {\"command\": \"ls\"}}`",
		)
		require.True(t, ok)
		assert.Equal(t, "terminal", call.Name)
		assert.Equal(t, "ls", call.Args["command"])
	})

	t.Run("smart quotes in the fragment", func(t *testing.T) {
		call, ok := RecoverToolCall(
			`error parsing tool call: invalid character '“', raw='{“name”: “read_file”, “arguments”: {“path”: “main.go”}}'`,
		)
		require.True(t, ok)
		assert.Equal(t, "read_file", call.Name)
		assert.Equal(t, "main.go", call.Args["path"])
	})

	t.Run("no raw marker falls back to widest brace span", func(t *testing.T) {
		call, ok := RecoverToolCall(
			`error parsing tool call: {"name": "search", "arguments": {"query": "bar"}} could not be decoded`,
		)
		require.True(t, ok)
		assert.Equal(t, "search", call.Name)
	})

	t.Run("bare argument object infers the tool", func(t *testing.T) {
		tests := []struct {
			fragment string
			want     string
		}{
			{`{"query": "foo"}`, "search"},
			{`{"path": "a.go", "content": "x"}`, "write"},
			{`{"command": "go test ./..."}`, "terminal"},
			{`{"symbolName": "Budgeter", "path": "budget.go"}`, "find_definition"},
			{`{"path": "a.go"}`, "read_file"},
		}
		for _, tt := range tests {
			call, ok := RecoverToolCall("error parsing tool call: raw='" + tt.fragment + "'")
			require.True(t, ok, "fragment %s", tt.fragment)
			assert.Equal(t, tt.want, call.Name, "fragment %s", tt.fragment)
		}
	})

	t.Run("uninferable shapes fail", func(t *testing.T) {
		_, ok := RecoverToolCall(`error parsing tool call: raw='{"mystery": true}'`)
		assert.False(t, ok)

		_, ok = RecoverToolCall(`error parsing tool call: nothing to salvage`)
		assert.False(t, ok)
	})
}

func TestRecoverToolCalls(t *testing.T) {
	log := slog.Default()

	t.Run("all recovered means no hint", func(t *testing.T) {
		calls, hint := RecoverToolCalls([]string{
			`error parsing tool call: raw='{"name": "search", "arguments": {"query": "a"}}'`,
			`error parsing tool call: raw='{"path": "b.go"}'`,
		}, log)
		require.Len(t, calls, 2)
		assert.Equal(t, "search", calls[0].Name)
		assert.Equal(t, "read_file", calls[1].Name)
		assert.Empty(t, hint)
	})

	t.Run("unrecoverable failures produce a format hint", func(t *testing.T) {
		calls, hint := RecoverToolCalls([]string{
			`error parsing tool call: raw='{"name": "search", "arguments": {"query": "a"}}'`,
			`error parsing tool call: total garbage`,
		}, log)
		require.Len(t, calls, 1)
		assert.Contains(t, hint, "1 of your tool calls could not be parsed")
		assert.Contains(t, hint, `{"name": "tool", "arguments": {...}}`)
	})

	t.Run("empty input", func(t *testing.T) {
		calls, hint := RecoverToolCalls(nil, log)
		assert.Empty(t, calls)
		assert.Empty(t, hint)
	})
}
