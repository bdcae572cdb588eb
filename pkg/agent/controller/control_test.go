package controller

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlPacketRender(t *testing.T) {
	p := ControlPacket{
		State:               ControlNeedTools,
		Iteration:           2,
		MaxIterations:       10,
		RemainingIterations: 8,
		ToolResults:         "2 tool call(s) succeeded",
	}
	rendered := p.Render()

	require.True(t, strings.HasPrefix(rendered, controlOpen))
	body, directive, found := strings.Cut(strings.TrimPrefix(rendered, controlOpen), controlClose)
	require.True(t, found)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "need_tools", decoded["state"])
	assert.Equal(t, float64(2), decoded["iteration"])
	assert.Equal(t, float64(10), decoded["maxIterations"])
	assert.Equal(t, float64(8), decoded["remainingIterations"])
	// nil slice renders as [], not null — weaker models choke on null.
	assert.Equal(t, []any{}, decoded["filesChanged"])
	assert.Equal(t, "2 tool call(s) succeeded", decoded["toolResults"])
	_, hasNote := decoded["note"]
	assert.False(t, hasNote)

	assert.Equal(t, "\nProceed with tool calls or [TASK_COMPLETE].", directive)
	// The packet is one compact JSON line, no spaces after colons.
	assert.Contains(t, rendered, `"state":"need_tools"`)
}

func TestControlPacketDirectives(t *testing.T) {
	assert.Contains(t, ControlPacket{State: ControlNeedFixes}.Render(), "Fix the failures reported above")
	assert.Contains(t, ControlPacket{State: ControlNeedSummary}.Render(), "This is your final step.")
	assert.Contains(t, ControlPacket{State: ControlNeedTools}.Render(), "Proceed with tool calls or")
}

func TestControlState(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "well-formed packet",
			text: `prose <agent_control>{"state": "complete"}</agent_control> more`,
			want: ControlComplete,
		},
		{
			name: "missing close tag",
			text: `<agent_control>{"state": "need_tools", "iteration": 3}`,
			want: ControlNeedTools,
		},
		{
			name: "smart quotes",
			text: `<agent_control>{“state”: “complete”}</agent_control>`,
			want: ControlComplete,
		},
		{
			name: "no packet",
			text: "just some prose about agent_control",
			want: "",
		},
		{
			name: "tag with unparseable body",
			text: `<agent_control>not json</agent_control>`,
			want: "",
		},
		{
			name: "open tag and never any JSON",
			text: `<agent_control>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, controlState(tt.text))
		})
	}
}
