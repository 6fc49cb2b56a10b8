package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	rep, err := parseReport(`{"priority_level":8,"department":"State Electricity Board","justification":"live wire exposed"}`)
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Priority)
	assert.Equal(t, "State Electricity Board", rep.Department)
	assert.Equal(t, "live wire exposed", rep.Justification)
}

func TestParseReportStripsCodeFences(t *testing.T) {
	rep, err := parseReport("```json\n{\"priority_level\":5,\"department\":\"\",\"justification\":\"minor\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Priority)
	assert.Empty(t, rep.Department)
}

func TestParseReportCoercesFloatPriority(t *testing.T) {
	rep, err := parseReport(`{"priority_level":7.0,"department":"PWD","justification":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Priority)
}

func TestParseReportMalformed(t *testing.T) {
	cases := map[string]string{
		"missing priority":      `{"department":"PWD","justification":"x"}`,
		"missing department":    `{"priority_level":3,"justification":"x"}`,
		"missing justification": `{"priority_level":3,"department":"PWD"}`,
		"priority not a number": `{"priority_level":"high","department":"PWD","justification":"x"}`,
		"not json":              `the issue looks urgent`,
		"empty":                 ``,
	}
	for name, raw := range cases {
		_, err := parseReport(raw)
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestBuildPromptEmbedsInputs(t *testing.T) {
	p := buildPrompt(Input{
		IssueType:   "potholes",
		Confidence:  0.9,
		Description: "huge pothole near the bus stop",
		Location:    "Main St, North, 500001",
	})
	assert.Contains(t, p, "potholes (confidence 0.9)")
	assert.Contains(t, p, `"huge pothole near the bus stop"`)
	assert.Contains(t, p, "Main St, North, 500001")
}

func TestGeminiWithoutKeyIsUnavailable(t *testing.T) {
	e := NewGemini("", "gemini-2.5-flash")
	_, err := e.Triage(context.Background(), Input{IssueType: "garbage"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
