package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorDecisionValidateRejectsEmptyFields(t *testing.T) {
	d := NewCoordinatorDecision("", "task", "output", false, nil)
	err := d.Validate()
	require.Error(t, err)

	var oe *OrchestratorError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, KindInvalidDecision, oe.Kind)
	assert.True(t, errors.Is(err, ErrInvalidDecision))
}

func TestCoordinatorDecisionValidateAcceptsStopWithEmptyNeededTools(t *testing.T) {
	d := NewCoordinatorDecision("coordinator", "stop", "none", true, nil)
	require.NoError(t, d.Validate())
	assert.Empty(t, d.NeededTools)
}

func TestCoordinatorDecisionFromDictDefaults(t *testing.T) {
	d := CoordinatorDecisionFromDict(map[string]any{
		"next_agent":      "weather",
		"task":            "t",
		"expected_output": "o",
	})
	assert.False(t, d.Stop)
	assert.Empty(t, d.NeededTools)
}

func TestCoordinatorDecisionRoundTrip(t *testing.T) {
	original := NewCoordinatorDecision("weather", "task", "output", false, []string{"weather_tool"})
	rebuilt := CoordinatorDecisionFromDict(original.ToDict())
	assert.Equal(t, original, rebuilt)
}
