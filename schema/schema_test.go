package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinatorDecisionAccepts(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	raw := []byte(`{"next_agent":"weather","task":"t","expected_output":"e","stop":false,"needed_tools":["weather_tool"]}`)
	assert.NoError(t, v.ValidateCoordinatorDecision(raw))
}

func TestValidateCoordinatorDecisionRejectsMissingField(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	raw := []byte(`{"task":"t","expected_output":"e"}`)
	assert.Error(t, v.ValidateCoordinatorDecision(raw))
}

func TestValidateRecoveryFixResponseAccepts(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	raw := []byte(`{"action":"retry_tool","reason":"widen search","params_patch":{"language":"pl"}}`)
	assert.NoError(t, v.ValidateRecoveryFixResponse(raw))
}

func TestValidateRecoveryFixResponseRejectsBadAction(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	raw := []byte(`{"action":"do_something_else","reason":"x"}`)
	assert.Error(t, v.ValidateRecoveryFixResponse(raw))
}
