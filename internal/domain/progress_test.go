package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressEventKeepsZeroResult(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(ProgressEvent{Step: StageSegmentation, Index: 1, Total: 1, Message: "Processed chunk 1/1", Result: 0})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"result":0`)
	assert.False(t, ProgressEvent{Step: StageSegmentation, Result: 0}.IsStageEvent())
}
