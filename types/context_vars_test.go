package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextVarsString(t *testing.T) {
	cv := ContextVars{"user": "alice", "attempt": 2}
	s := cv.String()
	assert.Contains(t, s, `"user":"alice"`)
	assert.Contains(t, s, `"attempt":2`)

	assert.Equal(t, "{}", ContextVars{}.String())
}
