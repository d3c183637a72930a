package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameworkString(t *testing.T) {
	assert.Equal(t, "react", FrameworkReAct.String())
	assert.Equal(t, "chain_of_thought", FrameworkChainOfThought.String())
	assert.Equal(t, "tree_of_thoughts", FrameworkTreeOfThoughts.String())
	assert.Equal(t, "framework(0)", Framework(0).String())
}

func TestFrameworkIsValid(t *testing.T) {
	assert.False(t, Framework(0).IsValid())
	assert.True(t, FrameworkReAct.IsValid())
	assert.True(t, FrameworkChainOfThought.IsValid())
	assert.True(t, FrameworkTreeOfThoughts.IsValid())
	assert.False(t, Framework(4).IsValid())
}

func TestParseFramework(t *testing.T) {
	t.Run("round trips every framework", func(t *testing.T) {
		for _, fw := range []Framework{FrameworkReAct, FrameworkChainOfThought, FrameworkTreeOfThoughts} {
			parsed, err := ParseFramework(fw.String())
			require.NoError(t, err)
			assert.Equal(t, fw, parsed)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseFramework("graph_of_thoughts")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "graph_of_thoughts")
	})
}

func TestFrameworkText(t *testing.T) {
	t.Run("marshals valid frameworks", func(t *testing.T) {
		b, err := FrameworkChainOfThought.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "chain_of_thought", string(b))
	})

	t.Run("rejects the zero value", func(t *testing.T) {
		_, err := Framework(0).MarshalText()
		require.Error(t, err)
	})

	t.Run("unmarshals wire names", func(t *testing.T) {
		var fw Framework
		require.NoError(t, fw.UnmarshalText([]byte("tree_of_thoughts")))
		assert.Equal(t, FrameworkTreeOfThoughts, fw)

		require.Error(t, fw.UnmarshalText([]byte("nope")))
	})
}
