package tot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode(t *testing.T) {
	t.Run("root starts at depth zero with full score", func(t *testing.T) {
		root := NewRoot("start here")
		assert.True(t, root.IsRoot())
		assert.Equal(t, 0, root.Depth)
		assert.InDelta(t, 1.0, root.Score, 1e-9)
	})

	t.Run("children are one level deeper than their parent", func(t *testing.T) {
		root := NewRoot("start")
		child := root.NewChild("next", 0.7)
		grandchild := child.NewChild("further", 0.6)

		assert.Equal(t, 1, child.Depth)
		assert.Equal(t, 2, grandchild.Depth)
		assert.False(t, child.IsRoot())
		assert.Same(t, root, child.Parent)
		require.Len(t, root.Children, 1)
		assert.Same(t, child, root.Children[0])
	})

	t.Run("path walks from root to node", func(t *testing.T) {
		root := NewRoot("a")
		leaf := root.NewChild("b", 0.8).NewChild("c", 0.7)
		assert.Equal(t, []string{"a", "b", "c"}, leaf.Path())
		assert.Equal(t, []string{"a"}, root.Path())
	})
}

func TestFrontier(t *testing.T) {
	t.Run("pops highest score first", func(t *testing.T) {
		f := newFrontier()
		f.push(&Node{Thought: "low", Score: 0.2})
		f.push(&Node{Thought: "high", Score: 0.9})
		f.push(&Node{Thought: "mid", Score: 0.5})

		assert.Equal(t, "high", f.pop().Thought)
		assert.Equal(t, "mid", f.pop().Thought)
		assert.Equal(t, "low", f.pop().Thought)
		assert.Zero(t, f.Len())
	})

	t.Run("ties break on insertion order", func(t *testing.T) {
		f := newFrontier()
		f.push(&Node{Thought: "first", Score: 0.5})
		f.push(&Node{Thought: "second", Score: 0.5})
		f.push(&Node{Thought: "third", Score: 0.5})

		assert.Equal(t, "first", f.pop().Thought)
		assert.Equal(t, "second", f.pop().Thought)
		assert.Equal(t, "third", f.pop().Thought)
	})
}
