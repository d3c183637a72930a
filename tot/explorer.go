package tot

import (
	"context"

	"github.com/casualjim/corvid/types"
)

// Expander generates candidate successor thoughts for a node. The context
// variables are the caller supplied mapping, passed through unchanged.
type Expander interface {
	Expand(ctx context.Context, node *Node, cv types.ContextVars) ([]string, error)
}

// ExpanderFunc adapts a function to the Expander interface.
type ExpanderFunc func(ctx context.Context, node *Node, cv types.ContextVars) ([]string, error)

func (f ExpanderFunc) Expand(ctx context.Context, node *Node, cv types.ContextVars) ([]string, error) {
	return f(ctx, node, cv)
}

// Scorer assigns a quality score to a candidate thought. Scores above 1.0
// are clamped by the explorer at generation time.
type Scorer interface {
	Score(ctx context.Context, thought string, cv types.ContextVars) (float64, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, thought string, cv types.ContextVars) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, thought string, cv types.ContextVars) (float64, error) {
	return f(ctx, thought, cv)
}

// Progress is an optional per-dequeue and per-new-best callback used for
// live progress reporting. It does not affect the returned result.
type Progress func(node *Node, newBest bool)

// Explorer runs the bounded best-first search. One Explorer value is built
// per Process call; it has no state of its own beyond its configuration.
type Explorer struct {
	MaxDepth  int
	BeamWidth int
	MinScore  float64
	Expand    Expander
	Score     Scorer
	Progress  Progress
}

// Explore searches from root and returns the best scoring node encountered
// during the whole run. The root starts as best, so a valid node is always
// returned even when no candidate is ever accepted.
//
// Bounds: a node at depth >= MaxDepth is dequeued but not expanded, at most
// BeamWidth candidates are considered per expansion, and the loop stops
// after BeamWidth*MaxDepth dequeues regardless of frontier size.
//
// Hook errors abort the search and propagate to the caller; everything
// accumulated so far is discarded by the explorer (the engine preserves its
// own trail for partial results).
func (e *Explorer) Explore(ctx context.Context, root *Node, cv types.ContextVars) (*Node, error) {
	front := newFrontier()
	front.push(root)

	visited := map[string]struct{}{root.Thought: {}}
	best := root
	budget := e.BeamWidth * e.MaxDepth

	for dequeued := 0; front.Len() > 0 && dequeued < budget; dequeued++ {
		node := front.pop()
		if e.Progress != nil {
			e.Progress(node, false)
		}
		if node.Depth >= e.MaxDepth {
			// depth bound reached, drop without expanding
			continue
		}

		candidates, err := e.Expand.Expand(ctx, node, cv)
		if err != nil {
			return nil, err
		}
		if len(candidates) > e.BeamWidth {
			candidates = candidates[:e.BeamWidth]
		}

		for _, thought := range candidates {
			if _, seen := visited[thought]; seen {
				continue
			}
			visited[thought] = struct{}{}

			score, err := e.Score.Score(ctx, thought, cv)
			if err != nil {
				return nil, err
			}
			if score > 1.0 {
				score = 1.0
			}
			if score < e.MinScore {
				continue
			}

			child := node.NewChild(thought, score)
			front.push(child)

			if child.Score > best.Score {
				best = child
				if e.Progress != nil {
					e.Progress(child, true)
				}
			}
		}
	}

	return best, nil
}
