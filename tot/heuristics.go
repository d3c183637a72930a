package tot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/casualjim/corvid/provider"
	"github.com/casualjim/corvid/types"
)

// defaultExpander produces fixed phrasings around the parent thought. It is
// the stand-in used when no Generator is configured; real deployments swap
// in GeneratorExpander.
type defaultExpander struct{}

func (defaultExpander) Expand(_ context.Context, node *Node, _ types.ContextVars) ([]string, error) {
	return []string{
		"Consider alternative: " + node.Thought,
		"What if we try a different angle on: " + node.Thought,
		"Another approach: " + node.Thought,
	}, nil
}

// defaultScorer scores a thought from cheap surface features: a base score,
// a length bonus and a bonus for interrogative phrasing.
type defaultScorer struct{}

func (defaultScorer) Score(_ context.Context, thought string, _ types.ContextVars) (float64, error) {
	score := 0.5
	if bonus := float64(len(thought)) / 500.0; bonus > 0.3 {
		score += 0.3
	} else {
		score += bonus
	}
	if strings.Contains(thought, "?") {
		score += 0.2
	}
	return score, nil
}

// GeneratorExpander delegates candidate generation to an LLM provider. The
// model is asked for one alternative per line; blank lines are skipped.
func GeneratorExpander(gen provider.Generator) Expander {
	return ExpanderFunc(func(ctx context.Context, node *Node, cv types.ContextVars) ([]string, error) {
		out, err := gen.Complete(ctx, provider.Prompt{
			Instructions: "You explore alternative lines of reasoning. Respond with up to three alternative next thoughts, one per line, no numbering.",
			Input:        node.Thought,
			Context:      cv,
		})
		if err != nil {
			return nil, fmt.Errorf("thought generation failed: %w", err)
		}
		var thoughts []string
		for _, line := range strings.Split(out, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				thoughts = append(thoughts, line)
			}
		}
		return thoughts, nil
	})
}

// GeneratorScorer delegates scoring to an LLM provider, which is asked for a
// single number between 0 and 1.
func GeneratorScorer(gen provider.Generator) Scorer {
	return ScorerFunc(func(ctx context.Context, thought string, cv types.ContextVars) (float64, error) {
		out, err := gen.Complete(ctx, provider.Prompt{
			Instructions: "Rate the promise of the following line of reasoning. Respond with a single number between 0 and 1, nothing else.",
			Input:        thought,
			Context:      cv,
		})
		if err != nil {
			return 0, fmt.Errorf("thought scoring failed: %w", err)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
		if err != nil {
			return 0, fmt.Errorf("scorer returned %q, expected a number: %w", out, err)
		}
		return score, nil
	})
}
