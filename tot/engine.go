package tot

import (
	"context"
	"strconv"
	"time"

	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/pkg/uuidx"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
)

const (
	// DefaultMaxDepth bounds how deep any branch may grow.
	DefaultMaxDepth = 5
	// DefaultBeamWidth bounds candidate fan-out per expansion.
	DefaultBeamWidth = 3
	// DefaultMinScore is the acceptance floor for candidate thoughts.
	DefaultMinScore = 0.5
)

var _ api.Engine = (*Engine)(nil)

// Engine is the tree-of-thoughts reasoning engine. Each Process call builds
// a fresh tree; the previous tree is discarded at the start of the next call
// or on Cleanup.
type Engine struct {
	maxDepth  int
	beamWidth int
	minScore  float64
	expand    Expander
	score     Scorer
	tree      *Node
}

var (
	// MaxDepth overrides the per-branch depth bound.
	MaxDepth = opts.ForName[Engine, int]("maxDepth")
	// BeamWidth overrides the candidate fan-out bound.
	BeamWidth = opts.ForName[Engine, int]("beamWidth")
	// MinScore overrides the candidate acceptance floor.
	MinScore = opts.ForName[Engine, float64]("minScore")
	// WithExpander replaces the candidate generation hook.
	WithExpander = opts.ForName[Engine, Expander]("expand")
	// WithScorer replaces the candidate scoring hook.
	WithScorer = opts.ForName[Engine, Scorer]("score")
)

// New creates a tree-of-thoughts engine with the documented defaults.
func New(options ...opts.Option[Engine]) *Engine {
	engine := &Engine{
		maxDepth:  DefaultMaxDepth,
		beamWidth: DefaultBeamWidth,
		minScore:  DefaultMinScore,
		expand:    defaultExpander{},
		score:     defaultScorer{},
	}
	if err := opts.Apply(engine, options); err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Framework() api.Framework {
	return api.FrameworkTreeOfThoughts
}

func (e *Engine) Process(ctx context.Context, req api.Request) (api.Response, error) {
	return e.process(ctx, req, nil)
}

func (e *Engine) process(ctx context.Context, req api.Request, progress Progress) (api.Response, error) {
	root := NewRoot(req.Message)
	e.tree = root

	resp := api.Response{
		RunID:     uuidx.New(),
		Timestamp: strfmt.DateTime(time.Now()),
	}

	var trail []string
	explored := 0
	explorer := &Explorer{
		MaxDepth:  e.maxDepth,
		BeamWidth: e.beamWidth,
		MinScore:  e.minScore,
		Expand:    e.expand,
		Score:     e.score,
		Progress: func(node *Node, newBest bool) {
			if !newBest {
				trail = append(trail, node.Thought)
				explored++
			}
			if progress != nil {
				progress(node, newBest)
			}
		},
	}

	best, err := explorer.Explore(ctx, root, req.Context)
	if err != nil {
		resp.ThoughtProcess = trail
		resp.Error = err.Error()
		return resp, api.NewFrameworkError(api.FrameworkTreeOfThoughts, err)
	}

	resp.Answer = best.Thought
	resp.ThoughtProcess = best.Path()
	resp.SetMeta("tree_depth", best.Depth)
	resp.SetMeta("best_score", best.Score)
	resp.SetMeta("nodes_explored", explored)
	return resp, nil
}

func (e *Engine) ProcessStream(ctx context.Context, req api.Request) (<-chan events.Event, error) {
	out := make(chan events.Event, 10)
	go func() {
		defer close(out)

		runID := uuidx.New()
		emit := func(evt events.Event) {
			select {
			case out <- evt:
			case <-ctx.Done():
			}
		}

		emit(events.Delim{RunID: runID, Delim: "start"})
		resp, err := e.process(ctx, req, func(node *Node, newBest bool) {
			if newBest {
				emit(events.Chunk{
					RunID:     runID,
					Sender:    e.Framework().String(),
					Content:   "new best thought at depth " + strconv.Itoa(node.Depth),
					Timestamp: strfmt.DateTime(time.Now()),
				})
				return
			}
			emit(events.Thought{
				RunID:     runID,
				Sender:    e.Framework().String(),
				Content:   node.Thought,
				Score:     node.Score,
				Depth:     node.Depth,
				Timestamp: strfmt.DateTime(time.Now()),
			})
		})
		if err != nil {
			emit(events.Error{RunID: runID, Sender: e.Framework().String(), Err: err, Timestamp: strfmt.DateTime(time.Now())})
			return
		}
		emit(events.Result{
			RunID:     runID,
			Sender:    e.Framework().String(),
			Answer:    resp.Answer,
			Metadata:  resp.Metadata,
			Timestamp: strfmt.DateTime(time.Now()),
		})
		emit(events.Delim{RunID: runID, Delim: "end"})
	}()
	return out, nil
}

// Cleanup discards the last tree.
func (e *Engine) Cleanup(context.Context) error {
	e.tree = nil
	return nil
}
