/*
Package corvid provides reasoning frameworks for AI agents and an orchestrator
that dispatches requests to the most suitable one.

The package implements three complementary reasoning strategies:

  - ReAct: interleaves thinking, acting, and observing in a step loop
  - Chain of Thought: decomposes a problem into sequential steps
  - Tree of Thoughts: explores multiple reasoning branches with beam search

# Basic Usage

A typical application creates an orchestrator and hands it requests. The
orchestrator selects a framework based on the message, runs it, and falls
back to an alternative when the primary framework fails:

	orch := corvid.New(
		corvid.Name("assistant"),
		corvid.WithReact(react.New(react.MaxSteps(5))),
	)

	resp, err := orch.Process(ctx, api.Request{Message: "explain how recursion works"})
	if err != nil {
		// Handle error
	}
	fmt.Println(resp.Answer)

Streaming works the same way but yields events as reasoning progresses:

	ch, err := orch.ProcessStream(ctx, api.Request{Message: "compare the options"})
	for evt := range ch {
		// Handle chunks, thoughts, actions, and the final result
	}

# Architecture

The package is built around several core concepts:

 1. Engines (react, cot, tot)
    Each reasoning framework implements api.Engine and can be used on its own
    or through the orchestrator.

 2. Selector (selector.go)
    Maps an incoming message to a framework. The default selector matches
    keywords; custom selectors can route on anything.

 3. Orchestrator (orchestrator.go)
    Owns the engines, runs the selected one, and performs a single fallback
    attempt when it fails.

 4. Events (events package)
    Wire-format events emitted during streaming: chunks, thoughts, actions,
    results, and errors.

 5. Actions (action package)
    A registry of named functions the ReAct engine can execute, with JSON
    schema definitions for their parameters.

# Integration

Corvid integrates with several backend systems:

  - NATS for fanning reasoning events out to other processes
  - Temporal for durable reasoning runs
  - OpenAI-compatible providers for model-backed reasoning hooks

See the examples directory for complete implementations.
*/
package corvid
