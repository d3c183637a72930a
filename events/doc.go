// Package events defines the stream events emitted during a reasoning run,
// supporting type-safe handling with sender tracking and JSON serialization.
//
// Event hierarchy:
//   - Event: base interface for everything a run can emit
//     ├── Delim: stream boundary markers (start/end of a framework's output)
//     ├── Chunk: human-readable progress fragments
//     ├── Thought: one reasoning step, with score and depth where applicable
//     ├── Action: a structured action an engine decided to take
//     ├── Result: the final answer with run metadata
//     └── Error: failures with preserved run context
//
// Every event carries the run ID it belongs to and a timestamp; most carry
// the name of the framework that produced them as Sender. Custom marshaling
// uses pre-allocated type markers so events round-trip through brokers
// without reflection on the hot path.
package events
