// Package tot implements the tree-of-thoughts reasoning engine: a bounded
// best-first search over candidate thoughts. Exploration keeps a frontier of
// the highest scoring nodes, expands them through a pluggable generation
// hook, scores candidates through a pluggable scoring hook, and returns the
// best node seen anywhere in the run.
//
// The search is deliberately bounded on three axes: per-branch depth
// (maxDepth), candidate fan-out (beamWidth), and total dequeues
// (beamWidth*maxDepth). A shallow node can win; the root always can, so the
// explorer never returns an empty result.
package tot
