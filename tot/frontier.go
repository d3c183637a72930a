package tot

import "container/heap"

// frontier is an explicit max-heap over nodes ordered by score. Ties break
// on insertion order: of two equally scored nodes the one pushed first is
// dequeued first, which keeps exploration deterministic for a fixed input
// sequence.
type frontier struct {
	entries []frontierEntry
	seq     uint64
}

type frontierEntry struct {
	node *Node
	seq  uint64
}

func newFrontier() *frontier {
	return &frontier{}
}

func (f *frontier) Len() int { return len(f.entries) }

func (f *frontier) Less(i, j int) bool {
	if f.entries[i].node.Score != f.entries[j].node.Score {
		return f.entries[i].node.Score > f.entries[j].node.Score
	}
	return f.entries[i].seq < f.entries[j].seq
}

func (f *frontier) Swap(i, j int) {
	f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
}

func (f *frontier) Push(x any) {
	f.entries = append(f.entries, x.(frontierEntry))
}

func (f *frontier) Pop() any {
	old := f.entries
	n := len(old)
	entry := old[n-1]
	old[n-1] = frontierEntry{}
	f.entries = old[:n-1]
	return entry
}

func (f *frontier) push(node *Node) {
	heap.Push(f, frontierEntry{node: node, seq: f.seq})
	f.seq++
}

func (f *frontier) pop() *Node {
	return heap.Pop(f).(frontierEntry).node
}
