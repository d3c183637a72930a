package tot

// Node is one reasoning step in a thought tree. Nodes are never mutated
// after creation except for appending children; the tree owns its nodes
// top-down and the Parent pointer is navigation only, never used for
// cleanup.
type Node struct {
	Thought  string
	Score    float64
	Parent   *Node
	Children []*Node
	Depth    int
}

// NewRoot creates the root of a thought tree with score 1.0 and depth 0.
func NewRoot(thought string) *Node {
	return &Node{Thought: thought, Score: 1.0}
}

// NewChild creates a node one level below n, records it as a child and
// returns it. The depth invariant child.Depth == parent.Depth+1 holds by
// construction.
func (n *Node) NewChild(thought string, score float64) *Node {
	child := &Node{
		Thought: thought,
		Score:   score,
		Parent:  n,
		Depth:   n.Depth + 1,
	}
	n.Children = append(n.Children, child)
	return child
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Path returns the thoughts from the root down to n, in order.
func (n *Node) Path() []string {
	var depth int
	for cur := n; cur != nil; cur = cur.Parent {
		depth++
	}
	path := make([]string, depth)
	for cur := n; cur != nil; cur = cur.Parent {
		depth--
		path[depth] = cur.Thought
	}
	return path
}
