package kinship

import (
	"fmt"
	"slices"

	"github.com/matzehuels/lineage/pkg/gedcom"
)

// TreeNode is the canonical node for one individual inside a single
// traversal structure.
//
// Children holds the tree edges reached from the root. Parents and Spouses
// list identifiers of relatives that are also part of the same node set, so
// renderers can draw non-tree relations without following pointers back into
// the tree.
type TreeNode struct {
	ID       string
	Person   *gedcom.Individual
	Children []*TreeNode
	Parents  []string
	Spouses  []string
}

// Hierarchy is a canonical tree rooted at one individual plus the flat set of
// every node reachable from it through parent, child and spouse relations.
// Nodes reachable only sideways (parents, in-laws) are in the set but carry
// no tree children unless the descent from the root reached them first.
type Hierarchy struct {
	Root  *TreeNode
	nodes map[string]*TreeNode
	order []string
}

// Node returns the canonical node for id.
func (h *Hierarchy) Node(id string) (*TreeNode, bool) {
	n, ok := h.nodes[gedcom.NormalizeID(id)]
	return n, ok
}

// Len returns the number of canonical nodes.
func (h *Hierarchy) Len() int { return len(h.order) }

// IDs returns the canonical node identifiers in discovery order.
func (h *Hierarchy) IDs() []string { return slices.Clone(h.order) }

// Nodes returns all canonical nodes in discovery order.
func (h *Hierarchy) Nodes() []*TreeNode {
	out := make([]*TreeNode, len(h.order))
	for i, id := range h.order {
		out[i] = h.nodes[id]
	}
	return out
}

// Individuals returns the individuals behind Nodes, in the same order.
func (h *Hierarchy) Individuals() []*gedcom.Individual {
	out := make([]*gedcom.Individual, len(h.order))
	for i, id := range h.order {
		out[i] = h.nodes[id].Person
	}
	return out
}

// Walk visits tree nodes depth-first from the root. Returning false stops
// the descent below that node.
func (h *Hierarchy) Walk(fn func(n *TreeNode, depth int) bool) {
	var walk func(n *TreeNode, depth int)
	walk = func(n *TreeNode, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if h.Root != nil {
		walk(h.Root, 0)
	}
}

// BuildHierarchy builds the canonical hierarchy rooted at rootID.
//
// Construction runs in two passes. The first collects one node per
// identifier over the whole connected component. The second descends from
// the root through children only, marking each identifier visited before
// recursing, so a child already placed elsewhere in the tree is not added
// again.
func BuildHierarchy(doc *gedcom.Document, rootID string) (*Hierarchy, error) {
	h := &Hierarchy{nodes: make(map[string]*TreeNode)}
	root, ok := doc.Individual(rootID)
	if !ok {
		return h, fmt.Errorf("%w: %s", ErrNotFound, rootID)
	}

	h.collect(root)
	for _, id := range h.order {
		n := h.nodes[id]
		n.Parents = h.members(n.Person.Parents)
		n.Spouses = h.members(slices.Concat(n.Person.Spouses, n.Person.ExSpouses))
	}

	visited := make(map[string]bool, len(h.order))
	var build func(ind *gedcom.Individual) *TreeNode
	build = func(ind *gedcom.Individual) *TreeNode {
		n := h.nodes[ind.ID]
		if n == nil || visited[ind.ID] {
			return nil
		}
		visited[ind.ID] = true
		for _, c := range ind.Children {
			if child := build(c); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		return n
	}
	h.Root = build(root)
	return h, nil
}

// collect allocates a node per identifier reachable through any relation.
// It uses an explicit stack; long lineages would otherwise recurse once per
// generation on every branch.
func (h *Hierarchy) collect(root *gedcom.Individual) {
	stack := []*gedcom.Individual{root}
	for len(stack) > 0 {
		ind := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := h.nodes[ind.ID]; seen {
			continue
		}
		h.nodes[ind.ID] = &TreeNode{ID: ind.ID, Person: ind}
		h.order = append(h.order, ind.ID)

		for _, group := range [][]*gedcom.Individual{ind.ExSpouses, ind.Spouses, ind.Parents, ind.Children} {
			for i := len(group) - 1; i >= 0; i-- {
				if _, seen := h.nodes[group[i].ID]; !seen {
					stack = append(stack, group[i])
				}
			}
		}
	}
}

func (h *Hierarchy) members(people []*gedcom.Individual) []string {
	var out []string
	for _, p := range people {
		if _, ok := h.nodes[p.ID]; ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// AncestorTree builds a tree from id upward through parents. Each node's
// Children holds that person's parents. depth limits the number of
// generations below the root (0 means unbounded).
func AncestorTree(doc *gedcom.Document, id string, depth int) (*TreeNode, error) {
	return lineageTree(doc, id, depth, func(i *gedcom.Individual) []*gedcom.Individual { return i.Parents })
}

// DescendantTree builds a tree from id downward through children. depth
// limits the number of generations below the root (0 means unbounded).
func DescendantTree(doc *gedcom.Document, id string, depth int) (*TreeNode, error) {
	return lineageTree(doc, id, depth, func(i *gedcom.Individual) []*gedcom.Individual { return i.Children })
}

func lineageTree(doc *gedcom.Document, id string, depth int, next func(*gedcom.Individual) []*gedcom.Individual) (*TreeNode, error) {
	root, ok := doc.Individual(id)
	if !ok {
		return &TreeNode{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	visited := make(map[string]bool)
	var build func(ind *gedcom.Individual, level int) *TreeNode
	build = func(ind *gedcom.Individual, level int) *TreeNode {
		visited[ind.ID] = true
		n := &TreeNode{ID: ind.ID, Person: ind}
		for _, s := range slices.Concat(ind.Spouses, ind.ExSpouses) {
			n.Spouses = append(n.Spouses, s.ID)
		}
		for _, p := range ind.Parents {
			n.Parents = append(n.Parents, p.ID)
		}
		if depth > 0 && level >= depth {
			return n
		}
		for _, rel := range next(ind) {
			if visited[rel.ID] {
				continue
			}
			n.Children = append(n.Children, build(rel, level+1))
		}
		return n
	}
	return build(root, 0), nil
}
