package transform

import "github.com/matzehuels/lineage/pkg/dag"

// AssignLayers assigns nodes to generation rows based on their depth along
// parent edges.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Each node is placed one row below the deepest of its parents,
// so:
//   - People with no recorded parents start at row 0
//   - Parents are always strictly above their children
//
// Existing row assignments are overwritten. Spouse edges are ignored; use
// [AlignSpouses] afterwards to pull married-in partners level.
//
// AssignLayers assumes the parent edges are acyclic. Nodes on a cycle never
// reach zero in-degree and stay at row 0, so run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// AlignSpouses moves partners without recorded parents down to the row of
// the partner they married, then pushes their descendants down so parent
// edges still point to later rows. Rows only ever increase.
//
// A partner who is also a descendant of the person is never followed, and
// the relaxation runs at most once per node. A last pass over parent edges
// alone restores parent-above-child ordering whenever the spouse pulls could
// not all be satisfied.
func AlignSpouses(g *dag.DAG) {
	nodes := g.Nodes()
	rows := make(map[string]int, len(nodes))
	for _, n := range nodes {
		rows[n.ID] = n.Row
	}
	edges := g.Edges()

	for range nodes {
		changed := false
		for _, e := range edges {
			switch e.Kind {
			case dag.EdgeSpouse:
				if pull(g, rows, e.From, e.To) {
					changed = true
				}
				if pull(g, rows, e.To, e.From) {
					changed = true
				}
			case dag.EdgeParent:
				if rows[e.To] <= rows[e.From] {
					rows[e.To] = rows[e.From] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	pushDescendants(g, rows)
	g.SetRows(rows)
}

// pull lowers a parentless person to their partner's row.
func pull(g *dag.DAG, rows map[string]int, person, partner string) bool {
	if g.InDegree(person) != 0 || rows[person] >= rows[partner] {
		return false
	}
	if descends(g, person, partner) {
		return false
	}
	rows[person] = rows[partner]
	return true
}

// descends reports whether id can be reached from ancestor along parent edges.
func descends(g *dag.DAG, ancestor, id string) bool {
	seen := map[string]bool{ancestor: true}
	stack := []string{ancestor}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range g.Children(curr) {
			if child == id {
				return true
			}
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return false
}

// pushDescendants walks parent edges in topological order and moves every
// child strictly below each of its parents.
func pushDescendants(g *dag.DAG, rows map[string]int) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = g.InDegree(n.ID)
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range g.Children(curr) {
			if rows[child] <= rows[curr] {
				rows[child] = rows[curr] + 1
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
}
