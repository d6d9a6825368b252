package lint

import (
	"cmp"
	"slices"
)

// cycles returns the strongly connected components of graph that contain a
// cycle (more than one node, or a self reference). Components and their
// members follow the order of nodes.
func cycles(nodes []string, graph map[string][]string) [][]string {
	t := &tarjan{
		graph:   graph,
		index:   make(map[string]int, len(nodes)),
		low:     make(map[string]int, len(nodes)),
		onStack: make(map[string]bool, len(nodes)),
	}
	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.visit(n)
		}
	}

	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		position[n] = i
	}

	var out [][]string
	for _, scc := range t.components {
		if len(scc) == 1 && !selfLoop(graph, scc[0]) {
			continue
		}
		sortByPosition(scc, position)
		out = append(out, scc)
	}
	sortComponents(out, position)
	return out
}

type tarjan struct {
	graph      map[string][]string
	next       int
	index      map[string]int
	low        map[string]int
	stack      []string
	onStack    map[string]bool
	components [][]string
}

func (t *tarjan) visit(v string) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] != t.index[v] {
		return
	}
	var scc []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, scc)
}

func selfLoop(graph map[string][]string, n string) bool {
	for _, to := range graph[n] {
		if to == n {
			return true
		}
	}
	return false
}

func sortByPosition(names []string, position map[string]int) {
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(position[a], position[b])
	})
}

func sortComponents(comps [][]string, position map[string]int) {
	slices.SortFunc(comps, func(a, b []string) int {
		return cmp.Compare(position[a[0]], position[b[0]])
	})
}
