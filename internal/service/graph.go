package service

import (
	"fmt"
	"sort"
	"strings"

	"batchlens/internal/registry"
)

// modelGraph is the dependency graph over the models detected in one
// batch. An edge src -> dst means src must be processed before dst.
type modelGraph struct {
	nodes    []string
	edges    map[string]map[string]bool
	indegree map[string]int
}

// buildModelGraph builds the graph over present models only: a declared
// dependency contributes an edge solely when the dependency model was
// itself detected in the batch.
func buildModelGraph(reg *registry.Registry, present map[string][]string) *modelGraph {
	g := &modelGraph{
		nodes:    sortedKeys(present),
		edges:    make(map[string]map[string]bool),
		indegree: make(map[string]int),
	}
	for _, n := range g.nodes {
		g.edges[n] = make(map[string]bool)
		g.indegree[n] = 0
	}
	for _, dependent := range g.nodes {
		profile, ok := reg.Get(dependent)
		if !ok {
			continue
		}
		for _, dep := range profile.DependsOn {
			if _, inBatch := present[dep]; !inBatch {
				continue
			}
			if !g.edges[dep][dependent] {
				g.edges[dep][dependent] = true
				g.indegree[dependent]++
			}
		}
	}
	return g
}

// topoOrder returns every node in dependency order (Kahn's algorithm,
// smallest name first among ready nodes). A cycle never makes it fail:
// the edge whose source model name sorts greatest is dropped, the drop is
// recorded as a diagnostic, and the sort resumes, so the result always
// contains every node exactly once.
func (g *modelGraph) topoOrder() (order []string, diags []string) {
	emitted := make(map[string]bool, len(g.nodes))

	for len(order) < len(g.nodes) {
		var ready []string
		for _, n := range g.nodes {
			if !emitted[n] && g.indegree[n] == 0 {
				ready = append(ready, n)
			}
		}

		if len(ready) == 0 {
			src, dst := g.edgeToDrop(emitted)
			diags = append(diags, fmt.Sprintf(
				"dependency cycle detected among models %s; dropped dependency %s -> %s to continue",
				strings.Join(g.cycleMembers(emitted), ", "), src, dst))
			delete(g.edges[src], dst)
			g.indegree[dst]--
			continue
		}

		sort.Strings(ready)
		n := ready[0]
		emitted[n] = true
		order = append(order, n)
		for dst := range g.edges[n] {
			if !emitted[dst] {
				g.indegree[dst]--
			}
		}
	}
	return order, diags
}

// edgeToDrop picks the cycle-breaking victim: among edges that lie on a
// cycle (the target can reach the source back), the one with the
// lexicographically greatest source, then greatest target. Edges merely
// downstream of a cycle are never dropped, since removing them would not
// unblock the sort.
func (g *modelGraph) edgeToDrop(emitted map[string]bool) (src, dst string) {
	for _, s := range g.nodes {
		if emitted[s] {
			continue
		}
		for d := range g.edges[s] {
			if emitted[d] || !g.reaches(d, s, emitted) {
				continue
			}
			if s > src || (s == src && d > dst) {
				src, dst = s, d
			}
		}
	}
	return src, dst
}

// cycleMembers lists the not-yet-emitted nodes that sit on a cycle,
// sorted by name.
func (g *modelGraph) cycleMembers(emitted map[string]bool) []string {
	var members []string
	for _, n := range g.nodes {
		if !emitted[n] && g.reaches(n, n, emitted) {
			members = append(members, n)
		}
	}
	return members
}

// reaches reports whether from can reach to via edges between
// not-yet-emitted nodes. A node reaches itself only through a cycle.
func (g *modelGraph) reaches(from, to string, emitted map[string]bool) bool {
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.edges[n] {
			if emitted[next] {
				continue
			}
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
