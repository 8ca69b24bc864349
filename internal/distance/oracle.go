// Package distance computes pairwise hop distances between spaces, treating
// the parent/child hierarchy as an undirected graph.
package distance

import "github.com/ashita-ai/geoscore/internal/model"

// Pair is a distance-map key. Callers should use Get rather than indexing
// Map directly — it checks both orderings of a pair.
type Pair struct {
	A, B string
}

// Map holds every (space, space) distance discovered within the configured
// bound. It is symmetric and includes self-pairs (distance 0).
type Map map[Pair]int

// Get returns the hop distance between a and b, and whether it was found
// (i.e. within the bound passed to Compute).
func (m Map) Get(a, b string) (int, bool) {
	if d, ok := m[Pair{A: a, B: b}]; ok {
		return d, true
	}
	d, ok := m[Pair{A: b, B: a}]
	return d, ok
}

// Compute runs a breadth-first search from every space over the undirected
// parent/child graph, recording every pair reached within maxDistance hops
// (inclusive). The result is symmetric by construction: BFS from a reaches
// b at the same hop count BFS from b reaches a, so both entries are
// recorded independently without an extra symmetrization pass.
//
// Isolated spaces yield only their self-pair. Duplicate or malformed edges
// are benign — the per-BFS visited set dedupes them.
func Compute(spaces []model.Space, maxDistance int) Map {
	adjacency := make(map[string][]string, len(spaces))
	ensure := func(id string) {
		if _, ok := adjacency[id]; !ok {
			adjacency[id] = nil
		}
	}
	for _, s := range spaces {
		ensure(s.ID)
		if s.ParentSpaceID != nil && *s.ParentSpaceID != "" {
			parent := *s.ParentSpaceID
			ensure(parent)
			adjacency[parent] = append(adjacency[parent], s.ID)
			adjacency[s.ID] = append(adjacency[s.ID], parent)
		}
	}

	distances := make(Map, len(spaces)*len(spaces))

	type queued struct {
		id       string
		distance int
	}

	for _, start := range spaces {
		queue := []queued{{id: start.ID, distance: 0}}
		visited := map[string]bool{start.ID: true}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			distances[Pair{A: start.ID, B: cur.id}] = cur.distance

			if cur.distance >= maxDistance {
				continue
			}
			for _, neighbor := range adjacency[cur.id] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				queue = append(queue, queued{id: neighbor, distance: cur.distance + 1})
			}
		}
	}

	return distances
}
