// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package graph

// walk performs a breadth-first traversal from source and calls visit for
// every vertex discovered through at least one edge, in discovery order.
// Each vertex is reported once.  The source itself is only reported when it
// lies on a cycle.  The traversal stops early when visit returns false.
func (g *Graph[T]) walk(source T, visit func(T) bool) {
	if _, ok := g.adjacency[source]; !ok {
		return
	}

	// The source is not marked visited up front.  It is only reported
	// when an edge leads back to it.
	visited := make(map[T]struct{})
	queue := []T{source}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[id] {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			if !visit(next) {
				return
			}
			queue = append(queue, next)
		}
	}
}

// PathExists returns whether a directed path of one or more edges leads from
// source to target.  A vertex only reaches itself through a cycle.  It
// returns false when source is not a vertex.
func (g *Graph[T]) PathExists(source, target T) bool {
	var found bool
	g.walk(source, func(id T) bool {
		if id == target {
			found = true
			return false
		}
		return true
	})
	return found
}

// Reachable returns every vertex reachable from source by a path of one or
// more edges, in breadth-first discovery order.
func (g *Graph[T]) Reachable(source T) []T {
	var reached []T
	g.walk(source, func(id T) bool {
		reached = append(reached, id)
		return true
	})
	return reached
}
