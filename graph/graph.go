// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package graph

// Graph is a directed multigraph over identifiers of type T.
//
// The zero value is not usable; create graphs with New.
type Graph[T comparable] struct {
	// order holds every vertex in first-insertion order.
	order []T

	// adjacency maps each vertex to its outgoing neighbors in insertion
	// order.  Every vertex has an entry, possibly an empty slice.
	adjacency map[T][]T

	numEdges int
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		adjacency: make(map[T][]T),
	}
}

// addVertex registers id as a vertex if it is not one already.
func (g *Graph[T]) addVertex(id T) {
	if _, ok := g.adjacency[id]; ok {
		return
	}
	g.adjacency[id] = nil
	g.order = append(g.order, id)
}

// InsertEdge adds a directed edge from source to target.  Endpoints that are
// not yet vertices are added, source first.  Repeated calls with the same
// arguments add parallel edges.
func (g *Graph[T]) InsertEdge(source, target T) {
	g.addVertex(source)
	g.addVertex(target)
	g.adjacency[source] = append(g.adjacency[source], target)
	g.numEdges++
}

// ContainsVertex returns whether id is a vertex of the graph.
func (g *Graph[T]) ContainsVertex(id T) bool {
	_, ok := g.adjacency[id]
	return ok
}

// NumVertices returns the number of distinct vertices in the graph.
func (g *Graph[T]) NumVertices() int {
	return len(g.order)
}

// NumEdges returns the number of edges in the graph, counting parallel edges
// individually.
func (g *Graph[T]) NumEdges() int {
	return g.numEdges
}

// Vertices returns all vertices in the order they were first inserted.  The
// returned slice is a copy and may be modified by the caller.
func (g *Graph[T]) Vertices() []T {
	vertices := make([]T, len(g.order))
	copy(vertices, g.order)
	return vertices
}

// Neighbors returns the outgoing neighbors of id in insertion order,
// including duplicates from parallel edges.  It returns nil when id is not a
// vertex or has no outgoing edges.  The returned slice is a copy.
func (g *Graph[T]) Neighbors(id T) []T {
	targets := g.adjacency[id]
	if len(targets) == 0 {
		return nil
	}
	neighbors := make([]T, len(targets))
	copy(neighbors, targets)
	return neighbors
}

// OutDegree returns the number of edges leaving id, counting parallel edges.
func (g *Graph[T]) OutDegree(id T) int {
	return len(g.adjacency[id])
}
