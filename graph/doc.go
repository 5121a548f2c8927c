// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package graph implements a generic directed multigraph keyed by opaque,
comparable identifiers.

The graph keeps two pieces of state: the set of vertices, which remembers the
order in which each identifier was first seen, and for every vertex the
ordered list of its outgoing neighbors.  Vertices are never added directly;
they come into existence as the endpoints of inserted edges.

Inserting the same edge more than once is not deduplicated.  Each call to
InsertEdge appends a new entry to the source's neighbor list, so Neighbors and
OutDegree report every insertion rather than the distinct targets.  Self-loops
are treated like any other edge.

Reachability

PathExists answers whether a directed path of one or more edges leads from one
vertex to another.  The search is a breadth-first traversal that visits every
vertex at most once, so it terminates on graphs with cycles and parallel
edges.  A vertex only reaches itself through a real cycle or self-loop.

Concurrency

A Graph is not safe for concurrent mutation.  The intended pattern is a single
writer populating the graph followed by any number of readers.
*/
package graph
