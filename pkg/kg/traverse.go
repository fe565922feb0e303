package kg

// Traversal provides direction- and relation-filtered neighbor enumeration
// over the store. The query set is built entirely from one-hop (direct
// relation) and two-hop (shared neighbor) patterns; callers never go deeper.
type Traversal struct {
	store *Store
}

// NewTraversal creates a traversal over the given store.
func NewTraversal(store *Store) *Traversal {
	return &Traversal{store: store}
}

// NeighborsOut returns the targets of the node's outgoing edges with the
// given relation, de-duplicated, in edge order.
func (t *Traversal) NeighborsOut(id NodeID, rel Relation) []NodeID {
	return collectEndpoints(t.store.Out(id, rel), false)
}

// NeighborsIn returns the sources of the node's incoming edges with the
// given relation, de-duplicated, in edge order.
func (t *Traversal) NeighborsIn(id NodeID, rel Relation) []NodeID {
	return collectEndpoints(t.store.In(id, rel), true)
}

// UndirectedNeighbors merges the node's out- and in-edges regardless of
// relation into a single de-duplicated neighbor list, out-edges first. This
// is the adjacency view the similarity scorer walks.
func (t *Traversal) UndirectedNeighbors(id NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var ids []NodeID
	for _, e := range t.store.Out(id, "") {
		if _, dup := seen[e.Target]; dup {
			continue
		}
		seen[e.Target] = struct{}{}
		ids = append(ids, e.Target)
	}
	for _, e := range t.store.In(id, "") {
		if _, dup := seen[e.Source]; dup {
			continue
		}
		seen[e.Source] = struct{}{}
		ids = append(ids, e.Source)
	}
	return ids
}

func collectEndpoints(edges []Edge, incoming bool) []NodeID {
	seen := make(map[NodeID]struct{}, len(edges))
	var ids []NodeID
	for _, e := range edges {
		id := e.Target
		if incoming {
			id = e.Source
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
