package kg

import (
	"fmt"

	"github.com/tidwall/btree"
)

// Store holds the immutable node and edge collections of a loaded graph,
// plus the per-type and adjacency indexes the query layer reads. Build one
// through New (validating) or Load (artifact + validation); never mutate it
// afterwards.
type Store struct {
	nodes  map[NodeID]*Node
	byType map[NodeType]*btree.BTreeG[*Node]
	out    map[NodeID][]Edge
	in     map[NodeID][]Edge

	edgeCount int
}

func nodeLess(a, b *Node) bool { return a.ID < b.ID }

// New builds a Store from node and edge slices, checking the structural
// invariants of the data model:
//
//   - node ids are non-empty and unique, node types are known
//   - every edge endpoint references an existing node
//   - edge relations are known and respect their type signature
//     (DIRECTED/ACTED_IN: person -> movie; HAS_GENRE: movie -> genre;
//     HAS_CERTIFICATE: movie -> certificate)
//
// Violations are reported wrapped in ErrLoad. Input order is preserved in the
// adjacency lists; the per-type index orders nodes by canonical id, which is
// what makes resolver tie-breaks reproducible across loads.
func New(nodes []Node, edges []Edge) (*Store, error) {
	s := &Store{
		nodes:  make(map[NodeID]*Node, len(nodes)),
		byType: make(map[NodeType]*btree.BTreeG[*Node], 4),
		out:    make(map[NodeID][]Edge),
		in:     make(map[NodeID][]Edge),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has empty id", ErrLoad, i)
		}
		if !n.Type.Valid() {
			return nil, fmt.Errorf("%w: node %q has unknown type %q", ErrLoad, n.ID, n.Type)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrLoad, n.ID)
		}
		s.nodes[n.ID] = &nodes[i]

		idx, ok := s.byType[n.Type]
		if !ok {
			idx = btree.NewBTreeG(nodeLess)
			s.byType[n.Type] = idx
		}
		idx.Set(&nodes[i])
	}

	for _, e := range edges {
		if !e.Relation.Valid() {
			return nil, fmt.Errorf("%w: unknown relation %q", ErrLoad, e.Relation)
		}
		src, ok := s.nodes[e.Source]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s references missing source %q", ErrLoad, e.Relation, e.Source)
		}
		dst, ok := s.nodes[e.Target]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s references missing target %q", ErrLoad, e.Relation, e.Target)
		}
		if err := checkSignature(e.Relation, src.Type, dst.Type); err != nil {
			return nil, err
		}
		s.out[e.Source] = append(s.out[e.Source], e)
		s.in[e.Target] = append(s.in[e.Target], e)
		s.edgeCount++
	}

	return s, nil
}

func checkSignature(rel Relation, src, dst NodeType) error {
	ok := false
	switch rel {
	case RelDirected, RelActedIn:
		ok = src == NodePerson && dst == NodeMovie
	case RelHasGenre:
		ok = src == NodeMovie && dst == NodeGenre
	case RelHasCertificate:
		ok = src == NodeMovie && dst == NodeCertificate
	}
	if !ok {
		return fmt.Errorf("%w: edge %s does not allow %s -> %s", ErrLoad, rel, src, dst)
	}
	return nil
}

// Node returns the node with the given id, if present.
func (s *Store) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Contains reports whether a node with the given id exists.
func (s *Store) Contains(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// ScanType visits every node of the given type in canonical id order.
// Return false from fn to stop early. The order is identical on every call
// against the same store.
func (s *Store) ScanType(t NodeType, fn func(*Node) bool) {
	idx, ok := s.byType[t]
	if !ok {
		return
	}
	idx.Scan(fn)
}

// Out returns the outgoing edges of a node. A non-empty relation restricts
// the result to that label. The returned slice must not be modified.
func (s *Store) Out(id NodeID, rel Relation) []Edge {
	return filterEdges(s.out[id], rel)
}

// In returns the incoming edges of a node, optionally restricted by relation.
// The returned slice must not be modified.
func (s *Store) In(id NodeID, rel Relation) []Edge {
	return filterEdges(s.in[id], rel)
}

func filterEdges(edges []Edge, rel Relation) []Edge {
	if rel == "" {
		return edges
	}
	var out []Edge
	for _, e := range edges {
		if e.Relation == rel {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns every edge in a deterministic order: source nodes by type
// then canonical id, each node's outgoing edges in insertion order. The
// result is a fresh slice.
func (s *Store) Edges() []Edge {
	edges := make([]Edge, 0, s.edgeCount)
	for _, t := range []NodeType{NodeMovie, NodePerson, NodeGenre, NodeCertificate} {
		s.ScanType(t, func(n *Node) bool {
			edges = append(edges, s.out[n.ID]...)
			return true
		})
	}
	return edges
}

// NodeCount returns the total number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the total number of edges, multi-edges included.
func (s *Store) EdgeCount() int { return s.edgeCount }

// CountByType returns the number of nodes of each type.
func (s *Store) CountByType() map[NodeType]int {
	counts := make(map[NodeType]int, len(s.byType))
	for t, idx := range s.byType {
		counts[t] = idx.Len()
	}
	return counts
}
