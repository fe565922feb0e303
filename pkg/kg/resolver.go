package kg

import "math"

// Resolver maps human-supplied titles and names to canonical node ids.
// It is the single chokepoint for "same name, multiple entities" ambiguity:
// every query operation that takes a title or a name goes through it.
type Resolver struct {
	store *Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// MoviesByTitle returns every movie node whose title matches exactly, in
// store iteration order.
func (r *Resolver) MoviesByTitle(title string) []*Node {
	var matches []*Node
	r.store.ScanType(NodeMovie, func(n *Node) bool {
		if n.Title == title {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

// ResolveMovie picks the representative movie for a title: the candidate
// with the highest IMDb rating, then the highest year, a missing value
// sorting below every present one. When both rating and year tie, the first
// candidate in store iteration order wins; since that order is lexicographic
// by canonical id, the tie-break is deterministic across loads, not an
// artifact of load order. Returns nil when no movie carries the title.
func (r *Resolver) ResolveMovie(title string) *Node {
	var best *Node
	r.store.ScanType(NodeMovie, func(n *Node) bool {
		if n.Title != title {
			return true
		}
		if best == nil || preferMovie(n, best) {
			best = n
		}
		return true
	})
	return best
}

// preferMovie reports whether a strictly beats b under (rating, year). Equal
// keys return false so the earlier candidate is kept.
func preferMovie(a, b *Node) bool {
	ra, rb := ratingKey(a), ratingKey(b)
	if ra != rb {
		return ra > rb
	}
	return yearKey(a) > yearKey(b)
}

func ratingKey(n *Node) float64 {
	if n.IMDBRating == nil {
		return math.Inf(-1)
	}
	return *n.IMDBRating
}

func yearKey(n *Node) float64 {
	if n.Year == nil {
		return math.Inf(-1)
	}
	return float64(*n.Year)
}

// ResolvePerson looks up a person by exact canonical id. No fuzzy matching:
// a name either is a node or it is not.
func (r *Resolver) ResolvePerson(name string) *Node {
	if n, ok := r.store.Node(PersonID(name)); ok {
		return n
	}
	return nil
}

// ResolveGenre looks up a genre by exact canonical id.
func (r *Resolver) ResolveGenre(name string) *Node {
	if n, ok := r.store.Node(GenreID(name)); ok {
		return n
	}
	return nil
}

// ResolveCertificate looks up a certificate by exact canonical id.
func (r *Resolver) ResolveCertificate(name string) *Node {
	if n, ok := r.store.Node(CertificateID(name)); ok {
		return n
	}
	return nil
}
