package kg

import "sort"

// DefaultSimilarTopK is the number of similar movies returned when the
// caller does not ask for a specific count.
const DefaultSimilarTopK = 10

// ScoredMovie is one ranked entry of a similar-movies result. Score is the
// number of first-hop neighbors (directors, actors, genres, certificates)
// the candidate shares with the queried movie.
type ScoredMovie struct {
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	IMDBRating *float64 `json:"imdb_rating"`
	Score      int      `json:"score"`
}

// CoActor is one ranked entry of a co-actors result. Count is the number of
// distinct movies both actors appeared in.
type CoActor struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Scorer computes two-hop shared-neighbor rankings. Both algorithms are
// local to the queried entity (O(degree squared)); nothing is precomputed.
type Scorer struct {
	store *Store
	trav  *Traversal
}

// NewScorer creates a scorer over the given store.
func NewScorer(store *Store) *Scorer {
	return &Scorer{store: store, trav: NewTraversal(store)}
}

// SimilarMovies ranks other movies by how many first-hop neighbors they
// share with the given movie. Ranking is by score descending; equal scores
// stay in encounter order. topK <= 0 falls back to DefaultSimilarTopK.
func (s *Scorer) SimilarMovies(movieID NodeID, topK int) []ScoredMovie {
	if topK <= 0 {
		topK = DefaultSimilarTopK
	}

	scores := make(map[NodeID]int)
	var order []NodeID
	for _, hop := range s.trav.UndirectedNeighbors(movieID) {
		for _, candidate := range s.trav.UndirectedNeighbors(hop) {
			if candidate == movieID {
				continue
			}
			n, ok := s.store.Node(candidate)
			if !ok || n.Type != NodeMovie {
				continue
			}
			if _, seen := scores[candidate]; !seen {
				order = append(order, candidate)
			}
			scores[candidate]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if len(order) > topK {
		order = order[:topK]
	}

	ranked := make([]ScoredMovie, 0, len(order))
	for _, id := range order {
		n, _ := s.store.Node(id)
		ranked = append(ranked, ScoredMovie{
			Title:      n.Title,
			Year:       n.Year,
			IMDBRating: n.IMDBRating,
			Score:      scores[id],
		})
	}
	return ranked
}

// CoActors ranks the people who acted alongside the given person, counting
// each shared movie once no matter how many redundant edges the artifact
// carries. The person themselves is never included. topK <= 0 returns the
// full ranking.
func (s *Scorer) CoActors(personID NodeID, topK int) []CoActor {
	movies := s.trav.NeighborsOut(personID, RelActedIn)

	counts := make(map[NodeID]int)
	var order []NodeID
	for _, movieID := range movies {
		if n, ok := s.store.Node(movieID); !ok || n.Type != NodeMovie {
			continue
		}
		for _, other := range s.trav.NeighborsIn(movieID, RelActedIn) {
			if other == personID {
				continue
			}
			n, ok := s.store.Node(other)
			if !ok || n.Type != NodePerson || n.Name == "" {
				continue
			}
			if _, seen := counts[other]; !seen {
				order = append(order, other)
			}
			counts[other]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if topK > 0 && len(order) > topK {
		order = order[:topK]
	}

	ranked := make([]CoActor, 0, len(order))
	for _, id := range order {
		n, _ := s.store.Node(id)
		ranked = append(ranked, CoActor{Name: n.Name, Count: counts[id]})
	}
	return ranked
}
