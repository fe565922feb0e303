package kg

import "testing"

func TestNeighborsDeduplicate(t *testing.T) {
	store := buildNolanStore(t)
	trav := NewTraversal(store)
	inception := MovieID("Inception", intPtr(2010))

	// The fixture carries duplicate ACTED_IN edges; the neighbor view must
	// collapse them.
	actors := trav.NeighborsIn(inception, RelActedIn)
	if len(actors) != 3 {
		t.Fatalf("got %d actors, want 3: %v", len(actors), actors)
	}
	want := []NodeID{
		PersonID("Leonardo DiCaprio"),
		PersonID("Tom Hardy"),
		PersonID("Cillian Murphy"),
	}
	for i := range want {
		if actors[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, actors[i], want[i])
		}
	}

	hardyMovies := trav.NeighborsOut(PersonID("Tom Hardy"), RelActedIn)
	if len(hardyMovies) != 2 {
		t.Errorf("got %d movies for Tom Hardy, want 2: %v", len(hardyMovies), hardyMovies)
	}
}

func TestUndirectedNeighborsOrder(t *testing.T) {
	store := buildNolanStore(t)
	trav := NewTraversal(store)
	inception := MovieID("Inception", intPtr(2010))

	got := trav.UndirectedNeighbors(inception)
	// Out-edges first (genre, certificate), then in-edges (director, actors),
	// each in insertion order.
	want := []NodeID{
		GenreID("Sci-Fi"),
		CertificateID("UA"),
		PersonID("Christopher Nolan"),
		PersonID("Leonardo DiCaprio"),
		PersonID("Tom Hardy"),
		PersonID("Cillian Murphy"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNeighborsOfUnknownNode(t *testing.T) {
	store := buildNolanStore(t)
	trav := NewTraversal(store)

	if got := trav.NeighborsOut(NodeID("movie::Ghost (?)"), RelHasGenre); len(got) != 0 {
		t.Errorf("unknown node has %d neighbors", len(got))
	}
	if got := trav.UndirectedNeighbors(NodeID("person::Nobody")); len(got) != 0 {
		t.Errorf("unknown node has %d undirected neighbors", len(got))
	}
}
