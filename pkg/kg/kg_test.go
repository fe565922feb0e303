package kg

import "testing"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// buildNolanStore assembles the small fixture graph shared by the package
// tests: six movies by one director, a handful of actors with overlapping
// casts, two genres and two certificates. The ACTED_IN duplicates are
// intentional, they exercise the multigraph de-duplication paths.
func buildNolanStore(t *testing.T) *Store {
	t.Helper()

	movies := []Node{
		{ID: MovieID("Inception", intPtr(2010)), Type: NodeMovie, Title: "Inception", Year: intPtr(2010), IMDBRating: floatPtr(8.8), Metascore: floatPtr(74), DurationMinutes: floatPtr(148), Certificate: "UA", GenrePrimary: "Sci-Fi"},
		{ID: MovieID("Interstellar", intPtr(2014)), Type: NodeMovie, Title: "Interstellar", Year: intPtr(2014), IMDBRating: floatPtr(8.6), Metascore: floatPtr(74), DurationMinutes: floatPtr(169), Certificate: "UA", GenrePrimary: "Sci-Fi"},
		{ID: MovieID("Dunkirk", intPtr(2017)), Type: NodeMovie, Title: "Dunkirk", Year: intPtr(2017), IMDBRating: floatPtr(7.9), Metascore: floatPtr(94), DurationMinutes: floatPtr(106), Certificate: "UA", GenrePrimary: "War"},
		{ID: MovieID("Tenet", intPtr(2020)), Type: NodeMovie, Title: "Tenet", Year: intPtr(2020), IMDBRating: floatPtr(7.3), Metascore: floatPtr(69), DurationMinutes: floatPtr(150), Certificate: "UA", GenrePrimary: "Sci-Fi"},
		{ID: MovieID("Memento", intPtr(2000)), Type: NodeMovie, Title: "Memento", Year: intPtr(2000), IMDBRating: floatPtr(8.4), Metascore: floatPtr(83), DurationMinutes: floatPtr(113), Certificate: "A", GenrePrimary: "Thriller"},
		{ID: MovieID("Following", nil), Type: NodeMovie, Title: "Following", Certificate: "A", GenrePrimary: "Thriller"},
	}
	people := []Node{
		{ID: PersonID("Christopher Nolan"), Type: NodePerson, Name: "Christopher Nolan"},
		{ID: PersonID("Leonardo DiCaprio"), Type: NodePerson, Name: "Leonardo DiCaprio"},
		{ID: PersonID("Tom Hardy"), Type: NodePerson, Name: "Tom Hardy"},
		{ID: PersonID("Cillian Murphy"), Type: NodePerson, Name: "Cillian Murphy"},
	}
	shared := []Node{
		{ID: GenreID("Sci-Fi"), Type: NodeGenre, Name: "Sci-Fi"},
		{ID: GenreID("War"), Type: NodeGenre, Name: "War"},
		{ID: GenreID("Thriller"), Type: NodeGenre, Name: "Thriller"},
		{ID: CertificateID("UA"), Type: NodeCertificate, Name: "UA"},
		{ID: CertificateID("A"), Type: NodeCertificate, Name: "A"},
	}

	var nodes []Node
	nodes = append(nodes, movies...)
	nodes = append(nodes, people...)
	nodes = append(nodes, shared...)

	nolan := PersonID("Christopher Nolan")
	edges := []Edge{}
	for _, m := range movies {
		edges = append(edges, Edge{Relation: RelDirected, Source: nolan, Target: m.ID})
	}
	edges = append(edges,
		Edge{Relation: RelActedIn, Source: PersonID("Leonardo DiCaprio"), Target: MovieID("Inception", intPtr(2010))},
		Edge{Relation: RelActedIn, Source: PersonID("Tom Hardy"), Target: MovieID("Inception", intPtr(2010))},
		Edge{Relation: RelActedIn, Source: PersonID("Tom Hardy"), Target: MovieID("Dunkirk", intPtr(2017))},
		Edge{Relation: RelActedIn, Source: PersonID("Tom Hardy"), Target: MovieID("Dunkirk", intPtr(2017))},
		Edge{Relation: RelActedIn, Source: PersonID("Cillian Murphy"), Target: MovieID("Inception", intPtr(2010))},
		Edge{Relation: RelActedIn, Source: PersonID("Cillian Murphy"), Target: MovieID("Inception", intPtr(2010))},
		Edge{Relation: RelActedIn, Source: PersonID("Cillian Murphy"), Target: MovieID("Dunkirk", intPtr(2017))},

		Edge{Relation: RelHasGenre, Source: MovieID("Inception", intPtr(2010)), Target: GenreID("Sci-Fi")},
		Edge{Relation: RelHasGenre, Source: MovieID("Interstellar", intPtr(2014)), Target: GenreID("Sci-Fi")},
		Edge{Relation: RelHasGenre, Source: MovieID("Tenet", intPtr(2020)), Target: GenreID("Sci-Fi")},
		Edge{Relation: RelHasGenre, Source: MovieID("Dunkirk", intPtr(2017)), Target: GenreID("War")},
		Edge{Relation: RelHasGenre, Source: MovieID("Memento", intPtr(2000)), Target: GenreID("Thriller")},
		Edge{Relation: RelHasGenre, Source: MovieID("Following", nil), Target: GenreID("Thriller")},

		Edge{Relation: RelHasCertificate, Source: MovieID("Inception", intPtr(2010)), Target: CertificateID("UA")},
		Edge{Relation: RelHasCertificate, Source: MovieID("Interstellar", intPtr(2014)), Target: CertificateID("UA")},
		Edge{Relation: RelHasCertificate, Source: MovieID("Dunkirk", intPtr(2017)), Target: CertificateID("UA")},
		Edge{Relation: RelHasCertificate, Source: MovieID("Tenet", intPtr(2020)), Target: CertificateID("UA")},
		Edge{Relation: RelHasCertificate, Source: MovieID("Memento", intPtr(2000)), Target: CertificateID("A")},
		Edge{Relation: RelHasCertificate, Source: MovieID("Following", nil), Target: CertificateID("A")},
	)

	store, err := New(nodes, edges)
	if err != nil {
		t.Fatalf("failed to build fixture store: %v", err)
	}
	return store
}
