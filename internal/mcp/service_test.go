package mcp

import (
	"context"
	"testing"

	"github.com/StephenLER/MAP/pkg/kg"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testService(t *testing.T) *Service {
	t.Helper()

	inception := kg.MovieID("Inception", intPtr(2010))
	dunkirk := kg.MovieID("Dunkirk", intPtr(2017))
	nolan := kg.PersonID("Christopher Nolan")

	nodes := []kg.Node{
		{ID: inception, Type: kg.NodeMovie, Title: "Inception", Year: intPtr(2010), IMDBRating: floatPtr(8.8)},
		{ID: dunkirk, Type: kg.NodeMovie, Title: "Dunkirk", Year: intPtr(2017), IMDBRating: floatPtr(7.9)},
		{ID: nolan, Type: kg.NodePerson, Name: "Christopher Nolan"},
		{ID: kg.GenreID("Sci-Fi"), Type: kg.NodeGenre, Name: "Sci-Fi"},
	}
	edges := []kg.Edge{
		{Relation: kg.RelDirected, Source: nolan, Target: inception},
		{Relation: kg.RelDirected, Source: nolan, Target: dunkirk},
		{Relation: kg.RelHasGenre, Source: inception, Target: kg.GenreID("Sci-Fi")},
	}

	store, err := kg.New(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(kg.NewFacade(store))
}

func TestMovieInfoHandler(t *testing.T) {
	svc := testService(t)

	_, res, err := svc.MovieInfo(context.Background(), nil, MovieInfoArgs{Title: "Inception"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Movie == nil || res.Movie.Title != "Inception" {
		t.Fatalf("unexpected result: %+v", res.Movie)
	}
	if len(res.Movie.Directors) != 1 || res.Movie.Directors[0] != "Christopher Nolan" {
		t.Errorf("directors: %v", res.Movie.Directors)
	}

	// Unresolved titles are an empty result, never a tool error.
	_, res, err = svc.MovieInfo(context.Background(), nil, MovieInfoArgs{Title: "Nope"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Movie != nil {
		t.Errorf("unknown title returned %+v", res.Movie)
	}
}

func TestMoviesByDirectorHandler(t *testing.T) {
	svc := testService(t)

	_, res, err := svc.MoviesByDirector(context.Background(), nil, FilmographyArgs{
		Name: "Christopher Nolan", YearMin: 2015,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Movies) != 1 || res.Movies[0].Title != "Dunkirk" {
		t.Errorf("unexpected movies: %+v", res.Movies)
	}
}

func TestSearchHandler(t *testing.T) {
	svc := testService(t)

	_, res, err := svc.Search(context.Background(), nil, SearchArgs{Query: "incep"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Movies) != 1 || res.Movies[0].Title != "Inception" {
		t.Errorf("unexpected search result: %+v", res.Movies)
	}
}

func TestNewMCPServerRegistersTools(t *testing.T) {
	svc := testService(t)
	if srv := NewMCPServer(svc.facade); srv == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}
