package build

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/StephenLER/MAP/pkg/kg"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildMergesDuplicateRows(t *testing.T) {
	rows := []Row{
		{
			Title: "Inception", Year: intPtr(2010),
			IMDBRating: floatPtr(8.8), Metascore: floatPtr(74), DurationMinutes: floatPtr(148),
			Certificate: "UA", Genre: "Sci-Fi",
			Director: "Christopher Nolan", StarCast: "Joseph Gordon-LevittTom Hardy",
		},
		{
			// Same (title, year) from a second dataset: merges into one node.
			Title: "Inception", Year: intPtr(2010),
			IMDBRating: floatPtr(8.6), Metascore: floatPtr(76),
			Certificate: "UA", Genre: "Action",
			Director: "Christopher Nolan", StarCast: "Tom Hardy",
		},
		{
			// Same title, different year: a distinct movie.
			Title: "Inception", Year: intPtr(2012),
			Certificate: "PG", Genre: "Drama",
			Director: "Someone Else",
		},
	}

	nodes, edges, summary := Build(rows)

	if summary.SourceRows != 3 || summary.Movies != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// The merged graph must pass store validation.
	store, err := kg.New(nodes, edges)
	if err != nil {
		t.Fatalf("built graph fails validation: %v", err)
	}

	merged, ok := store.Node(kg.MovieID("Inception", intPtr(2010)))
	if !ok {
		t.Fatal("merged movie node missing")
	}
	if math.Abs(*merged.IMDBRating-8.7) > 1e-9 {
		t.Errorf("rating: got %g, want mean 8.7", *merged.IMDBRating)
	}
	if *merged.Metascore != 75 {
		t.Errorf("metascore: got %g, want mean 75", *merged.Metascore)
	}
	// Only one row carries a duration, so the mean is that value.
	if *merged.DurationMinutes != 148 {
		t.Errorf("duration: got %g, want 148", *merged.DurationMinutes)
	}
	if merged.Certificate != "UA" {
		t.Errorf("certificate: got %q, want UA", merged.Certificate)
	}
	// Sci-Fi and Action tie at one occurrence each; the lexicographically
	// smaller value wins.
	if merged.GenrePrimary != "Action" {
		t.Errorf("primary genre: got %q, want Action", merged.GenrePrimary)
	}

	// Both genres still hang off the movie as edges.
	trav := kg.NewTraversal(store)
	genres := trav.NeighborsOut(merged.ID, kg.RelHasGenre)
	if len(genres) != 2 {
		t.Errorf("got %d genre edges, want 2: %v", len(genres), genres)
	}

	// The duplicate director rows collapse into one DIRECTED edge.
	directors := store.In(merged.ID, kg.RelDirected)
	if len(directors) != 1 {
		t.Errorf("got %d directed edges, want 1", len(directors))
	}

	actors := trav.NeighborsIn(merged.ID, kg.RelActedIn)
	if len(actors) != 2 {
		t.Errorf("got %d actors, want 2: %v", len(actors), actors)
	}

	if _, ok := store.Node(kg.MovieID("Inception", intPtr(2012))); !ok {
		t.Error("same-title different-year movie was merged away")
	}
}

func TestBuildSkipsUntitledRows(t *testing.T) {
	rows := []Row{
		{Title: "", Director: "Nobody"},
		{Title: "Memento", Year: intPtr(2000), Director: "Christopher Nolan"},
	}

	nodes, _, summary := Build(rows)
	if summary.Movies != 1 {
		t.Errorf("got %d movies, want 1", summary.Movies)
	}
	for _, n := range nodes {
		if n.Type == kg.NodePerson && n.Name == "Nobody" {
			t.Error("director of a skipped row leaked into the graph")
		}
	}
}

func TestBuildAllValuesAbsent(t *testing.T) {
	rows := []Row{{Title: "Obscure Film"}}

	nodes, edges, summary := Build(rows)
	if summary.Movies != 1 || summary.Edges != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(edges) != 0 {
		t.Fatalf("got %d edges, want 0", len(edges))
	}

	movie := nodes[0]
	if movie.IMDBRating != nil || movie.Year != nil || movie.Certificate != "" {
		t.Errorf("absent values did not stay absent: %+v", movie)
	}
}

func TestLoadCSV(t *testing.T) {
	const data = `Title,IMDb Rating,Year,Certificates,Genre,Director,Star Cast,MetaScore,Duration (minutes),Extra
Inception,8.8,2010.0,UA,Sci-Fi,Christopher Nolan,Tom Hardy,74,148,ignored
Following,,,,Thriller,Christopher Nolan,,,70,
`
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Title != "Inception" || first.Director != "Christopher Nolan" {
		t.Errorf("unexpected first row: %+v", first)
	}
	// Years recorded as floats still parse.
	if first.Year == nil || *first.Year != 2010 {
		t.Errorf("year: got %v, want 2010", first.Year)
	}
	if first.IMDBRating == nil || *first.IMDBRating != 8.8 {
		t.Errorf("rating: got %v, want 8.8", first.IMDBRating)
	}

	second := rows[1]
	if second.Year != nil || second.IMDBRating != nil {
		t.Errorf("empty numerics did not stay nil: %+v", second)
	}
	if second.DurationMinutes == nil || *second.DurationMinutes != 70 {
		t.Errorf("duration: got %v, want 70", second.DurationMinutes)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	const data = `Title,Year
Inception,2010
`
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
