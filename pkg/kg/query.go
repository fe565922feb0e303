package kg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Operation identifiers accepted by Facade.Execute. Anything else fails with
// ErrUnknownOperation.
const (
	OpMovieBasicInfo        = "movie_basic_info"
	OpMoviesByDirector      = "movies_by_director"
	OpMoviesByActor         = "movies_by_actor"
	OpMoviesByGenre         = "movies_by_genre"
	OpMoviesByCertificate   = "movies_by_certificate"
	OpSimilarMovies         = "similar_movies"
	OpCoActors              = "co_actors"
	OpOtherMoviesByDirector = "other_movies_by_director_of_movie"
)

// Request is the operation call contract of the query layer. Params carries
// loosely typed values as decoded from JSON; the facade coerces them and
// treats malformed numerics as absent.
type Request struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
}

// Response wraps an operation result together with the request that produced
// it, mirroring the shape handed to the answer-generation layer.
type Response struct {
	Operation string         `json:"operation"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
}

// MovieInfo is the result of the movie_basic_info operation. The associated
// entity lists are de-duplicated and alphabetically sorted.
type MovieInfo struct {
	Title           string   `json:"title"`
	Year            *int     `json:"year"`
	IMDBRating      *float64 `json:"imdb_rating"`
	Metascore       *float64 `json:"metascore"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Directors       []string `json:"directors"`
	Actors          []string `json:"actors"`
	Genres          []string `json:"genres"`
	Certificates    []string `json:"certificates"`
	NodeID          NodeID   `json:"node_id"`
}

// MovieSummary is the per-movie row of the list-returning operations.
type MovieSummary struct {
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	IMDBRating *float64 `json:"imdb_rating"`
	Metascore  *float64 `json:"metascore"`
}

// MovieRef identifies the resolved movie a compound result hangs off.
type MovieRef struct {
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	IMDBRating *float64 `json:"imdb_rating,omitempty"`
	NodeID     NodeID   `json:"node_id"`
}

// SimilarMoviesResult is the result of similar_movies. Movie is nil when the
// title did not resolve; SimilarMovies is empty in that case.
type SimilarMoviesResult struct {
	Movie         *MovieRef     `json:"movie"`
	SimilarMovies []ScoredMovie `json:"similar_movies"`
}

// DirectorFilmography is one director's other work inside an
// other_movies_by_director_of_movie result.
type DirectorFilmography struct {
	Director    string         `json:"director"`
	OtherMovies []MovieSummary `json:"other_movies"`
}

// OtherByDirectorResult is the result of other_movies_by_director_of_movie.
type OtherByDirectorResult struct {
	Movie      MovieRef              `json:"movie"`
	ByDirector []DirectorFilmography `json:"by_director"`
}

// FilmographyFilter carries the optional filtering and ordering of the
// movies_by_director and movies_by_actor operations. A nil bound is
// inactive; a movie with an unknown year fails any active bound. SortBy
// accepts "year", "imdb_rating" or "metascore"; other values leave the
// traversal order untouched. Missing sort values always order last,
// regardless of direction. Limit <= 0 returns everything.
type FilmographyFilter struct {
	YearMin    *int
	YearMax    *int
	SortBy     string
	Descending bool
	Limit      int
}

// Facade exposes the public query operations. It composes the resolver,
// the traversal engine and the similarity scorer over one loaded store and
// holds no mutable state, so a single Facade serves concurrent callers.
type Facade struct {
	store    *Store
	resolver *Resolver
	trav     *Traversal
	scorer   *Scorer
}

// NewFacade creates the query facade over a loaded store.
func NewFacade(store *Store) *Facade {
	return &Facade{
		store:    store,
		resolver: NewResolver(store),
		trav:     NewTraversal(store),
		scorer:   NewScorer(store),
	}
}

// Resolver returns the facade's entity resolver.
func (f *Facade) Resolver() *Resolver { return f.resolver }

// Store returns the underlying store.
func (f *Facade) Store() *Store { return f.store }

// Execute dispatches a Request to the matching operation. The result mirrors
// the operation's Go-level return value; an unresolved entity surfaces as a
// nil result or empty list, never as an error. Operation names outside the
// fixed set fail with ErrUnknownOperation, preserving the requested name.
func (f *Facade) Execute(req Request) (*Response, error) {
	p := req.Params
	var result any

	switch req.Operation {
	case OpMovieBasicInfo:
		result = f.MovieBasicInfo(stringParam(p, "title"))
	case OpMoviesByDirector:
		result = f.MoviesByDirector(stringParam(p, "name"), FilmographyFilter{
			YearMin: intParam(p, "year_min"),
			YearMax: intParam(p, "year_max"),
			SortBy:  "year",
			Limit:   limitParam(p),
		})
	case OpMoviesByActor:
		result = f.MoviesByActor(stringParam(p, "name"), FilmographyFilter{
			YearMin: intParam(p, "year_min"),
			YearMax: intParam(p, "year_max"),
			SortBy:  "year",
			Limit:   limitParam(p),
		})
	case OpMoviesByGenre:
		result = f.MoviesByGenre(stringParam(p, "genre"), floatParam(p, "rating_min"), true, limitParam(p))
	case OpMoviesByCertificate:
		result = f.MoviesByCertificate(stringParam(p, "certificate"), limitParam(p))
	case OpSimilarMovies:
		result = f.SimilarMovies(stringParam(p, "title"), topKParam(p))
	case OpCoActors:
		result = f.CoActors(stringParam(p, "name"), topKParam(p))
	case OpOtherMoviesByDirector:
		result = f.OtherMoviesByDirectorOfMovie(stringParam(p, "title"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}

	return &Response{Operation: req.Operation, Params: req.Params, Result: result}, nil
}

// MovieBasicInfo returns a movie's attributes and associated entities,
// resolving the title to its representative movie. Returns nil when the
// title is unknown.
func (f *Facade) MovieBasicInfo(title string) *MovieInfo {
	movie := f.resolver.ResolveMovie(title)
	if movie == nil {
		return nil
	}

	info := &MovieInfo{
		Title:           movie.Title,
		Year:            movie.Year,
		IMDBRating:      movie.IMDBRating,
		Metascore:       movie.Metascore,
		DurationMinutes: movie.DurationMinutes,
		Directors:       []string{},
		Actors:          []string{},
		Genres:          []string{},
		Certificates:    []string{},
		NodeID:          movie.ID,
	}

	for _, id := range f.trav.NeighborsIn(movie.ID, RelDirected) {
		info.Directors = appendName(info.Directors, f.store, id)
	}
	for _, id := range f.trav.NeighborsIn(movie.ID, RelActedIn) {
		info.Actors = appendName(info.Actors, f.store, id)
	}
	for _, id := range f.trav.NeighborsOut(movie.ID, RelHasGenre) {
		info.Genres = appendName(info.Genres, f.store, id)
	}
	for _, id := range f.trav.NeighborsOut(movie.ID, RelHasCertificate) {
		info.Certificates = appendName(info.Certificates, f.store, id)
	}

	sort.Strings(info.Directors)
	sort.Strings(info.Actors)
	sort.Strings(info.Genres)
	sort.Strings(info.Certificates)
	return info
}

func appendName(list []string, s *Store, id NodeID) []string {
	n, ok := s.Node(id)
	if !ok || n.Name == "" {
		return list
	}
	for _, existing := range list {
		if existing == n.Name {
			return list
		}
	}
	return append(list, n.Name)
}

// MoviesByDirector lists the movies a person directed, filtered and ordered
// per the filter. An unknown name yields an empty list.
func (f *Facade) MoviesByDirector(name string, filter FilmographyFilter) []MovieSummary {
	return f.filmography(name, RelDirected, filter)
}

// MoviesByActor lists the movies a person acted in, filtered and ordered per
// the filter. An unknown name yields an empty list.
func (f *Facade) MoviesByActor(name string, filter FilmographyFilter) []MovieSummary {
	return f.filmography(name, RelActedIn, filter)
}

func (f *Facade) filmography(name string, rel Relation, filter FilmographyFilter) []MovieSummary {
	results := []MovieSummary{}
	person := f.resolver.ResolvePerson(name)
	if person == nil {
		return results
	}

	for _, id := range f.trav.NeighborsOut(person.ID, rel) {
		n, ok := f.store.Node(id)
		if !ok || n.Type != NodeMovie {
			continue
		}
		if filter.YearMin != nil && (n.Year == nil || *n.Year < *filter.YearMin) {
			continue
		}
		if filter.YearMax != nil && (n.Year == nil || *n.Year > *filter.YearMax) {
			continue
		}
		results = append(results, MovieSummary{
			Title:      n.Title,
			Year:       n.Year,
			IMDBRating: n.IMDBRating,
			Metascore:  n.Metascore,
		})
	}

	sortSummaries(results, filter.SortBy, filter.Descending)
	return truncate(results, filter.Limit)
}

// MoviesByGenre lists the movies carrying a genre, optionally dropping those
// below ratingMin (an unknown rating always fails the bound) and ordering by
// rating descending. An unknown genre yields an empty list.
func (f *Facade) MoviesByGenre(genre string, ratingMin *float64, sortByRating bool, limit int) []MovieSummary {
	results := []MovieSummary{}
	node := f.resolver.ResolveGenre(genre)
	if node == nil {
		return results
	}

	for _, id := range f.trav.NeighborsIn(node.ID, RelHasGenre) {
		n, ok := f.store.Node(id)
		if !ok || n.Type != NodeMovie {
			continue
		}
		if ratingMin != nil && (n.IMDBRating == nil || *n.IMDBRating < *ratingMin) {
			continue
		}
		results = append(results, MovieSummary{
			Title:      n.Title,
			Year:       n.Year,
			IMDBRating: n.IMDBRating,
			Metascore:  n.Metascore,
		})
	}

	if sortByRating {
		sortSummaries(results, "imdb_rating", true)
	}
	return truncate(results, limit)
}

// MoviesByCertificate lists the movies carrying a certificate, ordered by
// year ascending with an unknown year ranking as year 0. An unknown
// certificate yields an empty list.
func (f *Facade) MoviesByCertificate(cert string, limit int) []MovieSummary {
	results := []MovieSummary{}
	node := f.resolver.ResolveCertificate(cert)
	if node == nil {
		return results
	}

	for _, id := range f.trav.NeighborsIn(node.ID, RelHasCertificate) {
		n, ok := f.store.Node(id)
		if !ok || n.Type != NodeMovie {
			continue
		}
		results = append(results, MovieSummary{
			Title:      n.Title,
			Year:       n.Year,
			IMDBRating: n.IMDBRating,
			Metascore:  n.Metascore,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return certYear(results[i]) < certYear(results[j])
	})
	return truncate(results, limit)
}

func certYear(m MovieSummary) int {
	if m.Year == nil {
		return 0
	}
	return *m.Year
}

// SimilarMovies resolves a title and ranks other movies by shared-neighbor
// score. Movie is nil in the result when the title is unknown.
func (f *Facade) SimilarMovies(title string, topK int) SimilarMoviesResult {
	movie := f.resolver.ResolveMovie(title)
	if movie == nil {
		return SimilarMoviesResult{SimilarMovies: []ScoredMovie{}}
	}
	return SimilarMoviesResult{
		Movie: &MovieRef{
			Title:      movie.Title,
			Year:       movie.Year,
			IMDBRating: movie.IMDBRating,
			NodeID:     movie.ID,
		},
		SimilarMovies: f.scorer.SimilarMovies(movie.ID, topK),
	}
}

// CoActors ranks the people who shared a film with the named actor by the
// number of distinct movies in common. topK <= 0 returns the full ranking.
// An unknown name yields an empty list.
func (f *Facade) CoActors(name string, topK int) []CoActor {
	person := f.resolver.ResolvePerson(name)
	if person == nil {
		return []CoActor{}
	}
	return f.scorer.CoActors(person.ID, topK)
}

// OtherMoviesByDirectorOfMovie resolves a title, finds its directors and
// lists each director's remaining filmography, excluding the originating
// (title, year) pair. Returns nil when the title is unknown.
func (f *Facade) OtherMoviesByDirectorOfMovie(title string) *OtherByDirectorResult {
	info := f.MovieBasicInfo(title)
	if info == nil {
		return nil
	}

	result := &OtherByDirectorResult{
		Movie: MovieRef{
			Title:  info.Title,
			Year:   info.Year,
			NodeID: info.NodeID,
		},
		ByDirector: []DirectorFilmography{},
	}

	for _, director := range info.Directors {
		movies := f.MoviesByDirector(director, FilmographyFilter{SortBy: "year"})
		others := []MovieSummary{}
		for _, m := range movies {
			if m.Title == info.Title && yearsEqual(m.Year, info.Year) {
				continue
			}
			others = append(others, MovieSummary{
				Title:      m.Title,
				Year:       m.Year,
				IMDBRating: m.IMDBRating,
			})
		}
		result.ByDirector = append(result.ByDirector, DirectorFilmography{
			Director:    director,
			OtherMovies: others,
		})
	}
	return result
}

func yearsEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SearchMoviesByKeyword scans movie titles for a substring match. It is a
// helper for the planning layer and is intentionally not part of the
// Execute operation set. limit <= 0 returns every match.
func (f *Facade) SearchMoviesByKeyword(keyword string, caseSensitive bool, limit int) []MovieSummary {
	results := []MovieSummary{}
	if keyword == "" {
		return results
	}

	needle := keyword
	if !caseSensitive {
		needle = strings.ToLower(keyword)
	}

	f.store.ScanType(NodeMovie, func(n *Node) bool {
		title := n.Title
		if !caseSensitive {
			title = strings.ToLower(title)
		}
		if !strings.Contains(title, needle) {
			return true
		}
		results = append(results, MovieSummary{
			Title:      n.Title,
			Year:       n.Year,
			IMDBRating: n.IMDBRating,
		})
		return limit <= 0 || len(results) < limit
	})
	return results
}

// sortSummaries orders movie summaries by the named field. Entries with a
// missing value always come last; present values order ascending unless
// descending is set. Unknown field names leave the slice untouched.
func sortSummaries(results []MovieSummary, sortBy string, descending bool) {
	var key func(MovieSummary) *float64
	switch sortBy {
	case "year":
		key = func(m MovieSummary) *float64 {
			if m.Year == nil {
				return nil
			}
			v := float64(*m.Year)
			return &v
		}
	case "imdb_rating":
		key = func(m MovieSummary) *float64 { return m.IMDBRating }
	case "metascore":
		key = func(m MovieSummary) *float64 { return m.Metascore }
	default:
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := key(results[i]), key(results[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if descending {
			return *a > *b
		}
		return *a < *b
	})
}

func truncate(results []MovieSummary, limit int) []MovieSummary {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// --- Loose parameter coercion ---
//
// Params arrive as generic JSON values. A malformed numeric is treated as
// absent, never as a hard failure: the operation simply filters without it.

func stringParam(p map[string]any, key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intParam(p map[string]any, key string) *int {
	f := floatParam(p, key)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

func floatParam(p map[string]any, key string) *float64 {
	v, ok := p[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

func limitParam(p map[string]any) int {
	if v := intParam(p, "limit"); v != nil && *v > 0 {
		return *v
	}
	return 0
}

func topKParam(p map[string]any) int {
	if v := intParam(p, "top_k"); v != nil && *v > 0 {
		return *v
	}
	return 0
}
