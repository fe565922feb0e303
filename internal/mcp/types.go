package mcp

import "github.com/StephenLER/MAP/pkg/kg"

// --- Tool Arguments ---

type MovieInfoArgs struct {
	Title string `json:"title" jsonschema:"The movie title to look up,required"`
}

type MovieInfoResult struct {
	Movie *kg.MovieInfo `json:"movie"`
}

type FilmographyArgs struct {
	Name    string `json:"name" jsonschema:"The person's full name,required"`
	YearMin int    `json:"year_min,omitempty" jsonschema:"Only movies from this year onward"`
	YearMax int    `json:"year_max,omitempty" jsonschema:"Only movies up to this year"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max number of movies to return"`
}

type MovieListResult struct {
	Movies []kg.MovieSummary `json:"movies"`
}

type GenreArgs struct {
	Genre     string  `json:"genre" jsonschema:"Genre name, e.g. 'Action' or 'Drama',required"`
	RatingMin float64 `json:"rating_min,omitempty" jsonschema:"Only movies with at least this IMDb rating"`
	Limit     int     `json:"limit,omitempty" jsonschema:"Max number of movies to return"`
}

type CertificateArgs struct {
	Certificate string `json:"certificate" jsonschema:"Age certificate label, e.g. 'PG-13' or 'R',required"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Max number of movies to return"`
}

type SimilarMoviesArgs struct {
	Title string `json:"title" jsonschema:"The movie to find similar movies for,required"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"Max number of similar movies (default 10)"`
}

type SimilarMoviesResult struct {
	Movie         *kg.MovieRef     `json:"movie"`
	SimilarMovies []kg.ScoredMovie `json:"similar_movies"`
}

type CoActorsArgs struct {
	Name string `json:"name" jsonschema:"The actor's full name,required"`
	TopK int    `json:"top_k,omitempty" jsonschema:"Max number of co-actors to return"`
}

type CoActorsResult struct {
	CoActors []kg.CoActor `json:"co_actors"`
}

type OtherByDirectorArgs struct {
	Title string `json:"title" jsonschema:"The movie whose directors' other work to list,required"`
}

type OtherByDirectorResult struct {
	Result *kg.OtherByDirectorResult `json:"result"`
}

type SearchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchResult struct {
	Movies []kg.MovieSummary `json:"movies"`
}
