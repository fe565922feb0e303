package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/StephenLER/MAP/pkg/kg"
)

// Service adapts the query facade to MCP tool handlers. Handlers never
// fail on unresolved entities; they return empty results the model can
// reason about.
type Service struct {
	facade *kg.Facade
}

func NewService(facade *kg.Facade) *Service {
	return &Service{facade: facade}
}

// --- Tool Handlers ---

func (s *Service) MovieInfo(ctx context.Context, req *mcp.CallToolRequest, args MovieInfoArgs) (*mcp.CallToolResult, MovieInfoResult, error) {
	return nil, MovieInfoResult{Movie: s.facade.MovieBasicInfo(args.Title)}, nil
}

func (s *Service) MoviesByDirector(ctx context.Context, req *mcp.CallToolRequest, args FilmographyArgs) (*mcp.CallToolResult, MovieListResult, error) {
	return nil, MovieListResult{
		Movies: s.facade.MoviesByDirector(args.Name, filmographyFilter(args)),
	}, nil
}

func (s *Service) MoviesByActor(ctx context.Context, req *mcp.CallToolRequest, args FilmographyArgs) (*mcp.CallToolResult, MovieListResult, error) {
	return nil, MovieListResult{
		Movies: s.facade.MoviesByActor(args.Name, filmographyFilter(args)),
	}, nil
}

func (s *Service) MoviesByGenre(ctx context.Context, req *mcp.CallToolRequest, args GenreArgs) (*mcp.CallToolResult, MovieListResult, error) {
	var ratingMin *float64
	if args.RatingMin > 0 {
		ratingMin = &args.RatingMin
	}
	return nil, MovieListResult{
		Movies: s.facade.MoviesByGenre(args.Genre, ratingMin, true, args.Limit),
	}, nil
}

func (s *Service) MoviesByCertificate(ctx context.Context, req *mcp.CallToolRequest, args CertificateArgs) (*mcp.CallToolResult, MovieListResult, error) {
	return nil, MovieListResult{
		Movies: s.facade.MoviesByCertificate(args.Certificate, args.Limit),
	}, nil
}

func (s *Service) SimilarMovies(ctx context.Context, req *mcp.CallToolRequest, args SimilarMoviesArgs) (*mcp.CallToolResult, SimilarMoviesResult, error) {
	result := s.facade.SimilarMovies(args.Title, args.TopK)
	return nil, SimilarMoviesResult{
		Movie:         result.Movie,
		SimilarMovies: result.SimilarMovies,
	}, nil
}

func (s *Service) CoActors(ctx context.Context, req *mcp.CallToolRequest, args CoActorsArgs) (*mcp.CallToolResult, CoActorsResult, error) {
	return nil, CoActorsResult{CoActors: s.facade.CoActors(args.Name, args.TopK)}, nil
}

func (s *Service) OtherMoviesByDirector(ctx context.Context, req *mcp.CallToolRequest, args OtherByDirectorArgs) (*mcp.CallToolResult, OtherByDirectorResult, error) {
	return nil, OtherByDirectorResult{Result: s.facade.OtherMoviesByDirectorOfMovie(args.Title)}, nil
}

func (s *Service) Search(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, SearchResult, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}
	return nil, SearchResult{Movies: s.facade.SearchMoviesByKeyword(args.Query, false, limit)}, nil
}

func filmographyFilter(args FilmographyArgs) kg.FilmographyFilter {
	filter := kg.FilmographyFilter{SortBy: "year", Limit: args.Limit}
	if args.YearMin > 0 {
		filter.YearMin = &args.YearMin
	}
	if args.YearMax > 0 {
		filter.YearMax = &args.YearMax
	}
	return filter
}
