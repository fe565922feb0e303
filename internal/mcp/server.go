// Package mcp exposes the knowledge-graph query operations as MCP tools,
// so any MCP-capable assistant can query the graph over stdio.
package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/StephenLER/MAP/pkg/kg"
)

func NewMCPServer(facade *kg.Facade) *mcp.Server {
	service := NewService(facade)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "Movie Knowledge Graph",
		Version: "1.0.0",
	}, nil)

	// Register tools using the generic AddTool, which derives the input
	// schema from the args struct tags.

	mcp.AddTool(s, &mcp.Tool{
		Name:        "movie_basic_info",
		Description: "Look up one movie's basic information: directors, actors, genres, certificates and ratings.",
	}, service.MovieInfo)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "movies_by_director",
		Description: "List the movies a director made, with optional year range and result limit.",
	}, service.MoviesByDirector)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "movies_by_actor",
		Description: "List the movies an actor appeared in, with optional year range and result limit.",
	}, service.MoviesByActor)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "movies_by_genre",
		Description: "List movies of a genre ordered by rating, with optional minimum-rating filter.",
	}, service.MoviesByGenre)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "movies_by_certificate",
		Description: "List movies carrying an age certificate such as 'PG-13' or 'R', oldest first.",
	}, service.MoviesByCertificate)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "similar_movies",
		Description: "Find movies similar to a given one, ranked by shared directors, actors and genres.",
	}, service.SimilarMovies)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "co_actors",
		Description: "Find the actors who most often share a film with the named actor.",
	}, service.CoActors)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "other_movies_by_director_of_movie",
		Description: "Given a movie, find its directors and list their other work.",
	}, service.OtherMoviesByDirector)

	// The search tool gets an explicit schema: its description carries
	// usage guidance the struct tags cannot express cleanly.
	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_movies",
		Description: "Search movie titles by keyword. Use this to find the exact title before calling the other tools.",
		InputSchema: searchInputSchema,
	}, service.Search)

	return s
}

var searchInputSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"query": {
			Type:        "string",
			Description: "Case-insensitive substring to match against movie titles.",
		},
		"limit": {
			Type:        "integer",
			Description: "Max number of matches to return (default 20).",
			Minimum:     jsonschema.Ptr(1.0),
		},
	},
	Required: []string{"query"},
}
