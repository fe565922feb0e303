// Package client provides a Go client for the movie knowledge-graph API.
//
// It offers a type-safe way to perform all major operations, including:
//   - Typed graph queries (movie info, filmographies, similarity, co-actors).
//   - Keyword search over movie titles.
//   - Graph statistics.
//   - Graph-augmented question answering, blocking and streaming.
//
// The client handles HTTP communication, JSON serialization/deserialization,
// bearer authentication, and standardized error handling.
package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// --- Custom Errors ---

// APIError represents an error returned by the API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// QueryResponse wraps an operation result. Result stays raw so callers can
// decode it into the shape matching the operation.
type QueryResponse struct {
	Operation string          `json:"operation"`
	Params    map[string]any  `json:"params"`
	Result    json.RawMessage `json:"result"`
}

// MovieSummary is one row of a list-returning operation.
type MovieSummary struct {
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	IMDBRating *float64 `json:"imdb_rating"`
	Metascore  *float64 `json:"metascore"`
}

// MovieInfo is the result of a movie_basic_info query.
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
	NodeID          string   `json:"node_id"`
}

// Stats describes the loaded graph.
type Stats struct {
	Nodes      map[string]int `json:"nodes"`
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Results []MovieSummary `json:"results"`
}

// QAResult is the outcome of a blocking QA call.
type QAResult struct {
	Question    string          `json:"question"`
	Plan        json.RawMessage `json:"plan"`
	GraphResult json.RawMessage `json:"graph_result"`
	Answer      string          `json:"answer"`
}

// StreamEvent is one NDJSON line of the streaming QA endpoint.
type StreamEvent struct {
	Type        string          `json:"type"`
	Plan        json.RawMessage `json:"plan,omitempty"`
	GraphResult json.RawMessage `json:"graph_result,omitempty"`
	Content     string          `json:"content,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// --- Client ---

// Client is the Go client for the movie knowledge-graph service.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// New creates a new client. token may be empty when the server runs without
// authentication.
func New(host string, port int, token string) *Client {
	return &Client{
		baseURL:   fmt.Sprintf("http://%s:%d", host, port),
		authToken: token,
		// QA answers can take a while.
		httpClient: &http.Client{Timeout: 180 * time.Second},
	}
}

// jsonRequest is the shared helper for all API calls. It handles JSON
// serialization, auth, HTTP transport, and error mapping.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	resp, err := c.do(method, endpoint, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) do(method, endpoint string, payload any) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	return resp, nil
}

func apiError(status int, body []byte) error {
	var errResp map[string]string
	if json.Unmarshal(body, &errResp) == nil && errResp["error"] != "" {
		return &APIError{StatusCode: status, Message: errResp["error"]}
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

// --- Query Methods ---

// Query executes one graph operation with raw parameters.
func (c *Client) Query(operation string, params map[string]any) (*QueryResponse, error) {
	body, err := c.jsonRequest(http.MethodPost, "/api/query", map[string]any{
		"operation": operation,
		"params":    params,
	})
	if err != nil {
		return nil, err
	}

	var resp QueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &resp, nil
}

// MovieBasicInfo looks up one movie. A nil result means the title did not
// resolve.
func (c *Client) MovieBasicInfo(title string) (*MovieInfo, error) {
	resp, err := c.Query("movie_basic_info", map[string]any{"title": title})
	if err != nil {
		return nil, err
	}

	var info *MovieInfo
	if err := json.Unmarshal(resp.Result, &info); err != nil {
		return nil, fmt.Errorf("failed to decode movie info: %w", err)
	}
	return info, nil
}

// MoviesByDirector lists a director's movies. Zero-valued filters are
// omitted from the request.
func (c *Client) MoviesByDirector(name string, yearMin, yearMax, limit int) ([]MovieSummary, error) {
	return c.movieList("movies_by_director", filmographyParams(name, yearMin, yearMax, limit))
}

// MoviesByActor lists an actor's movies.
func (c *Client) MoviesByActor(name string, yearMin, yearMax, limit int) ([]MovieSummary, error) {
	return c.movieList("movies_by_actor", filmographyParams(name, yearMin, yearMax, limit))
}

// MoviesByGenre lists a genre's movies, best rated first.
func (c *Client) MoviesByGenre(genre string, ratingMin float64, limit int) ([]MovieSummary, error) {
	params := map[string]any{"genre": genre}
	if ratingMin > 0 {
		params["rating_min"] = ratingMin
	}
	if limit > 0 {
		params["limit"] = limit
	}
	return c.movieList("movies_by_genre", params)
}

// MoviesByCertificate lists the movies carrying a certificate, oldest first.
func (c *Client) MoviesByCertificate(certificate string, limit int) ([]MovieSummary, error) {
	params := map[string]any{"certificate": certificate}
	if limit > 0 {
		params["limit"] = limit
	}
	return c.movieList("movies_by_certificate", params)
}

func (c *Client) movieList(operation string, params map[string]any) ([]MovieSummary, error) {
	resp, err := c.Query(operation, params)
	if err != nil {
		return nil, err
	}

	var movies []MovieSummary
	if err := json.Unmarshal(resp.Result, &movies); err != nil {
		return nil, fmt.Errorf("failed to decode movie list: %w", err)
	}
	return movies, nil
}

func filmographyParams(name string, yearMin, yearMax, limit int) map[string]any {
	params := map[string]any{"name": name}
	if yearMin > 0 {
		params["year_min"] = yearMin
	}
	if yearMax > 0 {
		params["year_max"] = yearMax
	}
	if limit > 0 {
		params["limit"] = limit
	}
	return params
}

// Search matches movie titles against a case-insensitive substring.
func (c *Client) Search(query string, limit int) ([]MovieSummary, error) {
	endpoint := "/api/search?q=" + url.QueryEscape(query)
	if limit > 0 {
		endpoint += "&limit=" + strconv.Itoa(limit)
	}

	body, err := c.jsonRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return resp.Results, nil
}

// Stats returns node and edge counts of the loaded graph.
func (c *Client) Stats() (*Stats, error) {
	body, err := c.jsonRequest(http.MethodGet, "/graph/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return &stats, nil
}

// Health pings the unauthenticated health endpoint.
func (c *Client) Health() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}

// --- QA Methods ---

// Ask runs the blocking QA pipeline for a question.
func (c *Client) Ask(question string) (*QAResult, error) {
	body, err := c.jsonRequest(http.MethodPost, "/api/qa", map[string]string{"question": question})
	if err != nil {
		return nil, err
	}

	var result QAResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode qa result: %w", err)
	}
	return &result, nil
}

// AskStream runs the streaming QA pipeline, invoking onEvent for every
// NDJSON event until the stream ends.
func (c *Client) AskStream(question string, onEvent func(StreamEvent)) error {
	resp, err := c.do(http.MethodPost, "/api/qa_stream", map[string]string{"question": question})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, body)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var event StreamEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return fmt.Errorf("failed to decode stream event: %w", err)
		}
		onEvent(event)
	}
	return scanner.Err()
}
