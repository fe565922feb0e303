package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"testing"

	"github.com/StephenLER/MAP/pkg/kg"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func testFacade(t *testing.T) *kg.Facade {
	t.Helper()

	nodes := []kg.Node{
		{ID: kg.MovieID("Inception", intPtr(2010)), Type: kg.NodeMovie, Title: "Inception", Year: intPtr(2010), IMDBRating: floatPtr(8.8)},
		{ID: kg.MovieID("Dunkirk", intPtr(2017)), Type: kg.NodeMovie, Title: "Dunkirk", Year: intPtr(2017), IMDBRating: floatPtr(7.8)},
		{ID: kg.PersonID("Christopher Nolan"), Type: kg.NodePerson, Name: "Christopher Nolan"},
		{ID: kg.GenreID("Sci-Fi"), Type: kg.NodeGenre, Name: "Sci-Fi"},
	}
	edges := []kg.Edge{
		{Relation: kg.RelDirected, Source: kg.PersonID("Christopher Nolan"), Target: kg.MovieID("Inception", intPtr(2010))},
		{Relation: kg.RelDirected, Source: kg.PersonID("Christopher Nolan"), Target: kg.MovieID("Dunkirk", intPtr(2017))},
		{Relation: kg.RelHasGenre, Source: kg.MovieID("Inception", intPtr(2010)), Target: kg.GenreID("Sci-Fi")},
	}

	store, err := kg.New(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	return kg.NewFacade(store)
}

func TestHTTPEndpoints(t *testing.T) {
	s := NewServer(testFacade(t), nil, nil, ":0", "test-secret-token", nil)

	// Port 0 keeps parallel test runs from fighting over a fixed port. The
	// listener accepts as soon as Listen returns, so no startup wait.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	errCh := make(chan error)
	go func() {
		errCh <- s.Serve(ln)
	}()

	base := "http://" + ln.Addr().String()
	client := &http.Client{}

	// healthz is reachable without auth
	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("healthz expected 200, got %d", resp.StatusCode)
	}

	// protected endpoint without token
	resp, err = http.Get(base + "/graph/stats")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Errorf("protected expected 401, got %d", resp.StatusCode)
	}

	// protected endpoint with token
	req, _ := http.NewRequest("GET", base+"/graph/stats", nil)
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("protected with token expected 200, got %d", resp.StatusCode)
	}
	if stats.TotalNodes != 4 || stats.TotalEdges != 3 {
		t.Errorf("stats = %d nodes %d edges, want 4/3", stats.TotalNodes, stats.TotalEdges)
	}

	// query endpoint
	body, _ := json.Marshal(kg.Request{
		Operation: "movie_basic_info",
		Params:    map[string]any{"title": "Inception"},
	})
	req, _ = http.NewRequest("POST", base+"/api/query", bytes.NewReader(body))
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var queryResp struct {
		Operation string       `json:"operation"`
		Result    kg.MovieInfo `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("query expected 200, got %d", resp.StatusCode)
	}
	if queryResp.Result.Title != "Inception" {
		t.Errorf("query result title = %q, want Inception", queryResp.Result.Title)
	}
	if len(queryResp.Result.Directors) != 1 || queryResp.Result.Directors[0] != "Christopher Nolan" {
		t.Errorf("query result directors = %v", queryResp.Result.Directors)
	}

	// unknown operation preserves the name
	body, _ = json.Marshal(kg.Request{Operation: "does_not_exist"})
	req, _ = http.NewRequest("POST", base+"/api/query", bytes.NewReader(body))
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var errResp map[string]string
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("unknown operation expected 400, got %d", resp.StatusCode)
	}

	// qa without an LLM configured
	body, _ = json.Marshal(QuestionRequest{Question: "anything"})
	req, _ = http.NewRequest("POST", base+"/api/qa", bytes.NewReader(body))
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 503 {
		t.Errorf("qa without llm expected 503, got %d", resp.StatusCode)
	}

	// search endpoint
	req, _ = http.NewRequest("GET", base+"/api/search?q=incep", nil)
	req.Header.Add("Authorization", "Bearer test-secret-token")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(searchResp.Results) != 1 || searchResp.Results[0].Title != "Inception" {
		t.Errorf("search results = %+v", searchResp.Results)
	}

	// Clean shutdown
	s.Shutdown()
	<-errCh
}
