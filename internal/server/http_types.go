package server

import (
	"github.com/StephenLER/MAP/pkg/kg"
)

// QuestionRequest is the body of the QA and agent endpoints.
type QuestionRequest struct {
	Question string `json:"question"`
}

// AgentResponse is the body returned by the agent endpoint: the finished
// run plus the session id it was recorded under.
type AgentResponse struct {
	SessionID   string `json:"session_id"`
	Question    string `json:"question"`
	FinalAnswer string `json:"final_answer"`
	Steps       int    `json:"steps"`
}

// SearchResponse is the body of the keyword search endpoint.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []kg.MovieSummary `json:"results"`
}

// StatsResponse describes the loaded graph.
type StatsResponse struct {
	Nodes      map[string]int `json:"nodes"`
	TotalNodes int            `json:"total_nodes"`
	TotalEdges int            `json:"total_edges"`
}
