package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/StephenLER/MAP/internal/server/ui"
	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/metrics"
	"github.com/StephenLER/MAP/pkg/qa"
)

var uiHandler = ui.GetHandler()

// registerHTTPHandlers sets up the routes for the REST API.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.router)
}

// router is the manual main router. It inspects the URL and delegates to
// the matching handler.
func (s *Server) router(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// --- Debug endpoints (pprof) ---
	if strings.HasPrefix(path, "/debug/pprof") {
		switch {
		case path == "/debug/pprof/":
			pprof.Index(w, r)
		case path == "/debug/pprof/cmdline":
			pprof.Cmdline(w, r)
		case path == "/debug/pprof/profile":
			pprof.Profile(w, r)
		case path == "/debug/pprof/symbol":
			pprof.Symbol(w, r)
		case path == "/debug/pprof/trace":
			pprof.Trace(w, r)
		default:
			s.writeHTTPError(w, http.StatusNotFound, "pprof endpoint not found")
		}
		return
	}

	// --- API endpoints ---
	switch path {
	case "/api/query":
		s.handleQuery(w, r)
		return
	case "/api/qa":
		s.handleQA(w, r)
		return
	case "/api/qa_stream":
		s.handleQAStream(w, r)
		return
	case "/api/agent":
		s.handleAgent(w, r)
		return
	case "/api/search":
		s.handleSearch(w, r)
		return
	case "/graph/stats":
		s.handleGraphStats(w, r)
		return
	}

	// Pattern: /api/sessions/{id}
	if id, ok := strings.CutPrefix(path, "/api/sessions/"); ok && id != "" {
		s.handleGetSession(w, r, id)
		return
	}

	// Everything else goes to the embedded frontend.
	if r.Method == http.MethodGet {
		uiHandler.ServeHTTP(w, r)
		return
	}

	s.writeHTTPError(w, http.StatusNotFound, "endpoint not found")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.Handler()
}

// handleQuery executes one typed graph query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST on /api/query")
		return
	}

	var req kg.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected an object with 'operation' and 'params'")
		return
	}
	if req.Operation == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "'operation' is required")
		return
	}

	resp, err := s.facade.Execute(req)
	if err != nil {
		recordQuery(req.Operation, "error")
		if errors.Is(err, kg.ErrUnknownOperation) {
			s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		} else {
			s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	recordQuery(req.Operation, "ok")
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

// handleQA runs the blocking plan-execute-answer pipeline.
func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST on /api/qa")
		return
	}
	if s.qaService == nil {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no LLM configured")
		return
	}

	question, ok := s.decodeQuestion(w, r)
	if !ok {
		return
	}

	result, err := s.qaService.AnswerQuestion(r.Context(), question)
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, result)
}

// handleQAStream runs the pipeline in streaming mode. Each line of the
// response body is one JSON event: a meta event with the plan and graph
// result, then answer fragments, then done.
func (s *Server) handleQAStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST on /api/qa_stream")
		return
	}
	if s.qaService == nil {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no LLM configured")
		return
	}

	question, ok := s.decodeQuestion(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeHTTPError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	err := s.qaService.AnswerQuestionStream(r.Context(), question, func(event qa.StreamEvent) error {
		if err := encoder.Encode(event); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// The stream is already open; the client either went away or will
		// see the missing done event. Log and move on.
		s.logger.Warn("qa stream aborted", "error", err)
	}
}

// handleAgent runs the multi-step ReAct agent to completion and records the
// run as a retrievable session.
func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use POST on /api/agent")
		return
	}
	if s.agent == nil {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no LLM configured")
		return
	}

	question, ok := s.decodeQuestion(w, r)
	if !ok {
		return
	}

	session := s.sessions.NewSession(question)
	result, err := s.agent.Run(r.Context(), question)
	if err != nil {
		session.Fail(err)
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	session.Complete(result)

	s.writeHTTPResponse(w, http.StatusOK, AgentResponse{
		SessionID:   session.ID,
		Question:    result.Question,
		FinalAnswer: result.FinalAnswer,
		Steps:       len(result.History),
	})
}

// handleGetSession returns a recorded agent run, trace included.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use GET on /api/sessions/{id}")
		return
	}

	session, found := s.sessions.GetSession(id)
	if !found {
		s.writeHTTPError(w, http.StatusNotFound, fmt.Sprintf("session '%s' not found", id))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, session.Snapshot())
}

// handleSearch scans movie titles for a substring.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use GET on /api/search")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeHTTPError(w, http.StatusBadRequest, "query parameter 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}

	results := s.facade.SearchMoviesByKeyword(query, false, limit)
	s.writeHTTPResponse(w, http.StatusOK, SearchResponse{Query: query, Results: results})
}

// handleGraphStats describes the loaded graph.
func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "use GET on /graph/stats")
		return
	}

	store := s.facade.Store()
	nodes := make(map[string]int)
	for t, count := range store.CountByType() {
		nodes[string(t)] = count
	}

	s.writeHTTPResponse(w, http.StatusOK, StatsResponse{
		Nodes:      nodes,
		TotalNodes: store.NodeCount(),
		TotalEdges: store.EdgeCount(),
	})
}

func (s *Server) decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected an object with 'question'")
		return "", false
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "'question' must not be empty")
		return "", false
	}
	return question, true
}

func recordQuery(operation, outcome string) {
	metrics.QueryOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// --- HTTP response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
