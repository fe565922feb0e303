// Package qa implements graph-augmented question answering: a planning
// model translates the question into a graph query plan, the query runs
// locally against the knowledge graph, and an answering model writes the
// reply from the query result. A multi-step ReAct agent covers questions
// a single query cannot.
package qa

import (
	"context"
	"log/slog"

	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/llm"
)

// Result is the outcome of one plan-execute-answer pipeline run.
type Result struct {
	Question    string       `json:"question"`
	Plan        Plan         `json:"plan"`
	GraphResult *kg.Response `json:"graph_result"`
	Answer      string       `json:"answer"`
}

// StreamEvent is one NDJSON line of the streaming pipeline. Type is one of
// "meta" (plan plus graph result, sent once before the answer), "answer"
// (one content fragment), "error", and "done" (always the last event).
type StreamEvent struct {
	Type        string       `json:"type"`
	Plan        *Plan        `json:"plan,omitempty"`
	GraphResult *kg.Response `json:"graph_result,omitempty"`
	Content     string       `json:"content,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Service is the graph-augmented QA pipeline.
type Service struct {
	facade   *kg.Facade
	planner  *Planner
	answerer *Answerer
	logger   *slog.Logger
}

// NewService wires the pipeline. planClient and answerClient may be the
// same client; separate ones allow a strong planner with a cheaper answerer.
func NewService(facade *kg.Facade, planClient, answerClient llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		facade:   facade,
		planner:  NewPlanner(planClient, logger),
		answerer: NewAnswerer(answerClient),
		logger:   logger,
	}
}

// ExecutePlan runs a query plan against the graph.
func (s *Service) ExecutePlan(plan Plan) (*kg.Response, error) {
	return s.facade.Execute(kg.Request{Operation: plan.Task, Params: plan.Params})
}

// AnswerQuestion runs the full pipeline in blocking mode.
func (s *Service) AnswerQuestion(ctx context.Context, question string) (*Result, error) {
	plan := s.planner.GeneratePlan(question)
	s.logger.Info("query plan generated", "task", plan.Task)

	graphResult, err := s.ExecutePlan(plan)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerer.GenerateAnswer(question, graphResult)
	if err != nil {
		return nil, err
	}

	return &Result{
		Question:    question,
		Plan:        plan,
		GraphResult: graphResult,
		Answer:      answer,
	}, nil
}

// AnswerQuestionStream runs the pipeline and pushes progress through emit:
// one meta event carrying the plan and the graph result, then answer
// fragments as the model generates them, then done. Pipeline failures
// surface as events rather than a broken stream; an emit failure (client
// gone) aborts the run. The final done event is always attempted.
func (s *Service) AnswerQuestionStream(ctx context.Context, question string, emit func(StreamEvent) error) error {
	plan := s.planner.GeneratePlan(question)

	graphResult, err := s.ExecutePlan(plan)
	if err != nil {
		if emitErr := emit(StreamEvent{Type: "meta", Plan: &plan, Error: err.Error()}); emitErr != nil {
			return emitErr
		}
		return emit(StreamEvent{Type: "done"})
	}

	if err := emit(StreamEvent{Type: "meta", Plan: &plan, GraphResult: graphResult}); err != nil {
		return err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var emitErr error
	_, err = s.answerer.GenerateAnswerStream(streamCtx, question, graphResult, func(delta string) {
		if emitErr != nil {
			return
		}
		if e := emit(StreamEvent{Type: "answer", Content: delta}); e != nil {
			emitErr = e
			cancel()
		}
	})
	if emitErr != nil {
		return emitErr
	}
	if err != nil {
		s.logger.Warn("answer stream failed", "error", err)
		if e := emit(StreamEvent{Type: "error", Error: err.Error()}); e != nil {
			return e
		}
	}

	return emit(StreamEvent{Type: "done"})
}
