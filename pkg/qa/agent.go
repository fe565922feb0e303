package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/llm"
)

// DefaultMaxAgentSteps caps the agent's tool-call iterations.
const DefaultMaxAgentSteps = 5

// AgentStep records one iteration of the agent loop.
type AgentStep struct {
	Step               int            `json:"step"`
	Thought            string         `json:"thought"`
	Action             string         `json:"action"`
	ActionInput        map[string]any `json:"action_input"`
	ObservationSummary string         `json:"observation_summary"`
	RawObservation     any            `json:"raw_observation,omitempty"`
	RawAgentOutput     string         `json:"raw_agent_output,omitempty"`
}

// AgentResult is the full outcome of one agent run.
type AgentResult struct {
	Question    string      `json:"question"`
	History     []AgentStep `json:"history"`
	FinalAnswer string      `json:"final_answer"`
}

// Agent runs a multi-step tool-calling loop over the knowledge graph:
// the agent model emits Thought / Action / Action Input triples, each
// action executes a graph query, and the condensed observation feeds the
// next step. A second model writes the final answer from the trace.
type Agent struct {
	facade       *kg.Facade
	agentClient  llm.Client
	answerClient llm.Client
	maxSteps     int
	logger       *slog.Logger
}

// NewAgent creates an agent. answerClient may equal agentClient; maxSteps
// <= 0 uses DefaultMaxAgentSteps.
func NewAgent(facade *kg.Facade, agentClient, answerClient llm.Client, maxSteps int, logger *slog.Logger) *Agent {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxAgentSteps
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		facade:       facade,
		agentClient:  agentClient,
		answerClient: answerClient,
		maxSteps:     maxSteps,
		logger:       logger,
	}
}

// Run drives the agent loop to completion and returns the trace plus the
// final answer. A model failure mid-loop aborts the run; tool failures do
// not, they become observations the agent can react to.
func (a *Agent) Run(ctx context.Context, question string) (*AgentResult, error) {
	var history []AgentStep

	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := a.agentClient.ChatMessages(buildReactMessages(question, history))
		if err != nil {
			return nil, fmt.Errorf("agent model call failed at step %d: %w", step, err)
		}

		thought, action, params := parseReactOutput(content)
		record := AgentStep{
			Step:           step,
			Thought:        thought,
			Action:         action,
			ActionInput:    params,
			RawAgentOutput: content,
		}

		if action == "finish" {
			history = append(history, record)
			break
		}

		obs := a.runTool(action, params)
		record.RawObservation = obs
		record.ObservationSummary = summarizeObservation(action, obs)
		a.logger.Debug("agent step executed",
			"step", step, "action", action, "observation", record.ObservationSummary)

		history = append(history, record)
	}

	finalAnswer, err := a.answerClient.ChatMessages(buildFinalAnswerMessages(question, history))
	if err != nil {
		return nil, fmt.Errorf("final answer generation failed: %w", err)
	}

	return &AgentResult{
		Question:    question,
		History:     history,
		FinalAnswer: finalAnswer,
	}, nil
}

// toolError is the observation shape of a failed tool call.
type toolError struct {
	Error string `json:"error"`
}

func (a *Agent) runTool(action string, params map[string]any) any {
	resp, err := a.facade.Execute(kg.Request{Operation: action, Params: params})
	if err != nil {
		return toolError{Error: err.Error()}
	}
	return resp.Result
}

// --- Prompt assembly ---

func buildReactMessages(question string, history []AgentStep) []llm.Message {
	userContent := fmt.Sprintf(`User question:
%s

Tool-call history so far (Thought / Action / Action Input / Observation):
%s

Given the history and the available tools, decide the next step and reply
with exactly one Thought / Action / Action Input triple in the required format.`,
		question, formatHistory(history))

	return []llm.Message{
		{Role: "system", Content: ReActSystemPrompt},
		{Role: "user", Content: userContent},
	}
}

func formatHistory(history []AgentStep) string {
	if len(history) == 0 {
		return "(no tool calls yet)"
	}

	var b strings.Builder
	for _, step := range history {
		input, _ := json.Marshal(step.ActionInput)
		fmt.Fprintf(&b, "Step %d:\n", step.Step)
		fmt.Fprintf(&b, "Thought: %s\n", step.Thought)
		fmt.Fprintf(&b, "Action: %s\n", step.Action)
		fmt.Fprintf(&b, "Action Input: %s\n", input)
		fmt.Fprintf(&b, "Observation: %s\n\n", step.ObservationSummary)
	}
	return b.String()
}

func buildFinalAnswerMessages(question string, history []AgentStep) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", question)
	b.WriteString("The agent's reasoning and tool calls (Thought / Action / Observation):\n\n")
	b.WriteString(formatHistory(history))
	b.WriteString("\nGiven this trace, write the final answer to the user's question.")

	return []llm.Message{
		{Role: "system", Content: FinalAnswerSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// --- Agent output parsing ---

var stepPattern = regexp.MustCompile(`(?s)Thought:\s*(.+?)\s*Action:\s*([\w_-]+)\s*Action Input:\s*(\{.*\})`)

// parseReactOutput extracts the Thought / Action / Action Input triple. An
// unparseable reply becomes a finish step with the whole text as thought, so
// a rambling model ends the loop instead of wedging it.
func parseReactOutput(text string) (thought, action string, params map[string]any) {
	m := stepPattern.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text), "finish", map[string]any{}
	}

	thought = strings.TrimSpace(m[1])
	action = strings.TrimSpace(m[2])
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[3])), &params); err != nil || params == nil {
		params = map[string]any{}
	}
	return thought, action, params
}

// --- Observation summarization ---

const summaryMaxItems = 5

// summarizeObservation condenses a tool result into a short line for the
// next prompt, instead of echoing whole JSON payloads back to the model.
func summarizeObservation(action string, obs any) string {
	switch v := obs.(type) {
	case nil:
		return "The tool returned nothing."
	case toolError:
		return fmt.Sprintf("Tool call failed: %s", v.Error)
	case *kg.MovieInfo:
		if v == nil {
			return "No information found for that movie."
		}
		return fmt.Sprintf("Found movie %q (%s), directors: %s",
			v.Title, formatYear(v.Year), strings.Join(v.Directors, ", "))
	case []kg.MovieSummary:
		return summarizeMovies(v, len(v))
	case kg.SimilarMoviesResult:
		if v.Movie == nil {
			return "No information found for that movie."
		}
		return summarizeScored(v.SimilarMovies)
	case []kg.CoActor:
		return summarizeCoActors(v)
	case *kg.OtherByDirectorResult:
		if v == nil {
			return "No information found for that movie."
		}
		parts := make([]string, 0, len(v.ByDirector))
		for _, d := range v.ByDirector {
			parts = append(parts, fmt.Sprintf("%s (%d other movies)", d.Director, len(d.OtherMovies)))
		}
		return fmt.Sprintf("Directors of %q: %s", v.Movie.Title, strings.Join(parts, "; "))
	}

	s := fmt.Sprintf("%v", obs)
	if len(s) > 500 {
		s = s[:500] + " ...[truncated]"
	}
	return s
}

func summarizeMovies(movies []kg.MovieSummary, total int) string {
	head := movies
	if len(head) > summaryMaxItems {
		head = head[:summaryMaxItems]
	}
	titles := make([]string, 0, len(head))
	for _, m := range head {
		titles = append(titles, fmt.Sprintf("%s (%s)", m.Title, formatYear(m.Year)))
	}
	return fmt.Sprintf("Found %d movies, first %d: %s", total, len(titles), strings.Join(titles, "; "))
}

func summarizeScored(movies []kg.ScoredMovie) string {
	head := movies
	if len(head) > summaryMaxItems {
		head = head[:summaryMaxItems]
	}
	titles := make([]string, 0, len(head))
	for _, m := range head {
		titles = append(titles, fmt.Sprintf("%s (score %d)", m.Title, m.Score))
	}
	return fmt.Sprintf("Found %d similar movies, first %d: %s", len(movies), len(titles), strings.Join(titles, "; "))
}

func summarizeCoActors(coActors []kg.CoActor) string {
	head := coActors
	if len(head) > summaryMaxItems {
		head = head[:summaryMaxItems]
	}
	names := make([]string, 0, len(head))
	for _, c := range head {
		names = append(names, fmt.Sprintf("%s (%d shared movies)", c.Name, c.Count))
	}
	return fmt.Sprintf("Found %d co-actors, first %d: %s", len(coActors), len(names), strings.Join(names, "; "))
}

func formatYear(year *int) string {
	if year == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *year)
}
