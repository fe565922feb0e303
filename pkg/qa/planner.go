package qa

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/StephenLER/MAP/pkg/llm"
)

// Plan is the parsed output of the planning model.
type Plan struct {
	Task   string         `json:"task"`
	Params map[string]any `json:"params"`
}

// Planner turns a natural-language question into a query plan.
type Planner struct {
	client llm.Client
	logger *slog.Logger
}

// NewPlanner creates a planner over the given LLM client.
func NewPlanner(client llm.Client, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{client: client, logger: logger}
}

// GeneratePlan asks the planning model for a query plan. A reply that does
// not parse as JSON falls back to a movie_basic_info lookup with the whole
// question as the title, so the pipeline always proceeds.
func (p *Planner) GeneratePlan(question string) Plan {
	raw, err := p.client.ChatMessages(buildPlanMessages(question))
	if err != nil {
		p.logger.Warn("plan generation failed, using fallback plan", "error", err)
		return fallbackPlan(question)
	}

	plan, ok := parsePlan(raw)
	if !ok {
		p.logger.Warn("plan output is not valid JSON, using fallback plan", "raw", raw)
		return fallbackPlan(question)
	}
	return plan
}

func buildPlanMessages(question string) []llm.Message {
	messages := make([]llm.Message, 0, 2*len(PlanFewShot)+2)
	messages = append(messages, llm.Message{Role: "system", Content: PlanSystemPrompt})
	for _, ex := range PlanFewShot {
		messages = append(messages,
			llm.Message{Role: "user", Content: ex.User},
			llm.Message{Role: "assistant", Content: ex.Plan},
		)
	}
	return append(messages, llm.Message{Role: "user", Content: question})
}

// parsePlan decodes the model reply, tolerating markdown code fences some
// models insist on adding.
func parsePlan(raw string) (Plan, bool) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil || plan.Task == "" {
		return Plan{}, false
	}
	if plan.Params == nil {
		plan.Params = map[string]any{}
	}
	return plan, true
}

func fallbackPlan(question string) Plan {
	return Plan{
		Task:   "movie_basic_info",
		Params: map[string]any{"title": strings.TrimSpace(question)},
	}
}
