package qa

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/llm"
)

// Answerer turns an executed query result into a natural-language answer.
type Answerer struct {
	client llm.Client
}

// NewAnswerer creates an answerer over the given LLM client.
func NewAnswerer(client llm.Client) *Answerer {
	return &Answerer{client: client}
}

// GenerateAnswer produces the full answer in one blocking call.
func (a *Answerer) GenerateAnswer(question string, result *kg.Response) (string, error) {
	return a.client.ChatMessages(buildAnswerMessages(question, result))
}

// GenerateAnswerStream produces the answer in streaming mode, forwarding
// each fragment to onDelta, and returns the concatenated text.
func (a *Answerer) GenerateAnswerStream(ctx context.Context, question string, result *kg.Response, onDelta func(string)) (string, error) {
	return a.client.ChatMessagesStream(ctx, buildAnswerMessages(question, result), onDelta)
}

func buildAnswerMessages(question string, result *kg.Response) []llm.Message {
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		resultJSON = []byte("null")
	}

	userContent := fmt.Sprintf("User question:\n%s\n\nGraph query result (JSON):\n%s\n", question, resultJSON)
	return []llm.Message{
		{Role: "system", Content: AnswerSystemPrompt},
		{Role: "user", Content: userContent},
	}
}
