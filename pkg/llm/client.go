package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client defines the interface for interacting with an LLM.
// This abstraction allows for easy mocking in tests.
type Client interface {
	// Chat sends a single prompt to the LLM and returns the text response.
	Chat(systemPrompt, userQuery string) (string, error)

	// ChatMessages sends a full multi-turn conversation and returns the
	// text response.
	ChatMessages(messages []Message) (string, error)

	// ChatMessagesStream sends a conversation in streaming mode, invoking
	// onDelta for every content fragment as it arrives. It returns the
	// concatenated full response. The context cancels the in-flight request.
	ChatMessagesStream(ctx context.Context, messages []Message, onDelta func(string)) (string, error)
}

// OpenAIClient implements the Client interface for OpenAI-compatible APIs.
// It works with OpenAI, Ollama, LocalAI, vLLM, etc.
type OpenAIClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient initializes a new LLM client.
func NewClient(cfg Config) *OpenAIClient {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &OpenAIClient{
		cfg: cfg,
		httpClient: &http.Client{
			// Generation can be slow.
			Timeout: 120 * time.Second,
		},
	}
}

// Chat performs a blocking completion request with a single user message.
func (c *OpenAIClient) Chat(systemPrompt, userQuery string) (string, error) {
	messages := []Message{}
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: userQuery})
	return c.ChatMessages(messages)
}

// ChatMessages performs a blocking completion request over a full
// conversation history.
func (c *OpenAIClient) ChatMessages(messages []Message) (string, error) {
	reqBody := ChatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		Stream:      false,
	}
	if c.cfg.MaxTokens > 0 {
		reqBody.MaxTokens = c.cfg.MaxTokens
	}

	resp, err := c.send(context.Background(), reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("provider error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from llm")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ChatMessagesStream performs a streaming completion request. The provider
// answers with SSE events ("data: {...}" lines, terminated by "data: [DONE]");
// each content delta is forwarded to onDelta and accumulated.
func (c *OpenAIClient) ChatMessagesStream(ctx context.Context, messages []Message, onDelta func(string)) (string, error) {
	reqBody := ChatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		Stream:      true,
	}
	if c.cfg.MaxTokens > 0 {
		reqBody.MaxTokens = c.cfg.MaxTokens
	}

	resp, err := c.send(ctx, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Tolerate malformed keep-alive events from lenient providers.
			continue
		}
		if chunk.Error != nil {
			return full.String(), fmt.Errorf("provider error: %s", chunk.Error.Message)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			full.WriteString(choice.Delta.Content)
			if onDelta != nil {
				onDelta(choice.Delta.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("stream read failed: %w", err)
	}
	return full.String(), nil
}

func (c *OpenAIClient) send(ctx context.Context, payload ChatRequest) (*http.Response, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm connection failed: %w", err)
	}
	return resp, nil
}
