package qa

import (
	"context"
	"strings"
	"testing"
)

func TestParseReactOutput(t *testing.T) {
	thought, action, params := parseReactOutput(`Thought: I need the movie details.
Action: movie_basic_info
Action Input: {"title": "Inception"}`)
	if thought != "I need the movie details." {
		t.Errorf("thought: %q", thought)
	}
	if action != "movie_basic_info" {
		t.Errorf("action: %q", action)
	}
	if params["title"] != "Inception" {
		t.Errorf("params: %+v", params)
	}

	// Models wrap the triple in chatter; the parser must still find it.
	_, action, params = parseReactOutput(`Sure! Here is my next step.

Thought: next I check the director's other work
Action: other_movies_by_director_of_movie
Action Input: {"title": "Dunkirk"}

Let me know if you need anything else.`)
	if action != "other_movies_by_director_of_movie" || params["title"] != "Dunkirk" {
		t.Errorf("parsed %q %+v", action, params)
	}

	// Malformed input JSON degrades to empty params, not to a nil map.
	_, _, params = parseReactOutput("Thought: x\nAction: co_actors\nAction Input: {broken")
	if params == nil {
		t.Error("params is nil")
	}

	// A reply without the triple ends the loop.
	thought, action, _ = parseReactOutput("The answer is Christopher Nolan.")
	if action != "finish" {
		t.Errorf("action: got %q, want finish", action)
	}
	if thought != "The answer is Christopher Nolan." {
		t.Errorf("thought: %q", thought)
	}
}

func TestAgentRun(t *testing.T) {
	agentClient := &fakeClient{replies: []string{
		"Thought: look the movie up\nAction: movie_basic_info\nAction Input: {\"title\": \"Inception\"}",
		"Thought: I have everything I need\nAction: finish\nAction Input: {}",
	}}
	answerClient := &fakeClient{replies: []string{"Christopher Nolan directed Inception."}}

	agent := NewAgent(testFacade(t), agentClient, answerClient, 0, nil)

	res, err := agent.Run(context.Background(), "Who directed Inception?")
	if err != nil {
		t.Fatal(err)
	}

	if len(res.History) != 2 {
		t.Fatalf("got %d steps, want 2: %+v", len(res.History), res.History)
	}
	first := res.History[0]
	if first.Action != "movie_basic_info" {
		t.Errorf("first action: %q", first.Action)
	}
	if !strings.Contains(first.ObservationSummary, "Inception") ||
		!strings.Contains(first.ObservationSummary, "Christopher Nolan") {
		t.Errorf("observation summary: %q", first.ObservationSummary)
	}
	if res.History[1].Action != "finish" {
		t.Errorf("second action: %q", res.History[1].Action)
	}
	if res.FinalAnswer != "Christopher Nolan directed Inception." {
		t.Errorf("final answer: %q", res.FinalAnswer)
	}

	// The second agent prompt must contain the first observation.
	second := agentClient.calls[1]
	if !strings.Contains(second[len(second)-1].Content, first.ObservationSummary) {
		t.Error("history observation missing from the follow-up prompt")
	}
}

func TestAgentToolFailureBecomesObservation(t *testing.T) {
	agentClient := &fakeClient{replies: []string{
		"Thought: try something odd\nAction: not_a_tool\nAction Input: {}",
		"Thought: give up\nAction: finish\nAction Input: {}",
	}}
	answerClient := &fakeClient{replies: []string{"I could not find that."}}

	agent := NewAgent(testFacade(t), agentClient, answerClient, 0, nil)

	res, err := agent.Run(context.Background(), "nonsense question")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.History[0].ObservationSummary, "Tool call failed") {
		t.Errorf("observation summary: %q", res.History[0].ObservationSummary)
	}
}

func TestAgentModelFailureAborts(t *testing.T) {
	agent := NewAgent(testFacade(t), &fakeClient{err: errTest}, &fakeClient{}, 0, nil)

	if _, err := agent.Run(context.Background(), "q"); err == nil {
		t.Fatal("expected error when the agent model fails")
	}
}

func TestAgentMaxSteps(t *testing.T) {
	// A model that never finishes hits the step cap; the final answer is
	// still generated from the partial trace.
	agentClient := &fakeClient{replies: []string{
		"Thought: again\nAction: movies_by_director\nAction Input: {\"name\": \"Christopher Nolan\"}",
	}}
	answerClient := &fakeClient{replies: []string{"best effort answer"}}

	agent := NewAgent(testFacade(t), agentClient, answerClient, 2, nil)

	res, err := agent.Run(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.History) != 2 {
		t.Errorf("got %d steps, want the cap of 2", len(res.History))
	}
	if res.FinalAnswer != "best effort answer" {
		t.Errorf("final answer: %q", res.FinalAnswer)
	}
}

func TestAgentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agent := NewAgent(testFacade(t), &fakeClient{}, &fakeClient{}, 0, nil)
	if _, err := agent.Run(ctx, "q"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
