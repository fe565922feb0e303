package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/StephenLER/MAP/pkg/kg"
	"github.com/StephenLER/MAP/pkg/llm"
)

var errTest = errors.New("model unavailable")

// fakeClient replays scripted replies in order. The last reply repeats once
// the script runs out, so open-ended loops stay deterministic.
type fakeClient struct {
	replies []string
	deltas  []string
	err     error
	calls   [][]llm.Message
}

func (f *fakeClient) Chat(systemPrompt, userQuery string) (string, error) {
	return f.ChatMessages([]llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userQuery},
	})
}

func (f *fakeClient) ChatMessages(messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("fake client has no scripted reply")
	}
	idx := len(f.calls) - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return f.replies[idx], nil
}

func (f *fakeClient) ChatMessagesStream(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	var b strings.Builder
	for _, d := range f.deltas {
		if ctx.Err() != nil {
			return b.String(), ctx.Err()
		}
		onDelta(d)
		b.WriteString(d)
	}
	return b.String(), nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// testFacade builds a two-movie graph big enough for the pipeline tests.
func testFacade(t *testing.T) *kg.Facade {
	t.Helper()

	inception := kg.MovieID("Inception", intPtr(2010))
	dunkirk := kg.MovieID("Dunkirk", intPtr(2017))
	nolan := kg.PersonID("Christopher Nolan")

	nodes := []kg.Node{
		{ID: inception, Type: kg.NodeMovie, Title: "Inception", Year: intPtr(2010), IMDBRating: floatPtr(8.8)},
		{ID: dunkirk, Type: kg.NodeMovie, Title: "Dunkirk", Year: intPtr(2017), IMDBRating: floatPtr(7.9)},
		{ID: nolan, Type: kg.NodePerson, Name: "Christopher Nolan"},
		{ID: kg.PersonID("Tom Hardy"), Type: kg.NodePerson, Name: "Tom Hardy"},
	}
	edges := []kg.Edge{
		{Relation: kg.RelDirected, Source: nolan, Target: inception},
		{Relation: kg.RelDirected, Source: nolan, Target: dunkirk},
		{Relation: kg.RelActedIn, Source: kg.PersonID("Tom Hardy"), Target: inception},
	}

	store, err := kg.New(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	return kg.NewFacade(store)
}

func TestAnswerQuestion(t *testing.T) {
	planClient := &fakeClient{replies: []string{
		`{"task": "movie_basic_info", "params": {"title": "Inception"}}`,
	}}
	answerClient := &fakeClient{replies: []string{
		"Inception was directed by Christopher Nolan.",
	}}

	svc := NewService(testFacade(t), planClient, answerClient, nil)

	res, err := svc.AnswerQuestion(context.Background(), "Who directed Inception?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Plan.Task != "movie_basic_info" {
		t.Errorf("plan task: got %q", res.Plan.Task)
	}
	if res.Answer != "Inception was directed by Christopher Nolan." {
		t.Errorf("unexpected answer: %q", res.Answer)
	}

	info, ok := res.GraphResult.Result.(*kg.MovieInfo)
	if !ok || info == nil {
		t.Fatalf("graph result is not a MovieInfo: %T", res.GraphResult.Result)
	}
	if len(info.Directors) != 1 || info.Directors[0] != "Christopher Nolan" {
		t.Errorf("unexpected directors: %v", info.Directors)
	}

	// The answering prompt must carry the graph result, not just the question.
	last := answerClient.calls[len(answerClient.calls)-1]
	if !strings.Contains(last[len(last)-1].Content, "Christopher Nolan") {
		t.Error("answer prompt does not contain the graph result")
	}
}

func TestAnswerQuestionStream(t *testing.T) {
	planClient := &fakeClient{replies: []string{
		`{"task": "movie_basic_info", "params": {"title": "Inception"}}`,
	}}
	answerClient := &fakeClient{deltas: []string{"Christopher ", "Nolan."}}

	svc := NewService(testFacade(t), planClient, answerClient, nil)

	var events []StreamEvent
	err := svc.AnswerQuestionStream(context.Background(), "Who directed Inception?", func(ev StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	want := []string{"meta", "answer", "answer", "done"}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("event sequence: got %v, want %v", types, want)
	}

	if events[0].Plan == nil || events[0].Plan.Task != "movie_basic_info" {
		t.Errorf("meta event has no plan: %+v", events[0])
	}
	if events[0].GraphResult == nil {
		t.Error("meta event has no graph result")
	}
	if events[1].Content+events[2].Content != "Christopher Nolan." {
		t.Errorf("answer fragments: %q + %q", events[1].Content, events[2].Content)
	}
}

func TestAnswerQuestionStreamBadPlan(t *testing.T) {
	// The planner returns an operation the graph does not know; the stream
	// must surface the failure as a meta event and still emit done.
	planClient := &fakeClient{replies: []string{
		`{"task": "delete_everything", "params": {}}`,
	}}

	svc := NewService(testFacade(t), planClient, &fakeClient{}, nil)

	var events []StreamEvent
	err := svc.AnswerQuestionStream(context.Background(), "anything", func(ev StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Type != "meta" || events[1].Type != "done" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Error == "" {
		t.Error("meta event does not carry the execution error")
	}
}

func TestAnswerQuestionStreamEmitFailure(t *testing.T) {
	planClient := &fakeClient{replies: []string{
		`{"task": "movie_basic_info", "params": {"title": "Inception"}}`,
	}}
	answerClient := &fakeClient{deltas: []string{"a", "b", "c"}}

	svc := NewService(testFacade(t), planClient, answerClient, nil)

	clientGone := errors.New("client went away")
	count := 0
	err := svc.AnswerQuestionStream(context.Background(), "q", func(ev StreamEvent) error {
		count++
		if count > 2 {
			return clientGone
		}
		return nil
	})
	if !errors.Is(err, clientGone) {
		t.Errorf("got %v, want the emit error", err)
	}
}
