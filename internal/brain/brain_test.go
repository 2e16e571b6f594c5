package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moorebrett0/tinypet/internal/pet"
)

type fakeProvider struct {
	responses []*Response
	err       error
	prompts   []string
	histories [][]Message
}

func (f *fakeProvider) Send(_ context.Context, systemPrompt string, history []Message) (*Response, error) {
	f.prompts = append(f.prompts, systemPrompt)
	f.histories = append(f.histories, append([]Message(nil), history...))
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &Response{Text: "done", Done: true}, nil
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r, nil
}

type fakeCare struct {
	state   *pet.PetState
	calls   []string
	history []string
}

func newFakeCare() *fakeCare {
	return &fakeCare{state: pet.New("Mochi", neverRand{})}
}

type neverRand struct{}

func (neverRand) Float64() float64 { return 0.99 }
func (neverRand) IntN(int) int     { return 0 }

func (f *fakeCare) Feed() pet.Message {
	f.calls = append(f.calls, "feed")
	return f.state.Feed()
}

func (f *fakeCare) Play() pet.Message {
	f.calls = append(f.calls, "play")
	return f.state.Play()
}

func (f *fakeCare) Rest() pet.Message {
	f.calls = append(f.calls, "rest")
	return f.state.Rest()
}

func (f *fakeCare) Snapshot() pet.Snapshot { return f.state.Snapshot() }
func (f *fakeCare) History() []string      { return f.history }

func testConfig() Config {
	return Config{SpeciesID: "dog", MaxTools: 3, RateLimit: 5, RateWindow: time.Minute}
}

func TestAskRunsToolLoop(t *testing.T) {
	care := newFakeCare()
	prov := &fakeProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "t1", Name: toolFeed, Input: json.RawMessage(`{"reason":"hungry"}`)}}},
		{Text: "Yum, thanks!", Done: true},
	}}
	b := NewWithProvider(prov, testConfig(), care)

	got, err := b.Ask(context.Background(), "feed yourself")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Yum, thanks!" || !got.GameOver.IsZero() {
		t.Fatalf("expected final text and no game over, got %+v", got)
	}
	if len(care.calls) != 1 || care.calls[0] != "feed" {
		t.Fatalf("expected one feed call, got %v", care.calls)
	}

	second := prov.histories[1]
	if len(second) != 3 {
		t.Fatalf("expected user/assistant/tool-result turns, got %d", len(second))
	}
	res := second[2].ToolResults[0]
	if res.ID != "t1" || res.IsError {
		t.Fatalf("unexpected tool result %+v", res)
	}
	if !strings.Contains(res.Content, "You fed Mochi. Yum! Hunger decreased.") {
		t.Fatalf("expected feed message in tool result, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "hunger=30") {
		t.Fatalf("expected stats in tool result, got %q", res.Content)
	}
}

func TestAskStopsAtMaxTools(t *testing.T) {
	care := newFakeCare()
	call := &Response{ToolCalls: []ToolCall{{ID: "s", Name: toolStatus}}}
	prov := &fakeProvider{responses: []*Response{call, call, call, call, call}}
	cfg := testConfig()
	cfg.MaxTools = 1
	b := NewWithProvider(prov, cfg, care)

	got, err := b.Ask(context.Background(), "status?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prov.prompts) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(prov.prompts))
	}
	if !strings.Contains(got.Text, "carried away") {
		t.Fatalf("expected fallback text, got %q", got.Text)
	}
}

func TestAskProviderError(t *testing.T) {
	prov := &fakeProvider{err: errors.New("boom")}
	b := NewWithProvider(prov, testConfig(), newFakeCare())

	_, err := b.Ask(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestAskRateLimited(t *testing.T) {
	prov := &fakeProvider{}
	cfg := testConfig()
	cfg.RateLimit = 2
	b := NewWithProvider(prov, cfg, newFakeCare())

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, err := b.Ask(context.Background(), "hi"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, _ := b.Ask(context.Background(), "hi")
	if !strings.Contains(got.Text, "catch my breath") {
		t.Fatalf("expected rate limit reply, got %q", got.Text)
	}
	if len(prov.prompts) != 2 {
		t.Fatalf("expected limiter to skip the provider, got %d calls", len(prov.prompts))
	}

	now = now.Add(2 * time.Minute)
	if got, _ := b.Ask(context.Background(), "hi"); got.Text != "done" {
		t.Fatalf("expected window to reopen, got %q", got.Text)
	}
}

func TestExecuteTool(t *testing.T) {
	care := newFakeCare()
	b := NewWithProvider(&fakeProvider{}, testConfig(), care)

	if out, _, isErr := b.executeTool("dig_hole", nil); !isErr || !strings.Contains(out, "unknown tool") {
		t.Fatalf("expected unknown tool error, got %q %v", out, isErr)
	}
	if _, _, isErr := b.executeTool(toolPlay, json.RawMessage(`{bad`)); !isErr {
		t.Fatal("expected invalid input error")
	}
	if out, msg, isErr := b.executeTool(toolStatus, nil); isErr || !msg.IsZero() || !strings.Contains(out, "hunger=50 happiness=70 energy=80") {
		t.Fatalf("unexpected status output %q", out)
	}

	for care.state.Alive() {
		care.state.Play()
	}
	out, msg, isErr := b.executeTool(toolRest, nil)
	if msg.Kind != pet.CannotRest || !isErr || !strings.Contains(out, "cannot rest anymore") || !strings.Contains(out, "game over") {
		t.Fatalf("expected refusal for a dead pet, got %q %v", out, isErr)
	}
}

func TestAskReportsGameOverFromTools(t *testing.T) {
	care := newFakeCare()
	// Hunger reaches 100 on the fifth play; the sixth is refused.
	var calls []ToolCall
	for i := range 6 {
		calls = append(calls, ToolCall{ID: fmt.Sprintf("p%d", i), Name: toolPlay})
	}
	prov := &fakeProvider{responses: []*Response{
		{ToolCalls: calls},
		{Text: "wheee", Done: true},
	}}
	b := NewWithProvider(prov, testConfig(), care)

	got, err := b.Ask(context.Background(), "play a lot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "wheee" {
		t.Fatalf("expected model text, got %q", got.Text)
	}
	if len(care.calls) != 6 {
		t.Fatalf("expected six play calls, got %v", care.calls)
	}
	if got.GameOver.Kind != pet.Collapsed || got.GameOver.Name != "Mochi" {
		t.Fatalf("expected collapse game over, got %+v", got.GameOver)
	}
}

func TestSystemPrompt(t *testing.T) {
	care := newFakeCare()
	care.history = []string{"Mochi found a new toy! Happiness increased."}
	b := NewWithProvider(&fakeProvider{}, testConfig(), care)

	prompt := b.buildSystemPrompt()
	for _, want := range []string{"You are Mochi", "Dog", "Hunger: 50/100", "- Mochi found a new toy!", "Status: alive"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestProviderConversions(t *testing.T) {
	history := []Message{
		{Role: "user", Text: "hi"},
		{Role: "assistant", Text: "on it", ToolCalls: []ToolCall{{ID: "a", Name: toolFeed, Input: json.RawMessage(`{}`)}}},
		{Role: "user", ToolResults: []ToolResult{{ID: "a", Content: "ok"}}},
	}
	if got := toClaudeMessages(history); len(got) != 3 {
		t.Fatalf("expected 3 claude messages, got %d", len(got))
	}
	contents := toGeminiContents(history)
	if len(contents) != 3 {
		t.Fatalf("expected 3 gemini contents, got %d", len(contents))
	}
	if contents[1].Role != "model" {
		t.Fatalf("expected assistant mapped to model, got %q", contents[1].Role)
	}
	if len(claudeTools) != len(Tools) {
		t.Fatalf("expected %d claude tools, got %d", len(Tools), len(claudeTools))
	}
	if n := len(geminiTools[0].FunctionDeclarations); n != len(Tools) {
		t.Fatalf("expected %d gemini declarations, got %d", len(Tools), n)
	}
}

func TestNewWithoutKeys(t *testing.T) {
	if b := New(context.Background(), testConfig(), newFakeCare()); b != nil {
		t.Fatal("expected nil brain without API keys")
	}
}
