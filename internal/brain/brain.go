package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/species"
)

// Brain wraps an AI provider with system prompt building and tool-use loop.
type Brain struct {
	provider Provider
	maxTools int
	care     Caretaker
	species  *species.Species

	// Sliding-window rate limiter
	mu      sync.Mutex
	window  []time.Time
	rateMax int
	rateDur time.Duration
	now     func() time.Time
}

// Config for creating a Brain.
type Config struct {
	// Claude
	ClaudeAPIKey string
	ClaudeModel  string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Which provider to force ("claude", "gemini", or "" for auto-detect)
	Provider string

	SpeciesID  string
	MaxTokens  int64
	MaxTools   int
	RateLimit  int
	RateWindow time.Duration
}

// New creates a Brain. Returns nil if no API key is configured.
func New(ctx context.Context, cfg Config, care Caretaker) *Brain {
	provider := newProvider(ctx, cfg)
	if provider == nil {
		slog.Info("brain: no API key configured, AI features disabled")
		return nil
	}
	return NewWithProvider(provider, cfg, care)
}

// NewWithProvider creates a Brain around an already-built provider.
func NewWithProvider(p Provider, cfg Config, care Caretaker) *Brain {
	return &Brain{
		provider: p,
		maxTools: cfg.MaxTools,
		care:     care,
		species:  species.Get(cfg.SpeciesID),
		rateMax:  cfg.RateLimit,
		rateDur:  cfg.RateWindow,
		now:      time.Now,
	}
}

// newProvider auto-detects or forces the AI provider.
func newProvider(ctx context.Context, cfg Config) Provider {
	pick := cfg.Provider

	// Auto-detect if not forced
	if pick == "" {
		switch {
		case cfg.ClaudeAPIKey != "":
			pick = "claude"
		case cfg.GeminiAPIKey != "":
			pick = "gemini"
		}
	}

	switch pick {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=claude but ANTHROPIC_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using claude", "model", cfg.ClaudeModel)
		return newClaudeProvider(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.MaxTokens)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=gemini but GOOGLE_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using gemini", "model", cfg.GeminiModel)
		p, err := newGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			slog.Error("brain: failed to create gemini provider", "err", err)
			return nil
		}
		return p
	default:
		return nil
	}
}

// Reply is the model's answer to one Ask.
type Reply struct {
	Text string
	// GameOver is set when one of the model's own care tools ended the game.
	GameOver pet.Message
}

// Ask sends a user message to the AI with full context and returns its reply.
// It handles the tool-use loop internally.
func (b *Brain) Ask(ctx context.Context, userMessage string) (Reply, error) {
	if !b.rateAllow() {
		return Reply{Text: "I need a moment to catch my breath... too many messages! Try again shortly."}, nil
	}

	var over pet.Message

	systemPrompt := b.buildSystemPrompt()

	history := []Message{
		{Role: "user", Text: userMessage},
	}

	for i := 0; i <= b.maxTools; i++ {
		resp, err := b.provider.Send(ctx, systemPrompt, history)
		if err != nil {
			slog.Error("brain: AI API error", "err", err)
			return Reply{GameOver: over}, fmt.Errorf("AI API error: %w", err)
		}

		if resp.Done {
			return Reply{Text: resp.Text, GameOver: over}, nil
		}

		history = append(history, Message{
			Role:      "assistant",
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		var results []ToolResult
		for _, tc := range resp.ToolCalls {
			content, msg, isError := b.executeTool(tc.Name, tc.Input)
			if msg.GameOver() {
				over = msg
			}
			results = append(results, ToolResult{
				ID:      tc.ID,
				Content: content,
				IsError: isError,
			})
		}

		history = append(history, Message{
			Role:        "user",
			ToolResults: results,
		})
	}

	slog.Warn("brain: hit max tool iterations", "max", b.maxTools)
	return Reply{Text: "I got a bit carried away... " + formatStatus(b.care.Snapshot()), GameOver: over}, nil
}

func (b *Brain) buildSystemPrompt() string {
	snap := b.care.Snapshot()
	sp := b.species

	recent := "(nothing yet)"
	if h := b.care.History(); len(h) > 0 {
		recent = "- " + strings.Join(h, "\n- ")
	}

	status := "alive"
	if !snap.Alive {
		status = "GAME OVER. You are gone; actions will be refused until your owner restarts the game"
	}

	return fmt.Sprintf(`You are %s, a small virtual pet %s (%s).

## Your Personality
%s

## Current State
- Status: %s
- Mood: %s
- Hunger: %d/100 (0=full, 100=starving; 100 ends the game)
- Happiness: %d/100 (0 ends the game)
- Energy: %d/100 (0 ends the game)

## Recent Events (newest first)
%s

## Guidelines
- Stay in character as %s the %s at all times.
- Keep responses short (1-3 sentences).
- You may take care of yourself with the feed_pet, play_with_pet and rest_pet tools when your owner asks, or when a stat is getting dangerous.
- Use check_status instead of guessing numbers.
- Never take more than one action per request unless your owner asks for more.`,
		snap.Name, sp.Name, sp.Emoji, sp.Personality,
		status, snap.Mood, snap.Hunger, snap.Happiness, snap.Energy,
		recent,
		snap.Name, sp.Name)
}

// --- Sliding-window rate limiter ---

func (b *Brain) rateAllow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cutoff := now.Add(-b.rateDur)

	valid := b.window[:0]
	for _, t := range b.window {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	b.window = valid

	if len(b.window) >= b.rateMax {
		return false
	}

	b.window = append(b.window, now)
	return true
}
