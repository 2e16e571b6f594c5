// Package app wires configuration, the pet session and a presentation shell.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/moorebrett0/tinypet/internal/brain"
	"github.com/moorebrett0/tinypet/internal/config"
	"github.com/moorebrett0/tinypet/internal/console"
	"github.com/moorebrett0/tinypet/internal/discord"
	"github.com/moorebrett0/tinypet/internal/onboarding"
	"github.com/moorebrett0/tinypet/internal/proactive"
	"github.com/moorebrett0/tinypet/internal/session"
)

// hatchDelay paces the onboarding text on a real terminal.
const hatchDelay = 30 * time.Millisecond

// Streams are the terminal streams used in console mode.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// NewLogger builds the slog logger described by cfg.
func NewLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}

// Run starts the configured mode and blocks until it finishes or ctx is done.
func Run(ctx context.Context, cfg *config.Config, streams Streams) error {
	switch cfg.Mode {
	case config.ModeConsole:
		return runConsole(ctx, cfg, streams, hatchDelay)
	case config.ModeDiscord:
		return runDiscord(ctx, cfg)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func newSession(cfg config.PetConfig) *session.Session {
	return session.New(session.Config{
		Name:         cfg.Name,
		TickInterval: cfg.TickInterval,
		HistorySize:  cfg.HistorySize,
		Seed:         cfg.Seed,
	})
}

func runConsole(ctx context.Context, cfg *config.Config, streams Streams, delay time.Duration) error {
	// One buffered reader so onboarding cannot swallow console input.
	in := bufferedReader(streams.In)

	if cfg.Pet.Name == "" {
		res, err := onboarding.New(in, streams.Out, delay).Run()
		if err != nil {
			return err
		}
		cfg.Pet.Name = res.Name
		cfg.Pet.Species = res.SpeciesID
	}

	sess := newSession(cfg.Pet)
	con := console.New(sess, cfg.Pet.Species, in, streams.Out)
	sess.AddListener(con)

	sess.Start(ctx)
	defer sess.Stop()

	slog.Debug("app: console started", "name", sess.Name(), "tick", cfg.Pet.TickInterval)
	return con.Run(ctx)
}

func runDiscord(ctx context.Context, cfg *config.Config) error {
	sess := newSession(cfg.Pet)

	b := newBrain(ctx, cfg, sess)

	bot, err := discord.NewBot(cfg.Discord.BotToken, cfg.Discord.ChannelID,
		cfg.Discord.OwnerIDs, cfg.Discord.OwnerOnly, cfg.Discord.UseThreads)
	if err != nil {
		return err
	}
	bot.SetRouter(discord.NewRouter(bot, sess, b, cfg.Pet.Species))

	if cfg.Proactive.Enabled {
		sched := proactive.New(bot, sess, proactive.Config{
			CheckInterval:    cfg.Proactive.CheckInterval,
			DistressCooldown: cfg.Proactive.DistressCooldown,
			SpeciesID:        cfg.Pet.Species,
		})
		sess.AddListener(sched)
		go sched.Run(ctx)
	}

	sess.Start(ctx)
	defer sess.Stop()

	slog.Info("app: discord mode", "name", sess.Name(), "species", cfg.Pet.Species, "ai", b != nil)
	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newBrain returns nil when no provider key is configured.
func newBrain(ctx context.Context, cfg *config.Config, care brain.Caretaker) *brain.Brain {
	if !cfg.AIEnabled() {
		return nil
	}
	return brain.New(ctx, brain.Config{
		ClaudeAPIKey: cfg.Claude.APIKey,
		ClaudeModel:  cfg.Claude.Model,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		Provider:     cfg.AI.Provider,
		SpeciesID:    cfg.Pet.Species,
		MaxTokens:    cfg.Claude.MaxTokens,
		MaxTools:     cfg.Claude.MaxTools,
		RateLimit:    cfg.Claude.RateLimit,
		RateWindow:   cfg.Claude.RateWindow,
	}, care)
}

func bufferedReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
