package proactive

import (
	"context"
	"sync"
	"time"

	"github.com/moorebrett0/tinypet/internal/discord"
	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/session"
	"github.com/moorebrett0/tinypet/internal/species"
)

// MessageSender can send messages and update presence.
type MessageSender interface {
	SendMessage(channelID, text string)
	SendGameOver(channelID, text string)
	UpdatePresence(mood string)
	ChannelID() string
}

// SnapshotSource reads the current pet.
type SnapshotSource interface {
	Snapshot() pet.Snapshot
}

// Scheduler announces what happens between player commands: random events,
// game over from decay, mood changes, and distress warnings.
type Scheduler struct {
	sender  MessageSender
	source  SnapshotSource
	species *species.Species

	checkInterval    time.Duration
	distressCooldown time.Duration
	now              func() time.Time

	mu           sync.Mutex
	lastDistress time.Time
	lastMood     string
}

// Config for the proactive scheduler.
type Config struct {
	CheckInterval    time.Duration
	DistressCooldown time.Duration
	SpeciesID        string
}

// New creates a proactive scheduler.
func New(sender MessageSender, source SnapshotSource, cfg Config) *Scheduler {
	return &Scheduler{
		sender:           sender,
		source:           source,
		species:          species.Get(cfg.SpeciesID),
		checkInterval:    cfg.CheckInterval,
		distressCooldown: cfg.DistressCooldown,
		now:              time.Now,
	}
}

// OnUpdate implements session.Listener.
func (s *Scheduler) OnUpdate(u session.Update) {
	s.updateMood(u.Snapshot.Mood)

	channelID := s.sender.ChannelID()
	if channelID == "" {
		return
	}

	switch u.Source {
	case session.SourceRestart:
		s.mu.Lock()
		s.lastDistress = time.Time{}
		s.mu.Unlock()
	case session.SourceTick:
		// action replies are posted by the router
		switch {
		case u.Message.GameOver():
			s.sender.SendGameOver(channelID, discord.TemplateGameOver(u.Message, s.species))
		case !u.Message.IsZero():
			s.sender.SendMessage(channelID, discord.TemplateEvent(u.Message, s.species))
		}
	}
}

func (s *Scheduler) updateMood(mood string) {
	s.mu.Lock()
	changed := mood != s.lastMood
	s.lastMood = mood
	s.mu.Unlock()

	if changed {
		s.sender.UpdatePresence(mood)
	}
}

// Run starts the distress check loop. Blocks until context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *Scheduler) check() {
	snap := s.source.Snapshot()
	channelID := s.sender.ChannelID()
	if channelID == "" || !snap.Alive {
		return
	}

	reason := checkDistress(snap)
	if reason == "" {
		return
	}

	s.mu.Lock()
	now := s.now()
	if !s.lastDistress.IsZero() && now.Sub(s.lastDistress) < s.distressCooldown {
		s.mu.Unlock()
		return
	}
	s.lastDistress = now
	s.mu.Unlock()

	s.sender.SendMessage(channelID, discord.TemplateDistress(snap, s.species, reason))
}

// Distress thresholds: close to, but not at, the game-over limits.
const (
	distressHunger    = 80
	distressEnergy    = 20
	distressHappiness = 20
)

func checkDistress(snap pet.Snapshot) string {
	if snap.Hunger >= distressHunger {
		return "I'm starving! Please /feed me..."
	}
	if snap.Energy <= distressEnergy {
		return "I can barely keep my eyes open. I need a /rest."
	}
	if snap.Happiness <= distressHappiness {
		return "I'm so bored and lonely. Can we /play?"
	}
	return ""
}
