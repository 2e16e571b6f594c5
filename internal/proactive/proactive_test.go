package proactive

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/session"
)

type sent struct {
	channel  string
	text     string
	gameOver bool
}

type fakeSender struct {
	mu        sync.Mutex
	channel   string
	messages  []sent
	presences []string
}

func (f *fakeSender) SendMessage(channelID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sent{channelID, text, false})
}

func (f *fakeSender) SendGameOver(channelID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sent{channelID, text, true})
}

func (f *fakeSender) UpdatePresence(mood string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presences = append(f.presences, mood)
}

func (f *fakeSender) ChannelID() string { return f.channel }

type fixedSource struct{ snap pet.Snapshot }

func (f *fixedSource) Snapshot() pet.Snapshot { return f.snap }

func newScheduler(sender *fakeSender, src SnapshotSource) *Scheduler {
	return New(sender, src, Config{CheckInterval: time.Second, DistressCooldown: time.Minute, SpeciesID: "cat"})
}

func TestOnUpdatePostsTickEvents(t *testing.T) {
	sender := &fakeSender{channel: "c"}
	s := newScheduler(sender, &fixedSource{})

	snap := pet.Snapshot{Name: "Mochi", Alive: true, Mood: "content"}
	s.OnUpdate(session.Update{Snapshot: snap, Source: session.SourceTick})
	s.OnUpdate(session.Update{Snapshot: snap, Source: session.SourceTick,
		Message: pet.Message{Kind: pet.EventToyFound, Name: "Mochi"}})
	s.OnUpdate(session.Update{Snapshot: snap, Source: session.SourceAction,
		Message: pet.Message{Kind: pet.Fed, Name: "Mochi"}})

	if len(sender.messages) != 1 {
		t.Fatalf("expected only the event to be posted, got %+v", sender.messages)
	}
	if !strings.Contains(sender.messages[0].text, "Mochi found a new toy!") {
		t.Fatalf("unexpected event text %q", sender.messages[0].text)
	}
	if len(sender.presences) != 1 || sender.presences[0] != "content" {
		t.Fatalf("expected one presence update, got %v", sender.presences)
	}
}

func TestOnUpdateGameOverFromTick(t *testing.T) {
	sender := &fakeSender{channel: "c"}
	s := newScheduler(sender, &fixedSource{})

	dead := pet.Snapshot{Name: "Mochi", Alive: false, Mood: "dead"}
	s.OnUpdate(session.Update{Snapshot: dead, Source: session.SourceTick,
		Message: pet.Message{Kind: pet.RanAway, Name: "Mochi"}})

	if len(sender.messages) != 1 || !sender.messages[0].gameOver {
		t.Fatalf("expected a game-over post, got %+v", sender.messages)
	}
	if !strings.Contains(sender.messages[0].text, "Mochi became too unhappy and ran away... Game over.") {
		t.Fatalf("unexpected text %q", sender.messages[0].text)
	}
	if sender.presences[0] != "dead" {
		t.Fatalf("expected dead presence, got %v", sender.presences)
	}
}

func TestCheckDistressCooldown(t *testing.T) {
	sender := &fakeSender{channel: "c"}
	src := &fixedSource{snap: pet.Snapshot{Name: "Mochi", Alive: true, Hunger: 85, Happiness: 50, Energy: 50}}
	s := newScheduler(sender, src)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.check()
	s.check()
	if len(sender.messages) != 1 {
		t.Fatalf("expected one distress message within cooldown, got %d", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0].text, "starving") {
		t.Fatalf("unexpected distress text %q", sender.messages[0].text)
	}

	now = now.Add(2 * time.Minute)
	s.check()
	if len(sender.messages) != 2 {
		t.Fatalf("expected a second message after cooldown, got %d", len(sender.messages))
	}

	// restart clears the cooldown
	s.OnUpdate(session.Update{Snapshot: src.snap, Source: session.SourceRestart})
	s.check()
	if len(sender.messages) != 3 {
		t.Fatalf("expected restart to reset the cooldown, got %d", len(sender.messages))
	}
}

func TestCheckSkipsDeadOrCalm(t *testing.T) {
	sender := &fakeSender{channel: "c"}
	src := &fixedSource{snap: pet.Snapshot{Alive: false, Hunger: 100}}
	s := newScheduler(sender, src)
	s.check()

	src.snap = pet.Snapshot{Alive: true, Hunger: 50, Happiness: 50, Energy: 50}
	s.check()
	if len(sender.messages) != 0 {
		t.Fatalf("expected no messages, got %+v", sender.messages)
	}
}

func TestCheckDistressPriority(t *testing.T) {
	tests := []struct {
		snap pet.Snapshot
		want string
	}{
		{pet.Snapshot{Hunger: 90, Energy: 10, Happiness: 10}, "starving"},
		{pet.Snapshot{Hunger: 10, Energy: 10, Happiness: 10}, "eyes open"},
		{pet.Snapshot{Hunger: 10, Energy: 50, Happiness: 10}, "bored"},
		{pet.Snapshot{Hunger: 79, Energy: 21, Happiness: 21}, ""},
	}
	for _, tt := range tests {
		got := checkDistress(tt.snap)
		if (tt.want == "" && got != "") || (tt.want != "" && !strings.Contains(got, tt.want)) {
			t.Errorf("checkDistress(%+v) = %q, want %q", tt.snap, got, tt.want)
		}
	}
}
