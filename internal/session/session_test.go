package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moorebrett0/tinypet/internal/pet"
)

// alwaysEvent fires the event at index pick on every tick.
type alwaysEvent struct{ pick int }

func (r alwaysEvent) Float64() float64 { return 0 }
func (r alwaysEvent) IntN(n int) int   { return r.pick % n }

// neverEvent never fires an event.
type neverEvent struct{}

func (neverEvent) Float64() float64 { return 0.99 }
func (neverEvent) IntN(int) int     { return 0 }

func quietRand(int) pet.Rand { return neverEvent{} }

type recorder struct {
	mu      sync.Mutex
	updates []Update
	ch      chan Update
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Update, 256)}
}

func (r *recorder) OnUpdate(u Update) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
	r.ch <- u
}

func (r *recorder) next(t *testing.T) Update {
	t.Helper()
	select {
	case u := <-r.ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestSessionActionsRecordHistory(t *testing.T) {
	rec := newRecorder()
	s := New(Config{Name: "Rex"}, WithRand(quietRand), WithListener(rec))

	s.Feed()
	s.Play()
	s.Rest()
	s.Feed()

	want := []string{
		"You fed Rex. Yum! Hunger decreased.",
		"Rex took a nap. Energy restored.",
		"Rex played happily! Happiness increased.",
	}
	got := s.History()
	if len(got) != len(want) {
		t.Fatalf("expected %d history entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}

	u := rec.next(t)
	if u.Source != SourceAction || u.Message.Kind != pet.Fed {
		t.Fatalf("expected first update to be the feed action, got %+v", u)
	}
}

func TestSessionTickWithoutEventAddsNoHistory(t *testing.T) {
	s := New(Config{Name: "Rex"}, WithRand(quietRand))
	if msg := s.Tick(); !msg.IsZero() {
		t.Fatalf("expected no message, got %q", msg.Text())
	}
	if len(s.History()) != 0 {
		t.Fatalf("expected empty history, got %v", s.History())
	}
	snap := s.Snapshot()
	if snap.Hunger != 53 || snap.Happiness != 69 || snap.Energy != 78 {
		t.Fatalf("unexpected stats after tick: %+v", snap)
	}
}

func TestSessionRestartReplacesPet(t *testing.T) {
	s := New(Config{Name: "Rex"}, WithRand(quietRand))
	for s.Alive() {
		s.Play()
	}
	if len(s.History()) == 0 {
		t.Fatal("expected history before restart")
	}

	snap := s.Restart()
	if !snap.Alive || !s.Alive() {
		t.Fatal("expected restarted pet to be alive")
	}
	if snap.Hunger != pet.StartHunger || snap.Happiness != pet.StartHappiness || snap.Energy != pet.StartEnergy {
		t.Fatalf("expected default stats, got %+v", snap)
	}
	if snap.Name != "Rex" {
		t.Fatalf("expected name to carry over, got %q", snap.Name)
	}
	if len(s.History()) != 0 {
		t.Fatalf("expected cleared history, got %v", s.History())
	}
	if s.Generation() != 1 {
		t.Fatalf("expected generation 1, got %d", s.Generation())
	}
}

func TestSessionTickerRunsAndStopsOnDeath(t *testing.T) {
	rec := newRecorder()
	// bored on every tick: happiness drops 11 per tick from 70
	s := New(Config{Name: "Rex", TickInterval: time.Millisecond},
		WithRand(func(int) pet.Rand { return alwaysEvent{pick: 4} }),
		WithListener(rec))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	var last Update
	for i := 0; i < 10; i++ {
		last = rec.next(t)
		if last.Source != SourceTick {
			t.Fatalf("expected tick update, got %s", last.Source)
		}
		if !last.Snapshot.Alive {
			break
		}
	}
	if last.Message.Kind != pet.RanAway {
		t.Fatalf("expected ran away, got %s", last.Message.Kind)
	}
	if s.Ticking() {
		t.Fatal("expected ticker to stop after game over")
	}

	// no more updates after death
	select {
	case u := <-rec.ch:
		t.Fatalf("unexpected update after game over: %+v", u)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSessionRestartCancelsStaleTicker(t *testing.T) {
	rec := newRecorder()
	// a snack every tick keeps hunger down; energy lasts ~40 ticks
	s := New(Config{Name: "Rex", TickInterval: 10 * time.Millisecond},
		WithRand(func(int) pet.Rand { return alwaysEvent{pick: 1} }), WithListener(rec))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	rec.next(t)

	s.Restart()
	for {
		u := rec.next(t)
		if u.Source == SourceRestart {
			break
		}
	}

	// every later update belongs to the new generation
	for i := 0; i < 3; i++ {
		u := rec.next(t)
		if u.Generation != 1 {
			t.Fatalf("stale tick from generation %d mutated the session", u.Generation)
		}
	}
	if !s.Ticking() {
		t.Fatal("expected restart to reschedule the ticker")
	}
	s.Stop()
	if s.Ticking() {
		t.Fatal("expected Stop to cancel the ticker")
	}
}

func TestSessionActionDeathCancelsTicker(t *testing.T) {
	s := New(Config{Name: "Rex", TickInterval: time.Hour}, WithRand(quietRand))
	s.Start(context.Background())
	if !s.Ticking() {
		t.Fatal("expected ticker after Start")
	}
	for s.Alive() {
		s.Play()
	}
	if s.Ticking() {
		t.Fatal("expected game over to cancel the ticker")
	}
	if msg := s.Feed(); msg.Kind != pet.CannotEat {
		t.Fatalf("expected refusal, got %s", msg.Kind)
	}
	if msg := s.Tick(); !msg.IsZero() {
		t.Fatalf("expected no tick message after death, got %q", msg.Text())
	}

	s.Restart()
	if !s.Ticking() {
		t.Fatal("expected restart to start a ticker while the session is started")
	}
	s.Stop()
}

func TestSessionSeededReplay(t *testing.T) {
	run := func() []pet.Snapshot {
		s := New(Config{Name: "Rex", Seed: 99})
		var out []pet.Snapshot
		for i := 0; i < 30 && s.Alive(); i++ {
			s.Tick()
			out = append(out, s.Snapshot())
		}
		return out
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("expected equal runs, got %d and %d steps", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("step %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}
