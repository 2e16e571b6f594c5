package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moorebrett0/tinypet/internal/pet"
)

// Source says what produced an Update.
type Source string

const (
	SourceAction  Source = "action"
	SourceTick    Source = "tick"
	SourceRestart Source = "restart"
)

// Update is delivered to listeners after every state change.
type Update struct {
	Snapshot   pet.Snapshot
	Message    pet.Message
	Source     Source
	Generation int
}

// Listener receives updates. It is called outside the session lock and may be
// called from the tick goroutine and action callers concurrently. A listener
// must not call Restart or Stop synchronously.
type Listener interface {
	OnUpdate(Update)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Update)

func (f ListenerFunc) OnUpdate(u Update) { f(u) }

// Config for a session.
type Config struct {
	Name         string
	TickInterval time.Duration
	HistorySize  int
	Seed         uint64 // 0 = time-seeded
}

// Option customizes a Session.
type Option func(*Session)

// WithRand overrides how each pet generation gets its random source.
func WithRand(fn func(generation int) pet.Rand) Option {
	return func(s *Session) { s.newRand = fn }
}

// WithListener registers a listener.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// Session owns one pet at a time, serializes calls into it, keeps the recent
// message history, and runs the decay ticker. Restart replaces the pet.
type Session struct {
	mu sync.Mutex

	cfg       Config
	newRand   func(generation int) pet.Rand
	listeners []Listener

	pet        *pet.PetState
	history    *History
	generation int

	baseCtx context.Context // set while started
	task    *tickTask
}

// tickTask is the cancellable decay loop bound to one pet generation.
type tickTask struct {
	generation int
	cancel     context.CancelFunc
	done       chan struct{}
}

// New creates a session with a fresh pet. The ticker does not run until Start.
func New(cfg Config, opts ...Option) *Session {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 3 * time.Second
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 3
	}
	s := &Session{
		cfg:     cfg,
		history: NewHistory(cfg.HistorySize),
	}
	s.newRand = s.defaultRand
	for _, opt := range opts {
		opt(s)
	}
	s.pet = pet.New(cfg.Name, s.newRand(0))
	return s
}

func (s *Session) defaultRand(generation int) pet.Rand {
	if s.cfg.Seed == 0 {
		return nil
	}
	return pet.NewRand(s.cfg.Seed + uint64(generation))
}

// AddListener registers a listener after construction.
func (s *Session) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Name returns the pet's name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pet.Name()
}

// Snapshot returns the current pet's stats.
func (s *Session) Snapshot() pet.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pet.Snapshot()
}

// Alive reports whether the current pet is alive.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pet.Alive()
}

// History returns the most recent messages, newest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Items()
}

// Generation counts restarts; the first pet is generation 0.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Feed feeds the pet.
func (s *Session) Feed() pet.Message { return s.act((*pet.PetState).Feed) }

// Play plays with the pet.
func (s *Session) Play() pet.Message { return s.act((*pet.PetState).Play) }

// Rest puts the pet down for a nap.
func (s *Session) Rest() pet.Message { return s.act((*pet.PetState).Rest) }

func (s *Session) act(fn func(*pet.PetState) pet.Message) pet.Message {
	s.mu.Lock()
	msg := fn(s.pet)
	u := s.recordLocked(msg, SourceAction)
	if msg.GameOver() {
		s.stopTaskLocked()
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, u)
	return msg
}

// Tick applies one decay step to the current pet immediately.
func (s *Session) Tick() pet.Message {
	u, ok := s.tick(-1)
	if !ok {
		return pet.Message{}
	}
	return u.Message
}

// tick advances the pet if it still belongs to generation (-1 = any).
func (s *Session) tick(generation int) (Update, bool) {
	s.mu.Lock()
	if generation >= 0 && generation != s.generation {
		s.mu.Unlock()
		return Update{}, false
	}
	if !s.pet.Alive() {
		s.mu.Unlock()
		return Update{}, false
	}
	msg := s.pet.Tick()
	u := s.recordLocked(msg, SourceTick)
	if msg.GameOver() {
		s.stopTaskLocked()
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, u)
	return u, true
}

func (s *Session) recordLocked(msg pet.Message, src Source) Update {
	if !msg.IsZero() {
		s.history.Add(msg.Text())
	}
	return Update{
		Snapshot:   s.pet.Snapshot(),
		Message:    msg,
		Source:     src,
		Generation: s.generation,
	}
}

// Restart discards the current pet and hatches a fresh one with the same name.
// A running ticker is cancelled and restarted for the new pet.
func (s *Session) Restart() pet.Snapshot {
	s.mu.Lock()
	old := s.stopTaskLocked()

	s.generation++
	s.pet = pet.New(s.pet.Name(), s.newRand(s.generation))
	s.history.Reset()
	if s.baseCtx != nil && s.baseCtx.Err() == nil {
		s.startTaskLocked()
	}
	u := Update{
		Snapshot:   s.pet.Snapshot(),
		Source:     SourceRestart,
		Generation: s.generation,
	}
	listeners := s.listeners
	s.mu.Unlock()

	if old != nil {
		<-old.done
	}
	slog.Info("session: restarted", "name", u.Snapshot.Name, "generation", u.Generation)
	notify(listeners, u)
	return u.Snapshot
}

// Start runs the decay ticker until ctx is cancelled, Stop is called, or the
// pet dies. Calling Start on a started session is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseCtx != nil && s.baseCtx.Err() == nil {
		return
	}
	s.baseCtx = ctx
	if s.pet.Alive() {
		s.startTaskLocked()
	}
}

// Stop cancels the ticker and waits for it to exit.
func (s *Session) Stop() {
	s.mu.Lock()
	old := s.stopTaskLocked()
	s.baseCtx = nil
	s.mu.Unlock()

	if old != nil {
		<-old.done
	}
}

// Ticking reports whether a decay task is currently scheduled.
func (s *Session) Ticking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil
}

func (s *Session) startTaskLocked() {
	ctx, cancel := context.WithCancel(s.baseCtx)
	t := &tickTask{
		generation: s.generation,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	s.task = t
	go s.run(ctx, t)
}

// stopTaskLocked cancels the current task and returns it so the caller can
// wait on done after releasing the lock.
func (s *Session) stopTaskLocked() *tickTask {
	t := s.task
	if t == nil {
		return nil
	}
	s.task = nil
	t.cancel()
	return t
}

func (s *Session) run(ctx context.Context, t *tickTask) {
	defer close(t.done)
	defer t.cancel()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	slog.Debug("session: ticker started", "generation", t.generation, "interval", s.cfg.TickInterval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("session: ticker stopped", "generation", t.generation)
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			u, ok := s.tick(t.generation)
			if !ok || !u.Snapshot.Alive {
				return
			}
		}
	}
}

func notify(listeners []Listener, u Update) {
	for _, l := range listeners {
		l.OnUpdate(u)
	}
}
