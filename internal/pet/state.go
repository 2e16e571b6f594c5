package pet

import (
	"math/rand/v2"
	"time"
)

// DefaultName is used when a pet is created without a name.
const DefaultName = "Virtual Pet"

// Starting stats for a freshly hatched pet.
const (
	StartHunger    = 50
	StartHappiness = 70
	StartEnergy    = 80
)

// Rand is the random source used for event rolls. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PetState is the whole simulation: three stats and a life flag.
// It is not safe for concurrent use; callers serialize access.
type PetState struct {
	name string

	hunger    int // 0=full, 100=starving
	happiness int // 0=miserable, 100=joyful
	energy    int // 0=exhausted, 100=rested

	alive bool
	rng   Rand
}

// Snapshot is a read-only copy of PetState for rendering.
type Snapshot struct {
	Name      string
	Hunger    int
	Happiness int
	Energy    int
	Alive     bool

	Mood string
}

// Stats returns the three stats keyed by name.
func (s Snapshot) Stats() map[string]int {
	return map[string]int{
		"hunger":    s.Hunger,
		"happiness": s.Happiness,
		"energy":    s.Energy,
	}
}

// New creates a pet with starting stats. An empty name becomes DefaultName;
// a nil rng gets a time-seeded source.
func New(name string, rng Rand) *PetState {
	return FromStats(name, StartHunger, StartHappiness, StartEnergy, rng)
}

// FromStats creates a live pet at the given stats, clamped to 0–100. Names
// default as in New.
func FromStats(name string, hunger, happiness, energy int, rng Rand) *PetState {
	if name == "" {
		name = DefaultName
	}
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}
	s := &PetState{
		name:      name,
		hunger:    hunger,
		happiness: happiness,
		energy:    energy,
		alive:     true,
		rng:       rng,
	}
	s.clampStats()
	return s
}

// Name returns the pet's display name.
func (s *PetState) Name() string { return s.name }

// Alive reports whether the game is still running.
func (s *PetState) Alive() bool { return s.alive }

// Snapshot copies the current stats and computes the mood.
func (s *PetState) Snapshot() Snapshot {
	snap := Snapshot{
		Name:      s.name,
		Hunger:    s.hunger,
		Happiness: s.happiness,
		Energy:    s.energy,
		Alive:     s.alive,
	}
	snap.Mood = DetermineMood(snap)
	return snap
}

// Feed decreases hunger and perks the pet up a little.
func (s *PetState) Feed() Message {
	if !s.alive {
		return s.msg(CannotEat)
	}
	return s.act(delta{hunger: -20, happiness: 5, energy: 5}, Fed)
}

// Play trades energy and hunger for happiness.
func (s *PetState) Play() Message {
	if !s.alive {
		return s.msg(CannotPlay)
	}
	return s.act(delta{hunger: 10, happiness: 15, energy: -15}, Played)
}

// Rest restores energy at the cost of hunger.
func (s *PetState) Rest() Message {
	if !s.alive {
		return s.msg(CannotRest)
	}
	return s.act(delta{hunger: 10, energy: 25}, Rested)
}

// Tick applies one step of natural decay and may inject a random event.
// The game-over check runs last; when it fires its message replaces the event's.
// A dead pet returns the zero Message.
func (s *PetState) Tick() Message {
	if !s.alive {
		return Message{}
	}

	s.apply(decay)
	event := s.rollEvent()

	if over := s.checkGameOver(); !over.IsZero() {
		return over
	}
	return event
}

type delta struct {
	hunger, happiness, energy int
}

// decay is the natural drift applied on every tick.
var decay = delta{hunger: 3, happiness: -1, energy: -2}

func (s *PetState) act(d delta, ok Kind) Message {
	s.apply(d)
	if over := s.checkGameOver(); !over.IsZero() {
		return over
	}
	return s.msg(ok)
}

func (s *PetState) apply(d delta) {
	s.hunger += d.hunger
	s.happiness += d.happiness
	s.energy += d.energy
	s.clampStats()
}

// checkGameOver flips alive when a stat hits its limit.
// Priority: hunger > energy > happiness.
func (s *PetState) checkGameOver() Message {
	var kind Kind
	switch {
	case s.hunger >= MaxStat:
		kind = Collapsed
	case s.energy <= MinStat:
		kind = Exhausted
	case s.happiness <= MinStat:
		kind = RanAway
	default:
		return Message{}
	}
	s.alive = false
	return s.msg(kind)
}

func (s *PetState) clampStats() {
	s.hunger = clamp(s.hunger)
	s.happiness = clamp(s.happiness)
	s.energy = clamp(s.energy)
}

func (s *PetState) msg(k Kind) Message {
	return Message{Kind: k, Name: s.name}
}

// Stat bounds.
const (
	MinStat = 0
	MaxStat = 100
)

func clamp(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
