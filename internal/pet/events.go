package pet

// EventChance is the probability that a tick triggers a random event.
const EventChance = 0.25

// Event is something that happens to the pet on its own during a tick.
type Event string

const (
	Toy     Event = "toy"
	Snack   Event = "snack"
	Sick    Event = "sick"
	Zoomies Event = "zoomies"
	Bored   Event = "bored"
)

// Events lists every event in roll order; IntN(len(Events)) indexes into it.
var Events = []Event{Toy, Snack, Sick, Zoomies, Bored}

type eventEffect struct {
	delta delta
	kind  Kind
}

var eventEffects = map[Event]eventEffect{
	Toy:     {delta{happiness: 10}, EventToyFound},
	Snack:   {delta{hunger: -10}, EventSnackFound},
	Sick:    {delta{happiness: -5, energy: -10}, EventSick},
	Zoomies: {delta{hunger: 5, happiness: 10, energy: -10}, EventZoomies},
	Bored:   {delta{happiness: -10}, EventBored},
}

// rollEvent fires one uniformly chosen event with probability EventChance.
func (s *PetState) rollEvent() Message {
	if s.rng.Float64() >= EventChance {
		return Message{}
	}
	ev := Events[s.rng.IntN(len(Events))]
	eff := eventEffects[ev]
	s.apply(eff.delta)
	return s.msg(eff.kind)
}
