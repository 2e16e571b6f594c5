package pet

import "fmt"

// Kind enumerates every message the core can produce.
type Kind int

const (
	None Kind = iota

	Fed
	Played
	Rested

	CannotEat
	CannotPlay
	CannotRest

	Collapsed
	Exhausted
	RanAway

	EventToyFound
	EventSnackFound
	EventSick
	EventZoomies
	EventBored
)

var templates = map[Kind]string{
	Fed:    "You fed %s. Yum! Hunger decreased.",
	Played: "%s played happily! Happiness increased.",
	Rested: "%s took a nap. Energy restored.",

	CannotEat:  "The pet cannot eat anymore. Game over.",
	CannotPlay: "The pet cannot play anymore. Game over.",
	CannotRest: "The pet cannot rest anymore. Game over.",

	Collapsed: "%s got too hungry and collapsed... Game over.",
	Exhausted: "%s ran out of energy and fell asleep forever... Game over.",
	RanAway:   "%s became too unhappy and ran away... Game over.",

	EventToyFound:   "%s found a new toy! Happiness increased.",
	EventSnackFound: "%s found a snack on the floor. Hunger decreased.",
	EventSick:       "Oh no! %s feels a bit sick. Energy and happiness decreased.",
	EventZoomies:    "%s has the zoomies! Very excited but tired and hungry.",
	EventBored:      "%s is getting bored... Happiness decreased.",
}

var kindNames = map[Kind]string{
	None:            "none",
	Fed:             "fed",
	Played:          "played",
	Rested:          "rested",
	CannotEat:       "cannot_eat",
	CannotPlay:      "cannot_play",
	CannotRest:      "cannot_rest",
	Collapsed:       "collapsed",
	Exhausted:       "exhausted",
	RanAway:         "ran_away",
	EventToyFound:   "event_toy",
	EventSnackFound: "event_snack",
	EventSick:       "event_sick",
	EventZoomies:    "event_zoomies",
	EventBored:      "event_bored",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Message is a message kind plus the pet it is about. The zero value means
// "no message".
type Message struct {
	Kind Kind
	Name string
}

// IsZero reports whether there is no message.
func (m Message) IsZero() bool { return m.Kind == None }

// GameOver reports whether the message announces the end of the game.
func (m Message) GameOver() bool {
	switch m.Kind {
	case Collapsed, Exhausted, RanAway:
		return true
	}
	return false
}

// Refused reports whether the message is the fixed reply of a dead pet.
func (m Message) Refused() bool {
	switch m.Kind {
	case CannotEat, CannotPlay, CannotRest:
		return true
	}
	return false
}

// IsEvent reports whether the message came from a random event.
func (m Message) IsEvent() bool {
	return m.Kind >= EventToyFound && m.Kind <= EventBored
}

// Text renders the human-readable message. The zero Message renders as "".
func (m Message) Text() string {
	tmpl, ok := templates[m.Kind]
	if !ok {
		return ""
	}
	switch m.Kind {
	case CannotEat, CannotPlay, CannotRest:
		return tmpl
	}
	return fmt.Sprintf(tmpl, m.Name)
}

func (m Message) String() string { return m.Text() }
