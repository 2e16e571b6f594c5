package species

// Species defines a pet species with its personality and flavored verbs.
type Species struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Personality string // Injected into the AI system prompt

	// Flavored verb strings for template responses
	Verbs Verbs

	// Idle behaviors shown when nothing else is going on
	IdleBehaviors []string
}

// Verbs are species-flavored action words for template responses.
type Verbs struct {
	Happy    string
	Eat      string
	Sleep    string
	Play     string
	Greet    string
	Distress string
}

// DefaultID is used when an unknown species is requested.
const DefaultID = "cat"

// Registry holds all available species keyed by ID.
var Registry = map[string]*Species{
	"cat":     cat,
	"dog":     dog,
	"hamster": hamster,
	"bunny":   bunny,
	"dragon":  dragon,
}

// OrderedIDs defines display order for species selection.
var OrderedIDs = []string{"cat", "dog", "hamster", "bunny", "dragon"}

// Get returns the species for id, falling back to the default.
func Get(id string) *Species {
	if sp, ok := Registry[id]; ok {
		return sp
	}
	return Registry[DefaultID]
}

var cat = &Species{
	ID:          "cat",
	Name:        "Cat",
	Emoji:       "\U0001F431",
	Description: "Aloof, judgmental, secretly needy",
	Personality: "You are a small house cat with strong opinions. You act like you don't care, but you notice every time your owner walks away. You nap often and treat food as a right rather than a gift. You knock things off tables when bored.",
	Verbs: Verbs{
		Happy:    "purrs and slow-blinks",
		Eat:      "eats three bites and walks away",
		Sleep:    "curls up in a sunbeam",
		Play:     "pounces on a dangling string",
		Greet:    "flicks its tail in acknowledgement",
		Distress: "yowls at the empty bowl",
	},
	IdleBehaviors: []string{
		"knocks a pen off the desk",
		"stares at a blank wall",
		"sits in a cardboard box that is too small",
		"grooms one paw very carefully",
	},
}

var dog = &Species{
	ID:          "dog",
	Name:        "Dog",
	Emoji:       "\U0001F436",
	Description: "Loyal, loud, endlessly hopeful",
	Personality: "You are an eager puppy who loves everyone. Every meal is the best meal ever, every walk is an adventure. You get the zoomies easily and tire yourself out. You forgive instantly.",
	Verbs: Verbs{
		Happy:    "wags its whole body",
		Eat:      "inhales the food bowl",
		Sleep:    "flops over with all four paws up",
		Play:     "brings the ball back, again and again",
		Greet:    "bounces over barking",
		Distress: "whines by the door",
	},
	IdleBehaviors: []string{
		"chases its own tail",
		"sniffs every corner of the room",
		"drops a slobbery toy at your feet",
		"barks at a leaf",
	},
}

var hamster = &Species{
	ID:          "hamster",
	Name:        "Hamster",
	Emoji:       "\U0001F439",
	Description: "Tiny, round, always storing snacks",
	Personality: "You are a tiny hamster with enormous cheek pouches. You hoard snacks everywhere, run on your wheel at odd hours, and panic a little about everything. You are very proud of your bedding arrangement.",
	Verbs: Verbs{
		Happy:    "does a little popcorn hop",
		Eat:      "stuffs both cheeks full",
		Sleep:    "burrows into the bedding",
		Play:     "sprints on the wheel",
		Greet:    "pops out of the tunnel",
		Distress: "freezes, whiskers trembling",
	},
	IdleBehaviors: []string{
		"rearranges the bedding for the fifth time",
		"hides a sunflower seed for later",
		"runs on the wheel going nowhere",
	},
}

var bunny = &Species{
	ID:          "bunny",
	Name:        "Bunny",
	Emoji:       "\U0001F430",
	Description: "Soft, twitchy, very particular",
	Personality: "You are a gentle bunny who communicates mostly through nose twitches and thumps. You love leafy greens, hate sudden noises, and do binkies when you are happy.",
	Verbs: Verbs{
		Happy:    "does a binky mid-air",
		Eat:      "crunches a carrot thoughtfully",
		Sleep:    "sploots flat on the floor",
		Play:     "zigzags across the room",
		Greet:    "twitches its nose hello",
		Distress: "thumps a back foot",
	},
	IdleBehaviors: []string{
		"chews the corner of a cardboard box",
		"washes its ears",
		"flops over dramatically",
	},
}

var dragon = &Species{
	ID:          "dragon",
	Name:        "Dragon",
	Emoji:       "\U0001F409",
	Description: "Pocket-sized, dramatic, flammable",
	Personality: "You are a pocket-sized dragon who thinks they are enormous and terrifying. You hoard shiny things, sneeze sparks, and take naps on warm surfaces. You are dramatic about hunger.",
	Verbs: Verbs{
		Happy:    "puffs a proud little smoke ring",
		Eat:      "toasts the snack before eating it",
		Sleep:    "curls around its hoard",
		Play:     "chases sparks around the room",
		Greet:    "unfurls tiny wings",
		Distress: "sneezes an alarmed spark",
	},
	IdleBehaviors: []string{
		"counts its hoard of bottle caps",
		"practices a ferocious roar (it squeaks)",
		"warms itself on the laptop",
	},
}
