package console

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Canonical command names.
const (
	cmdFeed    = "feed"
	cmdPlay    = "play"
	cmdRest    = "rest"
	cmdStatus  = "status"
	cmdHistory = "history"
	cmdHelp    = "help"
	cmdQuit    = "quit"
)

type commandDef struct {
	name    string
	aliases []string
	help    string
}

var commands = []commandDef{
	{name: cmdFeed, aliases: []string{"f", "eat", "food"}, help: "feed your pet"},
	{name: cmdPlay, aliases: []string{"p", "toy"}, help: "play together"},
	{name: cmdRest, aliases: []string{"r", "nap", "sleep"}, help: "let it take a nap"},
	{name: cmdStatus, aliases: []string{"s", "stats", "look"}, help: "show stats and mood"},
	{name: cmdHistory, aliases: []string{"log"}, help: "recent messages"},
	{name: cmdHelp, aliases: []string{"?", "commands"}, help: "this list"},
	{name: cmdQuit, aliases: []string{"q", "exit", "bye"}, help: "leave"},
}

type match struct {
	name  string
	score float64
	fuzzy bool
}

// matchCommand resolves the first word of input to a canonical command.
// Exact names and aliases win, then unique prefixes, then the closest
// Levenshtein neighbour within a length-dependent limit.
func matchCommand(input string) (match, bool) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return match{}, false
	}
	word := fields[0]

	var cands []match
	for _, c := range commands {
		for _, alias := range append([]string{c.name}, c.aliases...) {
			switch {
			case word == alias:
				score := 1.0
				if alias != c.name {
					score = 0.97
				}
				cands = append(cands, match{name: c.name, score: score})
			case len(word) >= 2 && strings.HasPrefix(alias, word):
				cands = append(cands, match{name: c.name, score: 0.9})
			case len(word) >= 3:
				dist := levenshtein.ComputeDistance(word, alias)
				if dist > levenshteinLimit(len(alias)) {
					continue
				}
				score := 0.72 - 0.08*float64(dist)
				if alias != c.name {
					score += 0.03
				}
				cands = append(cands, match{name: c.name, score: score, fuzzy: true})
			}
		}
	}
	if len(cands) == 0 {
		return match{}, false
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}
	for _, c := range cands {
		if c.name != best.name && c.score == best.score {
			return match{}, false // ambiguous
		}
	}
	return best, true
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
