package onboarding

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/moorebrett0/tinypet/internal/config"
	"github.com/moorebrett0/tinypet/internal/species"
)

// MaxNameLen is the longest name accepted.
const MaxNameLen = config.MaxNameLen

// Result is what the player picked.
type Result struct {
	Name      string
	SpeciesID string
}

// Prompter runs the first-run questions.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	delay time.Duration // per-character delay for the hatching text
}

// New creates a prompter. delay slows down the hatching text; 0 disables it.
func New(in io.Reader, out io.Writer, delay time.Duration) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, delay: delay}
}

// Run asks for a species and a name.
func (p *Prompter) Run() (Result, error) {
	fmt.Fprintln(p.out)
	p.printSlow("  \U0001F95A crk... crk...")
	fmt.Fprintln(p.out)

	fmt.Fprintln(p.out, "  pick a species:")
	fmt.Fprintln(p.out)

	// Display species grid (2 columns)
	for i := 0; i < len(species.OrderedIDs); i += 2 {
		left := species.Registry[species.OrderedIDs[i]]
		col1 := fmt.Sprintf("  %d) %s %-12s", i+1, left.Emoji, left.Name)

		if i+1 < len(species.OrderedIDs) {
			right := species.Registry[species.OrderedIDs[i+1]]
			fmt.Fprintf(p.out, "%s%d) %s %s\n", col1, i+2, right.Emoji, right.Name)
		} else {
			fmt.Fprintln(p.out, col1)
		}
	}
	fmt.Fprintln(p.out)

	var selectedID string
	for selectedID == "" {
		input, err := p.ask()
		if err != nil {
			return Result{}, err
		}
		selectedID = parseSpecies(input)
		if selectedID == "" {
			fmt.Fprintf(p.out, "  hmm, pick a number 1-%d or type the species name\n", len(species.OrderedIDs))
		}
	}

	sp := species.Registry[selectedID]
	fmt.Fprintf(p.out, "\n  %s ...\n\n", sp.Emoji)
	fmt.Fprintln(p.out, "  what's my name?")
	fmt.Fprintln(p.out)

	var name string
	for {
		input, err := p.ask()
		if err != nil {
			return Result{}, err
		}
		if validName(input) {
			name = input
			break
		}
		fmt.Fprintf(p.out, "  pick a name (1-%d characters)\n", MaxNameLen)
	}

	fmt.Fprintf(p.out, "\n  %s %s\n\n", sp.Emoji, sp.Verbs.Greet)
	p.printSlow(fmt.Sprintf("  hi. i'm %s.", name))
	fmt.Fprintln(p.out)

	return Result{Name: name, SpeciesID: selectedID}, nil
}

func (p *Prompter) ask() (string, error) {
	fmt.Fprint(p.out, "  > ")
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("onboarding: read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseSpecies(input string) string {
	if num, err := strconv.Atoi(input); err == nil && num >= 1 && num <= len(species.OrderedIDs) {
		return species.OrderedIDs[num-1]
	}
	lower := strings.ToLower(input)
	for _, id := range species.OrderedIDs {
		if id == lower || strings.ToLower(species.Registry[id].Name) == lower {
			return id
		}
	}
	return ""
}

func validName(name string) bool {
	n := len([]rune(name))
	return n >= 1 && n <= MaxNameLen
}

func (p *Prompter) printSlow(text string) {
	if p.delay <= 0 {
		fmt.Fprintln(p.out, text)
		return
	}
	for _, ch := range text {
		fmt.Fprint(p.out, string(ch))
		time.Sleep(p.delay)
	}
	fmt.Fprintln(p.out)
}
