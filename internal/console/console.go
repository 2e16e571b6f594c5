package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/session"
	"github.com/moorebrett0/tinypet/internal/species"
)

const playAgainPrompt = "Play again? [y/n]"

// Game is the slice of the session the console drives.
type Game interface {
	Feed() pet.Message
	Play() pet.Message
	Rest() pet.Message
	Snapshot() pet.Snapshot
	History() []string
	Restart() pet.Snapshot
}

// Console is a line-oriented terminal shell. It implements session.Listener
// so tick messages are printed as they arrive.
type Console struct {
	game    Game
	species *species.Species
	in      io.Reader
	reading chan struct{} // closed when the input reader of the last Run exits

	mu   sync.Mutex // guards out and over
	out  io.Writer
	over bool
}

// New creates a console over the given streams.
func New(game Game, speciesID string, in io.Reader, out io.Writer) *Console {
	return &Console{
		game:    game,
		species: species.Get(speciesID),
		in:      in,
		out:     out,
	}
}

// OnUpdate prints tick messages. Action and restart output is written by the
// command loop itself.
func (c *Console) OnUpdate(u session.Update) {
	if u.Source != session.SourceTick || u.Message.IsZero() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if u.Message.GameOver() {
		c.over = true
		fmt.Fprintf(c.out, "\n%s %s\n%s\n", c.species.Emoji, u.Message.Text(), playAgainPrompt)
		return
	}
	fmt.Fprintf(c.out, "\n* %s\n", u.Message.Text())
}

// Run reads commands until quit, end of input or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	reading := make(chan struct{})
	c.reading = reading
	go func() {
		defer close(reading)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.greet()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("console: read input: %w", err)
			}
			return nil
		case line := <-lines:
			if c.handle(line) {
				c.printf("Bye!\n")
				return nil
			}
		}
	}
}

// handle runs one input line and reports whether the console should exit.
func (c *Console) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if c.gameOver() {
		switch strings.ToLower(line) {
		case "y", "yes":
			c.restart()
			return false
		case "n", "no":
			return true
		}
	}

	m, ok := matchCommand(line)
	if !ok {
		c.printf("I don't know %q. Type 'help' for commands.\n", line)
		return false
	}
	if m.fuzzy {
		c.printf("(taking that as %q)\n", m.name)
	}

	switch m.name {
	case cmdFeed:
		c.action(c.game.Feed())
	case cmdPlay:
		c.action(c.game.Play())
	case cmdRest:
		c.action(c.game.Rest())
	case cmdStatus:
		c.printf("%s", c.status(c.game.Snapshot()))
	case cmdHistory:
		c.printf("%s", formatHistory(c.game.History()))
	case cmdHelp:
		c.printf("%s", helpText())
	case cmdQuit:
		return true
	}

	if c.gameOver() && !isAction(m.name) {
		c.printf("%s\n", playAgainPrompt)
	}
	return false
}

func (c *Console) action(msg pet.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case msg.GameOver():
		c.over = true
		fmt.Fprintf(c.out, "%s %s\n%s\n", c.species.Emoji, msg.Text(), playAgainPrompt)
	case msg.Refused():
		c.over = true
		fmt.Fprintf(c.out, "%s\n%s\n", msg.Text(), playAgainPrompt)
	default:
		fmt.Fprintf(c.out, "%s\n", msg.Text())
	}
}

func (c *Console) restart() {
	snap := c.game.Restart()
	slog.Debug("console: restarted", "name", snap.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.over = false
	fmt.Fprintf(c.out, "\n%s A new egg hatched! Say hi to %s.\n%s", c.species.Emoji, snap.Name, c.status(snap))
}

func (c *Console) greet() {
	snap := c.game.Snapshot()
	c.printf("%s %s %s\n%s(type 'help' for commands)\n", c.species.Emoji, snap.Name, c.species.Verbs.Greet, c.status(snap))
}

func (c *Console) gameOver() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.over
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) status(snap pet.Snapshot) string {
	state := "mood: " + snap.Mood
	if !snap.Alive {
		state = "GAME OVER"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s the %s %s  %s\n", snap.Name, c.species.Name, c.species.Emoji, state)
	fmt.Fprintf(&b, "  hunger    %s\n", textBar(snap.Hunger, 20))
	fmt.Fprintf(&b, "  happiness %s\n", textBar(snap.Happiness, 20))
	fmt.Fprintf(&b, "  energy    %s\n", textBar(snap.Energy, 20))
	return b.String()
}

// textBar renders a value in [0,100] as [#####.....]  50.
func textBar(value, width int) string {
	filled := max(0, min(width, value*width/pet.MaxStat))
	return fmt.Sprintf("[%s%s] %3d", strings.Repeat("#", filled), strings.Repeat(".", width-filled), value)
}

func formatHistory(history []string) string {
	if len(history) == 0 {
		return "Nothing has happened yet.\n"
	}
	var b strings.Builder
	for i, h := range history {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, h)
	}
	return b.String()
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %-20s (%s)\n", c.name, c.help, strings.Join(c.aliases, ", "))
	}
	return b.String()
}

func isAction(name string) bool {
	return name == cmdFeed || name == cmdPlay || name == cmdRest
}
