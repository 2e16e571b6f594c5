package brain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moorebrett0/tinypet/internal/pet"
)

// Caretaker is the part of a session the model is allowed to touch.
type Caretaker interface {
	Feed() pet.Message
	Play() pet.Message
	Rest() pet.Message
	Snapshot() pet.Snapshot
	History() []string
}

const (
	toolFeed   = "feed_pet"
	toolPlay   = "play_with_pet"
	toolRest   = "rest_pet"
	toolStatus = "check_status"
)

// Tools is the fixed set of tools exposed to every provider.
var Tools = []Tool{
	{Name: toolFeed, Description: "Feed the pet. Hunger -20, happiness +5, energy +5."},
	{Name: toolPlay, Description: "Play with the pet. Happiness +15, energy -15, hunger +10."},
	{Name: toolRest, Description: "Let the pet nap. Energy +25, hunger +10."},
	{Name: toolStatus, Description: "Read the pet's current hunger, happiness and energy (0-100) and whether it is alive."},
}

// reasonSchema is the JSON schema property shared by every tool.
var reasonSchema = map[string]any{
	"type":        "string",
	"description": "Short note on why you chose this action",
}

// executeTool runs one tool call. msg is the core's answer for care tools and
// the zero Message otherwise.
func (b *Brain) executeTool(name string, input json.RawMessage) (out string, msg pet.Message, isError bool) {
	var params struct {
		Reason string `json:"reason"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return fmt.Sprintf("invalid input: %v", err), pet.Message{}, true
		}
	}

	switch name {
	case toolFeed:
		msg = b.care.Feed()
	case toolPlay:
		msg = b.care.Play()
	case toolRest:
		msg = b.care.Rest()
	case toolStatus:
		return formatStatus(b.care.Snapshot()), pet.Message{}, false
	default:
		return fmt.Sprintf("unknown tool: %s", name), pet.Message{}, true
	}

	slog.Info("brain: caretaker action", "tool", name, "reason", params.Reason, "result", msg.Kind)
	out = msg.Text() + "\n" + formatStatus(b.care.Snapshot())
	return out, msg, msg.Refused()
}

func formatStatus(s pet.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "hunger=%d happiness=%d energy=%d mood=%s", s.Hunger, s.Happiness, s.Energy, s.Mood)
	if !s.Alive {
		sb.WriteString(" (game over)")
	}
	return sb.String()
}
