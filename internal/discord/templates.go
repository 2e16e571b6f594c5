package discord

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/species"
)

// restartButtonID is the custom ID of the "play again" button.
const restartButtonID = "tinypet:restart"

// progressBar renders a visual bar like ████████░░ 78%
func progressBar(value, width int) string {
	filled := value * width / pet.MaxStat
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("█", filled), strings.Repeat("░", empty), value)
}

// moodColor returns a Discord embed color for the mood.
func moodColor(mood string) int {
	switch mood {
	case "happy":
		return 0x57F287 // green
	case "content":
		return 0x5865F2 // blurple
	case "bored":
		return 0xFEE75C // yellow
	case "hungry":
		return 0xEB459E // fuchsia
	case "sleepy":
		return 0x99AAB5 // grey
	case "dead":
		return 0x23272A // dark
	default:
		return 0x5865F2
	}
}

// StatusEmbed builds a rich embed for /status.
func StatusEmbed(snap pet.Snapshot, sp *species.Species, history []string) *discordgo.MessageEmbed {
	alive := "alive"
	if !snap.Alive {
		alive = "GAME OVER"
	}

	stats := fmt.Sprintf(
		"hunger    %s\nhappiness %s\nenergy    %s",
		progressBar(snap.Hunger, 10),
		progressBar(snap.Happiness, 10),
		progressBar(snap.Energy, 10),
	)

	fields := []*discordgo.MessageEmbedField{
		{Name: "Stats", Value: "```\n" + stats + "\n```", Inline: false},
	}
	if len(history) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Recent",
			Value: formatHistory(history),
		})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", sp.Emoji, snap.Name),
		Description: fmt.Sprintf("mood: %s %s | status: %s", moodEmoji(snap.Mood), snap.Mood, alive),
		Color:       moodColor(snap.Mood),
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "hunger 100, energy 0 or happiness 0 ends the game",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func formatHistory(history []string) string {
	if len(history) == 0 {
		return "nothing has happened yet"
	}
	return "• " + strings.Join(history, "\n• ")
}

// restartComponents is the action row offered with a game-over notice.
func restartComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Play again",
					Style:    discordgo.SuccessButton,
					CustomID: restartButtonID,
				},
			},
		},
	}
}

// TemplateAction decorates a core message with species flavor.
func TemplateAction(msg pet.Message, sp *species.Species) string {
	var verb string
	switch msg.Kind {
	case pet.Fed:
		verb = sp.Verbs.Eat
	case pet.Played:
		verb = sp.Verbs.Play
	case pet.Rested:
		verb = sp.Verbs.Sleep
	}
	if verb == "" {
		return fmt.Sprintf("%s %s", sp.Emoji, msg.Text())
	}
	return fmt.Sprintf("%s %s\n*%s %s*", sp.Emoji, msg.Text(), msg.Name, verb)
}

// TemplateEvent renders a random event announced by the ticker.
func TemplateEvent(msg pet.Message, sp *species.Species) string {
	return fmt.Sprintf("%s %s", sp.Emoji, msg.Text())
}

// TemplateGameOver renders the end-of-game notice.
func TemplateGameOver(msg pet.Message, sp *species.Species) string {
	return fmt.Sprintf("\U0001F480 %s\n%s %s. Press **Play again** or use `/restart` to hatch a new pet.",
		msg.Text(), sp.Emoji, sp.Verbs.Distress)
}

// TemplateDistress warns that a stat is close to its limit.
func TemplateDistress(snap pet.Snapshot, sp *species.Species, reason string) string {
	return fmt.Sprintf("⚠️ %s %s %s!\n%s", sp.Emoji, snap.Name, sp.Verbs.Distress, reason)
}

func TemplateIdleBehavior(snap pet.Snapshot, sp *species.Species) string {
	if len(sp.IdleBehaviors) == 0 {
		return ""
	}
	behavior := sp.IdleBehaviors[rand.IntN(len(sp.IdleBehaviors))]
	return fmt.Sprintf("%s %s %s.", sp.Emoji, snap.Name, behavior)
}

func TemplateRestarted(snap pet.Snapshot, sp *species.Species) string {
	return fmt.Sprintf("✨ A new egg hatched! %s %s %s.", sp.Emoji, snap.Name, sp.Verbs.Greet)
}

func TemplateHelp(snap pet.Snapshot) string {
	name := snap.Name
	if name == "" {
		name = "your pet"
	}
	return fmt.Sprintf("**tinypet commands**\n\n"+
		"`/status` — See %s's stats and recent events\n"+
		"`/feed` — Hunger -20, happiness +5, energy +5\n"+
		"`/play` — Happiness +15, energy -15, hunger +10\n"+
		"`/rest` — Energy +25, hunger +10\n"+
		"`/mood` — Current mood\n"+
		"`/history` — The last few things that happened\n"+
		"`/restart` — Hatch a new pet after game over\n"+
		"`/help` — This message\n\n"+
		"Stats drift every few seconds. Keep hunger below 100 and happiness and energy above 0!", name)
}

func moodEmoji(mood string) string {
	switch mood {
	case "happy":
		return "\U0001F60A"
	case "content":
		return "\U0001F60C"
	case "bored":
		return "\U0001F612"
	case "hungry":
		return "\U0001F60B"
	case "sleepy":
		return "\U0001F634"
	case "dead":
		return "\U0001F480"
	default:
		return "\U0001F610"
	}
}
