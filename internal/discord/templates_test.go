package discord

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/species"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "░░░░░░░░░░ 0%"},
		{55, "█████░░░░░ 55%"},
		{100, "██████████ 100%"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.value, 10); got != tt.want {
			t.Errorf("progressBar(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestStatusEmbedDead(t *testing.T) {
	snap := pet.Snapshot{Name: "Mochi", Hunger: 100, Alive: false, Mood: "dead"}
	embed := StatusEmbed(snap, species.Get("cat"), nil)
	if !strings.Contains(embed.Description, "GAME OVER") {
		t.Fatalf("expected game over status, got %q", embed.Description)
	}
	if embed.Color != moodColor("dead") {
		t.Fatalf("expected dead color, got %x", embed.Color)
	}
	if len(embed.Fields) != 1 {
		t.Fatalf("expected no history field, got %d fields", len(embed.Fields))
	}
}

func TestRestartComponents(t *testing.T) {
	comps := restartComponents()
	row, ok := comps[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected actions row, got %T", comps[0])
	}
	btn, ok := row.Components[0].(discordgo.Button)
	if !ok || btn.CustomID != restartButtonID {
		t.Fatalf("expected restart button, got %#v", row.Components[0])
	}
}

func TestTemplates(t *testing.T) {
	sp := species.Get("hamster")
	over := TemplateGameOver(pet.Message{Kind: pet.Collapsed, Name: "Mochi"}, sp)
	if !strings.Contains(over, "Mochi got too hungry and collapsed... Game over.") {
		t.Fatalf("unexpected game over text %q", over)
	}

	ev := TemplateEvent(pet.Message{Kind: pet.EventSnackFound, Name: "Mochi"}, sp)
	if !strings.HasSuffix(ev, "Mochi found a snack on the floor. Hunger decreased.") {
		t.Fatalf("unexpected event text %q", ev)
	}

	idle := TemplateIdleBehavior(pet.Snapshot{Name: "Mochi"}, sp)
	if !strings.HasPrefix(idle, sp.Emoji+" Mochi ") {
		t.Fatalf("unexpected idle text %q", idle)
	}
}
