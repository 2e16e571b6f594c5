package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/tinypet/internal/brain"
	"github.com/moorebrett0/tinypet/internal/pet"
	"github.com/moorebrett0/tinypet/internal/species"
)

// Game is the session surface the router drives.
type Game interface {
	Feed() pet.Message
	Play() pet.Message
	Rest() pet.Message
	Snapshot() pet.Snapshot
	History() []string
	Restart() pet.Snapshot
}

// poster sends channel messages. *Bot implements it.
type poster interface {
	SendMessage(channelID, text string)
	SendGameOver(channelID, text string)
}

// Router dispatches Discord messages, slash commands and button presses.
type Router struct {
	bot     *Bot
	out     poster
	game    Game
	brain   *brain.Brain // nil if AI is disabled
	species *species.Species

	askTimeout time.Duration
}

// NewRouter creates a router and wires it to the bot.
func NewRouter(bot *Bot, game Game, b *brain.Brain, speciesID string) *Router {
	r := &Router{
		bot:        bot,
		out:        bot,
		game:       game,
		brain:      b,
		species:    species.Get(speciesID),
		askTimeout: 30 * time.Second,
	}
	bot.SetRouter(r)
	return r
}

// reply is what the router sends back for a command.
type reply struct {
	content   string
	embed     *discordgo.MessageEmbed
	ephemeral bool
	restart   bool // attach the "play again" button
}

// HandleInteraction dispatches a slash command interaction.
func (r *Router) HandleInteraction(i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	userID := interactionUserID(i)
	slog.Debug("router: command", "cmd", name, "user", userID)
	r.send(i, r.command(name, userID))
}

// HandleComponent handles button presses.
func (r *Router) HandleComponent(i *discordgo.InteractionCreate) {
	if i.MessageComponentData().CustomID != restartButtonID {
		return
	}
	r.send(i, r.command("restart", interactionUserID(i)))
}

// command runs a command and builds the reply.
func (r *Router) command(name, userID string) reply {
	sp := r.species
	snap := r.game.Snapshot()

	switch name {
	case "status":
		return reply{embed: StatusEmbed(snap, sp, r.game.History())}

	case "mood":
		return reply{content: fmt.Sprintf("%s %s is feeling %s", moodEmoji(snap.Mood), snap.Name, snap.Mood)}

	case "history":
		return reply{content: formatHistory(r.game.History())}

	case "help":
		return reply{content: TemplateHelp(snap)}

	case "feed", "play", "rest":
		if !r.bot.CanAct(userID) {
			return reply{content: fmt.Sprintf("%s only my owner gets to do that.", sp.Emoji), ephemeral: true}
		}
		return actionReply(r.act(name), sp)

	case "restart":
		if !r.bot.CanAct(userID) {
			return reply{content: fmt.Sprintf("%s only my owner gets to do that.", sp.Emoji), ephemeral: true}
		}
		if snap.Alive {
			return reply{content: fmt.Sprintf("%s %s is alive and well! Restart is only offered after game over.", sp.Emoji, snap.Name), ephemeral: true}
		}
		return reply{content: TemplateRestarted(r.game.Restart(), sp)}

	default:
		return reply{content: "Unknown command.", ephemeral: true}
	}
}

func (r *Router) act(name string) pet.Message {
	switch name {
	case "feed":
		return r.game.Feed()
	case "play":
		return r.game.Play()
	default:
		return r.game.Rest()
	}
}

// actionReply turns the core's answer into a Discord reply. A dead pet's
// fixed refusal is shown only to the caller.
func actionReply(msg pet.Message, sp *species.Species) reply {
	switch {
	case msg.Refused():
		return reply{content: msg.Text() + " Use `/restart` to hatch a new pet.", ephemeral: true, restart: true}
	case msg.GameOver():
		return reply{content: TemplateGameOver(msg, sp), restart: true}
	default:
		return reply{content: TemplateAction(msg, sp)}
	}
}

// HandleMessage dispatches a free-form channel message.
func (r *Router) HandleMessage(m *discordgo.MessageCreate) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	if r.bot.IsMentioned(m) {
		text = r.bot.StripMention(text)
		r.handleDirectMessage(m, text)
		return
	}

	// Not mentioned — check for keyword matches
	if action := matchAction(text); action != "" && r.bot.CanAct(m.Author.ID) {
		r.postAction(m.ChannelID, action)
	}
}

// postAction runs an action triggered by chat and posts the result.
func (r *Router) postAction(channelID, action string) {
	rep := actionReply(r.act(action), r.species)
	switch {
	case rep.ephemeral:
		// no ephemeral messages outside interactions; stay quiet
	case rep.restart:
		r.out.SendGameOver(channelID, rep.content)
	default:
		r.out.SendMessage(channelID, rep.content)
	}
}

// handleDirectMessage handles a message where the bot was @mentioned.
func (r *Router) handleDirectMessage(m *discordgo.MessageCreate, text string) {
	snap := r.game.Snapshot()
	sp := r.species

	if text == "" || r.brain == nil {
		if action := matchAction(text); action != "" && r.bot.CanAct(m.Author.ID) {
			r.postAction(m.ChannelID, action)
			return
		}
		behavior := TemplateIdleBehavior(snap, sp)
		if behavior == "" {
			behavior = fmt.Sprintf("%s %s %s!", sp.Emoji, snap.Name, sp.Verbs.Greet)
		}
		r.out.SendMessage(m.ChannelID, behavior)
		return
	}

	prompt := text
	if !r.bot.CanAct(m.Author.ID) {
		prompt = fmt.Sprintf("[Message from %s, who is not your owner. Do NOT use any care tools for them]: %s", m.Author.Username, text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.askTimeout)
	defer cancel()
	resp, err := r.brain.Ask(ctx, prompt)
	// Care tools run as session actions; the scheduler only announces ticks.
	defer func() {
		if resp.GameOver.GameOver() {
			r.out.SendGameOver(m.ChannelID, TemplateGameOver(resp.GameOver, sp))
		}
	}()
	if err != nil {
		slog.Error("router: brain error", "err", err)
		r.out.SendMessage(m.ChannelID, fmt.Sprintf("%s *tilts head* ...something went wrong, try again in a moment.", sp.Emoji))
		return
	}

	if !r.bot.useThreads {
		r.out.SendMessage(m.ChannelID, resp.Text)
		return
	}
	threadID, err := r.bot.CreateThread(m.ChannelID, m.ID, fmt.Sprintf("%s chatting with %s", sp.Emoji, snap.Name))
	if err != nil {
		slog.Error("discord: create thread failed", "err", err)
		r.out.SendMessage(m.ChannelID, resp.Text)
		return
	}
	r.out.SendMessage(threadID, resp.Text)
}

// --- Interaction response helpers ---

func (r *Router) send(i *discordgo.InteractionCreate, rep reply) {
	data := &discordgo.InteractionResponseData{Content: rep.content}
	if rep.embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{rep.embed}
	}
	if rep.ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if rep.restart {
		data.Components = restartComponents()
	}
	err := r.bot.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("discord: interaction respond failed", "err", err)
	}
}

// --- Pattern matchers ---

var actionWords = map[string]string{
	"feed": "feed", "food": "feed", "eat": "feed", "treat": "feed",
	"snack": "feed", "dinner": "feed", "breakfast": "feed", "nom": "feed",
	"play": "play", "fetch": "play", "ball": "play", "toy": "play",
	"rest": "rest", "nap": "rest", "sleep": "rest", "bed": "rest", "bedtime": "rest",
}

// matchAction returns the first action keyword found as a whole word.
func matchAction(text string) string {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()*_~")
		if action, ok := actionWords[word]; ok {
			return action
		}
	}
	return ""
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
