package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Bot wraps the Discord session and manages slash commands, messages, and presence.
type Bot struct {
	session   *discordgo.Session
	channelID string
	ownerIDs  map[string]bool

	ownerOnly  bool
	useThreads bool

	router *Router

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBot creates and configures a Discord bot (does not connect yet).
func NewBot(token, channelID string, ownerIDs []string, ownerOnly, useThreads bool) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("invalid bot token: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuilds

	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}

	return &Bot{
		session:    session,
		channelID:  channelID,
		ownerIDs:   owners,
		ownerOnly:  ownerOnly,
		useThreads: useThreads,
	}, nil
}

// SetRouter wires the router to handle messages and interactions.
func (b *Bot) SetRouter(r *Router) {
	b.router = r
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onReady)
}

// Start opens the Discord connection and registers slash commands.
// Blocks until context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		cancel()
		return fmt.Errorf("open discord session: %w", err)
	}

	slog.Info("discord: connected", "user", b.session.State.User.Username)
	b.registerCommands()

	<-ctx.Done()
	slog.Info("discord: shutting down")
	return b.session.Close()
}

// Stop cancels a running Start.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

// ChannelID returns the configured channel ID.
func (b *Bot) ChannelID() string {
	return b.channelID
}

// SendMessage sends a text message to a channel.
func (b *Bot) SendMessage(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		slog.Error("discord: send message failed", "err", err)
	}
}

// SendGameOver posts the game-over notice with a restart button.
func (b *Bot) SendGameOver(channelID, text string) {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    text,
		Components: restartComponents(),
	})
	if err != nil {
		slog.Error("discord: send game over failed", "err", err)
	}
}

// CreateThread creates a thread from a message and returns the thread channel ID.
func (b *Bot) CreateThread(channelID, messageID, name string) (string, error) {
	thread, err := b.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: 60,
	})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// UpdatePresence sets the bot's Discord status based on pet mood.
func (b *Bot) UpdatePresence(mood string) {
	status, activity := moodToPresence(mood)
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{
			{
				Name: activity,
				Type: discordgo.ActivityTypeCustom,
			},
		},
	})
	if err != nil {
		slog.Debug("discord: update presence failed", "err", err)
	}
}

// CanAct reports whether a user may run pet actions.
func (b *Bot) CanAct(userID string) bool {
	return !b.ownerOnly || b.ownerIDs[userID]
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord: ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

// BotUserID returns the bot's own user ID.
func (b *Bot) BotUserID() string {
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}

// IsMentioned checks if the bot was @mentioned in the message.
func (b *Bot) IsMentioned(m *discordgo.MessageCreate) bool {
	for _, u := range m.Mentions {
		if u.ID == b.BotUserID() {
			return true
		}
	}
	return false
}

// StripMention removes the bot's @mention from message text.
func (b *Bot) StripMention(text string) string {
	return stripMention(text, b.BotUserID())
}

func stripMention(text, botID string) string {
	// Discord mentions look like <@123456> or <@!123456>
	text = strings.ReplaceAll(text, "<@"+botID+">", "")
	text = strings.ReplaceAll(text, "<@!"+botID+">", "")
	return strings.TrimSpace(text)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.ChannelID != b.channelID {
		return
	}

	if b.router != nil {
		b.router.HandleMessage(m)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.router == nil {
		return
	}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.router.HandleInteraction(i)
	case discordgo.InteractionMessageComponent:
		b.router.HandleComponent(i)
	}
}

func (b *Bot) registerCommands() {
	appID := b.session.State.User.ID
	for _, cmd := range slashCommands {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			slog.Error("discord: failed to register command", "cmd", cmd.Name, "err", err)
		} else {
			slog.Info("discord: registered command", "cmd", cmd.Name)
		}
	}
}

var slashCommands = []*discordgo.ApplicationCommand{
	{Name: "status", Description: "Check your pet's stats and recent events"},
	{Name: "feed", Description: "Feed your pet"},
	{Name: "play", Description: "Play with your pet"},
	{Name: "rest", Description: "Let your pet take a nap"},
	{Name: "mood", Description: "Check your pet's current mood"},
	{Name: "history", Description: "Show the last few things that happened"},
	{Name: "restart", Description: "Hatch a new pet after game over"},
	{Name: "help", Description: "Show available commands"},
}

func moodToPresence(mood string) (status, activity string) {
	switch mood {
	case "happy":
		return "online", "feeling great!"
	case "content":
		return "online", "just vibing"
	case "bored":
		return "idle", "anyone there?"
	case "hungry":
		return "idle", "getting hungry..."
	case "sleepy":
		return "idle", "zzz"
	case "dead":
		return "invisible", "game over"
	default:
		return "online", "just vibing"
	}
}
