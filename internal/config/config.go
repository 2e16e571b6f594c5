package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// MaxNameLen is the longest pet name accepted, in characters.
const MaxNameLen = 32

// Run modes.
const (
	ModeConsole = "console"
	ModeDiscord = "discord"
)

type Config struct {
	Mode      string          `yaml:"mode" env:"TINYPET_MODE"`
	Pet       PetConfig       `yaml:"pet"`
	Discord   DiscordConfig   `yaml:"discord"`
	AI        AIConfig        `yaml:"ai"`
	Claude    ClaudeConfig    `yaml:"claude"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Proactive ProactiveConfig `yaml:"proactive"`
	Log       LogConfig       `yaml:"log"`
}

type PetConfig struct {
	Name         string        `yaml:"name" env:"PET_NAME"`
	Species      string        `yaml:"species" env:"PET_SPECIES"`
	TickInterval time.Duration `yaml:"tick_interval" env:"PET_TICK_INTERVAL"`
	HistorySize  int           `yaml:"history_size"`
	Seed         uint64        `yaml:"seed" env:"PET_SEED"` // 0 = random
}

type AIConfig struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER"` // "claude", "gemini", or "" (auto-detect)
}

type DiscordConfig struct {
	BotToken   string   `yaml:"bot_token" env:"DISCORD_BOT_TOKEN"`
	ChannelID  string   `yaml:"channel_id" env:"DISCORD_CHANNEL_ID"`
	OwnerIDs   []string `yaml:"owner_ids" env:"DISCORD_OWNER_IDS" envSeparator:","`
	OwnerOnly  bool     `yaml:"owner_only"`
	UseThreads bool     `yaml:"use_threads"`
}

type ClaudeConfig struct {
	APIKey    string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	Model     string `yaml:"model"`
	MaxTokens int64  `yaml:"max_tokens"`
	MaxTools  int    `yaml:"max_tool_iterations"`
	// Sliding window rate limiter
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GOOGLE_API_KEY"`
	Model  string `yaml:"model"`
}

type ProactiveConfig struct {
	Enabled          bool          `yaml:"enabled"`
	CheckInterval    time.Duration `yaml:"check_interval"`
	DistressCooldown time.Duration `yaml:"distress_cooldown"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"LOG_FORMAT"` // text or json
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	// Load .env file first (from same directory as binary, or working dir)
	loadDotEnv(".env")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// File doesn't exist — use defaults + env vars
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Env vars override config file (secrets live in .env or environment)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}
	cfg.Discord.OwnerIDs = cleanIDs(cfg.Discord.OwnerIDs)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AIEnabled reports whether any AI provider key is configured.
func (c *Config) AIEnabled() bool {
	return c.Claude.APIKey != "" || c.Gemini.APIKey != ""
}

func cleanIDs(ids []string) []string {
	var cleaned []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			cleaned = append(cleaned, id)
		}
	}
	return cleaned
}

// loadDotEnv reads a .env file and sets env vars that aren't already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // no .env, that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		// Strip surrounding quotes
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		// Only set if not already in environment
		if os.Getenv(key) == "" && val != "" {
			os.Setenv(key, val)
		}
	}
}

func defaults() *Config {
	return &Config{
		Mode: ModeConsole,
		Pet: PetConfig{
			Species:      "cat",
			TickInterval: 3 * time.Second,
			HistorySize:  3,
		},
		Discord: DiscordConfig{
			UseThreads: true,
		},
		Claude: ClaudeConfig{
			Model:      "claude-sonnet-4-5-20250929",
			MaxTokens:  512,
			MaxTools:   3,
			RateLimit:  10,
			RateWindow: time.Minute,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Proactive: ProactiveConfig{
			Enabled:          true,
			CheckInterval:    15 * time.Second,
			DistressCooldown: 2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Pet.TickInterval <= 0 {
		return fmt.Errorf("pet.tick_interval must be positive, got %s", cfg.Pet.TickInterval)
	}
	if cfg.Pet.HistorySize <= 0 {
		return fmt.Errorf("pet.history_size must be positive, got %d", cfg.Pet.HistorySize)
	}
	if utf8.RuneCountInString(cfg.Pet.Name) > MaxNameLen {
		return fmt.Errorf("pet.name must be at most %d characters", MaxNameLen)
	}

	switch cfg.Mode {
	case ModeConsole:
		return nil
	case ModeDiscord:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", cfg.Mode, ModeConsole, ModeDiscord)
	}

	if cfg.Discord.BotToken == "" {
		return fmt.Errorf("missing DISCORD_BOT_TOKEN for discord mode")
	}
	if cfg.Discord.ChannelID == "" {
		return fmt.Errorf("missing DISCORD_CHANNEL_ID for discord mode")
	}
	if cfg.Discord.OwnerOnly && len(cfg.Discord.OwnerIDs) == 0 {
		return fmt.Errorf("discord.owner_only is set but DISCORD_OWNER_IDS is empty")
	}
	return nil
}
