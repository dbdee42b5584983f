// internal/config/config.go
//
// Runtime configuration for the bot.
//
// Sources, later ones winning:
//  1. Default()
//  2. an optional TOML file (CONFIG_FILE)
//  3. environment variables (a .env file is loaded by main via godotenv)
//
// Environment variables:
//
//	PORT, LOG_LEVEL, LOG_PRETTY
//	WORDS_ANSWERS_FILE, WORDS_ALLOWED_FILE, WORDS_JSON_FILE
//	SECRET_MODE (random|daily), DAILY_SALT
//	DATABASE_PATH
//	EMOJI_STYLE (unicode|shortcode), COMMAND_PREFIXES (comma separated)
//	TOKEN or TELEGRAM_TOKEN, OWNER_IDS (comma separated), ALLOW_PRIVATE
//	OWNER_PASSWORD_HASH, JWT_SECRET, JWT_EXPIRES_DAYS
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port      string `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogPretty bool   `toml:"log_pretty"`

	Words    WordsConfig    `toml:"words"`
	Secrets  SecretsConfig  `toml:"secrets"`
	Database DatabaseConfig `toml:"database"`
	Chat     ChatConfig     `toml:"chat"`
	Telegram TelegramConfig `toml:"telegram"`
	Owner    OwnerConfig    `toml:"owner"`
}

type WordsConfig struct {
	AnswersFile string `toml:"answers_file"`
	AllowedFile string `toml:"allowed_file"`
	JSONFile    string `toml:"json_file"`
}

type SecretsConfig struct {
	Mode      string `toml:"mode"` // "random" | "daily"
	DailySalt string `toml:"daily_salt"`
}

// DatabaseConfig points at the game history database; empty disables history.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ChatConfig struct {
	EmojiStyle string   `toml:"emoji_style"` // "unicode" | "shortcode"
	Prefixes   []string `toml:"prefixes"`
}

// TelegramConfig enables the Telegram transport when Token is set.
type TelegramConfig struct {
	Token        string  `toml:"token"`
	OwnerIDs     []int64 `toml:"owner_ids"`
	AllowPrivate bool    `toml:"allow_private"`
}

// OwnerConfig guards owner-only commands on the HTTP surface.
type OwnerConfig struct {
	PasswordHash string `toml:"password_hash"` // bcrypt
	JWTSecret    string `toml:"jwt_secret"`
	TokenDays    int    `toml:"token_days"`
}

func Default() Config {
	return Config{
		Port:     "5175",
		LogLevel: "info",
		Secrets:  SecretsConfig{Mode: "random"},
		Chat: ChatConfig{
			EmojiStyle: "unicode",
			Prefixes:   []string{"w.", "w!", "/"},
		},
		Owner: OwnerConfig{TokenDays: 14},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setStr(&cfg.Port, "PORT")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	setStr(&cfg.Words.AnswersFile, "WORDS_ANSWERS_FILE")
	setStr(&cfg.Words.AllowedFile, "WORDS_ALLOWED_FILE")
	setStr(&cfg.Words.JSONFile, "WORDS_JSON_FILE")
	setStr(&cfg.Secrets.Mode, "SECRET_MODE")
	setStr(&cfg.Secrets.DailySalt, "DAILY_SALT")
	setStr(&cfg.Database.Path, "DATABASE_PATH")
	setStr(&cfg.Chat.EmojiStyle, "EMOJI_STYLE")
	setStr(&cfg.Telegram.Token, "TOKEN")
	setStr(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	setStr(&cfg.Owner.PasswordHash, "OWNER_PASSWORD_HASH")
	setStr(&cfg.Owner.JWTSecret, "JWT_SECRET")

	if v := os.Getenv("COMMAND_PREFIXES"); v != "" {
		cfg.Chat.Prefixes = splitList(v)
	}
	if err := setBool(&cfg.LogPretty, "LOG_PRETTY"); err != nil {
		return err
	}
	if err := setBool(&cfg.Telegram.AllowPrivate, "ALLOW_PRIVATE"); err != nil {
		return err
	}
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_DAYS: %w", err)
		}
		cfg.Owner.TokenDays = n
	}
	if v := os.Getenv("OWNER_IDS"); v != "" {
		ids := make([]int64, 0)
		for _, s := range splitList(v) {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("OWNER_IDS: %w", err)
			}
			ids = append(ids, id)
		}
		cfg.Telegram.OwnerIDs = ids
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config missing port")
	}
	switch c.Secrets.Mode {
	case "random":
	case "daily":
		if c.Secrets.DailySalt == "" {
			return fmt.Errorf("daily secret mode requires a daily_salt")
		}
	default:
		return fmt.Errorf("unknown secret mode %q", c.Secrets.Mode)
	}
	switch c.Chat.EmojiStyle {
	case "unicode", "shortcode":
	default:
		return fmt.Errorf("unknown emoji style %q", c.Chat.EmojiStyle)
	}
	if len(c.Chat.Prefixes) == 0 {
		return fmt.Errorf("at least one command prefix is required")
	}
	if c.Owner.PasswordHash != "" && c.Owner.JWTSecret == "" {
		return fmt.Errorf("owner password requires a jwt_secret")
	}
	if c.Owner.TokenDays <= 0 {
		return fmt.Errorf("token_days must be positive")
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
