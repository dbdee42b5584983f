// internal/bot/bot.go
//
// Chat command layer between transports (HTTP, Telegram) and the game registry.
// Responsibilities:
//   - Parse prefixed commands ("w.start", "w!g crane", "/quit") and bare
//     five-letter uppercase guesses.
//   - Validate guesses against the vocabulary before they reach the engine.
//   - Gate owner-only commands.
//   - Render replies and record finished games (history, metrics).
//
// Transports hand every inbound message to Handle and send back the reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-bot/internal/game"
	"github.com/robalobadob/wordle-bot/internal/history"
	"github.com/robalobadob/wordle-bot/internal/metrics"
	"github.com/robalobadob/wordle-bot/internal/render"
	"github.com/robalobadob/wordle-bot/internal/store"
	"github.com/robalobadob/wordle-bot/internal/words"
)

// Message is an inbound chat message.
type Message struct {
	Transport string // "telegram", "http"; ids from different transports never share a game
	Channel   string // opaque channel identifier within Transport
	Author    string
	Owner     bool // author may run owner-only commands
	Text      string
}

// ChannelKey is the registry and history key for channel id on transport.
func ChannelKey(transport, id string) string {
	if transport == "" {
		return id
	}
	return transport + ":" + id
}

// key scopes id to the message's transport.
func (m Message) key(id string) string { return ChannelKey(m.Transport, id) }

// Vocabulary reports whether a word is an accepted guess.
type Vocabulary interface {
	IsAllowed(w string) bool
}

// Recorder stores finished games.
type Recorder interface {
	Record(ctx context.Context, r history.Record) error
	ChannelStats(ctx context.Context, channel string) (history.Stats, error)
}

// Options wires a Bot. History and Metrics may be nil.
type Options struct {
	Games    *store.Registry[string]
	Vocab    Vocabulary
	Secrets  words.Source
	Theme    render.Theme
	History  Recorder
	Metrics  *metrics.Metrics
	Prefixes []string
}

type Bot struct {
	games    *store.Registry[string]
	vocab    Vocabulary
	secrets  words.Source
	theme    render.Theme
	history  Recorder
	metrics  *metrics.Metrics
	prefixes []string
	commands map[string]*command
	log      zerolog.Logger
}

var bareGuess = regexp.MustCompile(`^[A-Z]{5}$`)

const (
	msgNoGame   = "There are no wordles currently running in this channel."
	msgRunning  = "This channel already has a wordle running."
	msgStarted  = "Wordle started!"
	msgNotOwner = "You do not own this bot."
)

func New(o Options) *Bot {
	prefixes := append([]string(nil), o.Prefixes...)
	// longest first so "w." wins over a hypothetical "w"
	sort.SliceStable(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	b := &Bot{
		games:    o.Games,
		vocab:    o.Vocab,
		secrets:  o.Secrets,
		theme:    o.Theme,
		history:  o.History,
		metrics:  o.Metrics,
		prefixes: prefixes,
		log:      log.With().Str("component", "bot").Logger(),
	}
	b.registerCommands()
	return b
}

// Handle processes one message. ok is false when the message was not meant
// for the bot and nothing should be sent.
func (b *Bot) Handle(ctx context.Context, m Message) (reply string, ok bool) {
	text := strings.TrimSpace(m.Text)

	if rest, isCmd := b.stripPrefix(text); isCmd {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", false
		}
		name := strings.ToLower(fields[0])
		// Telegram addresses commands as /start@SomeBot
		if at := strings.IndexByte(name, '@'); at > 0 {
			name = name[:at]
		}
		cmd, found := b.commands[name]
		if !found {
			return fmt.Sprintf("Command %q is not found", name), true
		}
		if cmd.owner && !m.Owner {
			return msgNotOwner, true
		}
		b.metrics.Command(cmd.name)
		b.log.Debug().
			Str("transport", m.Transport).
			Str("channel", m.Channel).
			Str("author", m.Author).
			Str("command", cmd.name).
			Msg("command")
		return cmd.run(ctx, m, fields[1:]), true
	}

	if channel := m.key(m.Channel); bareGuess.MatchString(text) && b.games.Active(channel) {
		b.metrics.Command("guess")
		return b.guess(ctx, channel, text), true
	}
	return "", false
}

func (b *Bot) stripPrefix(text string) (string, bool) {
	for _, p := range b.prefixes {
		if strings.HasPrefix(text, p) {
			return text[len(p):], true
		}
	}
	return "", false
}

// start opens a game with a secret from the configured source.
func (b *Bot) start(_ context.Context, channel string) string {
	if _, err := b.games.Start(channel, b.secrets.Next()); err != nil {
		if errors.Is(err, game.ErrAlreadyActive) {
			return msgRunning
		}
		b.log.Error().Err(err).Str("channel", channel).Msg("start game")
		return "Could not start a wordle."
	}
	b.metrics.GameStarted()
	return msgStarted
}

// guess validates raw and applies it. The checks run in the order players
// see them: running game, length, vocabulary.
func (b *Bot) guess(ctx context.Context, channel, raw string) string {
	if !b.games.Active(channel) {
		return msgNoGame
	}
	if utf8.RuneCountInString(raw) != game.WordLength {
		b.metrics.Guess("invalid_length")
		return lengthMessage(raw)
	}
	word := strings.ToLower(raw)
	if !b.vocab.IsAllowed(word) {
		b.metrics.Guess("unknown_word")
		return fmt.Sprintf("'%s' is not a valid word.", word)
	}

	res, err := b.games.SubmitGuess(channel, word)
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		return msgNoGame
	case errors.Is(err, game.ErrInvalidLength):
		b.metrics.Guess("invalid_length")
		return lengthMessage(raw)
	case err != nil:
		b.log.Error().Err(err).Str("channel", channel).Msg("submit guess")
		return "Could not take that guess."
	}
	b.metrics.Guess("accepted")

	if res.Outcome.Ended() {
		b.finish(ctx, channel, res.Secret, res.Outcome, len(res.Board))
	}
	return b.theme.Board(res)
}

func (b *Bot) quit(ctx context.Context, channel string) string {
	snap, err := b.games.Quit(channel)
	if err != nil {
		return msgNoGame
	}
	b.finish(ctx, channel, snap.Secret, game.Quit, len(snap.Guesses))
	return render.Quit(snap.Secret)
}

func lengthMessage(word string) string {
	return fmt.Sprintf("'%s' is %d characters long.", word, utf8.RuneCountInString(word))
}

// checkSecret returns the reply for a word that cannot be a secret, or "".
// Secrets skip the vocabulary but must be five ASCII letters.
func checkSecret(word string) string {
	if utf8.RuneCountInString(word) != game.WordLength {
		return lengthMessage(word)
	}
	for i := 0; i < len(word); i++ {
		if c := word[i] | 0x20; c < 'a' || c > 'z' {
			return fmt.Sprintf("'%s' is not a valid word.", word)
		}
	}
	return ""
}

// finish records a game that has left the registry.
func (b *Bot) finish(ctx context.Context, channel, secret string, outcome game.Outcome, guesses int) {
	b.metrics.GameFinished(outcome.String())
	if b.history == nil {
		return
	}
	err := b.history.Record(ctx, history.Record{
		Channel: channel,
		Secret:  secret,
		Outcome: outcome.String(),
		Guesses: guesses,
	})
	if err != nil {
		b.log.Warn().Err(err).Str("channel", channel).Msg("record game")
	}
}

func (b *Bot) stats(ctx context.Context, channel string) string {
	if b.history == nil {
		return "Stats are not enabled."
	}
	st, err := b.history.ChannelStats(ctx, channel)
	if err != nil {
		b.log.Warn().Err(err).Str("channel", channel).Msg("channel stats")
		return "Could not load stats."
	}
	if st.Played == 0 {
		return "No wordles have been played in this channel yet."
	}
	lines := []string{
		fmt.Sprintf("Played: %d", st.Played),
		fmt.Sprintf("Wins: %d", st.Wins),
		fmt.Sprintf("Losses: %d", st.Losses),
		fmt.Sprintf("Quits: %d", st.Quits),
	}
	if st.Best > 0 {
		lines = append(lines, fmt.Sprintf("Best: %d", st.Best))
	}
	return strings.Join(lines, "\n")
}
