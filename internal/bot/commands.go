package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/robalobadob/wordle-bot/internal/game"
)

// command is one chat command; aliases share the same value.
type command struct {
	name    string
	aliases []string
	owner   bool
	usage   string
	run     func(ctx context.Context, m Message, args []string) string
}

func (b *Bot) registerCommands() {
	b.commands = make(map[string]*command)
	for _, c := range []*command{
		{
			name:    "wordle",
			aliases: []string{"w", "start", "s"},
			usage:   "start a wordle in this channel",
			run: func(ctx context.Context, m Message, _ []string) string {
				return b.start(ctx, m.key(m.Channel))
			},
		},
		{
			name:    "guess",
			aliases: []string{"g"},
			usage:   "guess <word>",
			run: func(ctx context.Context, m Message, args []string) string {
				if len(args) == 0 {
					return "guess is a required argument that is missing."
				}
				return b.guess(ctx, m.key(m.Channel), args[0])
			},
		},
		{
			name:    "quit",
			aliases: []string{"end", "q"},
			usage:   "give up and reveal the word",
			run: func(ctx context.Context, m Message, _ []string) string {
				return b.quit(ctx, m.key(m.Channel))
			},
		},
		{
			name:  "stats",
			usage: "games played in this channel",
			run: func(ctx context.Context, m Message, _ []string) string {
				return b.stats(ctx, m.key(m.Channel))
			},
		},
		{
			name:  "help",
			usage: "list commands",
			run: func(context.Context, Message, []string) string {
				return b.help()
			},
		},
		{
			name:    "debug",
			aliases: []string{"cheat"},
			owner:   true,
			usage:   "debug [channel]",
			run: func(_ context.Context, m Message, args []string) string {
				secret, err := b.games.PeekSecret(m.key(target(m, args, 0)))
				if err != nil {
					return msgNoGame
				}
				return secret
			},
		},
		{
			name:  "set_wordle",
			owner: true,
			usage: "set_wordle <word> [channel]",
			run:   b.setWordle,
		},
		{
			name:  "set_word",
			owner: true,
			usage: "set_word <word> [channel]",
			run:   b.setWord,
		},
	} {
		b.commands[c.name] = c
		for _, a := range c.aliases {
			b.commands[a] = c
		}
	}
}

// target is the channel id named at args[i], or the message's own channel.
// Ids are resolved within the message's transport.
func target(m Message, args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return m.Channel
}

func describe(m Message, id string) string {
	if id == m.Channel {
		return "this channel"
	}
	return id
}

// setWordle starts a game with a chosen word, replacing any running one.
func (b *Bot) setWordle(_ context.Context, m Message, args []string) string {
	if len(args) == 0 {
		return "word is a required argument that is missing."
	}
	word := args[0]
	if msg := checkSecret(word); msg != "" {
		return msg
	}
	id := target(m, args, 1)
	replaced, err := b.games.Reset(m.key(id), word)
	if err != nil {
		b.log.Error().Err(err).Str("channel", m.key(id)).Msg("set wordle")
		return "Could not set the word."
	}
	if replaced {
		b.metrics.GameFinished("replaced")
	}
	b.metrics.GameStarted()
	return fmt.Sprintf("Set %s's word to %s", describe(m, id), word)
}

// setWord swaps the word of a running game.
func (b *Bot) setWord(_ context.Context, m Message, args []string) string {
	if len(args) == 0 {
		return "word is a required argument that is missing."
	}
	word := args[0]
	id := target(m, args, 1)
	channel := m.key(id)
	if !b.games.Active(channel) {
		return msgNoGame
	}
	if msg := checkSecret(word); msg != "" {
		return msg
	}
	if err := b.games.OverrideSecret(channel, word); err != nil {
		if errors.Is(err, game.ErrNoActiveGame) {
			return msgNoGame
		}
		b.log.Error().Err(err).Str("channel", channel).Msg("set word")
		return "Could not set the word."
	}
	return fmt.Sprintf("Set %s's word to %s", describe(m, id), word)
}

func (b *Bot) help() string {
	prefix := "/"
	if len(b.prefixes) > 0 {
		prefix = b.prefixes[len(b.prefixes)-1]
	}
	seen := map[*command]bool{}
	var lines []string
	for _, c := range b.commands {
		if seen[c] || c.owner {
			continue
		}
		seen[c] = true
		names := append([]string{c.name}, c.aliases...)
		lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, strings.Join(names, "|"), c.usage))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
