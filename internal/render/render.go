// Package render turns game results into chat messages.
//
// The game package only knows hint states; emoji and wording live here.
package render

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle-bot/internal/game"
)

// Theme maps letters and hint states to emoji.
type Theme struct {
	Name    string
	Full    string
	Partial string
	Wrong   string
	Letter  func(c byte) string
}

// Shortcode renders Discord-style :shortcodes:.
var Shortcode = Theme{
	Name:    "shortcode",
	Full:    ":green_square:",
	Partial: ":yellow_square:",
	Wrong:   ":black_large_square:",
	Letter:  func(c byte) string { return ":regional_indicator_" + string(c) + ":" },
}

// Unicode renders plain emoji, for platforms without shortcode support.
var Unicode = Theme{
	Name:    "unicode",
	Full:    "🟩",
	Partial: "🟨",
	Wrong:   "⬛",
	Letter: func(c byte) string {
		if c < 'a' || c > 'z' {
			return string(c)
		}
		// regional indicator symbols, joined with a zero-width space so
		// clients don't pair them into flags
		return string(rune(0x1F1E6+int(c-'a'))) + "\u200b"
	},
}

// ThemeByName returns the theme called name, defaulting to Unicode.
func ThemeByName(name string) Theme {
	if name == Shortcode.Name {
		return Shortcode
	}
	return Unicode
}

func (t Theme) Hint(h game.HintState) string {
	switch h {
	case game.Full:
		return t.Full
	case game.Partial:
		return t.Partial
	default:
		return t.Wrong
	}
}

// Word renders each letter of w as an emoji.
func (t Theme) Word(w string) string {
	parts := make([]string, len(w))
	for i := 0; i < len(w); i++ {
		parts[i] = t.Letter(w[i])
	}
	return strings.Join(parts, " ")
}

// Hints renders a row of hint squares.
func (t Theme) Hints(hints []game.HintState) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = t.Hint(h)
	}
	return strings.Join(parts, " ")
}

// Board renders the reply to a guess: every row so far followed by either
// the result of the game or the guesses and letters left.
func (t Theme) Board(res game.Result) string {
	var lines []string
	for _, row := range res.Board {
		lines = append(lines, t.Word(row.Guess), t.Hints(row.Hints))
	}

	switch res.Outcome {
	case game.Won:
		lines = append(lines, fmt.Sprintf("You won in %d!", len(res.Board)))
	case game.Lost:
		lines = append(lines, "You lost!", fmt.Sprintf("The word was '%s'", res.Secret))
	default:
		lines = append(lines,
			fmt.Sprintf("Guesses Left: %d", res.GuessesLeft()),
			"Remaining Letters: "+t.remaining(res.Remaining),
		)
	}
	return strings.Join(lines, "\n")
}

func (t Theme) remaining(a game.Alphabet) string {
	var b strings.Builder
	for _, c := range []byte(a.Letters()) {
		b.WriteString(t.Letter(c))
	}
	return b.String()
}

// Quit renders the reply to a player giving up.
func Quit(secret string) string {
	return fmt.Sprintf("You lost!\nThe word was '%s'", secret)
}
