// internal/game/types.go
//
// Core type definitions for the Wordle game engine.
// Defines:
//   - HintState: per-letter result of a guess (wrong/partial/full).
//   - Outcome:   where a session stands after a guess.
//   - Alphabet:  the set of letters not yet guessed.
//   - Session:   state for a single channel's game.
//   - Result/Snapshot: read-only views handed to callers.

package game

import "errors"

const (
	// WordLength is the number of letters in every secret and guess.
	WordLength = 5
	// MaxGuesses is the number of guesses before a game is lost.
	MaxGuesses = 6
)

var (
	ErrAlreadyActive = errors.New("game already active")
	ErrNoActiveGame  = errors.New("no active game")
	ErrInvalidLength = errors.New("invalid word length")
	ErrGameOver      = errors.New("game over")
)

// HintState is the evaluation of a single letter in a guess.
// Possible values:
//   - Wrong:   letter is not usable at or beyond this slot.
//   - Partial: letter exists in the secret at another position.
//   - Full:    letter is in the correct position.
type HintState uint8

const (
	Wrong HintState = iota
	Partial
	Full
)

func (h HintState) String() string {
	switch h {
	case Partial:
		return "partial"
	case Full:
		return "full"
	default:
		return "wrong"
	}
}

// Outcome reports the coarse state of a session.
type Outcome uint8

const (
	InProgress Outcome = iota
	Won
	Lost
	Quit
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Quit:
		return "quit"
	default:
		return "playing"
	}
}

// Ended reports whether o is a terminal outcome.
func (o Outcome) Ended() bool { return o != InProgress }

// Alphabet is a set of lowercase ASCII letters, one bit per letter.
type Alphabet uint32

// FullAlphabet contains a through z.
const FullAlphabet Alphabet = 1<<26 - 1

func (a Alphabet) Has(c byte) bool {
	if c < 'a' || c > 'z' {
		return false
	}
	return a&(1<<(c-'a')) != 0
}

// Without returns a copy of a with c removed.
func (a Alphabet) Without(c byte) Alphabet {
	if c < 'a' || c > 'z' {
		return a
	}
	return a &^ (1 << (c - 'a'))
}

func (a Alphabet) Len() int {
	n := 0
	for x := a; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// Letters lists the members of a in alphabetical order.
func (a Alphabet) Letters() string {
	out := make([]byte, 0, 26)
	for c := byte('a'); c <= 'z'; c++ {
		if a.Has(c) {
			out = append(out, c)
		}
	}
	return string(out)
}

// Row is one scored guess.
type Row struct {
	Guess string
	Hints []HintState
}

// Result is returned for every accepted guess.
// Board holds every row so far, the last one being the guess just made.
// Secret is only filled in once the game has ended.
type Result struct {
	Hints     []HintState
	Remaining Alphabet
	Outcome   Outcome
	Board     []Row
	Secret    string
}

// GuessesLeft is how many more guesses the session accepts.
func (r Result) GuessesLeft() int {
	if r.Outcome.Ended() {
		return 0
	}
	return MaxGuesses - len(r.Board)
}

// Snapshot is a copy of a session's state.
type Snapshot struct {
	Secret    string
	Guesses   []string
	Remaining Alphabet
	Outcome   Outcome
}

// Session holds the state of one channel's game.
type Session struct {
	secret    string
	guesses   []string
	remaining Alphabet
	outcome   Outcome
}
