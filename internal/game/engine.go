// internal/game/engine.go
//
// Core game engine for a single channel's Wordle session.
// Responsibilities:
//   - Create sessions with a fixed secret (5 letters, 6 guesses).
//   - Apply guesses: record history, shrink the remaining alphabet, score.
//   - Score guesses with the two-pass, secret-driven algorithm.
//   - Track state transitions: playing → won/lost/quit.
//
// Notes:
//   - Vocabulary checks live with the caller (words package); the engine only
//     enforces word length.
//   - A Session is not safe for concurrent use; the store package serializes
//     access per channel.
package game

import (
	"fmt"
	"strings"
)

// NewSession starts a game for secret.
func NewSession(secret string) (*Session, error) {
	secret, err := normalize(secret)
	if err != nil {
		return nil, err
	}
	return &Session{
		secret:    secret,
		guesses:   make([]string, 0, MaxGuesses),
		remaining: FullAlphabet,
	}, nil
}

// Guess records and scores guess.
//
// State transitions:
//   - If all hints are Full → Won.
//   - Else if the number of guesses reaches MaxGuesses → Lost.
func (s *Session) Guess(guess string) (Result, error) {
	if s.outcome.Ended() {
		return Result{}, ErrGameOver
	}
	guess, err := normalize(guess)
	if err != nil {
		return Result{}, err
	}

	s.guesses = append(s.guesses, guess)
	for i := 0; i < len(guess); i++ {
		s.remaining = s.remaining.Without(guess[i])
	}

	hints := Evaluate(s.secret, guess)
	if allFull(hints) {
		s.outcome = Won
	} else if len(s.guesses) >= MaxGuesses {
		s.outcome = Lost
	}

	res := Result{
		Hints:     hints,
		Remaining: s.remaining,
		Outcome:   s.outcome,
		Board:     s.board(),
	}
	if s.outcome.Ended() {
		res.Secret = s.secret
	}
	return res, nil
}

// End quits the game and reveals the secret.
func (s *Session) End() string {
	if !s.outcome.Ended() {
		s.outcome = Quit
	}
	return s.secret
}

func (s *Session) Secret() string { return s.secret }

// SetSecret swaps the secret without touching guesses or the remaining alphabet.
func (s *Session) SetSecret(secret string) error {
	secret, err := normalize(secret)
	if err != nil {
		return err
	}
	s.secret = secret
	return nil
}

func (s *Session) Outcome() Outcome { return s.outcome }

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Secret:    s.secret,
		Guesses:   append([]string(nil), s.guesses...),
		Remaining: s.remaining,
		Outcome:   s.outcome,
	}
}

// board re-scores every guess against the current secret.
func (s *Session) board() []Row {
	rows := make([]Row, len(s.guesses))
	for i, g := range s.guesses {
		rows[i] = Row{Guess: g, Hints: Evaluate(s.secret, g)}
	}
	return rows
}

// Evaluate scores guess against secret.
//
// Pass 1:
//   - Mark exact matches as Full.
//
// Pass 2:
//   - For every secret position that is not Full, give its letter to the
//     leftmost guess slot holding the same letter that is still Wrong.
//
// A secret letter credits at most one slot and a slot is never credited
// twice, so repeated letters in the guess are not over-counted.
// Both words must have the same length.
func Evaluate(secret, guess string) []HintState {
	n := len(guess)
	if len(secret) < n {
		n = len(secret)
	}
	res := make([]HintState, len(guess))

	for i := 0; i < n; i++ {
		if secret[i] == guess[i] {
			res[i] = Full
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == Full {
			continue
		}
		for j := 0; j < len(guess); j++ {
			if guess[j] == secret[i] && res[j] == Wrong {
				res[j] = Partial
				break
			}
		}
	}
	return res
}

func normalize(w string) (string, error) {
	w = strings.ToLower(strings.TrimSpace(w))
	if len(w) != WordLength {
		return "", fmt.Errorf("%w: %q has %d letters", ErrInvalidLength, w, len(w))
	}
	return w, nil
}

func allFull(h []HintState) bool {
	for _, x := range h {
		if x != Full {
			return false
		}
	}
	return true
}
