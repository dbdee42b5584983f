// internal/store/memory.go
//
// In-memory registry of live games, one per channel.
// This is the only home for sessions; nothing survives a process restart.
//
// Characteristics:
//   - Holds *game.Session values keyed by an opaque, comparable channel key.
//   - The channel map is guarded by an RWMutex; each session has its own
//     mutex, so calls on one channel are serialized while other channels
//     proceed in parallel.
//   - Sessions are dropped as soon as they end (won, lost, quit).
//   - Errors are the game package sentinels (ErrAlreadyActive, ErrNoActiveGame,
//     ErrInvalidLength).

package store

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-bot/internal/game"
)

// entry pairs a session with the lock that serializes it.
// closed is set once the session has left the map.
type entry struct {
	mu      sync.Mutex
	session *game.Session
	closed  bool
}

// Registry maps channels to their live game.
type Registry[K comparable] struct {
	mu       sync.RWMutex // guards sessions
	sessions map[K]*entry
	log      zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{
		sessions: make(map[K]*entry),
		log:      log.With().Str("component", "registry").Logger(),
	}
}

// Start opens a game on channel. Fails with game.ErrAlreadyActive when one is running.
func (r *Registry[K]) Start(channel K, secret string) (game.Snapshot, error) {
	s, err := game.NewSession(secret)
	if err != nil {
		return game.Snapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[channel]; ok {
		return game.Snapshot{}, game.ErrAlreadyActive
	}
	r.sessions[channel] = &entry{session: s}
	r.log.Debug().Str("channel", fmt.Sprint(channel)).Msg("game started")
	return s.Snapshot(), nil
}

// Reset starts a fresh game on channel, replacing any game already running.
// It reports whether a game was replaced.
func (r *Registry[K]) Reset(channel K, secret string) (bool, error) {
	s, err := game.NewSession(secret)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	old := r.sessions[channel]
	r.sessions[channel] = &entry{session: s}
	r.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.closed = true
		old.mu.Unlock()
	}
	r.log.Debug().Str("channel", fmt.Sprint(channel)).Bool("replaced", old != nil).Msg("game reset")
	return old != nil, nil
}

// SubmitGuess applies guess to channel's game. The game is removed once it is won or lost.
func (r *Registry[K]) SubmitGuess(channel K, guess string) (game.Result, error) {
	var res game.Result
	err := r.with(channel, func(s *game.Session) (bool, error) {
		var err error
		res, err = s.Guess(guess)
		if err != nil {
			return false, err
		}
		return res.Outcome.Ended(), nil
	})
	if err == nil && res.Outcome.Ended() {
		r.log.Debug().
			Str("channel", fmt.Sprint(channel)).
			Stringer("outcome", res.Outcome).
			Int("guesses", len(res.Board)).
			Msg("game ended")
	}
	return res, err
}

// Quit ends channel's game and returns its final state, secret included.
func (r *Registry[K]) Quit(channel K) (game.Snapshot, error) {
	var snap game.Snapshot
	err := r.with(channel, func(s *game.Session) (bool, error) {
		s.End()
		snap = s.Snapshot()
		return true, nil
	})
	if err == nil {
		r.log.Debug().Str("channel", fmt.Sprint(channel)).Int("guesses", len(snap.Guesses)).Msg("game quit")
	}
	return snap, err
}

// PeekSecret returns channel's secret without changing anything.
func (r *Registry[K]) PeekSecret(channel K) (string, error) {
	var secret string
	err := r.with(channel, func(s *game.Session) (bool, error) {
		secret = s.Secret()
		return false, nil
	})
	return secret, err
}

// OverrideSecret swaps channel's secret, keeping guesses and remaining letters.
func (r *Registry[K]) OverrideSecret(channel K, secret string) error {
	return r.with(channel, func(s *game.Session) (bool, error) {
		return false, s.SetSecret(secret)
	})
}

// Snapshot copies channel's game state.
func (r *Registry[K]) Snapshot(channel K) (game.Snapshot, error) {
	var snap game.Snapshot
	err := r.with(channel, func(s *game.Session) (bool, error) {
		snap = s.Snapshot()
		return false, nil
	})
	return snap, err
}

// Active reports whether channel has a live game.
func (r *Registry[K]) Active(channel K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[channel]
	return ok
}

// Len is the number of live games.
func (r *Registry[K]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// with runs fn under channel's lock. When fn reports done, the session is
// closed and removed from the map.
func (r *Registry[K]) with(channel K, fn func(*game.Session) (bool, error)) error {
	r.mu.RLock()
	e, ok := r.sessions[channel]
	r.mu.RUnlock()
	if !ok {
		return game.ErrNoActiveGame
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return game.ErrNoActiveGame
	}

	done, err := fn(e.session)
	if err != nil || !done {
		return err
	}

	e.closed = true
	r.mu.Lock()
	if r.sessions[channel] == e {
		delete(r.sessions, channel)
	}
	r.mu.Unlock()
	return nil
}
