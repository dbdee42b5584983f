package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Record is one finished game.
type Record struct {
	Channel    string    `json:"channel"`
	Secret     string    `json:"secret"`
	Outcome    string    `json:"outcome"` // "won" | "lost" | "quit"
	Guesses    int       `json:"guesses"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats summarizes a channel's finished games.
// Best is the fewest guesses in a won game, 0 when nothing was won.
type Stats struct {
	Channel string `json:"channel"`
	Played  int    `json:"played"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Quits   int    `json:"quits"`
	Best    int    `json:"best"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Record(ctx context.Context, r Record) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games(channel, secret, outcome, guesses, finished_at)
		VALUES(?,?,?,?,?)`,
		r.Channel, r.Secret, r.Outcome, r.Guesses, r.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) ChannelStats(ctx context.Context, channel string) (Stats, error) {
	st := Stats{Channel: channel}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
		        COALESCE(SUM(outcome='won'), 0),
		        COALESCE(SUM(outcome='lost'), 0),
		        COALESCE(SUM(outcome='quit'), 0),
		        COALESCE(MIN(CASE WHEN outcome='won' THEN guesses END), 0)
		FROM games WHERE channel=?`, channel,
	).Scan(&st.Played, &st.Wins, &st.Losses, &st.Quits, &st.Best)
	return st, err
}

// Recent lists a channel's latest games, newest first.
func (s *Store) Recent(ctx context.Context, channel string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel, secret, outcome, guesses, finished_at
		FROM games
		WHERE channel=?
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, channel, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var finished string
		if err := rows.Scan(&r.Channel, &r.Secret, &r.Outcome, &r.Guesses, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished)
		if err != nil {
			return nil, fmt.Errorf("history: finished_at %q: %w", finished, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
