// internal/words/source.go
//
// Secret sources: the policy that picks the word a new game is played with.
//   - Random: a fresh crypto-random answer per game.
//   - Daily:  one answer per UTC day, chosen by HMAC(salt, YYYY-MM-DD).

package words

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Source picks secrets for new games.
type Source interface {
	Next() string
}

// Random picks a random answer from List every time.
type Random struct{ List *List }

func (r Random) Next() string { return r.List.RandomAnswer() }

// Daily picks the same answer for every game started on a given UTC day.
type Daily struct {
	List *List
	Salt string
	Now  func() time.Time // defaults to time.Now
}

func (d Daily) Next() string {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	ans := d.List.Answers()
	return ans[dayIndex(now(), d.Salt, len(ans))]
}

// NewSource returns the Source for mode ("random" or "daily").
func NewSource(mode string, list *List, salt string) Source {
	if mode == "daily" {
		return Daily{List: list, Salt: salt}
	}
	return Random{List: list}
}

// dateKey returns YYYY-MM-DD in UTC.
func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// dayIndex maps a date to [0, n) using HMAC(salt, YYYY-MM-DD).
func dayIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}
