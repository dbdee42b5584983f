// internal/words/words.go
//
// Word list management for the bot.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to
//     the embedded defaults in package assets.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Supply RandomAnswer, IsAllowed, IsAnswer and Stats.
//
// Word Lists:
//   - "answers": candidate secrets (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//  1. If Files.JSON is set, read {"actual": [...], "valid": [...]} from it;
//     "actual" are the answers, "valid" extra guesses.
//  2. Else if Answers and Allowed are both set, load one list from each.
//  3. Else if only Allowed is set, use it for both.
//  4. Else fall back to the embedded lists.
//
// Constraints:
//   - Words must be 5 alphabetic letters (a–z); anything else is skipped.
//   - Lists are normalized to lowercase.
package words

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordle-bot/assets"
	"github.com/robalobadob/wordle-bot/internal/game"
)

// Files names the on-disk word lists; empty fields are unset.
type Files struct {
	Answers string
	Allowed string
	JSON    string
}

// List is a loaded pair of answer/allowed word lists.
type List struct {
	answers    []string            // candidate secrets
	answersSet map[string]struct{} // answers only
	allowedSet map[string]struct{} // answers ∪ guesses
}

// New builds a List. Answers are always allowed as guesses.
func New(answers, allowed []string) (*List, error) {
	ans := normalize(answers)
	if len(ans) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	l := &List{
		answers:    ans,
		answersSet: toSet(ans),
		allowedSet: toSet(ans),
	}
	for _, w := range normalize(allowed) {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

// Load reads the lists named by f, see the package comment for precedence.
func Load(f Files) (*List, error) {
	switch {
	case f.JSON != "":
		return readJSONFile(f.JSON)

	case f.Answers != "" && f.Allowed != "":
		ans, err := readWordFile(f.Answers)
		if err != nil {
			return nil, err
		}
		all, err := readWordFile(f.Allowed)
		if err != nil {
			return nil, err
		}
		return New(ans, all)

	case f.Allowed != "":
		all, err := readWordFile(f.Allowed)
		if err != nil {
			return nil, err
		}
		return New(all, all)

	default:
		return Default()
	}
}

// Default returns the lists embedded in the binary.
func Default() (*List, error) {
	ans, err := assets.Lines(assets.AnswersFile)
	if err != nil {
		return nil, fmt.Errorf("words: embedded answers: %w", err)
	}
	all, err := assets.Lines(assets.AllowedFile)
	if err != nil {
		return nil, fmt.Errorf("words: embedded allowed: %w", err)
	}
	return New(ans, all)
}

// wordsFile is the layout of a JSON word list.
type wordsFile struct {
	Actual []string `json:"actual"`
	Valid  []string `json:"valid"`
}

func readJSONFile(path string) (*List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf wordsFile
	if err := json.Unmarshal(b, &wf); err != nil {
		return nil, fmt.Errorf("words: decode %s: %w", path, err)
	}
	return New(wf.Actual, wf.Valid)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// normalize lowercases, trims, and keeps only valid 5-letter alphabetic words.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if len(w) != game.WordLength || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// RandomAnswer returns a cryptographically random answer.
func (l *List) RandomAnswer() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	if err != nil {
		return l.answers[0]
	}
	return l.answers[nBig.Int64()]
}

// Answers returns the answer list in load order.
func (l *List) Answers() []string { return l.answers }

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *List) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}
