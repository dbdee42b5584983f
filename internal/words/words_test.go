package words

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultLists(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)

	answers, allowed := l.Stats()
	assert.Greater(t, answers, 100)
	assert.Greater(t, allowed, answers)
	assert.True(t, l.IsAnswer("crane"))
	assert.True(t, l.IsAllowed("CRANE"))
	assert.True(t, l.IsAllowed("aahed"))
	assert.False(t, l.IsAnswer("aahed"))
	assert.False(t, l.IsAllowed("zzzzz"))
}

func TestNewNormalizesAndFilters(t *testing.T) {
	l, err := New([]string{" Crane ", "toolong", "ab1de", "crane", ""}, []string{"SLATE", "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"crane"}, l.Answers())
	assert.True(t, l.IsAllowed("slate"))
	assert.True(t, l.IsAllowed("crane"))
	a, g := l.Stats()
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, g)
}

func TestNewRejectsEmptyAnswers(t *testing.T) {
	_, err := New([]string{"nope"}, []string{"crane"})
	assert.Error(t, err)
}

func TestLoadTextFiles(t *testing.T) {
	ans := writeFile(t, "answers.txt", "crane\npilot\n")
	all := writeFile(t, "allowed.txt", "slate\n")

	l, err := Load(Files{Answers: ans, Allowed: all})
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "pilot"}, l.Answers())
	assert.True(t, l.IsAllowed("slate"))
	assert.False(t, l.IsAnswer("slate"))

	l, err = Load(Files{Allowed: all})
	require.NoError(t, err)
	assert.True(t, l.IsAnswer("slate"))
}

func TestLoadJSONFile(t *testing.T) {
	p := writeFile(t, "words.json", `{"actual":["crane","pilot"],"valid":["aahed"]}`)

	l, err := Load(Files{JSON: p, Answers: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "pilot"}, l.Answers())
	assert.True(t, l.IsAllowed("aahed"))
	assert.True(t, l.IsAllowed("pilot"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(Files{Allowed: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)

	bad := writeFile(t, "words.json", `{"actual":`)
	_, err = Load(Files{JSON: bad})
	assert.Error(t, err)
}

func TestRandomAnswerComesFromList(t *testing.T) {
	l, err := New([]string{"crane", "pilot", "slate"}, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.True(t, l.IsAnswer(l.RandomAnswer()))
	}
	assert.True(t, l.IsAnswer(Random{List: l}.Next()))
}

func TestDailySourceIsStableWithinADay(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)

	day := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	morning := Daily{List: l, Salt: "s", Now: func() time.Time { return day }}
	evening := Daily{List: l, Salt: "s", Now: func() time.Time { return day.Add(18 * time.Hour) }}

	w := morning.Next()
	assert.Equal(t, w, evening.Next())
	assert.True(t, l.IsAnswer(w))
}

func TestNewSource(t *testing.T) {
	l, err := New([]string{"crane"}, nil)
	require.NoError(t, err)

	assert.IsType(t, Daily{}, NewSource("daily", l, "salt"))
	assert.IsType(t, Random{}, NewSource("random", l, ""))
	assert.Equal(t, "crane", NewSource("", l, "").Next())
}

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	d := time.Date(2026, 10, 18, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-10-17", dateKey(d))
}

func TestDayIndex(t *testing.T) {
	morning := time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)

	i := dayIndex(morning, "salt", 100)
	assert.Equal(t, i, dayIndex(evening, "salt", 100))
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 100)
	assert.Equal(t, 0, dayIndex(morning, "salt", 0))

	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		seen[dayIndex(morning.AddDate(0, 0, d), "salt", 1000)] = true
	}
	assert.Greater(t, len(seen), 1)
}
