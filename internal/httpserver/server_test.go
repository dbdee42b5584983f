package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-bot/internal/bot"
	"github.com/robalobadob/wordle-bot/internal/history"
	"github.com/robalobadob/wordle-bot/internal/metrics"
	"github.com/robalobadob/wordle-bot/internal/render"
	"github.com/robalobadob/wordle-bot/internal/store"
	"github.com/robalobadob/wordle-bot/internal/words"
)

type fixedSource string

func (f fixedSource) Next() string { return string(f) }

type fakeHistory struct {
	records []history.Record
	err     error
}

func (f *fakeHistory) Record(_ context.Context, r history.Record) error {
	f.records = append(f.records, r)
	return nil
}

func (f *fakeHistory) ChannelStats(_ context.Context, channel string) (history.Stats, error) {
	st := history.Stats{Channel: channel}
	for _, r := range f.records {
		if r.Channel == channel {
			st.Played++
			if r.Outcome == "won" {
				st.Wins++
			}
		}
	}
	return st, f.err
}

func (f *fakeHistory) Recent(_ context.Context, channel string, limit int) ([]history.Record, error) {
	var out []history.Record
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].Channel == channel {
			out = append(out, f.records[i])
		}
	}
	return out, f.err
}

const ownerPassword = "correct horse"

func newServer(t *testing.T, hist *fakeHistory) *Server {
	t.Helper()
	s, _ := newServerWithGames(t, hist, store.NewRegistry[string]())
	return s
}

func newServerWithGames(t *testing.T, hist *fakeHistory, games *store.Registry[string]) (*Server, *bot.Bot) {
	t.Helper()
	list, err := words.New([]string{"crane", "pilot"}, []string{"slate"})
	require.NoError(t, err)
	hash, err := HashPassword(ownerPassword)
	require.NoError(t, err)

	var rec bot.Recorder
	var reader HistoryReader
	if hist != nil {
		rec, reader = hist, hist
	}
	m := metrics.New()
	b := bot.New(bot.Options{
		Games:    games,
		Vocab:    list,
		Secrets:  fixedSource("crane"),
		Theme:    render.Unicode,
		History:  rec,
		Metrics:  m,
		Prefixes: []string{"w."},
	})
	return New(Deps{
		Bot:     b,
		History: reader,
		Words:   list,
		Metrics: m.Handler(),
		Auth:    Auth{PasswordHash: hash, Secret: []byte("test-secret"), TTL: time.Hour},
	}), b
}

func do(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func send(t *testing.T, s *Server, channel, text, token string) messageRes {
	t.Helper()
	body, err := json.Marshal(messageReq{Author: "ana", Text: text})
	require.NoError(t, err)
	rec := do(t, s, http.MethodPost, "/channels/"+channel+"/messages", string(body), token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res messageRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func ownerToken(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/token", `{"password":"`+ownerPassword+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res tokenRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestHealthAndIndex(t *testing.T) {
	s := newServer(t, nil)

	rec := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wordle-bot")

	rec = do(t, s, http.MethodGet, "/debug/words", "", "")
	assert.JSONEq(t, `{"answers":2,"allowed":3}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlayOverHTTP(t *testing.T) {
	hist := &fakeHistory{}
	s := newServer(t, hist)

	assert.Equal(t, messageRes{Reply: "Wordle started!", Handled: true}, send(t, s, "general", "w.start", ""))

	res := send(t, s, "general", "w.g slate", "")
	assert.True(t, res.Handled)
	assert.Contains(t, res.Reply, "Guesses Left: 5")

	res = send(t, s, "general", "CRANE", "")
	assert.Contains(t, res.Reply, "You won in 2!")

	res = send(t, s, "general", "just chatting", "")
	assert.False(t, res.Handled)
	assert.Empty(t, res.Reply)

	rec := do(t, s, http.MethodGet, "/channels/general/stats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st history.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 1, st.Wins)

	rec = do(t, s, http.MethodGet, "/channels/general/history?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []history.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "crane", recs[0].Secret)

	rec = do(t, s, http.MethodGet, "/channels/general/history?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPCannotReachTelegramChannel(t *testing.T) {
	hist := &fakeHistory{}
	games := store.NewRegistry[string]()
	s, b := newServerWithGames(t, hist, games)

	reply, ok := b.Handle(context.Background(), bot.Message{Transport: "telegram", Channel: "-100123", Text: "w.s"})
	require.True(t, ok)
	require.Equal(t, "Wordle started!", reply)

	res := send(t, s, "-100123", "w.q", "")
	assert.Equal(t, "There are no wordles currently running in this channel.", res.Reply)
	res = send(t, s, "-100123", "w.g slate", "")
	assert.Equal(t, "There are no wordles currently running in this channel.", res.Reply)

	snap, err := games.Snapshot("telegram:-100123")
	require.NoError(t, err)
	assert.Empty(t, snap.Guesses)

	// an HTTP game on the same id is a separate game
	assert.Equal(t, "Wordle started!", send(t, s, "-100123", "w.s", "").Reply)
	assert.Equal(t, 2, games.Len())
	assert.Contains(t, send(t, s, "-100123", "w.q", "").Reply, "The word was 'crane'")
	assert.True(t, games.Active("telegram:-100123"))
	require.Len(t, hist.records, 1)
	assert.Equal(t, "http:-100123", hist.records[0].Channel)
}

func TestBadJSON(t *testing.T) {
	s := newServer(t, nil)
	rec := do(t, s, http.MethodPost, "/channels/general/messages", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	s := newServer(t, nil)
	rec := do(t, s, http.MethodGet, "/channels/general/stats", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryError(t *testing.T) {
	s := newServer(t, &fakeHistory{err: errors.New("boom")})
	rec := do(t, s, http.MethodGet, "/channels/general/stats", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOwnerCommandsNeedToken(t *testing.T) {
	s := newServer(t, nil)
	send(t, s, "general", "w.start", "")

	res := send(t, s, "general", "w.debug", "")
	assert.Equal(t, "You do not own this bot.", res.Reply)

	tok := ownerToken(t, s)
	res = send(t, s, "general", "w.debug", tok)
	assert.Equal(t, "crane", res.Reply)
}

func TestTokenRejections(t *testing.T) {
	s := newServer(t, nil)

	rec := do(t, s, http.MethodPost, "/auth/token", `{"password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/channels/general/messages", `{"text":"w.debug"}`, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other := Auth{PasswordHash: "x", Secret: []byte("other-secret"), TTL: time.Hour}
	forged, _, err := other.sign(time.Now())
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/channels/general/messages", `{"text":"w.debug"}`, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, _, err := s.auth.sign(time.Now().Add(-2 * time.Hour))
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/channels/general/messages", `{"text":"w.debug"}`, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthDisabled(t *testing.T) {
	s := newServer(t, nil)
	s.auth = Auth{}

	rec := do(t, s, http.MethodPost, "/auth/token", `{"password":"anything"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// tokens are ignored, not trusted, when auth is off
	res := send(t, s, "general", "w.debug", "whatever")
	assert.Equal(t, "You do not own this bot.", res.Reply)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, nil)
	send(t, s, "general", "w.start", "")

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wordle_games_started_total 1")
}
