package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Auth holds the owner credentials. With an empty PasswordHash no token can
// be issued and every request is treated as a regular player.
type Auth struct {
	PasswordHash string // bcrypt
	Secret       []byte // HS256 signing key
	TTL          time.Duration
}

type ctxOwnerKey struct{}

const ownerRole = "owner"

// HashPassword bcrypt-hashes pw for use as Auth.PasswordHash.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

func (a Auth) enabled() bool { return a.PasswordHash != "" && len(a.Secret) > 0 }

func (a Auth) checkPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pw)) == nil
}

func (a Auth) sign(now time.Time) (string, time.Time, error) {
	exp := now.Add(a.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": ownerRole,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	ss, err := token.SignedString(a.Secret)
	return ss, exp, err
}

func (a Auth) verify(tokenStr string) error {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != ownerRole {
		return errors.New("not an owner token")
	}
	return nil
}

type tokenReq struct {
	Password string `json:"password"`
}
type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleToken issues an owner JWT for the configured password.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if !s.auth.enabled() {
		http.Error(w, `{"error":"auth_disabled"}`, http.StatusNotFound)
		return
	}
	var req tokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !s.auth.checkPassword(req.Password) {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.auth.sign(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign owner token")
		http.Error(w, `{"error":"token_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(tokenRes{Token: tok, ExpiresAt: exp})
}

// withOptionalOwner marks the request as coming from the owner when it
// carries a valid bearer token. Invalid tokens are rejected outright.
func (s *Server) withOptionalOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearer(r)
			if tok == "" || !s.auth.enabled() {
				next.ServeHTTP(w, r)
				return
			}
			if err := s.auth.verify(tok); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxOwnerKey{}, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isOwner(r *http.Request) bool {
	ok, _ := r.Context().Value(ctxOwnerKey{}).(bool)
	return ok
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
