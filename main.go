package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-bot/internal/bot"
	"github.com/robalobadob/wordle-bot/internal/config"
	"github.com/robalobadob/wordle-bot/internal/history"
	"github.com/robalobadob/wordle-bot/internal/httpserver"
	"github.com/robalobadob/wordle-bot/internal/metrics"
	"github.com/robalobadob/wordle-bot/internal/render"
	"github.com/robalobadob/wordle-bot/internal/store"
	"github.com/robalobadob/wordle-bot/internal/telegram"
	"github.com/robalobadob/wordle-bot/internal/words"
)

func main() {
	hashPassword := flag.Bool("hash-password", false, "read a password on stdin, print its bcrypt hash for OWNER_PASSWORD_HASH and exit")
	flag.Parse()
	if *hashPassword {
		if err := printPasswordHash(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	list, err := words.Load(words.Files{
		Answers: cfg.Words.AnswersFile,
		Allowed: cfg.Words.AllowedFile,
		JSON:    cfg.Words.JSONFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	answers, allowed := list.Stats()
	log.Info().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	var hist *history.Store
	if cfg.Database.Path != "" {
		db, err := history.Open(cfg.Database.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open history database")
		}
		defer closeDB(db)
		hist = history.NewStore(db)
	}

	m := metrics.New()
	opts := bot.Options{
		Games:    store.NewRegistry[string](),
		Vocab:    list,
		Secrets:  words.NewSource(cfg.Secrets.Mode, list, cfg.Secrets.DailySalt),
		Theme:    render.ThemeByName(cfg.Chat.EmojiStyle),
		Metrics:  m,
		Prefixes: cfg.Chat.Prefixes,
	}
	deps := httpserver.Deps{
		Words:   list,
		Metrics: m.Handler(),
		Auth: httpserver.Auth{
			PasswordHash: cfg.Owner.PasswordHash,
			Secret:       []byte(cfg.Owner.JWTSecret),
			TTL:          time.Duration(cfg.Owner.TokenDays) * 24 * time.Hour,
		},
	}
	// keep the interfaces nil when history is off
	if hist != nil {
		opts.History = hist
		deps.History = hist
	}
	b := bot.New(opts)
	deps.Bot = b

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token != "" {
		tg, err := telegram.New(cfg.Telegram, b, m)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start telegram bot")
		}
		go func() {
			if err := tg.Run(ctx); err != nil {
				log.Error().Err(err).Msg("telegram bot exited")
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.New(deps).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Msg("starting wordle-bot")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("shut down")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("close history database")
	}
}

// printPasswordHash hashes the first line of r and writes the hash to w.
func printPasswordHash(r io.Reader, w io.Writer) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return errors.New("empty password")
	}
	hash, err := httpserver.HashPassword(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
