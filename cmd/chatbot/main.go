// Command chatbot runs the academic chatbot HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chatbot "github.com/AnandaDly/chatbot3"
	"github.com/AnandaDly/chatbot3/conversation/postgres"
	"github.com/AnandaDly/chatbot3/llm/anthropic"
	"github.com/AnandaDly/chatbot3/llm/openai"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	fileCfg := &chatbot.FileConfig{Listen: ":8080", Provider: "http"}
	if configPath != "" {
		loaded, err := chatbot.LoadFileConfig(configPath)
		if err != nil {
			return err
		}
		fileCfg = loaded
	}
	applyEnvOverrides(fileCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newStore(ctx, fileCfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	generator, err := newGenerator(fileCfg, logger)
	if err != nil {
		return err
	}

	bot, err := chatbot.New(chatbot.Config{
		Generator:       generator,
		Store:           store,
		Logger:          logger,
		Keywords:        fileCfg.Keywords,
		HistoryPageSize: fileCfg.HistoryPageSize,
		AdminPageSize:   fileCfg.AdminPageSize,
		AllowedOrigins:  fileCfg.AllowedOrigins,
		AdminEmails:     fileCfg.AdminEmails,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fileCfg.Listen,
		Handler:           bot.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", fileCfg.Listen, "provider", fileCfg.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvOverrides lets deployment environments override the file
// config without editing it.
func applyEnvOverrides(cfg *chatbot.FileConfig) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("INFERENCE_URL"); v != "" {
		cfg.InferenceURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
}

func newStore(ctx context.Context, cfg *chatbot.FileConfig, logger *slog.Logger) (chatbot.ConversationStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory conversation store")
		return chatbot.NewMemoryStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pool.Exec(ctx, postgres.Migration("")); err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("using postgres conversation store")
	return postgres.New(pool), pool.Close, nil
}

func newGenerator(cfg *chatbot.FileConfig, logger *slog.Logger) (chatbot.Generator, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(openai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  cfg.Model,
		})
	case "anthropic":
		return anthropic.New(anthropic.Config{
			Model: cfg.Model,
		})
	default:
		if cfg.InferenceURL == "" {
			return nil, errors.New("inference_url is required for the http provider")
		}
		return chatbot.NewInferenceClient(cfg.InferenceURL,
			chatbot.WithTimeout(time.Duration(cfg.InferenceTimeoutSeconds)*time.Second),
			chatbot.WithLogger(logger),
		), nil
	}
}
