package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"room-chat/auth"
	"room-chat/chat"
	"room-chat/httpapi"
	"room-chat/moderation"
	"room-chat/observability"
	"room-chat/repositories"
	"room-chat/search"
	"room-chat/services"
	"room-chat/ws"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

//go:embed censored.txt
var censoredWords string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database close, index
// close) executes before the process exits.
func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Storage (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.NewMessageIndex(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 3. Core collaborators
	moderator, err := moderation.NewModerator(splitWords(censoredWords), replacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	messageRepository := repositories.NewMessageRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	registry := chat.NewRegistry()
	history := chat.NewHistoryLoader(messageRepository, config.HistoryLimit, log)
	broadcaster := chat.NewBroadcaster(registry, messageRepository, &moderator, index, log)
	presence := chat.NewPresenceTracker(registry, log)
	typing := chat.NewTypingRelay(registry, log)
	chatService := chat.NewService(registry, history, broadcaster, presence, typing, log)

	secret := []byte(config.JWTSecret)
	authenticator := auth.NewAuthenticator(secret)
	authService := services.NewAuthService(userRepository, secret, config.AuthTokenDuration)

	// 4. HTTP surface
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Middleware: httpapi.NewMiddleware(authenticator, config.Origins()),
		Auth:       httpapi.NewAuthAPI(authService, log),
		Search:     httpapi.NewSearchAPI(index, log),
		WebSocket:  ws.NewHandler(authenticator, chatService, config.Origins(), log),
		PublicDir:  config.PublicDir,
	})

	// 5. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := observability.NewStatsReporter(log, config.StatsInterval).Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("stats reporter stopped", "err", err)
		}
	}()

	// 6. Serve
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat server", "address", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

func splitWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}
