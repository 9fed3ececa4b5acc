package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"givelink/internal"
	transport "givelink/infrastructure/http"
	"givelink/moderation"
	"givelink/observability"
	"givelink/repositories"
	"givelink/runtime"
	"givelink/runtime/workers"
	"givelink/services"
	"givelink/sink"
	"givelink/storage"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for HTTP and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if log.Enabled(context.Background(), slog.LevelDebug) {
		debugPort := 8081
		endpoint := "/inspect"
		log.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", debugPort, endpoint))
		database.StartDebugServer(db, debugPort, endpoint, profileMapper)
	}

	// 3. Full-text index (Bluge)
	indexWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = indexWriter.Close()
	}()

	// 4. Media storage & moderation
	blobs, err := storage.NewBlobStore(log, config.MediaDir, "/media")
	if err != nil {
		return fmt.Errorf("media directory unavailable: %w", err)
	}
	moderator, err := moderation.Default(charReplacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	// 5. Repositories
	userRepository := repositories.NewUserRepository(db)
	profileRepository := repositories.NewProfileRepository(db, indexWriter, log)
	conversationRepository := repositories.NewConversationRepository(db)
	messageRepository := repositories.NewMessageRepository(db)

	// 6. Supervision & event pipeline
	monitor := observability.NewMonitor(log)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, sup, registry, config.BufferSize, config.SinkTimeout)
	orchestrator.Add(sink.NewMetricsSink(monitor))

	// 7. Services
	authService := services.NewAuthService(userRepository, profileRepository, config.AuthTokenDuration)
	profileService := services.NewProfileService(profileRepository, blobs)
	searchService := services.NewSearchService(profileRepository, monitor, config.SearchLimit)
	chatService := services.NewChatService(log, conversationRepository, messageRepository,
		profileRepository, moderator, registry, orchestrator, config.MaxContentLength)

	// 8. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 9. Start the pipeline
	go func() {
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator failed", "error", err)
		}
	}()

	// 10. HTTP server
	router := transport.NewRouter(
		transport.NewAuthHandler(authService, profileService),
		transport.NewProfileHandler(profileService),
		transport.NewSearchHandler(searchService),
		transport.NewChatHandler(chatService),
		transport.NewWSHandler(log, chatService, monitor, config.ConnectionBufferSize, config.WSAllowAnyOrigin),
		profileService,
		monitor,
		blobs.Dir(),
	)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 11. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 12. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
