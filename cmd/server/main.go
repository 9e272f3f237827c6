package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-thread/auth"
	"chat-thread/cache"
	"chat-thread/grpc/server"
	"chat-thread/internal"
	"chat-thread/moderation"
	"chat-thread/observability"
	"chat-thread/repositories"
	"chat-thread/runtime/workers"
	"chat-thread/search"
	"chat-thread/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal arrives, so that deferred
// cleanups always execute before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge index...")
		_ = writer.Close()
	}()

	threadCache, err := cache.NewThreadCache(int64(config.ThreadCacheMaxCost), config.ThreadCacheTTL)
	if err != nil {
		return exitRuntime, fmt.Errorf("thread cache failed: %w", err)
	}
	defer threadCache.Close()

	moderator, err := moderation.NewModerator(internal.Words(config.CensoredWords), charReplacement, log)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// 3. Repositories, workers and services
	retry := repositories.Retry{Attempts: config.RetryAttempts, Delay: config.RetryDelay}
	notificationRepository := repositories.NewNotificationRepository(db, retry)
	notifier := workers.NewNotifier(notificationRepository, log, config.NotificationBufferSize)
	capacity := workers.NewChannelCapacityWorker(log,
		[]workers.NamedChannel{{Name: "notifications", Channel: notifier.Events()}},
		metrics.ChannelLength, metrics.ChannelCapacity, config.MetricInterval)

	validate := auth.NewValidator()
	chatService := services.NewChatService(services.Repositories{
		Messages:      repositories.NewMessageRepository(db, log, &config.LimitMessages, retry),
		Conversations: repositories.NewConversationRepository(db, retry),
		Notifications: notificationRepository,
		History:       repositories.NewHistoryRepository(db),
	}, search.NewMessageIndex(writer), threadCache, moderator, notifier, metrics, validate,
		services.ChatConfig{MaxContentLength: config.MaxContentLength, MaxReplyDepth: config.MaxReplyDepth}, log)

	tokens := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(repositories.NewUserRepository(db, retry), tokens, validate)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopWorkers := workers.Background(ctx, workers.NewSupervisor(log, config.RestartInterval), notifier, capacity)

	// 5. gRPC and admin servers
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s := server.NewGRPCServer(server.NewThreadServer(authService, chatService), tokens,
		server.AccessWindow{StartHour: config.AccessStartHour, EndHour: config.AccessEndHour}, log, metrics)
	admin := internal.NewAdminServer(fmt.Sprintf("%s:%d", config.Host, config.MetricsPort), db, registry)

	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Info("Starting admin server", "address", admin.Addr)
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("admin server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		log.Error("Server failure", "error", err)
		code = exitRuntime
	}

	// 7. Final Cleanup
	s.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = admin.Shutdown(shutdownCtx)
	stopWorkers()
	log.Info("Program stopped cleanly")

	return code, err
}
