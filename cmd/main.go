package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"presence-chat/contract"
	"presence-chat/domain"
	"presence-chat/infrastructure/http/server"
	"presence-chat/internal"
	"presence-chat/moderation"
	"presence-chat/observability"
	"presence-chat/repositories"
	"presence-chat/runtime/workers"
	"presence-chat/services"
	"presence-chat/sink"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/nats-io/nats.go"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Presence chat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns their lifecycle, so that deferred
// cleanups (NATS drain, Badger close) run before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	moderator, err := loadModerator(config, charReplacement, log)
	if err != nil {
		return exitConfig, err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	messageRepository, err := repositories.NewMessageRepository(db, log)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = messageRepository.Close() }()
	participantRepository := repositories.NewParticipantRepository(db)

	// 3. Presence event sinks
	var sinks []contract.EventSink
	if config.NatsURL != "" {
		nc, err := connectNats(config.NatsURL, log)
		if err != nil {
			return exitRuntime, err
		}
		defer func() { _ = nc.Drain() }()
		sinks = append(sinks, sink.NewNatsSink(nc, config.NatsSubjectPrefix, log))
	}

	// 4. Services
	clock := domain.SystemClock{}
	monitoring := observability.NewMonitoringManager(log)
	messageService := services.NewMessageService(log, messageRepository, participantRepository, clock, monitoring, sinks...)
	presenceService := services.NewPresenceService(log, participantRepository, messageService, clock, monitoring)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewSweepWorker(log, presenceService, messageService, monitoring, clock,
			config.SweepInterval, config.ParticipantTimeout),
		workers.NewStatsWorker(log, monitoring, config.StatsInterval),
	)
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	if log.Enabled(ctx, slog.LevelDebug) {
		log.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
		internal.StartDebugServer(log, db, config.DebugPort, "/inspect", internal.PresenceMapper, func() map[string]any {
			stats := monitoring.GetLatest()
			return map[string]any{
				"registrations": stats.Registrations,
				"messages":      stats.MessagesPosted,
				"sweeps":        stats.Sweeps,
				"evictions":     stats.Evictions,
				"uptime":        stats.Uptime,
			}
		})
	}

	// 7. HTTP Server
	if !log.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := server.NewServer(log, presenceService, messageService, moderation.NewSanitizer(moderator), monitoring)
	httpServer := &http.Server{
		Addr:              config.Address(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server did not stop in time", "error", err)
	}
	stop()
	<-supervisorDone
	log.Info("Program stopped cleanly")
	return code, runErr
}

// loadModerator reads the censored dictionary when CENSORED_DIR is set.
// Without it, message texts are only stripped of markup.
func loadModerator(config internal.Config, charReplacement rune, log *slog.Logger) (*moderation.Moderator, error) {
	if config.CensoredDir == "" {
		return nil, nil
	}
	data, err := moderation.NewCensoredLoader(os.DirFS(config.CensoredDir)).LoadAll(".")
	if err != nil {
		return nil, fmt.Errorf("censored dictionary %s: %w", config.CensoredDir, err)
	}
	return moderation.NewModerator(data.Words, charReplacement, log)
}

func connectNats(url string, log *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("presence-chat"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connection to %s failed: %w", url, err)
	}
	return nc, nil
}
