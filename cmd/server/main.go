// cmd/server/main.go
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Moy64ever2/FakeArtist/internal/cache"
	"github.com/Moy64ever2/FakeArtist/internal/game"
	"github.com/Moy64ever2/FakeArtist/internal/handlers"
	"github.com/Moy64ever2/FakeArtist/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := cache.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("game history queue disabled")
	}

	rooms := game.NewRoomStore()
	presence := game.NewPresenceTracker(
		rooms,
		logger,
		envSeconds("PRESENCE_SWEEP_INTERVAL_SEC", game.DefaultSweepInterval),
		envSeconds("PRESENCE_TIMEOUT_SEC", game.DefaultDisconnectTimeout),
	)
	srv := handlers.NewGameServer(rooms, presence, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go presence.Run(ctx)

	logged := middleware.LogMiddleware(logger)
	mux := http.NewServeMux()
	mux.Handle("GET /api/health", logged(http.HandlerFunc(srv.HealthHandler)))
	mux.Handle("POST /api/game/create", logged(http.HandlerFunc(srv.CreateRoomHandler)))
	mux.Handle("GET /api/game/{roomId}", logged(http.HandlerFunc(srv.GetRoomHandler)))
	mux.Handle("POST /api/game/{roomId}/join", logged(http.HandlerFunc(srv.JoinRoomHandler)))
	mux.Handle("POST /api/game/{roomId}/heartbeat", logged(http.HandlerFunc(srv.HeartbeatHandler)))
	mux.Handle("POST /api/game/{roomId}/leave", logged(http.HandlerFunc(srv.LeaveRoomHandler)))
	mux.Handle("POST /api/game/{roomId}/start", logged(http.HandlerFunc(srv.StartGameHandler)))
	mux.Handle("POST /api/game/{roomId}/update-settings", logged(http.HandlerFunc(srv.UpdateSettingsHandler)))
	mux.Handle("POST /api/game/{roomId}/draw", logged(http.HandlerFunc(srv.DrawHandler)))
	mux.Handle("POST /api/game/{roomId}/next-turn", logged(http.HandlerFunc(srv.NextTurnHandler)))
	mux.Handle("POST /api/game/{roomId}/vote", logged(http.HandlerFunc(srv.VoteHandler)))
	mux.Handle("POST /api/game/{roomId}/guess-word", logged(http.HandlerFunc(srv.GuessWordHandler)))
	mux.Handle("POST /api/game/{roomId}/reset", logged(http.HandlerFunc(srv.ResetGameHandler)))
	mux.Handle("POST /api/game/{roomId}/kick-player", logged(http.HandlerFunc(srv.KickPlayerHandler)))

	// The watch socket bypasses the logging middleware: the wrapped writer
	// does not support hijacking the connection for the upgrade.
	mux.HandleFunc("GET /api/game/{roomId}/ws", srv.RoomWSHandler)

	server := &http.Server{
		Handler:      handlers.CORSMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// envSeconds reads an env var as a second count, falling back on parse
// failure or absence.
func envSeconds(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
