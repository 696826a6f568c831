package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-game-service/internal/config"
	"trivia-game-service/internal/game"
	"trivia-game-service/internal/infra/memory"
	"trivia-game-service/internal/infra/opentdb"
	pgstore "trivia-game-service/internal/infra/postgres"
	redisstore "trivia-game-service/internal/infra/redis"
	transport "trivia-game-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var identityStore game.IdentityStore = memory.NewIdentityStore()
	if redisClient != nil {
		identityStore = redisstore.NewIdentityStore(redisClient)
	}

	var leaderboardStore game.LeaderboardStore = memory.NewLeaderboardStore()
	switch {
	case pool != nil:
		leaderboardStore = pgstore.NewLeaderboardStore(pool)
	case redisClient != nil:
		leaderboardStore = redisstore.NewLeaderboardStore(redisClient)
	}

	source := opentdb.NewClient(cfg.Trivia.BaseURL, config.Duration(cfg.Trivia.Timeout, 15*time.Second))

	session := game.NewSession(
		source,
		identityStore,
		leaderboardStore,
		cfg.QuestionAmount(game.DefaultQuestionAmount),
		cfg.IdentityTTL(game.DefaultIdentityTTL),
	)

	// The initial load is the only suspending operation; run it off the
	// startup path so the socket surface comes up in the loading state.
	go func() {
		if err := session.Start(ctx); err != nil {
			log.Printf("initial question load failed: %v", err)
		}
	}()

	wsHandler := transport.NewWSHandler(session)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia game service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
