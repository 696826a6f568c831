package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/game"
	pgstore "trivia-game-service/internal/infra/postgres"
	pgmigrations "trivia-game-service/internal/infra/postgres/migrations"
	redisstore "trivia-game-service/internal/infra/redis"
)

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	identity := redisstore.NewIdentityStore(redisClient)
	leaderboard := pgstore.NewLeaderboardStore(pool)

	session := game.NewSession(fixedSource{}, identity, leaderboard, 3, 7*24*time.Hour)
	if err := session.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.State() != game.StatePlaying {
		t.Fatalf("expected playing, got %s", session.State())
	}

	selectOption(t, session, 0, true)
	selectOption(t, session, 1, true)
	selectOption(t, session, 2, false)
	if session.Score() != 2 {
		t.Fatalf("expected running total 2, got %d", session.Score())
	}

	session.SetUsername("bob")
	score, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score != 2 {
		t.Fatalf("expected final score 2, got %d", score)
	}

	entries, err := leaderboard.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "bob" || entries[0].Score != 2 {
		t.Fatalf("expected [{bob 2}], got %+v", entries)
	}

	// A new session restores the identity and clears the leaderboard.
	next := game.NewSession(fixedSource{}, identity, leaderboard, 3, 7*24*time.Hour)
	if err := next.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if next.Username() != "bob" {
		t.Fatalf("expected restored username bob, got %q", next.Username())
	}
	entries, err = leaderboard.List(ctx)
	if err != nil {
		t.Fatalf("list after restart: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected leaderboard cleared on session start, got %+v", entries)
	}
}

type fixedSource struct{}

func (fixedSource) FetchQuestions(_ context.Context, amount int) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, amount)
	for i := 0; i < amount; i++ {
		questions = append(questions, domain.Question{
			Text:             fmt.Sprintf("question %d", i),
			CorrectAnswer:    "right",
			IncorrectAnswers: []string{"wrong-a", "wrong-b", "wrong-c"},
		})
	}
	return questions, nil
}

func selectOption(t *testing.T, session *game.Session, question int, correct bool) {
	t.Helper()
	options := session.Questions()[question].Options
	for idx, option := range options {
		if option.Correct == correct {
			if _, err := session.SelectAnswer(question, idx); err != nil {
				t.Fatalf("select answer: %v", err)
			}
			return
		}
	}
	t.Fatalf("no option with correct=%v for question %d", correct, question)
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trivia", "POSTGRES_PASSWORD": "triviapass", "POSTGRES_DB": "triviadb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://trivia:triviapass@%s:%s/triviadb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
