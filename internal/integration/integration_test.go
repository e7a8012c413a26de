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

	"studymatch-service/internal/app"
	pgstore "studymatch-service/internal/infra/postgres"
	pgmigrations "studymatch-service/internal/infra/postgres/migrations"
	infraredis "studymatch-service/internal/infra/redis"
)

func TestPeerMatchesEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCourse(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	store := infraredis.NewCourseCache(redisClient, pgstore.NewCourseStore(pool), 5*time.Minute)
	service := app.NewMatchService(store, app.UngradedSkip)

	report, err := service.PeerMatches(ctx, "c1", "s1", 1)
	if err != nil {
		t.Fatalf("peer matches: %v", err)
	}
	if len(report.Matches) != 1 || report.Matches[0].StudentID != "s2" {
		t.Fatalf("unexpected matches %+v", report.Matches)
	}
	if report.Matches[0].DisplayName != "Ben Okafor" {
		t.Fatalf("expected profile name, got %q", report.Matches[0].DisplayName)
	}
	if report.Matches[0].CompatibilityPct != 72 {
		t.Fatalf("expected 72%%, got %d", report.Matches[0].CompatibilityPct)
	}
	if len(report.MyStrengths) != 2 || len(report.MyWeaknesses) != 1 {
		t.Fatalf("unexpected topic split: strengths=%v weaknesses=%v", report.MyStrengths, report.MyWeaknesses)
	}

	// Second request should reuse the cached item list.
	if _, err := service.PeerMatches(ctx, "c1", "s2", 1); err != nil {
		t.Fatalf("second request: %v", err)
	}

	courses, err := service.StudentCourses(ctx, "s1")
	if err != nil {
		t.Fatalf("student courses: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != "c1" {
		t.Fatalf("unexpected courses %v", courses)
	}

	if _, err := service.PeerMatches(ctx, "c1", "stranger", 1); err == nil {
		t.Fatal("expected enrollment rejection")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "lms", "POSTGRES_PASSWORD": "lmspass", "POSTGRES_DB": "lmsdb"},
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
	dsn := fmt.Sprintf("postgres://lms:lmspass@%s:%s/lmsdb?sslmode=disable", host, port.Port())
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

// seedCourse migrates the schema and loads the two-student scenario: Aisha
// is strong on quizzes and weak on the assignment, Ben the other way round.
func seedCourse(t *testing.T, ctx context.Context, dsn string) {
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

	statements := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO students (id, full_name) VALUES (?, ?), (?, ?)`,
			[]interface{}{"s1", "Aisha Patel", "s2", "Ben Okafor"}},
		{`INSERT INTO courses (id, title) VALUES (?, ?)`,
			[]interface{}{"c1", "Algorithms 101"}},
		{`INSERT INTO enrollments (course_id, student_id) VALUES (?, ?), (?, ?)`,
			[]interface{}{"c1", "s1", "c1", "s2"}},
		{`INSERT INTO quizzes (id, course_id, title) VALUES (?, ?, ?), (?, ?, ?)`,
			[]interface{}{"q1", "c1", "Recursion", "q2", "c1", "Graphs"}},
		{`INSERT INTO assignments (id, course_id, title, max_score) VALUES (?, ?, ?, ?)`,
			[]interface{}{"a1", "c1", "Heaps", 10.0}},
		{`INSERT INTO quiz_submissions (student_id, quiz_id, score, total_marks) VALUES (?, ?, ?, ?), (?, ?, ?, ?), (?, ?, ?, ?), (?, ?, ?, ?)`,
			[]interface{}{
				"s1", "q1", 8.0, 10.0,
				"s1", "q2", 9.0, 10.0,
				"s2", "q1", 3.0, 10.0,
				"s2", "q2", 2.0, 10.0,
			}},
		{`INSERT INTO assignment_submissions (student_id, assignment_id, score) VALUES (?, ?, ?), (?, ?, ?)`,
			[]interface{}{"s1", "a1", 2.0, "s2", "a1", 9.0}},
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			t.Fatalf("seed %q: %v", stmt.query, err)
		}
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
