package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"rentalapp/internal/models"
)

// mustStartPostgresContainer starts a postgres container and returns a
// teardown function, a connection string, and an error.
func mustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName = "test_db"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", fmt.Errorf("failed to get container mapped port: %w", err)
	}

	connStr := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPwd, host, port.Port(), dbName)

	return dbContainer.Terminate, connStr, nil
}

func TestMain(m *testing.M) {
	teardown, testDbString, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatalf("could not start postgres container for tests: %v", err)
	}

	originalDbString := os.Getenv("DB_STRING")
	if err := os.Setenv("DB_STRING", testDbString); err != nil {
		log.Fatalf("failed to set DB_STRING for tests: %v", err)
	}

	exitCode := m.Run()

	if originalDbString == "" {
		os.Unsetenv("DB_STRING")
	} else {
		if err := os.Setenv("DB_STRING", originalDbString); err != nil {
			log.Printf("warning: failed to restore original DB_STRING: %v", err)
		}
	}

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("warning: failed to terminate postgres container: %v", err)
		}
	}

	os.Exit(exitCode)
}

func TestNewDB(t *testing.T) {
	db, err := models.NewDB()
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	// Auto-migration must leave the core tables queryable.
	if _, err := models.Count[models.User](db.DB, "1 = 1"); err != nil {
		t.Errorf("users table not queryable: %v", err)
	}
	if _, err := models.Count[models.ChangeLog](db.DB, "1 = 1"); err != nil {
		t.Errorf("change_log table not queryable: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	db, err := models.NewDB()
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	srv := &Server{port: 8080, db: db, logger: zap.NewNop()}
	handler := srv.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d: %s", w.Code, w.Body.String())
	}
}
