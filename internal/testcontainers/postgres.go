// Package testcontainers starts throwaway PostgreSQL instances for
// integration tests. Docker must be available; tests using it are skipped
// with -short or when no container provider is reachable.
package testcontainers

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/deppfellow/employee-api/internal/config"
	"github.com/deppfellow/employee-api/internal/database"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultPostgresPort = "5432"
	defaultUser         = "test"
	defaultPassword     = "test"
	defaultDatabase     = "employees_test"

	startupTimeout = 60 * time.Second
)

// PostgresContainer is a running PostgreSQL container.
type PostgresContainer struct {
	testcontainers.Container
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// NewPostgresContainer starts postgres:latest and waits until it accepts
// connections.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:latest",
		ExposedPorts: []string{defaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     defaultUser,
			"POSTGRES_PASSWORD": defaultPassword,
			"POSTGRES_DB":       defaultDatabase,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForExposedPort(),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, defaultPostgresPort)
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	port, err := strconv.Atoi(mappedPort.Port())
	if err != nil {
		return nil, fmt.Errorf("failed to parse port: %w", err)
	}

	return &PostgresContainer{
		Container: container,
		Host:      host,
		Port:      port,
		User:      defaultUser,
		Password:  defaultPassword,
		Database:  defaultDatabase,
	}, nil
}

// Config returns the default application config pointed at this container.
func (c *PostgresContainer) Config() *config.Config {
	cfg := config.Default()
	cfg.Primary.Env = "test"
	cfg.Database.Host = c.Host
	cfg.Database.Port = c.Port
	cfg.Database.User = c.User
	cfg.Database.Password = c.Password
	cfg.Database.Name = c.Database
	cfg.Database.SSLMode = "disable"
	return cfg
}

// StartPostgres starts a migrated database for t and returns its config.
// The container is terminated when t finishes.
func StartPostgres(t *testing.T) *config.Config {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container, err := NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to initialize Postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate Postgres container: %v", err)
		}
	})

	cfg := container.Config()

	logger := zerolog.Nop()
	if err := database.Migrate(ctx, &logger, cfg); err != nil {
		t.Fatalf("Failed to migrate Postgres: %v", err)
	}

	return cfg
}

// NewDatabase starts a migrated database and connects the application pool
// to it. The returned config points at the container.
func NewDatabase(t *testing.T) (*config.Config, *database.Database) {
	t.Helper()

	cfg := StartPostgres(t)

	logger := zerolog.Nop()
	db, err := database.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("Failed to connect to Postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return cfg, db
}
