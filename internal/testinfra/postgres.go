// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the image used for the shop database.
	DefaultPostgresImage = "postgres:16-alpine"

	// DefaultPostgresPort is the server port inside the container.
	DefaultPostgresPort = "5432"

	postgresUser     = "shop"
	postgresPassword = "shop"
	postgresDatabase = "shop"
)

// PostgresContainer is a running Postgres server seeded for tests.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// PostgresOption configures the Postgres container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	seedSQL      []string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom Postgres Docker image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithSeedSQL adds SQL executed once by the image's init scripts, in the
// order given.
func WithSeedSQL(statements ...string) PostgresOption {
	return func(c *postgresConfig) {
		c.seedSQL = append(c.seedSQL, statements...)
	}
}

// WithStartTimeout sets how long to wait for the server to accept
// connections.
func WithStartTimeout(timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgresContainer creates and starts a Postgres container.
//
// Example:
//
//	pg, err := testinfra.NewPostgresContainer(ctx,
//	    testinfra.WithSeedSQL(`CREATE SCHEMA final`),
//	)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, pg) })
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
			"TZ":                "UTC",
		},
		// The entrypoint restarts the server once after running init
		// scripts, so the ready line appears twice.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	if len(cfg.seedSQL) > 0 {
		seed := strings.Join(cfg.seedSQL, ";\n") + ";\n"
		req.Files = append(req.Files, testcontainers.ContainerFile{
			Reader:            strings.NewReader(seed),
			ContainerFilePath: "/docker-entrypoint-initdb.d/10-seed.sql",
			FileMode:          0o644,
		})
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDatabase),
	}, nil
}
