// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package testinfra starts throwaway databases for integration tests using
// testcontainers-go. Everything here is behind the "integration" build tag:
//
//	go test -tags integration ./internal/postgres/...
//
// # Postgres Container
//
// PostgresContainer runs a throwaway shop database seeded with SQL:
//
//	func TestLoadPurchases(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx,
//	        testinfra.WithSeedSQL(schemaSQL, fixturesSQL),
//	    )
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, pg) })
//
//	    src, err := postgres.New(ctx, &config.SourceConfig{
//	        Driver:   config.DriverPostgres,
//	        Schema:   "final",
//	        Postgres: config.PostgresConfig{DSN: pg.DSN},
//	    })
//	    // ...
//	}
//
// Without a reachable Docker daemon the tests are skipped, not failed.
// The first run pulls the postgres image.
package testinfra
