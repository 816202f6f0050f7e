//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestBasketWithMySQL tests the basket CLI with a MySQL backend.
func TestBasketWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "basket",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/basket", host, port.Port())
	runTrackingScenario(t, []string{
		"BASKET_ANALYSIS_BACKEND=mysql",
		"BASKET_ANALYSIS_DB_CONNECT=" + connStr,
	})
}

// TestBasketWithPostgres tests the basket CLI with a PostgreSQL backend.
func TestBasketWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runTrackingScenario(t, []string{
		"BASKET_ANALYSIS_BACKEND=postgresql",
		"BASKET_ANALYSIS_DB_CONNECT=" + connStr,
	})
}

// TestBasketWithSQLite runs the same scenario against a temporary SQLite file.
func TestBasketWithSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	runTrackingScenario(t, []string{
		"BASKET_ANALYSIS_BACKEND=sqlite",
		"BASKET_ANALYSIS_DB_CONNECT=" + dbPath,
	})
}

// runTrackingScenario clears, migrates, analyzes twice, then checks status and export.
func runTrackingScenario(t *testing.T, env []string) {
	t.Helper()

	_, err := runBasketCommand(t, env, "analysis", "clear")
	require.NoError(t, err)

	_, err = runBasketCommand(t, env, "analysis", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runBasketCommand(t, env, "analyze", "testdata/sales.csv", "--output", "json")
		require.NoError(t, err)
	}

	out, err := runBasketCommand(t, env, "analysis", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Total Records Analyzed: 20")

	prefix := filepath.Join(t.TempDir(), "export")
	_, err = runBasketCommand(t, env, "analysis", "export", "--output-file", prefix)
	require.NoError(t, err)
	for _, suffix := range []string{".analysis_runs.parquet", ".combinations.parquet"} {
		_, err := os.Stat(prefix + suffix)
		assert.NoError(t, err)
	}
}
