package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/esports-edge/internal/config"
)

// TestConfigEnv names the config file used for integration tests.
const TestConfigEnv = "ESPORTS_EDGE_TEST_CONFIG"

// SetupTestDB connects to the database described by $ESPORTS_EDGE_TEST_CONFIG
// and skips the test when it is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()
	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skip("Integration test - set " + TestConfigEnv + " to a config with a database section")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	return db
}

// TeardownTestDB empties the mirror table and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "TRUNCATE bet_candidates"); err != nil {
		t.Logf("warning: failed to truncate bet_candidates: %v", err)
	}
	db.Close()
}
