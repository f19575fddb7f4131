package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/plantrent/plantrent/internal/migrations"
	"github.com/plantrent/plantrent/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 424242

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
// The lock lives on a dedicated connection that unlock closes.
func AcquireDBLock(ctx context.Context, databaseURL string) (func() error, error) {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Close(ctx)
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema rolls every migration back and applies them again.
func ResetSchema(ctx context.Context, databaseURL string) error {
	db, err := migrations.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Reset(ctx, db); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// UniqueName returns a name that will not collide with other test rows.
func UniqueName(prefix string) string {
	return prefix + "-" + strings.ToLower(ulid.Make().String())
}

// NewTestPlant creates a test plant with sensible defaults.
func NewTestPlant(t testing.TB, name string) *model.Plant {
	t.Helper()
	return &model.Plant{
		Name:        name,
		Description: "A hardy plant for " + name,
		Quantity:    5,
		Price:       12.50,
	}
}

// NewTestRenter creates a test renter with sensible defaults.
func NewTestRenter(t testing.TB, name string) *model.Renter {
	t.Helper()
	return &model.Renter{
		Name:    name,
		Address: "1 Greenhouse Lane",
		City:    "Portland",
		State:   "OR",
	}
}
