// Package integration exercises the lockbox service over the real SQLite
// backend, end to end.
package integration

import (
	"testing"

	"github.com/mesh-intelligence/lockbox/internal/sqlite"
	"github.com/mesh-intelligence/lockbox/pkg/lockbox"
	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// testClock is a settable clock shared by a test and its service.
type testClock struct {
	now int64
}

func (c *testClock) fn() int64 { return c.now }

// setupBackend attaches a SQLite backend to an isolated temp directory.
// Each test gets its own data directory for isolation.
func setupBackend(t *testing.T) (*sqlite.Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := sqlite.NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

// setupService builds an initialized service over a fresh SQLite backend.
func setupService(t *testing.T) (*lockbox.Service, *testClock, string) {
	t.Helper()
	b, dir := setupBackend(t)
	clock := &testClock{now: 1_700_000_000}
	svc := lockbox.New(b, lockbox.WithClock(clock.fn))
	if err := svc.Initialize("alice", []types.Principal{"g1", "g2", "g3"}, 2, 86400); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return svc, clock, dir
}
