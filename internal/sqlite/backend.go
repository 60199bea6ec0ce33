package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lockbox/pkg/types"
)

// Database and audit file names inside DataDir.
const (
	dbFileName      = "lockbox.db"
	auditFileName   = "transfers.jsonl"
	dataDirFileMode = 0o755
)

// Compile-time interface checks.
var (
	_ types.Store      = (*Backend)(nil)
	_ types.Attachable = (*Backend)(nil)
)

// Backend implements types.Store on a SQLite database. The database file
// is the source of truth; the transfer journal is additionally mirrored to
// transfers.jsonl for external settlement tooling.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the database under config.DataDir and applies
// the schema. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, dataDirFileMode); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent; after Detach every operation
// returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// guard returns ErrStoreDetached unless the backend is attached.
// The caller must hold b.mu (read or write lock).
func (b *Backend) guard() error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	return nil
}

// auditPath returns the JSONL audit file path.
// The caller must hold b.mu.
func (b *Backend) auditPath() string {
	return filepath.Join(b.config.DataDir, auditFileName)
}
