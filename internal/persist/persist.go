// Package persist provides store.Persister implementations: SQLite (the
// default), PostgreSQL and JSON/YAML/TOML snapshot files.
package persist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/store"
)

// ErrUnsupportedFormat is returned for unknown backends or file formats.
var ErrUnsupportedFormat = errors.New("persist: unsupported format")

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendJSON     = "json"
	BackendYAML     = "yaml"
	BackendTOML     = "toml"
	BackendPostgres = "postgres"
)

// Backends lists every accepted backend name.
var Backends = []string{BackendSQLite, BackendJSON, BackendYAML, BackendTOML, BackendPostgres}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	PostgresURL string
	UserID      string
}

// Closer is a persister that holds resources.
type Closer interface {
	store.Persister
	Close() error
}

// Open builds the persister described by opts.
func Open(ctx context.Context, opts Options) (Closer, error) {
	userID := opts.UserID
	if userID == "" {
		userID = store.DefaultUserID
	}
	switch strings.ToLower(opts.Backend) {
	case "", BackendSQLite:
		return NewSQLite(opts.DataDir, userID)
	case BackendPostgres:
		if opts.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend requires storage.postgresURL")
		}
		return NewPostgres(ctx, opts.PostgresURL, userID)
	case BackendJSON, BackendYAML, BackendTOML:
		format := Format(strings.ToLower(opts.Backend))
		return NewFile(filepath.Join(opts.DataDir, SnapshotFileName(format)), format)
	default:
		return nil, fmt.Errorf("%w: backend %q", ErrUnsupportedFormat, opts.Backend)
	}
}
