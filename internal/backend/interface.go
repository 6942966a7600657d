package backend

import (
	"context"

	"github.com/badalpradhan266/expense-tracker/internal/core"
)

// Repository is the set of operations every expense backend provides.
type Repository interface {
	Add(ctx context.Context, e core.Expense) (core.Expense, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f core.Filter) ([]core.Expense, error)
	Total(ctx context.Context, f core.Filter) (core.Money, error)
	Report(ctx context.Context, from, to core.Date) (core.Report, error)
	Categories(ctx context.Context) ([]string, error)
	Close() error
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the repository instance and optional cleanup function.
type Result struct {
	Repository Repository
	Cleanup    CleanupFunc
}

// Factory creates repositories based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// File backend
	DataFile string

	// SQLite backend
	SQLiteDBPath string
}

// BackendType represents the type of backend.
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
