package tx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Manager scopes a read-modify-write cycle over shared state.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs fn without any exclusion; concurrent writers race and the
// last whole-document write wins.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

const defaultRetryDelay = 50 * time.Millisecond

// FileLockManager holds an advisory lock on a lock file for the duration of fn.
type FileLockManager struct {
	path       string
	retryDelay time.Duration
}

func NewFileLockManager(path string) *FileLockManager {
	return &FileLockManager{path: path, retryDelay: defaultRetryDelay}
}

func (m *FileLockManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(m.path)
	locked, err := lock.TryLockContext(ctx, m.retryDelay)
	if err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire state lock: %s is held", m.path)
	}
	defer func() { _ = lock.Unlock() }()
	return fn(ctx)
}
