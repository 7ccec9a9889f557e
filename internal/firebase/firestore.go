package firebase

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"saas-platform/backend/internal/logger"
)

type docStore interface {
	get(ctx context.Context, path string) (map[string]any, error)
	set(ctx context.Context, path string, data map[string]any) error
	close() error
}

type firestoreStore struct {
	c *firestore.Client
}

func (s firestoreStore) get(ctx context.Context, path string) (map[string]any, error) {
	ref := s.c.Doc(path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s firestoreStore) set(ctx context.Context, path string, data map[string]any) error {
	ref := s.c.Doc(path)
	if ref == nil {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	_, err := ref.Set(ctx, data, firestore.MergeAll)
	return err
}

func (s firestoreStore) close() error { return s.c.Close() }

// unavailableStore backs a Database whose client could not be built.
type unavailableStore struct{ err error }

func (s unavailableStore) get(context.Context, string) (map[string]any, error) {
	return nil, s.err
}

func (s unavailableStore) set(context.Context, string, map[string]any) error { return s.err }

func (unavailableStore) close() error { return nil }

type pendingWrite struct {
	path string
	data map[string]any
}

// Database is the document database handle. Its network can be switched off:
// reads then fail with ErrNetworkDisabled and writes are held as pending
// writes until the network is enabled again.
type Database struct {
	Client *firestore.Client

	store docStore
	log   *logger.Logger

	flushMu sync.Mutex
	mu      sync.Mutex
	online  bool
	closed  bool
	pending []pendingWrite
}

func NewDatabase(c *firestore.Client, log *logger.Logger) *Database {
	return newDatabase(firestoreStore{c: c}, c, log)
}

// UnavailableDatabase returns a handle whose reads and writes fail with
// ErrUnavailable wrapping cause. Network toggles still work, so writes made
// while disabled queue and then fail on flush.
func UnavailableDatabase(cause error, log *logger.Logger) *Database {
	return newDatabase(unavailableStore{err: fmt.Errorf("%w: %w", ErrUnavailable, cause)}, nil, log)
}

func newDatabase(store docStore, c *firestore.Client, log *logger.Logger) *Database {
	return &Database{
		Client: c,
		store:  store,
		log:    log.Component("database"),
		online: true,
	}
}

func (d *Database) NetworkEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.online
}

func (d *Database) PendingWrites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// DisableNetwork stops the handle from talking to the backend. Calling it
// while already disabled is a no-op.
func (d *Database) DisableNetwork(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.online = false
	return nil
}

// EnableNetwork flushes pending writes in order and then marks the network
// enabled. On the first failed write it stops and returns the error; that
// write and everything after it stay queued and the network stays disabled.
func (d *Database) EnableNetwork(ctx context.Context) error {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return ErrClosed
		}
		if len(d.pending) == 0 {
			d.online = true
			d.mu.Unlock()
			return nil
		}
		w := d.pending[0]
		d.mu.Unlock()

		if err := d.store.set(ctx, w.path, w.data); err != nil {
			return fmt.Errorf("flush pending write %s: %w", w.path, err)
		}

		d.mu.Lock()
		d.pending = d.pending[1:]
		d.mu.Unlock()
	}
}

func (d *Database) Get(ctx context.Context, path string) (map[string]any, error) {
	d.mu.Lock()
	switch {
	case d.closed:
		d.mu.Unlock()
		return nil, ErrClosed
	case !d.online:
		d.mu.Unlock()
		return nil, ErrNetworkDisabled
	}
	d.mu.Unlock()
	return d.store.get(ctx, path)
}

// Set merges data into the document at path. While the network is disabled
// the write is queued and queued reports true.
func (d *Database) Set(ctx context.Context, path string, data map[string]any) (queued bool, err error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false, ErrClosed
	}
	if !d.online {
		d.pending = append(d.pending, pendingWrite{path: path, data: data})
		n := len(d.pending)
		d.mu.Unlock()
		d.log.Debug().Str("path", path).Int("pending", n).Msg("write queued while offline")
		return true, nil
	}
	d.mu.Unlock()
	return false, d.store.set(ctx, path, data)
}

func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	if n := len(d.pending); n > 0 {
		d.log.Warn().Int("pending", n).Msg("closing database with unsent writes")
	}
	d.mu.Unlock()
	return d.store.close()
}
