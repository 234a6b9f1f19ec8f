// Package dataloader collapses the person lookups issued during one request
// window into a single batched repository call.
//
// A PersonLoader instance *is* the window: concurrent callers register their
// keys, block until the batch resolves, and then read their slice of the
// shared result. Results are cached per key for the lifetime of the loader,
// so repeated lookups of the same email never re-hit storage.
package dataloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatgraph/internal/server/models"
)

// PersonFetchFn resolves the distinct key set in one repository call. The
// returned slice must align positionally with emails, with nil at positions
// whose email matched no person.
type PersonFetchFn func(ctx context.Context, emails []string) ([]*models.Person, error)

// PersonLoaderConfig configures a PersonLoader.
type PersonLoaderConfig struct {
	// Fetch performs the batched lookup.
	Fetch PersonFetchFn

	// Wait is how long the collector keeps the window open for more keys
	// before dispatching. Defaults to 2ms.
	Wait time.Duration

	// MaxBatch caps the number of distinct keys per dispatch. 0 means no cap.
	MaxBatch int
}

// NewPersonLoader creates a loader for one request window.
func NewPersonLoader(cfg PersonLoaderConfig) *PersonLoader {
	wait := cfg.Wait
	if wait == 0 {
		wait = 2 * time.Millisecond
	}
	return &PersonLoader{
		fetch:    cfg.Fetch,
		wait:     wait,
		maxBatch: cfg.MaxBatch,
		cache:    map[string]*personThunk{},
	}
}

// PersonLoader batches and caches person-by-email lookups.
type PersonLoader struct {
	fetch    PersonFetchFn
	wait     time.Duration
	maxBatch int

	mu    sync.Mutex
	cache map[string]*personThunk
	batch *personBatch
}

// personBatch collects the distinct keys of one dispatch. done is closed
// after fetch resolves; results/err must not be read before that.
type personBatch struct {
	keys    []string
	done    chan struct{}
	results []*models.Person
	err     error
	closing bool
}

// personThunk is a pending result: a position inside a batch.
type personThunk struct {
	batch *personBatch
	pos   int
}

func (t *personThunk) get(ctx context.Context) (*models.Person, error) {
	select {
	case <-t.batch.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if t.batch.err != nil {
		return nil, t.batch.err
	}
	return t.batch.results[t.pos], nil
}

// Load resolves a single person by email, batched with every other lookup in
// the same window. A missing person resolves to nil, not an error.
func (l *PersonLoader) Load(ctx context.Context, email string) (*models.Person, error) {
	return l.loadThunk(ctx, email).get(ctx)
}

// LoadAll resolves many emails at once, preserving the input order including
// duplicates. Positions whose email matched no person hold nil.
func (l *PersonLoader) LoadAll(ctx context.Context, emails []string) ([]*models.Person, error) {
	thunks := make([]*personThunk, len(emails))
	for i, email := range emails {
		thunks[i] = l.loadThunk(ctx, email)
	}

	persons := make([]*models.Person, len(emails))
	for i, t := range thunks {
		p, err := t.get(ctx)
		if err != nil {
			return nil, err
		}
		persons[i] = p
	}
	return persons, nil
}

// loadThunk registers the key in the current window, opening a new batch if
// none is collecting. Repeated keys share the cached thunk.
func (l *PersonLoader) loadThunk(ctx context.Context, email string) *personThunk {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.cache[email]; ok {
		return t
	}

	if l.batch == nil {
		b := &personBatch{done: make(chan struct{})}
		l.batch = b
		go l.dispatchAfterWait(ctx, b)
	}

	b := l.batch
	t := &personThunk{batch: b, pos: len(b.keys)}
	b.keys = append(b.keys, email)
	l.cache[email] = t

	if l.maxBatch != 0 && len(b.keys) >= l.maxBatch {
		l.closeBatchLocked(b)
		go l.dispatch(ctx, b)
	}

	return t
}

func (l *PersonLoader) dispatchAfterWait(ctx context.Context, b *personBatch) {
	time.Sleep(l.wait)

	l.mu.Lock()
	if b.closing {
		// already dispatched by the MaxBatch path
		l.mu.Unlock()
		return
	}
	l.closeBatchLocked(b)
	l.mu.Unlock()

	l.dispatch(ctx, b)
}

// closeBatchLocked detaches the batch so later lookups open a fresh one.
func (l *PersonLoader) closeBatchLocked(b *personBatch) {
	b.closing = true
	if l.batch == b {
		l.batch = nil
	}
}

func (l *PersonLoader) dispatch(ctx context.Context, b *personBatch) {
	defer close(b.done)

	results, err := l.fetch(ctx, b.keys)
	if err == nil && len(results) != len(b.keys) {
		err = fmt.Errorf("dataloader: fetch returned %d results for %d keys", len(results), len(b.keys))
	}
	b.results, b.err = results, err
}
