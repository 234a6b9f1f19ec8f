package dataloader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatgraph/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetch records every batch it receives and serves persons from a
// fixed set, returning nil at positions whose email has no match.
type countingFetch struct {
	mu      sync.Mutex
	batches [][]string
	known   map[string]*models.Person
	err     error
}

func (f *countingFetch) fetch(ctx context.Context, emails []string) ([]*models.Person, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), emails...))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	result := make([]*models.Person, len(emails))
	for i, email := range emails {
		result[i] = f.known[email]
	}
	return result, nil
}

func newTestLoader(f *countingFetch) *PersonLoader {
	return NewPersonLoader(PersonLoaderConfig{Fetch: f.fetch, Wait: time.Millisecond})
}

func TestLoadAll_PositionalWithDuplicatesAndMisses(t *testing.T) {
	px := &models.Person{ID: "1", Email: "x"}
	pz := &models.Person{ID: "3", Email: "z"}
	f := &countingFetch{known: map[string]*models.Person{"x": px, "z": pz}}
	l := newTestLoader(f)

	got, err := l.LoadAll(context.Background(), []string{"x", "y", "x", "z"})
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Same(t, px, got[0])
	assert.Nil(t, got[1])
	assert.Same(t, px, got[2])
	assert.Same(t, pz, got[3])

	// one repository call, distinct keys only
	require.Len(t, f.batches, 1)
	assert.Equal(t, []string{"x", "y", "z"}, f.batches[0])
}

func TestLoad_ConcurrentCallersShareOneBatch(t *testing.T) {
	f := &countingFetch{known: map[string]*models.Person{
		"a": {ID: "1", Email: "a"},
		"b": {ID: "2", Email: "b"},
		"c": {ID: "3", Email: "c"},
	}}
	l := newTestLoader(f)

	var wg sync.WaitGroup
	for _, email := range []string{"a", "b", "c", "a", "b"} {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			p, err := l.Load(context.Background(), email)
			assert.NoError(t, err)
			assert.NotNil(t, p)
			assert.Equal(t, email, p.Email)
		}(email)
	}
	wg.Wait()

	require.Len(t, f.batches, 1)
	assert.Len(t, f.batches[0], 3)
}

func TestLoad_CachedAfterWindowDispatch(t *testing.T) {
	f := &countingFetch{known: map[string]*models.Person{"a": {ID: "1", Email: "a"}}}
	l := newTestLoader(f)

	first, err := l.Load(context.Background(), "a")
	require.NoError(t, err)

	second, err := l.Load(context.Background(), "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, f.batches, 1, "cached key must not re-hit storage")
}

func TestLoad_MaxBatchDispatchesEarly(t *testing.T) {
	f := &countingFetch{known: map[string]*models.Person{}}
	l := NewPersonLoader(PersonLoaderConfig{Fetch: f.fetch, Wait: time.Hour, MaxBatch: 2})

	got, err := l.LoadAll(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])

	require.Len(t, f.batches, 1)
	assert.Equal(t, []string{"a", "b"}, f.batches[0])
}

func TestLoad_FetchErrorReachesEveryCaller(t *testing.T) {
	boom := errors.New("boom")
	f := &countingFetch{err: boom}
	l := newTestLoader(f)

	_, err1 := l.LoadAll(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err1, boom)

	_, err2 := l.Load(context.Background(), "a")
	assert.ErrorIs(t, err2, boom)
}

func TestLoad_ShortFetchResultIsAnError(t *testing.T) {
	l := NewPersonLoader(PersonLoaderConfig{
		Wait: time.Millisecond,
		Fetch: func(ctx context.Context, emails []string) ([]*models.Person, error) {
			return nil, nil
		},
	})

	_, err := l.Load(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 results for 1 keys")
}

func TestLoad_CancelledContextUnblocksCaller(t *testing.T) {
	release := make(chan struct{})
	l := NewPersonLoader(PersonLoaderConfig{
		Wait: time.Millisecond,
		Fetch: func(ctx context.Context, emails []string) ([]*models.Person, error) {
			<-release
			return make([]*models.Person, len(emails)), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Load(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}
