package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "amat", Key(" Amat. "))
	assert.Equal(t, "amat", Key("amat,"))
	assert.Equal(t, Key("Rex!"), Key("rex"))
}

func TestCache_HitSkipsFetch(t *testing.T) {
	c := New[string]("test")
	var calls int

	fetch := func(context.Context) (string, error) {
		calls++
		return "loves", nil
	}

	v, err := c.Do(context.Background(), "amat", fetch)
	require.NoError(t, err)
	assert.Equal(t, "loves", v)

	v, err = c.Do(context.Background(), "amat", fetch)
	require.NoError(t, err)
	assert.Equal(t, "loves", v)

	assert.Equal(t, 1, calls)
	assert.Equal(t, Stats{Entries: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestCache_FailureIsNotStored(t *testing.T) {
	c := New[string]("test")
	boom := errors.New("boom")

	_, err := c.Do(context.Background(), "rex", func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get("rex")
	assert.False(t, ok)
	assert.False(t, c.Pending("rex"))
	assert.Zero(t, c.Len())

	v, err := c.Do(context.Background(), "rex", func(context.Context) (string, error) {
		return "king", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "king", v)
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	c := New[int]("test")
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fetch := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Do(context.Background(), "k", fetch)
	}()
	<-started
	assert.True(t, c.Pending("k"))

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = c.Do(context.Background(), "k", fetch)
		}()
	}

	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Equal(t, 42, r)
	}
	assert.False(t, c.Pending("k"))
}

func TestCache_Put(t *testing.T) {
	c := New[string]("test")
	c.Put("amo", "I love")

	v, err := c.Do(context.Background(), "amo", func(context.Context) (string, error) {
		t.Fatal("fetch must not run on a hit")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "I love", v)
}
