package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type job struct {
	key string
	seq int
}

func TestDispatcher_PreservesPerKeyOrder(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string][]int{}
	)
	d := NewDispatcher(4, func(j job) string { return j.key }, func(_ context.Context, j job) error {
		mu.Lock()
		defer mu.Unlock()
		seen[j.key] = append(seen[j.key], j.seq)
		return nil
	}, zerolog.Nop())
	d.Start(context.Background())

	for seq := 0; seq < 50; seq++ {
		for k := 0; k < 10; k++ {
			d.Enqueue(job{key: fmt.Sprintf("place-%d", k), seq: seq})
		}
	}
	require.Equal(t, 0, d.Wait())

	require.Len(t, seen, 10)
	for key, seqs := range seen {
		require.Len(t, seqs, 50, key)
		for i, s := range seqs {
			assert.Equal(t, i, s, "out of order for %s", key)
		}
	}
}

func TestDispatcher_CountsFailures(t *testing.T) {
	d := NewDispatcher(0, func(j job) string { return j.key }, func(_ context.Context, j job) error {
		if j.seq%2 == 1 {
			return errors.New("boom")
		}
		return nil
	}, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 10; i++ {
		d.Enqueue(job{key: "k", seq: i})
	}
	assert.Equal(t, 5, d.Wait())
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, func(j job) string { return j.key }, nil, zerolog.Nop())
	for _, key := range []string{"", "a", "place-42", "ffffffff-ffff"} {
		idx := d.shardIndex(key)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
		assert.Equal(t, idx, d.shardIndex(key))
	}
}
