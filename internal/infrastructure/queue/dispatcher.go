package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Handler processes one job.
type Handler[T any] func(ctx context.Context, job T) error

// Dispatcher routes jobs to a fixed set of workers using consistent hashing on
// a job key, so jobs sharing a key run one at a time and in enqueue order.
type Dispatcher[T any] struct {
	workers []chan T
	key     func(T) string
	handle  Handler[T]
	log     zerolog.Logger

	wg     sync.WaitGroup
	failed atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher[T any](numWorkers int, key func(T) string, handle Handler[T], log zerolog.Logger) *Dispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher[T]{
		workers: make([]chan T, numWorkers),
		key:     key,
		handle:  handle,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan T, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Wait has drained their channel.
func (d *Dispatcher[T]) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its key.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher[T]) Enqueue(job T) {
	d.workers[d.shardIndex(d.key(job))] <- job
}

// Wait closes the queues, blocks until every worker has finished and returns
// the number of jobs whose handler failed. The dispatcher cannot be reused.
func (d *Dispatcher[T]) Wait() int {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
	return int(d.failed.Load())
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher[T]) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher[T]) runWorker(ctx context.Context, id int, ch <-chan T) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.handle(ctx, job); err != nil {
				d.failed.Add(1)
				d.log.Error().Err(err).
					Str("key", d.key(job)).
					Int("worker_id", id).
					Msg("job failed")
			}
		}
	}
}
