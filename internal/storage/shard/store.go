// Package shard provides the partitioned key space for shardkv.
package shard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"
)

var (
	// ErrClosed is returned when work is enqueued on a closed store.
	ErrClosed = errors.New("shard: store closed")

	// ErrInvalidShard is returned for a shard index outside 0..N-1.
	ErrInvalidShard = errors.New("shard: invalid shard index")

	// ErrWorkPanicked is reported to an Aborter whose Execute panicked.
	ErrWorkPanicked = errors.New("shard: work item panicked")
)

// WorkItem is a unit of work executed by a shard's worker.
type WorkItem interface {
	Execute(sh *Shard)
}

// Aborter is implemented by work items that must be told when they will
// never finish (the worker recovered a panic from Execute).
type Aborter interface {
	Abort(err error)
}

// WorkFunc adapts a function to WorkItem.
type WorkFunc func(sh *Shard)

// Execute calls f(sh).
func (f WorkFunc) Execute(sh *Shard) {
	f(sh)
}

// Config holds the store configuration.
type Config struct {
	// ShardCount is the number of shards (0 = DefaultShardCount()).
	ShardCount int
	// Logger is used by the workers (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultShardCount returns half of the available CPUs, minimum 1.
func DefaultShardCount() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Index maps a key onto one of n shards.
//
// It is a pure function of the key, so every caller (the session routing a
// fresh batch and every worker testing ownership) agrees on the owner.
func Index(key string, n int) int {
	if n <= 1 {
		return 0
	}
	// Not murmur3.Sum32: its uintptr arithmetic fails checkptr under -race.
	h := murmur3.New32()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

// Store owns the shards and their workers.
type Store struct {
	shards []*Shard
	logger *slog.Logger

	closed atomic.Bool
	wg     sync.WaitGroup
}

// Shard is one partition of the key space.
type Shard struct {
	index int
	store *Store
	queue *queue

	// items is touched only by the worker goroutine.
	items map[string][]byte

	keys     atomic.Int64
	executed atomic.Uint64
}

// Stats is a point-in-time view of a shard.
type Stats struct {
	Index      int    `json:"index"`
	QueueDepth int    `json:"queue_depth"`
	Keys       int64  `json:"keys"`
	Executed   uint64 `json:"executed"`
}

// New creates the store and starts one worker per shard.
func New(cfg Config) *Store {
	n := cfg.ShardCount
	if n <= 0 {
		n = DefaultShardCount()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		shards: make([]*Shard, n),
		logger: logger,
	}

	for i := 0; i < n; i++ {
		s.shards[i] = &Shard{
			index: i,
			store: s,
			queue: newQueue(),
			items: make(map[string][]byte),
		}
	}

	s.wg.Add(n)
	for _, sh := range s.shards {
		go s.run(sh)
	}

	logger.Debug("shard store started", "shards", n)
	return s
}

// ShardCount returns the number of shards.
func (s *Store) ShardCount() int {
	return len(s.shards)
}

// ShardOf returns the index of the shard owning key.
func (s *Store) ShardOf(key string) int {
	return Index(key, len(s.shards))
}

// Enqueue appends item to the queue of shard index. It never blocks.
func (s *Store) Enqueue(item WorkItem, index int) error {
	if index < 0 || index >= len(s.shards) {
		return fmt.Errorf("%w: %d (shards: %d)", ErrInvalidShard, index, len(s.shards))
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if !s.shards[index].queue.push(item) {
		return ErrClosed
	}
	return nil
}

// Stats returns per-shard statistics. It never touches the shard maps.
func (s *Store) Stats() []Stats {
	out := make([]Stats, len(s.shards))
	for i, sh := range s.shards {
		out[i] = Stats{
			Index:      sh.index,
			QueueDepth: sh.queue.len(),
			Keys:       sh.keys.Load(),
			Executed:   sh.executed.Load(),
		}
	}
	return out
}

// Close stops accepting work and waits for the workers to drain their
// queues. Items forwarded between shards after Close are rejected with
// ErrClosed.
func (s *Store) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, sh := range s.shards {
		sh.queue.close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Debug("shard store stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) run(sh *Shard) {
	defer s.wg.Done()
	for {
		item, ok := sh.queue.pop()
		if !ok {
			return
		}
		sh.execute(item)
	}
}

// Index returns the shard index.
func (sh *Shard) Index() int {
	return sh.index
}

// Owns reports whether key belongs to this shard.
func (sh *Shard) Owns(key string) bool {
	return sh.store.ShardOf(key) == sh.index
}

// Get reads a key. Worker only.
func (sh *Shard) Get(key string) ([]byte, bool) {
	v, ok := sh.items[key]
	return v, ok
}

// Set writes a key, replacing any previous value. Worker only.
func (sh *Shard) Set(key string, value []byte) {
	if _, ok := sh.items[key]; !ok {
		sh.keys.Add(1)
	}
	sh.items[key] = value
}

// Forward hands item to another shard's queue.
func (sh *Shard) Forward(item WorkItem, index int) error {
	return sh.store.Enqueue(item, index)
}

func (sh *Shard) execute(item WorkItem) {
	defer func() {
		if r := recover(); r != nil {
			sh.store.logger.Error("work item panicked", "shard", sh.index, "panic", r)
			if a, ok := item.(Aborter); ok {
				a.Abort(fmt.Errorf("%w: %v", ErrWorkPanicked, r))
			}
		}
		sh.executed.Add(1)
	}()
	item.Execute(sh)
}
