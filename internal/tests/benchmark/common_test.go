package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/shardkv-go/internal/server/redisserver"
	"github.com/yndnr/shardkv-go/internal/storage/shard"
	"github.com/yndnr/shardkv-go/internal/telemetry/metric"
)

// ShardCounts are the store sizes compared by the benchmarks.
var ShardCounts = []int{1, 2, 4, 8}

// BatchSizes are the pipeline depths compared by the benchmarks.
var BatchSizes = []int{1, 16, 128, 1024}

// keyCount is the size of the preloaded key space.
const keyCount = 10000

var value = []byte("0123456789abcdef0123456789abcdef")

func key(i int) string {
	return fmt.Sprintf("key:%06d", i%keyCount)
}

// newStore creates a store and preloads keyCount keys.
func newStore(b *testing.B, shards int) *shard.Store {
	b.Helper()

	st := shard.New(shard.Config{ShardCount: shards})
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = st.Close(ctx)
	})

	batch := shard.NewBatch(redisserver.MaxBatchLen)
	for i := 0; i < keyCount; i++ {
		batch.Add(shard.OpSet, key(i), value)
		if batch.Len() == redisserver.MaxBatchLen || i == keyCount-1 {
			runBatch(b, st, batch)
			batch.Reset()
		}
	}
	return st
}

// runBatch dispatches batch and waits for it.
func runBatch(b *testing.B, st *shard.Store, batch *shard.Batch) {
	if err := batch.Dispatch(st); err != nil {
		b.Fatalf("dispatch: %v", err)
	}
	<-batch.Done()
	if err := batch.Err(); err != nil {
		b.Fatalf("batch: %v", err)
	}
}

// newServer starts a RESP server over a preloaded store.
func newServer(b *testing.B, shards int) string {
	b.Helper()

	st := newStore(b, shards)
	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, st, metric.NewRegistry(), nil)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("start server: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runMatrix runs benchFn for every shard count and batch size.
func runMatrix(b *testing.B, benchFn func(b *testing.B, shards, batchSize int)) {
	for _, shards := range ShardCounts {
		for _, size := range BatchSizes {
			b.Run(fmt.Sprintf("shards_%d/batch_%d", shards, size), func(b *testing.B) {
				benchFn(b, shards, size)
			})
		}
	}
}
