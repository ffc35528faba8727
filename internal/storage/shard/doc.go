// Package shard provides the partitioned key space for shardkv.
//
// The key space is split into a fixed number of shards. Each shard owns a
// plain map and a FIFO work queue, and exactly one goroutine (the shard's
// worker) ever touches the map:
//
//   - store.go: Store construction, shard selection, worker loop
//   - queue.go: Unbounded FIFO queue, the only cross-goroutine handoff
//   - batch.go: Pipelined command batches and the hop-by-hop router
//
// Usage:
//
//	st := shard.New(shard.Config{ShardCount: 4})
//	defer st.Close(ctx)
//
//	b := shard.NewBatch(8)
//	b.Add(shard.OpSet, "k", []byte("v"))
//	b.Add(shard.OpGet, "k", nil)
//	if err := b.Dispatch(st); err != nil { ... }
//	<-b.Done()
//
// Thread Safety:
//
// Enqueue and Stats are safe for concurrent use. Shard methods that read or
// write the map (Get, Set) must only be called from that shard's worker,
// which is where WorkItem.Execute runs.
package shard
