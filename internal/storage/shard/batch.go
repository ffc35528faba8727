package shard

import "errors"

// ErrEmptyBatch is returned when dispatching a batch with no commands.
var ErrEmptyBatch = errors.New("shard: empty batch")

// Op is a key-space operation.
type Op uint8

const (
	// OpGet reads a key.
	OpGet Op = iota
	// OpSet writes a key.
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "GET"
	case OpSet:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// Command is one decoded request inside a batch.
//
// For OpSet, Value holds the value to write. For OpGet, Value is nil until
// the owning shard resolves it, and stays nil on a miss.
type Command struct {
	Op    Op
	Key   string
	Value []byte

	// completed is written only by the worker owning Key.
	completed bool
}

// Completed reports whether the owning shard has executed the command.
func (c *Command) Completed() bool {
	return c.completed
}

// Batch is the ordered set of commands from one pipelined burst.
//
// A dispatched batch travels from shard to shard as a single work item. The
// worker holding it owns it exclusively; the queue handoff orders memory
// between consecutive holders and the Done channel orders it for the
// session.
type Batch struct {
	Commands []Command

	visited []int
	err     error
	done    chan struct{}
}

// NewBatch creates an empty batch with room for capacity commands.
func NewBatch(capacity int) *Batch {
	return &Batch{
		Commands: make([]Command, 0, capacity),
		done:     make(chan struct{}, 1),
	}
}

// Add appends a command.
func (b *Batch) Add(op Op, key string, value []byte) {
	if op == OpSet && value == nil {
		value = []byte{}
	}
	if op == OpGet {
		value = nil
	}
	b.Commands = append(b.Commands, Command{Op: op, Key: key, Value: value})
}

// Len returns the number of commands.
func (b *Batch) Len() int {
	return len(b.Commands)
}

// Reset clears the batch for reuse, keeping its capacity.
func (b *Batch) Reset() {
	clear(b.Commands)
	b.Commands = b.Commands[:0]
	b.visited = b.visited[:0]
	b.err = nil
}

// Dispatch hands the batch to the shard owning its first command.
func (b *Batch) Dispatch(s *Store) error {
	if len(b.Commands) == 0 {
		return ErrEmptyBatch
	}
	return s.Enqueue(b, s.ShardOf(b.Commands[0].Key))
}

// Done is signalled once every command is completed or the batch failed.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Err returns the failure that ended the batch, if any. Valid after Done.
func (b *Batch) Err() error {
	return b.err
}

// Visited returns the shard indexes that executed the batch, in order.
// Valid after Done.
func (b *Batch) Visited() []int {
	return b.visited
}

// Hops returns the number of shard-to-shard forwards. Valid after Done.
func (b *Batch) Hops() int {
	if len(b.visited) == 0 {
		return 0
	}
	return len(b.visited) - 1
}

// Execute runs every command the shard owns, in batch order, then forwards
// the batch to the shard of the first unresolved command or signals Done.
//
// Each visit resolves everything a shard owns, so a batch touching m
// distinct shards is executed by at most m workers.
func (b *Batch) Execute(sh *Shard) {
	b.visited = append(b.visited, sh.index)

	next := -1
	for i := range b.Commands {
		cmd := &b.Commands[i]
		if cmd.completed {
			continue
		}

		owner := sh.store.ShardOf(cmd.Key)
		if owner != sh.index {
			if next < 0 {
				next = owner
			}
			continue
		}

		cmd.completed = true
		switch cmd.Op {
		case OpSet:
			sh.Set(cmd.Key, cmd.Value)
		default:
			cmd.Value, _ = sh.Get(cmd.Key)
		}
	}

	if next >= 0 {
		if err := sh.Forward(b, next); err != nil {
			b.finish(err)
		}
		return
	}
	b.finish(nil)
}

// Abort ends the batch with err.
func (b *Batch) Abort(err error) {
	b.finish(err)
}

func (b *Batch) finish(err error) {
	b.err = err
	select {
	case b.done <- struct{}{}:
	default:
	}
}
