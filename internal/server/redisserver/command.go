package redisserver

import (
	"bufio"
	"fmt"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

// ParseCommand turns a decoded request into a key-space command.
//
//	GET key        -> {OpGet, key, nil}
//	SET key value  -> {OpSet, key, value}
//
// Verbs are matched case-insensitively. Anything else, a wrong arity or an
// empty key fails with ErrUnknownCommand.
func ParseCommand(args [][]byte) (shard.Command, error) {
	if len(args) == 0 {
		return shard.Command{}, fmt.Errorf("%w: empty request", ErrUnknownCommand)
	}

	name := normalizeCommandName(args[0])
	switch name {
	case "GET":
		if len(args) != 2 {
			return shard.Command{}, arityError(name, len(args))
		}
	case "SET":
		if len(args) != 3 {
			return shard.Command{}, arityError(name, len(args))
		}
	default:
		return shard.Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, truncateArg(args[0]))
	}

	if len(args[1]) == 0 {
		return shard.Command{}, fmt.Errorf("%w: %s with empty key", ErrUnknownCommand, name)
	}

	if name == "GET" {
		return shard.Command{Op: shard.OpGet, Key: string(args[1])}, nil
	}
	return shard.Command{Op: shard.OpSet, Key: string(args[1]), Value: args[2]}, nil
}

func arityError(name string, argc int) error {
	return fmt.Errorf("%w: wrong number of arguments for %s: %d", ErrUnknownCommand, name, argc)
}

func truncateArg(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

// WriteReplies encodes one reply per command, in batch order. GET replies
// with the stored value or nil; SET echoes the value it wrote.
func WriteReplies(w *bufio.Writer, b *shard.Batch) error {
	for i := range b.Commands {
		if err := WriteBulk(w, b.Commands[i].Value); err != nil {
			return err
		}
	}
	return nil
}
