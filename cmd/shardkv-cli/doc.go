// Package main provides the entry point for shardkv-cli.
//
// Usage:
//
//	shardkv-cli get KEY
//	shardkv-cli set KEY VALUE
//	shardkv-cli pipe [FILE]
//	shardkv-cli admin stats -o json
//	shardkv-cli shell
package main
