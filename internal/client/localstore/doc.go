// Package localstore keeps JSON-encoded lists and id sets in kv storage.
//
// A Collection is an ordered list of items with string ids, stored as one
// value under one kv.Key. Every mutation rewrites the whole list inside
// kv.Repository.Update, so the read-modify-write is atomic per key.
//
// Stored values that fail to decode are treated as empty; the next write
// replaces them.
package localstore
