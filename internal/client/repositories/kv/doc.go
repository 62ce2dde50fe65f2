// Package kv is the client's durable key/value storage, the equivalent of
// browser local storage.
//
// # Keys
//
// Keys are structured instead of concatenated strings: a Scope (session,
// device-wide or per-user), the owning user id, a Kind naming the data set, and an
// optional Item for data sets keyed further (comments are stored per post).
//
//	kv.SessionKey(kv.KindToken)
//	kv.UserKey(userID, kv.KindUsageElapsed)
//	kv.ItemKey(userID, kv.KindComments, postID)
//	kv.DeviceKey(kv.KindMoodEntries)
//
// # Cleanup
//
// Per-user and device keys survive logout so a returning user resumes their
// state. EvictUser removes per-user keys, optionally only some kinds; login
// uses it to drop cached images and usage time of the id it signs in as.
//
// # Concurrency
//
// Update runs a read-modify-write in one transaction. SQLite serializes
// writers, so concurrent updates of the same key within one process apply
// one after another. Separate processes sharing the file are not
// coordinated beyond that.
package kv
