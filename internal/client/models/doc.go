// Package models defines the client-side data model of WellSta: users and
// sessions, posts in their local and remote variants, comments, image
// references and the wellness journal/mood entries.
//
// JSON tags follow the remote API wire format (`_id`, `desc`, `likes`, ...),
// which is also the format persisted in local storage.
package models
