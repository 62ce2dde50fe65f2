// Package client contains the client's view of the remote WellSta API and
// the bootstrap of its local database.
//
// # Overview
//
// The package provides:
//  1. The Client interface: auth, users, posts, saved posts and uploads.
//  2. HTTPClient, a REST/JSON implementation that attaches the bearer
//     token from a TokenSource, bounds each call with a timeout, never
//     retries, and reports in-flight requests through Activity.
//  3. InitDatabase and RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *StatusError, which unwraps to one of
// ErrUnauthorized, ErrNotFound, ErrBadRequest or ErrUnavailable. Transport
// failures and timeouts wrap ErrUnavailable. Callers match with errors.Is
// and decide whether to fall back to local state.
//
// # Uploads
//
// UploadImage and UploadVoiceNote delegate to a media.Store; the default
// media.InlineStore produces data: URLs that need no remote storage.
package client
