// Package media turns uploaded bytes into image and voice-note references.
//
// InlineStore is the default: the reference is a data: URL carrying the
// payload, so it survives restarts without any remote storage. S3Store
// uploads to an S3-compatible bucket through a presigned PUT and returns
// the object key as a filename relative to the configured image base URL.
package media
