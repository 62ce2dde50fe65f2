// Package services contains the application services of the WellSta
// client: session, posts, comments, profile images, friends and wellness
// journals.
//
// Every content mutation is split into two phases. The local phase
// rewrites the persisted collection and always completes before the call
// returns. The remote phase, for items whose authoritative copy lives on
// the server, is queued on a Syncer and runs in the background; its
// failure is logged and surfaced as a notice but never rolls back the
// local change. Items created on the device are never sent to the server.
//
// Services are constructed once and shared; none of them hold global
// state, so tests build isolated instances per test.
package services
