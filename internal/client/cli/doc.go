// Package cli provides the interactive WellSta command-line client.
//
// App wires configuration, local storage, the remote API client and every
// service once, then runs a REPL over them. A usage tracker follows the
// current user; once the daily limit is reached the REPL refuses commands
// until the user types "continue".
//
// Key features:
//   - Register / Login (with a local identity when the API is down) / Logout
//   - Feed: post, like, save, edit, delete, comment
//   - People: list, follow, unfollow; profile and cover images
//   - Wellness: mood check-ins, journaling, paced breathing
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
