// Package cli provides the interactive GophFit command-line client.
//
// It wires configuration, the local database and mirror, the remote store,
// the AI generator, the startup reconciler and the mutation pipeline, and
// runs a REPL on top of them. Connectivity is watched in the background and
// the prompt shows whether the server is reachable.
//
// Key features:
//   - Sign up / log in, or continue as a guest with local-only data
//   - Onboarding, payment and resuming after the checkout redirect
//   - Body photo analysis, plan generation and per-day edits
//   - Weight and workout logs, food photos, form review and coach chat
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
