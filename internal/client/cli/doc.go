// Package cli implements the interactive docuchat client: a REPL over
// the auth, chat, and upload services. Rendering is plain text; all state
// lives in the services and is re-read from their snapshots on every
// prompt.
package cli
