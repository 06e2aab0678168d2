// Package store is the terminal client's durable key/value storage: the
// equivalent of a browser's localStorage. It lives in a single SQLite file
// (pure-Go modernc.org/sqlite driver) whose schema is managed by embedded
// goose migrations.
//
// Values are opaque byte slices. The session package keeps the credential
// and the signed-in user here under fixed keys.
package store
