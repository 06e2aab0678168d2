// Package cli provides the interactive Diarify terminal client.
//
// It wires configuration, the local store, the session, the authenticated
// API client and a router of views behind a REPL. Commands navigate to
// routes; the router renders them, sending the user to sign-in when a
// protected route is reached without a live session or when the server
// reports the session as expired.
//
// Routes:
//
//	/auth/signin, /auth/signup       public
//	/?title=..&category_id=..        diary list (protected)
//	/diaries/new, /diaries/{id}      write, detail (protected)
//	/categories[...]                 category management (protected)
//
// A background watcher probes the server's health endpoint and shows
// online/offline in the prompt. The REPL is started via App.Run.
package cli
