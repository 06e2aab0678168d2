// Package models holds the client-side view of the Diarify REST API: the
// response envelope, the domain entities returned in it and the request
// payloads sent by the terminal client.
package models
