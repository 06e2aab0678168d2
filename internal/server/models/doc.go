// Package models defines the rows the Diarify server persists and returns
// inside the data field of its JSON responses.
package models
