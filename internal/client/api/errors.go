package api

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrSessionExpired = errors.New("session expired, please sign in again")
)
