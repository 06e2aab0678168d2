package models

import (
	"errors"
	"strings"
	"time"
)

var ErrFieldRequired = errors.New("field is required")

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return requireFields(map[string]string{
		"username": r.Username,
		"password": r.Password,
	})
}

// SignInResult is the data part of a successful sign-in.
type SignInResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type SignUpRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r SignUpRequest) Validate() error {
	return requireFields(map[string]string{
		"username": r.Username,
		"nickname": r.Nickname,
		"password": r.Password,
		"email":    r.Email,
	})
}

type SignUpResult struct {
	SignupID int64 `json:"signup_id"`
}

type ProfileResult struct {
	User User `json:"user"`
}

// requireFields returns ErrFieldRequired naming the first blank field in
// alphabetical order, so the message is stable.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	first := missing[0]
	for _, m := range missing[1:] {
		if m < first {
			first = m
		}
	}
	return &FieldError{Field: first}
}

// FieldError names a missing required field. It matches ErrFieldRequired.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + " is required"
}

func (e *FieldError) Is(target error) bool {
	return target == ErrFieldRequired
}
