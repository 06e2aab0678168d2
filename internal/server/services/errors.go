package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/diarify/internal/common"
)

// Error is a failure whose message is safe to show to clients. It matches
// its Kind (one of the common sentinels) with errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return newError(common.ErrorValidation, format, args...)
}

// required checks fields in the given order and reports the first blank one.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return invalid("%s is required", f[0])
		}
	}
	return nil
}

// Column widths of the server schema.
const (
	maxUsername    = 50
	maxNickname    = 50
	maxEmail       = 255
	maxTitle       = 255
	maxFileName    = 255
	maxContentType = 100
)

type fieldLimit struct {
	field string
	value string
	max   int
}

// tooLong reports the first field with more runes than its limit allows.
func tooLong(limits ...fieldLimit) error {
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return invalid("%s must be at most %d characters", l.field, l.max)
		}
	}
	return nil
}
