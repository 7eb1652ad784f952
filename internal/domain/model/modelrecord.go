package model

import (
	"errors"
	"strings"
)

// MaxNameLength leaves room under the common 255-byte file name limit for
// the up-to-10-digit suffix of the temporary file used by atomic writes.
const MaxNameLength = 245

// ErrInvalidName indicates a record name that cannot be used as a file name.
var ErrInvalidName = errors.New("invalid model name")

// ModelRecord is a named counter. Name is the unique key and doubles as the
// storage file name. Date is set once at creation and never changes.
type ModelRecord struct {
	Name  string
	Value int64
	Date  Date
}

// ValidateName returns ErrInvalidName when name is empty, too long, one of
// the relative path elements "." and "..", or contains a path separator or
// NUL byte.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrInvalidName
	case len(name) > MaxNameLength:
		return ErrInvalidName
	case name == "." || name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, "/\\\x00"):
		return ErrInvalidName
	}
	return nil
}
