package glossary

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no term has the requested id
	ErrNotFound = errors.New("term not found")
	// ErrUnknownCategory is returned when an id is requested for a category without a prefix
	ErrUnknownCategory = errors.New("unknown category")
	// ErrIDSpaceExhausted is returned when the highest existing id has no successor
	ErrIDSpaceExhausted = errors.New("no free id")
	// ErrIncompleteTerm is returned when a new term lacks a required field
	ErrIncompleteTerm = errors.New("incomplete term")
)

// DefectSeparator joins validator messages in user-facing errors
const DefectSeparator = "; "

// DefectError carries the messages produced by Validate
type DefectError struct {
	Defects []string
}

func (e *DefectError) Error() string {
	return strings.Join(e.Defects, DefectSeparator)
}

// ParseError wraps a JSON syntax or shape failure
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
