// Package errors provides standardized error types and helpers for the
// BibleVersionCodes codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidCode indicates a version code failed syntax validation
	ErrInvalidCode = errors.New("invalid version code")
	// ErrNotFound indicates a code was not found in the registry
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a code collides with an already registered one
	ErrDuplicate = errors.New("duplicate code")
)

// WhitespaceError reports a candidate code containing whitespace.
type WhitespaceError struct {
	Code string // Candidate as supplied by the caller
}

func (e *WhitespaceError) Error() string {
	return fmt.Sprintf("version code %q contains whitespace", e.Code)
}

func (e *WhitespaceError) Unwrap() error {
	return ErrInvalidCode
}

// LengthError reports a base code outside the 2-8 character range.
type LengthError struct {
	Code   string // Candidate as supplied by the caller
	Base   string // Base segment that failed
	Length int    // Length of the base segment in characters
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("version code %q: base %q is %d characters, must be 2-8", e.Code, e.Base, e.Length)
}

func (e *LengthError) Unwrap() error {
	return ErrInvalidCode
}

// CharsetError reports a base code containing something other than letters.
type CharsetError struct {
	Code    string // Candidate as supplied by the caller
	Message string // What was found instead of a letter
}

func (e *CharsetError) Error() string {
	return fmt.Sprintf("version code %q: %s", e.Code, e.Message)
}

func (e *CharsetError) Unwrap() error {
	return ErrInvalidCode
}

// YearFormatError reports a year suffix that is not exactly four digits.
type YearFormatError struct {
	Code string // Candidate as supplied by the caller
	Year string // Year segment that failed
}

func (e *YearFormatError) Error() string {
	return fmt.Sprintf("version code %q: year %q must be exactly four digits", e.Code, e.Year)
}

func (e *YearFormatError) Unwrap() error {
	return ErrInvalidCode
}

// EditionError reports an empty edition suffix after the '!' separator.
type EditionError struct {
	Code string // Candidate as supplied by the caller
}

func (e *EditionError) Error() string {
	return fmt.Sprintf("version code %q: edition suffix must not be empty", e.Code)
}

func (e *EditionError) Unwrap() error {
	return ErrInvalidCode
}

// DuplicateCodeError reports a case-insensitive collision between codes.
type DuplicateCodeError struct {
	Code         string // Code being registered
	CanonicalKey string // Uppercase key both codes normalize to
	Existing     string // Code already holding the key
}

func (e *DuplicateCodeError) Error() string {
	if e.Existing != "" && e.Existing != e.Code {
		return fmt.Sprintf("code %q collides with registered %q (canonical key %s)", e.Code, e.Existing, e.CanonicalKey)
	}
	return fmt.Sprintf("code %q already registered (canonical key %s)", e.Code, e.CanonicalKey)
}

func (e *DuplicateCodeError) Unwrap() error {
	return ErrDuplicate
}

// NotFoundError reports a registry lookup miss.
type NotFoundError struct {
	Code string // Code that was looked up
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("version code not found: %s", e.Code)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ParseError represents a dataset parsing or deserialization error.
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "JSON")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an I/O operation error with context.
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewWhitespace creates a WhitespaceError
func NewWhitespace(code string) *WhitespaceError {
	return &WhitespaceError{Code: code}
}

// NewLength creates a LengthError
func NewLength(code, base string, length int) *LengthError {
	return &LengthError{Code: code, Base: base, Length: length}
}

// NewCharset creates a CharsetError
func NewCharset(code, message string) *CharsetError {
	return &CharsetError{Code: code, Message: message}
}

// NewYearFormat creates a YearFormatError
func NewYearFormat(code, year string) *YearFormatError {
	return &YearFormatError{Code: code, Year: year}
}

// NewEdition creates an EditionError
func NewEdition(code string) *EditionError {
	return &EditionError{Code: code}
}

// NewDuplicate creates a DuplicateCodeError
func NewDuplicate(code, canonicalKey, existing string) *DuplicateCodeError {
	return &DuplicateCodeError{Code: code, CanonicalKey: canonicalKey, Existing: existing}
}

// NewNotFound creates a NotFoundError
func NewNotFound(code string) *NotFoundError {
	return &NotFoundError{Code: code}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
