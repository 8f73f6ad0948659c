package errors

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Category represents the area an error belongs to.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryUpload Category = "upload"
	CategoryLive   Category = "live"
	CategoryCLI    Category = "cli"
)

// Location points at a line in a file, usually a config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// LexError is a structured error with a registry code.
type LexError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Location is where the error occurred, if known.
	Location *Location

	// Context holds the lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LexError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LexError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a LexError with the same code.
func (e *LexError) Is(target error) bool {
	t, ok := target.(*LexError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithLocation records where the error occurred and loads the surrounding
// lines when the file is readable.
func (e *LexError) WithLocation(file string, line, column int) *LexError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LexError) WithSuggestion(s string) *LexError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the template explanation.
func (e *LexError) WithDetail(d string) *LexError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *LexError) Wrap(err error) *LexError {
	e.Wrapped = err
	return e
}

// readContextLines reads up to size lines centred on target.
func readContextLines(filename string, target, size int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	first := target - size/2
	last := target + size/2

	var lines []string
	scanner := bufio.NewScanner(file)
	for n := 1; scanner.Scan() && n <= last; n++ {
		if n >= first {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}

// New creates a LexError from a registered error code.
func New(code string) *LexError {
	template, ok := registry[code]
	if !ok {
		return &LexError{Code: code, Message: "Unknown error"}
	}
	return &LexError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates an uncoded LexError with a formatted message.
func Newf(category Category, format string, args ...any) *LexError {
	return &LexError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a LexError, wrapping it under code if it is not
// one already. A nil err yields nil.
func FromError(err error, code string) *LexError {
	if err == nil {
		return nil
	}
	var le *LexError
	if errors.As(err, &le) {
		return le
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first LexError in err's chain, or "".
func CodeOf(err error) string {
	var le *LexError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
