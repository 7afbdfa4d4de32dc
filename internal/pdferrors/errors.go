// Package pdferrors defines the structured error kinds produced across the
// extraction pipeline, from lexing through layout analysis.
package pdferrors

import (
	"errors"
	"fmt"
)

// Kind categorises an Error so callers can branch on failure class without
// parsing messages.
type Kind int

const (
	// Io indicates the underlying byte source could not be read.
	Io Kind = iota
	// InvalidHeader indicates a missing or malformed %PDF- marker.
	InvalidHeader
	// InvalidXref indicates the cross-reference table or stream is
	// structurally broken beyond repair-mode recovery.
	InvalidXref
	// ObjectParseError indicates a scalar or aggregate object failed to
	// parse at its expected offset.
	ObjectParseError
	// UnexpectedToken indicates the lexer produced a token the parser
	// could not place in the current grammar position.
	UnexpectedToken
	// MissingObject indicates an indirect reference resolved to a free
	// xref entry or an offset outside the file.
	MissingObject
	// CircularReference indicates reference resolution revisited an
	// object already in progress on the same call stack.
	CircularReference
	// FilterError indicates a stream filter failed to decode its input.
	FilterError
	// FontError indicates a font dictionary was malformed, as distinct
	// from a mappable-but-unmapped character code (which never fails).
	FontError
	// PageOutOfRange indicates a requested page index >= page count.
	PageOutOfRange
	// PageRenderError indicates the content-stream interpreter failed
	// while executing a page's operators.
	PageRenderError
	// UnsupportedEncryption indicates the document has an /Encrypt
	// entry; encrypted documents are not supported.
	UnsupportedEncryption
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case InvalidHeader:
		return "InvalidHeader"
	case InvalidXref:
		return "InvalidXref"
	case ObjectParseError:
		return "ObjectParseError"
	case UnexpectedToken:
		return "UnexpectedToken"
	case MissingObject:
		return "MissingObject"
	case CircularReference:
		return "CircularReference"
	case FilterError:
		return "FilterError"
	case FontError:
		return "FontError"
	case PageOutOfRange:
		return "PageOutOfRange"
	case PageRenderError:
		return "PageRenderError"
	case UnsupportedEncryption:
		return "UnsupportedEncryption"
	default:
		return "Unknown"
	}
}

// Error is a structured failure value carrying a Kind, a human message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// Page is set by PageRenderError and PageOutOfRange to identify the
	// offending 0-based page index; -1 when not applicable.
	Page int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		if e.Page >= 0 {
			return fmt.Sprintf("%s: page %d: %s: %v", e.Kind, e.Page, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Page >= 0 {
		return fmt.Sprintf("%s: page %d: %s", e.Kind, e.Page, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, pdferrors.New(pdferrors.MissingObject, "", nil)) works
// without comparing messages.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return te.Kind == e.Kind
	}
	return false
}

// New constructs an Error of the given kind wrapping cause, if any.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Page: -1}
}

// NewPage constructs a page-scoped Error.
func NewPage(kind Kind, page int, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Page: page}
}

// Of returns a sentinel Error of the given Kind suitable for errors.Is
// comparisons, e.g. errors.Is(err, pdferrors.Of(pdferrors.MissingObject)).
func Of(kind Kind) *Error {
	return &Error{Kind: kind, Page: -1}
}
