package pbxproj

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of a descriptor error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindIO indicates a filesystem read or write failure.
	KindIO
	// KindParse indicates the descriptor could not be decoded.
	KindParse
	// KindSchema indicates the descriptor decoded but violates the expected object graph shape.
	KindSchema
	// KindNoTarget indicates a named target does not exist in the project.
	KindNoTarget
	// KindTargetExists indicates a target with the requested name already exists.
	KindTargetExists
	// KindUsage indicates the package API was called incorrectly.
	KindUsage
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindNoTarget:
		return "no-target"
	case KindTargetExists:
		return "target-exists"
	case KindUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error represents a structured error raised while reading or editing a descriptor.
type Error struct {
	// Op is the operation that failed (e.g., "pbxproj.AddSourceFile").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Path is the descriptor path, if known.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] %s: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
