package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Domain indicates which subsystem produced the error
type Domain string

const (
	DomainResource Domain = "resource" // handle registry
	DomainFile     Domain = "file"     // file streams
	DomainPath     Domain = "path"     // path normalization
	DomainWire     Domain = "wire"     // binary layout
	DomainThread   Domain = "thread"   // threads and sync primitives
	DomainProcess  Domain = "process"  // child process control
	DomainSystem   Domain = "system"   // system context, capabilities
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument  Kind = "invalid_argument"
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindCreationFailed   Kind = "creation_failed"
	KindAlreadyClosed    Kind = "already_closed"
	KindUnsupported      Kind = "unsupported"
)

// ErrTimedOut marks the non-error timeout outcome of a bounded wait.
// It is never produced by the constructors in this package; blocking
// operations report timeouts through their Outcome value instead. The
// sentinel exists so callers that funnel everything into an error value
// can still test for timeouts with errors.Is.
var ErrTimedOut = errors.New("timed out")

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Domain Domain
	Kind   Kind
	Op     string
	Path   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Domain))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}

	if e.Path != "" {
		b.WriteByte(' ')
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		if e.Op != "" || e.Path != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Domain == t.Domain && e.Kind == t.Kind
	}
	return false
}

// Message returns the short human-readable description without the
// domain/kind prefix. Diagnostics only; never machine-parsed.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(domain Domain, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Domain: domain,
			Kind:   kind,
		},
	}
}

// Op sets the failing operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Path sets the path or resource name involved
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an invalid argument error
func InvalidArgument(domain Domain, op, detail string) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindInvalidArgument,
		Op:     op,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(domain Domain, op, path string) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindNotFound,
		Op:     op,
		Path:   path,
	}
}

// PermissionDenied creates a permission error
func PermissionDenied(domain Domain, op, path string) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindPermissionDenied,
		Op:     op,
		Path:   path,
	}
}

// CreationFailed creates a resource creation failure error
func CreationFailed(domain Domain, op string, cause error) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindCreationFailed,
		Op:     op,
		Cause:  cause,
	}
}

// AlreadyClosed creates a double-destroy detection error
func AlreadyClosed(domain Domain, op string) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindAlreadyClosed,
		Op:     op,
		Detail: "handle already destroyed",
	}
}

// Unsupported creates an unsupported capability error
func Unsupported(domain Domain, what string) *Error {
	return &Error{
		Domain: domain,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(domain Domain, kind Kind, cause error, detail string) *Error {
	return &Error{
		Domain: domain,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// FromOS converts an operating system error into the library taxonomy.
// Returns nil if err is nil.
func FromOS(domain Domain, op, path string, err error) *Error {
	if err == nil {
		return nil
	}

	kind := KindCreationFailed
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	case errors.Is(err, fs.ErrInvalid):
		kind = KindInvalidArgument
	case errors.Is(err, fs.ErrClosed):
		kind = KindAlreadyClosed
	}

	return &Error{
		Domain: domain,
		Kind:   kind,
		Op:     op,
		Path:   path,
		Cause:  err,
	}
}
