// Package cerr defines the compositor's error-kind taxonomy.
//
// Every exported operation that can fail returns a plain Go error;
// callers that sit at the dispatch boundary use Kind to decide how to
// translate a failure into a wire error event instead of sniffing
// error strings.
package cerr

import "fmt"

// Kind classifies a compositor-level failure.
type Kind int

const (
	// NotFound means a lookup of an unknown (client, id) pair failed.
	NotFound Kind = iota
	// InvalidArgument means a request carried a malformed value: a
	// zero size, an out-of-bounds offset, an unknown enum value.
	InvalidArgument
	// ResourceExhausted means an allocation, mapping, or texture
	// creation failed.
	ResourceExhausted
	// StateConflict means a request was incompatible with the
	// current state (e.g. a resize request while already moving);
	// it is silently ignored rather than surfaced to the client.
	StateConflict
	// Disconnect means a client's transport connection was lost.
	Disconnect
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidArgument:
		return "invalid_argument"
	case ResourceExhausted:
		return "resource_exhausted"
	case StateConflict:
		return "state_conflict"
	case Disconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Error is the error value returned by operations that can be
// attributed to a single wire object. ObjectID is 0 when the failure
// predates object resolution (e.g. a malformed request).
type Error struct {
	Kind     Kind
	ObjectID uint32
	Tag      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (object %#x)", e.Kind, e.Tag, e.ObjectID)
}

// New builds an Error of the given kind.
func New(kind Kind, objectID uint32, tag string) *Error {
	return &Error{Kind: kind, ObjectID: objectID, Tag: tag}
}

// NotFoundf builds a NotFound error for objectID.
func NotFoundf(objectID uint32, format string, args ...any) *Error {
	return New(NotFound, objectID, fmt.Sprintf(format, args...))
}

// InvalidArgumentf builds an InvalidArgument error for objectID.
func InvalidArgumentf(objectID uint32, format string, args ...any) *Error {
	return New(InvalidArgument, objectID, fmt.Sprintf(format, args...))
}

// ResourceExhaustedf builds a ResourceExhausted error for objectID.
func ResourceExhaustedf(objectID uint32, format string, args ...any) *Error {
	return New(ResourceExhausted, objectID, fmt.Sprintf(format, args...))
}

// StateConflictf builds a StateConflict error for objectID. Callers
// at the dispatch boundary drop these silently per the failure model.
func StateConflictf(objectID uint32, format string, args ...any) *Error {
	return New(StateConflict, objectID, fmt.Sprintf(format, args...))
}
