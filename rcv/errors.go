package rcv

import "fmt"

// Kind classifies an Error the way spec.md §7 enumerates them.
type Kind string

const (
	// ErrConfiguration: unknown normalizer tag, unknown data-format tag.
	ErrConfiguration Kind = "configuration"
	// ErrDataIntegrity: a ballot references a candidate out of range, or
	// the candidate roster itself has duplicates.
	ErrDataIntegrity Kind = "data_integrity"
	// ErrContestPathology: zero candidates, or an unbreakable tie at
	// elimination/termination.
	ErrContestPathology Kind = "contest_pathology"
	// ErrCacheIntegrity: malformed canonical JSON.
	ErrCacheIntegrity Kind = "cache_integrity"
)

// Error carries a Kind plus a human-readable message. The messages this
// package builds describe the failure only; they do not name the contest.
// It follows the Type()-string pattern used by the teacher's
// vote/http/error.go (adapted to a plain Kind instead of an HTTP status).
type Error struct {
	kind    Kind
	message string
	cause   error
}

// NewError builds an Error with no wrapped cause.
func NewError(kind Kind, message string) error {
	return Error{kind: kind, message: message}
}

// WrapError attaches a Kind to an existing error, preserving it as the
// Unwrap() target.
func WrapError(kind Kind, cause error) error {
	return Error{kind: kind, message: cause.Error(), cause: cause}
}

// Errorf builds a formatted Error, mirroring MessageErrorf in the teacher.
func Errorf(kind Kind, format string, args ...any) error {
	return Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Kind reports the error's classification.
func (e Error) Kind() Kind { return e.kind }

// Unwrap lets errors.Is/errors.As see through to the underlying cause,
// and also makes errors.Is(err, ErrDataIntegrity) etc. work directly
// against the Kind sentinels above via the Is method.
func (e Error) Unwrap() error { return e.cause }

// Is lets callers write errors.Is(err, rcv.ErrDataIntegrity) without
// unwrapping to an Error value themselves.
func (e Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

// Error makes Kind itself usable as an errors.Is target.
func (k Kind) Error() string { return string(k) }
