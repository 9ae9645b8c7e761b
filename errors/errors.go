package errors

import (
	"fmt"
	"strings"
)

// Phase names the processing stage an error was raised in.
type Phase string

const (
	PhaseDescribe Phase = "describe" // host type reflection
	PhaseGenerate Phase = "generate" // callback adapter construction
	PhaseInvoke   Phase = "invoke"   // guest-initiated callback dispatch
	PhaseLink     Phase = "link"     // export registry assembly
	PhaseBind     Phase = "bind"     // runtime host module attachment
)

// Kind classifies what went wrong within a phase.
type Kind string

const (
	KindTypeMismatch     Kind = "type_mismatch"
	KindArityMismatch    Kind = "arity_mismatch"
	KindInvalidHandle    Kind = "invalid_handle"
	KindDuplicateID      Kind = "duplicate_id"
	KindChecksumMismatch Kind = "checksum_mismatch"
	KindNotFound         Kind = "not_found"
	KindNotInstalled     Kind = "not_installed"
	KindInvalidInput     Kind = "invalid_input"
	KindRegistration     Kind = "registration"
	KindUnsupported      Kind = "unsupported"
)

// Error carries structured failure context: phase and kind for
// programmatic matching, plus whatever path, type and value
// information the call site had on hand.
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Phase, e.Kind)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at %s", strings.Join(e.Path, "."))
	}

	switch {
	case e.GoType != "" && e.WitType != "":
		fmt.Fprintf(&b, ": Go type %s, WIT type %s", e.GoType, e.WitType)
	case e.GoType != "":
		fmt.Fprintf(&b, ": Go type %s", e.GoType)
	case e.WitType != "":
		fmt.Fprintf(&b, ": WIT type %s", e.WitType)
	}

	if e.Detail != "" {
		if e.GoType == "" && e.WitType == "" {
			b.WriteString(": ")
		} else {
			b.WriteString(" - ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the cause to the stdlib errors.Is / errors.As chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same phase and kind. Path, types and
// detail do not participate in matching.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Phase == e.Phase && t.Kind == e.Kind
}

// Builder assembles an Error field by field. Call sites with more
// context than a constructor signature admits use the builder form:
// New(phase, kind).Path(...).Detail(...).Build().
type Builder struct {
	e Error
}

// New starts a builder for the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{e: Error{Phase: phase, Kind: kind}}
}

// Path records where in the export tree the error applies.
func (b *Builder) Path(path ...string) *Builder {
	b.e.Path = path
	return b
}

// GoType records the host-side type involved.
func (b *Builder) GoType(t string) *Builder {
	b.e.GoType = t
	return b
}

// WitType records the wire-side type involved.
func (b *Builder) WitType(t string) *Builder {
	b.e.WitType = t
	return b
}

// Value records the offending value.
func (b *Builder) Value(v any) *Builder {
	b.e.Value = v
	return b
}

// Cause records the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.e.Cause = err
	return b
}

// Detail formats the human-readable message. Without args the format
// string is stored verbatim, so literal percent signs are safe.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	b.e.Detail = msg
	if len(args) > 0 {
		b.e.Detail = fmt.Sprintf(msg, args...)
	}
	return b
}

// Build finalizes the error.
func (b *Builder) Build() *Error {
	return &b.e
}

// Constructors for the recurring shapes.

// TypeMismatch reports a host type that cannot carry the wire type.
func TypeMismatch(phase Phase, path []string, goType, witType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		WitType: witType,
	}
}

// ArityMismatch reports a value-count disagreement.
func ArityMismatch(phase Phase, path []string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArityMismatch,
		Path:   path,
		Value:  got,
		Detail: fmt.Sprintf("want %d values, have %d", want, got),
	}
}

// InvalidHandle reports an instance handle that resolves to nothing.
func InvalidHandle(phase Phase, path []string, handle uint64, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Path:   path,
		Value:  handle,
		Detail: fmt.Sprintf("handle %#x: %s", handle, detail),
	}
}

// DuplicateID reports an identifier registered twice.
func DuplicateID(phase Phase, what string, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateID,
		Value:  id,
		Detail: fmt.Sprintf("duplicate %s id %d", what, id),
	}
}

// ChecksumMismatch reports a signature digest disagreement.
func ChecksumMismatch(phase Phase, what string, want, got uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindChecksumMismatch,
		Value:  got,
		Detail: fmt.Sprintf("%s checksum %#x does not match %#x", what, got, want),
	}
}

// NotFound reports a lookup miss.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("no %s named %q", what, name),
	}
}

// NotInstalled reports a missing process-level component.
func NotInstalled(what string) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindNotInstalled,
		Detail: what + " not installed",
	}
}

// InvalidInput reports a caller mistake.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration reports a failure while exposing an export.
func Registration(phase Phase, namespace, name string, cause error) *Error {
	detail := "register " + namespace
	if name != "" {
		detail += "#" + name
	}
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Cause:  cause,
		Detail: detail,
	}
}

// Unsupported reports a construct outside the scalar boundary.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap attaches phase and kind to an underlying error.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Cause:  cause,
		Detail: detail,
	}
}
