// Package errors provides structured error types for the hostlink library.
//
// Every failure carries a Phase naming the processing stage and a Kind
// naming the category, so callers can match programmatically with
// errors.Is. The Error type also records a path through the export
// surface, the Go and WIT type names involved, and a cause chain.
//
// Call sites with rich context build errors incrementally:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
//		Path("counter", "increment").
//		GoType("*Counter").
//		WitType("s32").
//		Detail("instance tag mismatch").
//		Build()
//
// The recurring shapes have constructors:
//
//	err := errors.ArityMismatch(errors.PhaseInvoke, path, 3, 1)
//	err := errors.InvalidHandle(errors.PhaseInvoke, path, h, "unknown instance")
package errors
