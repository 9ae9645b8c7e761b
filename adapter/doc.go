// Package adapter turns host methods into the uniform callback shape
// the hosting runtime invokes.
//
// A Wrapper is generated once per exported function from the method's
// declared metadata; no per-method glue is written by hand. Generation
// validates the Go signature against the declared wire signature and
// fails loudly on any mismatch. Invocation is allocation-conscious:
// reflect argument slices are pooled and parameter types are resolved
// at generation time.
//
// At call time the wrapper reads input[0] as the opaque instance
// handle, resolves it through the handle table with a type-tag check,
// extracts the remaining inputs into the method's parameter types and
// dispatches. Arity and invalid-handle faults are logged and swallowed
// by default (Options.Strict reports them instead); a live handle with
// the wrong type tag is always an error.
package adapter
