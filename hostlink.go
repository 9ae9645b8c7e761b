package hostlink

import (
	"context"
	"reflect"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wasmfoundry/hostlink/errors"
	"github.com/wasmfoundry/hostlink/val"
)

// FuncType describes the wire signature of one exported host function:
// the declared scalar parameter types and the result type, if any.
// The instance handle carried in input[0] is part of the calling
// convention, not of the declared parameter list.
type FuncType struct {
	Params  []wit.Type
	Results []wit.Type
}

// String renders the signature as "func(s32, f64) -> u64".
func (t *FuncType) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range t.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(witTypeName(p))
	}
	b.WriteByte(')')
	for i, r := range t.Results {
		if i == 0 {
			b.WriteString(" -> ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(witTypeName(r))
	}
	return b.String()
}

func witTypeName(t wit.Type) string {
	if k, ok := val.KindOf(t); ok {
		return k.String()
	}
	return "unsupported"
}

// Callback is the uniform adapter shape the hosting runtime invokes to
// perform one exported host function call. in[0] carries the opaque
// instance handle; in[1:] map 1:1, in order, to the declared parameters.
// A declared result is written to out[0] when an output slot exists.
//
// Callbacks are stateless apart from the captured method and safe for
// concurrent invocation; the instance state they dereference is the
// host type's own concurrency responsibility.
type Callback func(ctx context.Context, ft *FuncType, in, out []val.Value) error

// Func describes one member function of a host interface.
type Func struct {
	// GoName is the Go method name, e.g. "SetVolume".
	GoName string
	// Name is the wire export name, e.g. "set-volume".
	Name string
	// ID is the dense lookup key within the owning interface.
	ID uint64
	// Checksum detects signature drift between build and load time.
	Checksum uint64
	// Method is the unbound method func; the receiver is the first
	// parameter.
	Method reflect.Value
	// Params are the declared parameter types, scalars only.
	Params []wit.Type
	// Results holds at most one declared scalar result type.
	Results []wit.Type
}

// Type returns the function's wire signature.
func (f *Func) Type() FuncType {
	return FuncType{Params: f.Params, Results: f.Results}
}

// Validate checks that the function metadata is well formed: a named
// export backed by a method value, with scalar parameter types and at
// most one scalar result.
func (f *Func) Validate() error {
	if f.Name == "" {
		return errors.InvalidInput(errors.PhaseDescribe, "function export name cannot be empty")
	}
	if !f.Method.IsValid() || f.Method.Kind() != reflect.Func {
		return errors.New(errors.PhaseDescribe, errors.KindInvalidInput).
			Path(f.Name).
			Detail("method is not a function value").
			Build()
	}
	for i, p := range f.Params {
		if _, ok := val.KindOf(p); !ok {
			return errors.New(errors.PhaseDescribe, errors.KindUnsupported).
				Path(f.Name).
				WitType(witTypeName(p)).
				Detail("parameter %d is not a scalar type", i).
				Build()
		}
	}
	if len(f.Results) > 1 {
		return errors.New(errors.PhaseDescribe, errors.KindUnsupported).
			Path(f.Name).
			Detail("at most one result supported, got %d", len(f.Results)).
			Build()
	}
	for _, r := range f.Results {
		if _, ok := val.KindOf(r); !ok {
			return errors.New(errors.PhaseDescribe, errors.KindUnsupported).
				Path(f.Name).
				WitType(witTypeName(r)).
				Detail("result is not a scalar type").
				Build()
		}
	}
	return nil
}

// Interface describes one host interface type: its identity and the
// ordered list of member functions a guest may call on it.
type Interface struct {
	// Name is the full WIT interface path, e.g. "demo:host/counter@1.0.0".
	Name string
	// ID identifies the interface within the export registry.
	ID uint64
	// Checksum detects schema drift between build and load time.
	Checksum uint64
	// Type is the host Go type methods are dispatched on, usually a
	// pointer type.
	Type reflect.Type
	// Funcs lists the member functions in export order.
	Funcs []Func
}

// Validate checks interface metadata: a named interface with a host
// type and well-formed functions carrying dense, unique IDs and unique
// names and checksums.
func (in *Interface) Validate() error {
	if in.Name == "" {
		return errors.InvalidInput(errors.PhaseDescribe, "interface name cannot be empty")
	}
	if in.Type == nil {
		return errors.InvalidInput(errors.PhaseDescribe, "interface host type cannot be nil")
	}

	names := make(map[string]bool, len(in.Funcs))
	ids := make(map[uint64]bool, len(in.Funcs))
	sums := make(map[uint64]bool, len(in.Funcs))

	for i := range in.Funcs {
		f := &in.Funcs[i]
		if err := f.Validate(); err != nil {
			return err
		}
		if names[f.Name] {
			return errors.New(errors.PhaseDescribe, errors.KindRegistration).
				Path(in.Name, f.Name).
				Detail("duplicate function name").
				Build()
		}
		if ids[f.ID] {
			return errors.DuplicateID(errors.PhaseDescribe, "function", f.ID)
		}
		if f.ID >= uint64(len(in.Funcs)) {
			return errors.New(errors.PhaseDescribe, errors.KindInvalidInput).
				Path(in.Name, f.Name).
				Detail("function id %d is not dense for %d functions", f.ID, len(in.Funcs)).
				Build()
		}
		if sums[f.Checksum] {
			return errors.New(errors.PhaseDescribe, errors.KindDuplicateID).
				Path(in.Name, f.Name).
				Detail("duplicate function checksum %#x", f.Checksum).
				Build()
		}
		names[f.Name] = true
		ids[f.ID] = true
		sums[f.Checksum] = true
	}
	return nil
}

// Func returns the member function with the given export name, or nil.
func (in *Interface) Func(name string) *Func {
	for i := range in.Funcs {
		if in.Funcs[i].Name == name {
			return &in.Funcs[i]
		}
	}
	return nil
}
