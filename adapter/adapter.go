package adapter

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wasmfoundry/hostlink"
	"github.com/wasmfoundry/hostlink/errors"
	"github.com/wasmfoundry/hostlink/handle"
	"github.com/wasmfoundry/hostlink/val"
)

// Options configures callback generation.
type Options struct {
	// Strict reports arity and invalid-handle faults as errors instead
	// of logging them and returning benign success. Type confusion on a
	// live handle is an error either way.
	Strict bool
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Wrapper adapts one host method to the uniform callback signature.
// Immutable once generated; safe for concurrent invocation.
type Wrapper struct {
	argsPool   sync.Pool
	table      *handle.Table
	fn         hostlink.Func
	ftype      hostlink.FuncType
	argTypes   []reflect.Type
	paramKinds []val.Kind
	resultKind val.Kind
	numIn      int
	tag        uint32
	hasCtx     bool
	strict     bool
}

// New generates a Wrapper for fn dispatching on the host type. The
// method's receiver must be the host type, an optional context.Context
// may follow it, and the remaining parameters and result must match
// the declared wire signature. tag is the type tag instances of this
// interface are stored under in table.
func New(fn hostlink.Func, host reflect.Type, table *handle.Table, tag uint32, opts Options) (*Wrapper, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	if host == nil {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "host type cannot be nil")
	}
	if table == nil {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "instance table cannot be nil")
	}

	mt := fn.Method.Type()
	if mt.NumIn() == 0 || mt.In(0) != host {
		got := "none"
		if mt.NumIn() > 0 {
			got = mt.In(0).String()
		}
		return nil, errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			Path(fn.Name).
			GoType(got).
			Detail("method receiver must be %s", host.String()).
			Build()
	}

	hasCtx := mt.NumIn() > 1 && mt.In(1) == ctxType
	start := 1
	if hasCtx {
		start = 2
	}

	if declared := mt.NumIn() - start; declared != len(fn.Params) {
		return nil, errors.ArityMismatch(errors.PhaseGenerate, []string{fn.Name}, len(fn.Params), declared)
	}

	numIn := mt.NumIn()
	argTypes := make([]reflect.Type, numIn)
	for i := 0; i < numIn; i++ {
		argTypes[i] = mt.In(i)
	}

	paramKinds := make([]val.Kind, len(fn.Params))
	for i, p := range fn.Params {
		k, _ := val.KindOf(p) // fn.Validate guarantees scalar
		if !kindCompatible(argTypes[start+i], k) {
			return nil, errors.TypeMismatch(errors.PhaseGenerate,
				[]string{fn.Name}, argTypes[start+i].String(), k.String())
		}
		paramKinds[i] = k
	}

	if mt.NumOut() != len(fn.Results) {
		return nil, errors.New(errors.PhaseGenerate, errors.KindArityMismatch).
			Path(fn.Name).
			Detail("expected %d results, method returns %d", len(fn.Results), mt.NumOut()).
			Build()
	}
	resultKind := val.KindNone
	if len(fn.Results) == 1 {
		k, _ := val.KindOf(fn.Results[0])
		if !kindCompatible(mt.Out(0), k) {
			return nil, errors.TypeMismatch(errors.PhaseGenerate,
				[]string{fn.Name}, mt.Out(0).String(), k.String())
		}
		resultKind = k
	}

	return &Wrapper{
		fn:         fn,
		ftype:      fn.Type(),
		table:      table,
		tag:        tag,
		argTypes:   argTypes,
		paramKinds: paramKinds,
		resultKind: resultKind,
		numIn:      numIn,
		hasCtx:     hasCtx,
		strict:     opts.Strict,
		argsPool: sync.Pool{
			New: func() any {
				s := make([]reflect.Value, numIn)
				return &s
			},
		},
	}, nil
}

// Name returns the function's export name.
func (w *Wrapper) Name() string {
	return w.fn.Name
}

// FuncType returns the wire signature the wrapper was generated for.
// The returned pointer stays valid for the wrapper's lifetime.
func (w *Wrapper) FuncType() *hostlink.FuncType {
	return &w.ftype
}

// Callback returns the wrapper as a hostlink.Callback.
func (w *Wrapper) Callback() hostlink.Callback {
	return w.Invoke
}

// Invoke performs one host call: resolve the instance behind input[0],
// extract the declared parameters from the remaining inputs and
// dispatch the method. A declared result is written to out[0] when an
// output slot exists. The passed function type is advisory; extraction
// follows the types fixed at generation time.
func (w *Wrapper) Invoke(ctx context.Context, _ *hostlink.FuncType, in, out []val.Value) error {
	log := Logger()
	log.Debug("callback invoked",
		zap.String("func", w.fn.Name),
		zap.Int("inputs", len(in)))

	want := 1 + len(w.paramKinds)
	if len(in) < want {
		log.Error("insufficient arguments",
			zap.String("func", w.fn.Name),
			zap.Int("want", want),
			zap.Int("got", len(in)))
		if w.strict {
			return errors.ArityMismatch(errors.PhaseInvoke, []string{w.fn.Name}, want, len(in))
		}
		return nil
	}

	// The handle travels under either 64-bit integer tag.
	h := handle.Handle(uint64(in[0].S64()))
	if h.Zero() {
		log.Error("invalid instance handle",
			zap.String("func", w.fn.Name),
			zap.Uint64("handle", uint64(h)))
		if w.strict {
			return errors.InvalidHandle(errors.PhaseInvoke, []string{w.fn.Name}, uint64(h), "zero handle")
		}
		return nil
	}

	value, storedTag, ok := w.table.Lookup(h)
	if !ok {
		log.Error("unknown instance handle",
			zap.String("func", w.fn.Name),
			zap.Uint64("handle", uint64(h)))
		if w.strict {
			return errors.InvalidHandle(errors.PhaseInvoke, []string{w.fn.Name}, uint64(h), "no live instance")
		}
		return nil
	}

	// A live slot whose tag disagrees with the wire handle or with this
	// interface is type confusion, never a benign skew.
	if storedTag != w.tag || h.Tag() != w.tag {
		log.Error("instance type confusion",
			zap.String("func", w.fn.Name),
			zap.Uint64("handle", uint64(h)),
			zap.Uint32("storedTag", storedTag),
			zap.Uint32("interfaceTag", w.tag))
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Path(w.fn.Name).
			Value(uint64(h)).
			Detail("handle tag %#x, stored tag %#x, interface tag %#x", h.Tag(), storedTag, w.tag).
			Build()
	}

	recv := reflect.ValueOf(value)
	if !recv.Type().AssignableTo(w.argTypes[0]) {
		log.Error("instance type confusion",
			zap.String("func", w.fn.Name),
			zap.Uint64("handle", uint64(h)),
			zap.String("goType", recv.Type().String()))
		return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Path(w.fn.Name).
			GoType(recv.Type().String()).
			Value(uint64(h)).
			Detail("instance is not a %s", w.argTypes[0].String()).
			Build()
	}

	argsPtr := w.argsPool.Get().(*[]reflect.Value)
	args := *argsPtr

	args[0] = recv
	start := 1
	if w.hasCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		args[1] = reflect.ValueOf(ctx)
		start = 2
	}
	for i, k := range w.paramKinds {
		args[start+i] = extractArg(in[1+i], k, w.argTypes[start+i])
	}

	results := w.fn.Method.Call(args)

	// Clear slice elements before returning to pool to avoid retaining references
	var zero reflect.Value
	for i := range args {
		args[i] = zero
	}
	w.argsPool.Put(argsPtr)

	if w.resultKind != val.KindNone && len(out) > 0 {
		out[0] = wrapResult(w.resultKind, results[0])
	}
	return nil
}

// extractArg reads one input under the declared kind. A mistagged
// input extracts as zero through the permissive accessors.
func extractArg(v val.Value, k val.Kind, goType reflect.Type) reflect.Value {
	switch k {
	case val.KindS32:
		return reflect.ValueOf(v.S32()).Convert(goType)
	case val.KindS64:
		return reflect.ValueOf(v.S64()).Convert(goType)
	case val.KindU64:
		return reflect.ValueOf(v.U64()).Convert(goType)
	case val.KindF32:
		return reflect.ValueOf(v.F32()).Convert(goType)
	case val.KindF64:
		return reflect.ValueOf(v.F64()).Convert(goType)
	}
	return reflect.Zero(goType)
}

func wrapResult(k val.Kind, rv reflect.Value) val.Value {
	switch k {
	case val.KindS32:
		return val.S32(int32(rv.Int()))
	case val.KindS64:
		return val.S64(rv.Int())
	case val.KindU64:
		return val.U64(rv.Uint())
	case val.KindF32:
		return val.F32(float32(rv.Float()))
	case val.KindF64:
		return val.F64(rv.Float())
	}
	return val.Value{}
}

func kindCompatible(goType reflect.Type, k val.Kind) bool {
	switch k {
	case val.KindS32:
		return goType.Kind() == reflect.Int32
	case val.KindS64:
		return goType.Kind() == reflect.Int64
	case val.KindU64:
		return goType.Kind() == reflect.Uint64
	case val.KindF32:
		return goType.Kind() == reflect.Float32
	case val.KindF64:
		return goType.Kind() == reflect.Float64
	}
	return false
}
