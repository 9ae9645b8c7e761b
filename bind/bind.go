package bind

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasmfoundry/hostlink"
	"github.com/wasmfoundry/hostlink/errors"
	"github.com/wasmfoundry/hostlink/export"
	"github.com/wasmfoundry/hostlink/val"
)

// CoreType maps a scalar kind to the core value type it travels as on
// the wazero stack.
func CoreType(k val.Kind) api.ValueType {
	switch k {
	case val.KindS32:
		return api.ValueTypeI32
	case val.KindS64, val.KindU64:
		return api.ValueTypeI64
	case val.KindF32:
		return api.ValueTypeF32
	case val.KindF64:
		return api.ValueTypeF64
	}
	return api.ValueTypeI64
}

// FlatSignature returns the core wire signature of a declared function
// type: a leading i64 instance handle, one core value per declared
// parameter, and a single core result slot when a result is declared.
func FlatSignature(ft *hostlink.FuncType) (params, results []api.ValueType) {
	params = make([]api.ValueType, 0, 1+len(ft.Params))
	params = append(params, api.ValueTypeI64)
	for _, p := range ft.Params {
		k, _ := val.KindOf(p)
		params = append(params, CoreType(k))
	}
	if len(ft.Results) > 0 {
		k, _ := val.KindOf(ft.Results[0])
		results = []api.ValueType{CoreType(k)}
	}
	return params, results
}

// Attach instantiates one wazero host module per interface in the
// registry. The module name is the interface's WIT path, so a guest
// import of "demo:host/counter@1.0.0" resolves directly against the
// attached module. Exact names only: semver resolution belongs to
// Registry.Resolve before linking guests with skewed versions.
//
// A module name already instantiated in the runtime is skipped, so
// Attach is safe to repeat after registering additional registries.
func Attach(ctx context.Context, rt wazero.Runtime, reg *export.Registry) error {
	if rt == nil {
		return errors.InvalidInput(errors.PhaseBind, "runtime cannot be nil")
	}
	if reg == nil {
		return errors.InvalidInput(errors.PhaseBind, "registry cannot be nil")
	}

	log := Logger()
	for i := range reg.Interfaces {
		ie := &reg.Interfaces[i]
		if rt.Module(ie.Name) != nil {
			log.Debug("host module already attached",
				zap.String("interface", ie.Name))
			continue
		}

		builder := rt.NewHostModuleBuilder(ie.Name)
		for j := range ie.Funcs {
			fn := &ie.Funcs[j]
			params, results := FlatSignature(fn.Type)
			s := newShim(ie.Name, fn)
			builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(s.call), params, results).
				Export(fn.Name)
		}

		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.Wrap(errors.PhaseBind, errors.KindRegistration, err,
				"attach host module "+ie.Name)
		}
		log.Info("host module attached",
			zap.String("interface", ie.Name),
			zap.Int("funcs", len(ie.Funcs)))
	}
	return nil
}

// shim adapts one function descriptor to wazero's raw calling
// convention. One shim serves every guest instance of the module, so it
// holds no per-call state beyond the pooled lift buffer.
type shim struct {
	inPool    sync.Pool
	callback  hostlink.Callback
	ftype     *hostlink.FuncType
	iface     string
	name      string
	params    []val.Kind
	arity     int
	hasResult bool
}

func newShim(iface string, fn *export.FuncExport) *shim {
	params := make([]val.Kind, len(fn.Type.Params))
	for i, p := range fn.Type.Params {
		params[i], _ = val.KindOf(p)
	}
	arity := 1 + len(params)

	s := &shim{
		callback:  fn.Callback,
		ftype:     fn.Type,
		iface:     iface,
		name:      fn.Name,
		params:    params,
		arity:     arity,
		hasResult: len(fn.Type.Results) > 0,
	}
	s.inPool.New = func() any {
		in := make([]val.Value, arity)
		return &in
	}
	return s
}

// call implements api.GoModuleFunc. Stack slot 0 carries the instance
// handle, declared parameters follow, and a declared result is written
// back to slot 0. A callback fault is logged and lowers zero: host-side
// faults never trap the guest.
func (s *shim) call(ctx context.Context, _ api.Module, stack []uint64) {
	if len(stack) < s.arity {
		Logger().Error("host call stack underflow",
			zap.String("interface", s.iface),
			zap.String("func", s.name),
			zap.Int("want", s.arity),
			zap.Int("got", len(stack)))
		return
	}

	inPtr := s.inPool.Get().(*[]val.Value)
	in := *inPtr
	in[0] = val.U64(stack[0])
	for i, k := range s.params {
		in[1+i] = val.FromBits(k, stack[1+i])
	}

	var out [1]val.Value
	err := s.callback(ctx, s.ftype, in, out[:])
	s.inPool.Put(inPtr)

	if err != nil {
		Logger().Error("host call failed",
			zap.String("interface", s.iface),
			zap.String("func", s.name),
			zap.Error(err))
		if s.hasResult {
			stack[0] = 0
		}
		return
	}
	if s.hasResult {
		stack[0] = out[0].Bits()
	}
}
