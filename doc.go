// Package hostlink exposes host-implemented interfaces to a WebAssembly
// component-model host runtime.
//
// Given a set of host Go types, each with a fixed set of member
// functions, the library converts between the runtime's tagged value
// representation and native Go values, adapts arbitrary host methods
// into a uniform callback signature, and assembles a versioned,
// queryable export table a dynamic loader binds calls through at
// instantiation time.
//
// # Architecture Overview
//
// The library is organized into small packages built bottom-up:
//
//	hostlink/            ABI contracts (Callback, FuncType) and the
//	                     interface metadata model (Interface, Func, Describe)
//	├── val/             tagged scalar values crossing the call boundary
//	├── handle/          instance-handle table with embedded type tags
//	├── adapter/         host method -> uniform Callback generation
//	├── export/          descriptor building, registry assembly, linking
//	├── errors/          structured error types for debugging
//	├── bind/            wazero host-module installation for a Registry
//	└── cmd/exports/     registry inspector CLI
//
// Data flows upward: val conversions run inside generated callbacks,
// callbacks feed function descriptors, function descriptors feed
// interface descriptors, and interface descriptors feed the registry.
// Control flows downward at call time: the loader obtains the registry
// once per linked module, then invokes individual callbacks per guest
// call.
//
// # Quick Start
//
// Describe a host type, register it, link, and hand the registry to a
// loader:
//
//	iface, err := hostlink.Describe(&Counter{}, "demo:host/counter@1.0.0", 1, 0xc0de)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	linker := export.NewLinker()
//	if err := linker.Register(iface); err != nil {
//	    log.Fatal(err)
//	}
//
//	h, _ := linker.BindInstance(1, &Counter{})
//	reg, err := linker.LinkInterfaces(0)
//
// The registry is immutable once built; bind.Attach installs it on a
// wazero runtime as one host module per interface.
//
// # Calling Convention
//
// Every exported function receives input[0] as an opaque 64-bit
// instance handle; the remaining inputs map 1:1, in order, to the
// declared parameters. A callback consumes exactly 1+N inputs and
// produces at most one output. Supported scalar types at this boundary
// are s32, s64, u64, f32 and f64.
//
// # Error Policy
//
// Malformed calls never crash the process. Arity and invalid-handle
// faults are logged and reported as benign success by default so a
// binary-compatibility skew degrades to a missing effect rather than a
// trap; adapter.Options.Strict turns them into structured errors. A
// live handle whose type tag does not match the target interface is
// always reported as an error: that is corruption, not skew.
//
// # Thread Safety
//
// Descriptor and registry construction happen at most once per Linker
// behind an explicit guard. The built registry is read-only; callbacks
// are stateless and safe for concurrent invocation. Concurrency of the
// host instance state a callback dereferences remains the host type's
// own responsibility.
package hostlink
