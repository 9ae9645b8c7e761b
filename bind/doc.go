// Package bind installs a linked export registry into a wazero runtime
// as importable host modules.
//
// # Main Types
//
//   - Attach: one host module per interface descriptor, named by the
//     interface WIT path, one exported function per function descriptor
//   - CoreType / FlatSignature: the flat core calling convention shared
//     with callers that synthesize or inspect guest modules
//
// # Calling Convention
//
// Every exported function takes a leading i64 instance handle, then one
// core value per declared scalar parameter, and returns at most one
// core value. Shims lift the raw stack into tagged values, invoke the
// descriptor's callback, and lower the result bits back to slot 0.
// Callback faults are logged and lower zero rather than trapping the
// guest.
//
// # Thread Safety
//
// Attached shims are safe for concurrent guest calls. Attach itself
// serializes on the wazero runtime's own instantiation locking.
//
// # Example
//
//	reg, _ := linker.LinkInterfaces(0)
//	rt := wazero.NewRuntime(ctx)
//	if err := bind.Attach(ctx, rt, reg); err != nil {
//		return err
//	}
package bind
