// Package export assembles described host interfaces into a linkable
// registry of interface and function descriptors.
//
// # Main Types
//
//   - Linker: collects interfaces, factories and instances; builds the
//     registry exactly once
//   - Registry: immutable descriptor set with a content-derived version
//     digest and semver-aware queries
//   - InterfaceExport / FuncExport: the flat descriptors a loader walks
//     to wire host calls
//
// # Thread Safety
//
// Linker is safe for concurrent use. A built Registry is immutable;
// its queries and Create are safe for concurrent use.
//
// # Linking
//
// LinkInterfaces is idempotent: the first call assembles descriptors in
// registration order and generates one callback per function through
// the adapter package; every later call returns the identical registry
// pointer. The caller's version checksum is logged against the built
// Registry.Version for drift diagnosis and never changes the result.
//
// # Example
//
//	iface, _ := hostlink.Describe(&counter{}, "demo:host/counter@1.0.0", 1, 0xC0)
//	l := export.NewLinker()
//	_ = l.Register(iface)
//	h, _ := l.BindInstance(iface.ID, &counter{})
//	reg, _ := l.LinkInterfaces(0)
//	fn := reg.Interface("demo:host/counter@1.0.0").Func("add")
package export
