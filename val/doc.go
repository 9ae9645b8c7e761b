// Package val implements the tagged scalar value that crosses the
// host/guest boundary.
//
// A Value pairs one of five WIT scalar kinds (s32, s64, u64, f32, f64)
// with its 64-bit payload. Accessors are permissive: reading a Value
// under the wrong kind yields the zero of the requested type, so a
// mistagged slot degrades to zero instead of failing the call. The one
// exception is S64, which also accepts u64 payloads because opaque
// instance handles travel under either integer tag.
//
// Bits and FromBits translate between Values and the flat core-wasm
// representation (one uint64 stack slot per scalar, floats as IEEE-754
// bit patterns).
package val
