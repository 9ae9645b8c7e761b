package export

import (
	"hash/crc32"
	"reflect"
	"strings"

	"github.com/wasmfoundry/hostlink"
)

// FuncExport is one linkable host function: its identity plus the
// generated callback a loader invokes to perform the call.
type FuncExport struct {
	// Name is the wire export name, e.g. "set-volume".
	Name string
	// ID is the dense lookup key within the owning interface.
	ID uint64
	// Checksum is the signature drift-detection digest.
	Checksum uint64
	// Type is the declared wire signature. Shared, do not mutate.
	Type *hostlink.FuncType
	// Callback performs the call against a live instance.
	Callback hostlink.Callback
}

// InterfaceExport is the complete linkable description of one host
// interface. Immutable once the registry is built.
type InterfaceExport struct {
	// Name is the full WIT interface path, e.g. "demo:host/counter@1.0.0".
	Name string
	// ID identifies the interface within the registry.
	ID uint64
	// Checksum detects schema drift between build and load time.
	Checksum uint64
	// TypeTag is the structural tag instances of this interface carry
	// in their handles and table slots.
	TypeTag uint32
	// Funcs holds the function descriptors laid out by ID.
	Funcs []FuncExport
}

// Func returns the function descriptor with the given export name, or nil.
func (ie *InterfaceExport) Func(name string) *FuncExport {
	for i := range ie.Funcs {
		if ie.Funcs[i].Name == name {
			return &ie.Funcs[i]
		}
	}
	return nil
}

// FuncByID returns the function descriptor with the given ID, or nil.
// IDs are dense, so Funcs[id] is the descriptor in the common case.
func (ie *InterfaceExport) FuncByID(id uint64) *FuncExport {
	if id < uint64(len(ie.Funcs)) && ie.Funcs[id].ID == id {
		return &ie.Funcs[id]
	}
	for i := range ie.Funcs {
		if ie.Funcs[i].ID == id {
			return &ie.Funcs[i]
		}
	}
	return nil
}

// TypeTagOf derives the 32-bit structural tag for a host type: a CRC-32
// of the package-qualified type identity. Deterministic across runs of
// the same build, so tags can be logged and compared, but not stable
// across renames.
func TypeTagOf(t reflect.Type) uint32 {
	var b strings.Builder
	for t.Kind() == reflect.Pointer {
		b.WriteByte('*')
		t = t.Elem()
	}
	if pkg := t.PkgPath(); pkg != "" {
		b.WriteString(pkg)
		b.WriteByte('.')
	}
	if name := t.Name(); name != "" {
		b.WriteString(name)
	} else {
		b.WriteString(t.String())
	}
	return crc32.ChecksumIEEE([]byte(b.String()))
}
