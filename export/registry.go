package export

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/wasmfoundry/hostlink/errors"
	"github.com/wasmfoundry/hostlink/handle"
)

// Registry is the immutable set of linked interface exports plus the
// content-derived version digest loaders compare against their
// expectation. A Linker builds its registry once; the pointer is
// stable for the linker's lifetime.
type Registry struct {
	// Version is an FNV-64a digest over the ordered interface and
	// function identity content. Identical registration sequences
	// produce identical versions.
	Version uint64
	// Interfaces holds the exports in registration order.
	Interfaces []InterfaceExport

	linker *Linker
}

// Interface returns the export whose WIT path equals name, or nil.
func (r *Registry) Interface(name string) *InterfaceExport {
	for i := range r.Interfaces {
		if r.Interfaces[i].Name == name {
			return &r.Interfaces[i]
		}
	}
	return nil
}

// InterfaceByID returns the export with the given interface ID, or nil.
func (r *Registry) InterfaceByID(id uint64) *InterfaceExport {
	for i := range r.Interfaces {
		if r.Interfaces[i].ID == id {
			return &r.Interfaces[i]
		}
	}
	return nil
}

// Resolve returns the export matching name, allowing semver-compatible
// version skew: when no exact match exists and the request carries a
// version, the newest export with the same base path and a compatible
// version wins.
func (r *Registry) Resolve(name string) *InterfaceExport {
	if ie := r.Interface(name); ie != nil {
		return ie
	}

	base, want := splitNameVersion(name)
	if want == nil {
		return nil
	}

	var best *InterfaceExport
	var bestVersion Version
	for i := range r.Interfaces {
		gotBase, got := splitNameVersion(r.Interfaces[i].Name)
		if gotBase != base || got == nil || !got.Compatible(*want) {
			continue
		}
		if best == nil || got.newer(bestVersion) {
			best = &r.Interfaces[i]
			bestVersion = *got
		}
	}
	return best
}

// Find resolves a full function path like "demo:host/counter@1.0.0#add"
// to its interface and function descriptors, with semver matching on
// the interface part.
func (r *Registry) Find(path string) (*InterfaceExport, *FuncExport, error) {
	ifacePath, funcName, ok := splitFuncPath(path)
	if !ok {
		return nil, nil, errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Detail("function path %q is missing the '#' separator", path).
			Build()
	}
	ie := r.Resolve(ifacePath)
	if ie == nil {
		return nil, nil, errors.NotFound(errors.PhaseLink, "interface", ifacePath)
	}
	fn := ie.Func(funcName)
	if fn == nil {
		return nil, nil, errors.NotFound(errors.PhaseLink, "function", path)
	}
	return ie, fn, nil
}

// Create constructs a fresh instance of the interface through its
// registered factory and binds it into the instance table. checksum
// must equal the interface descriptor's; a drifted caller is refused
// before the factory runs.
func (r *Registry) Create(ifaceID, checksum uint64, name string) (handle.Handle, error) {
	ie := r.InterfaceByID(ifaceID)
	if ie == nil {
		return 0, errors.New(errors.PhaseLink, errors.KindNotFound).
			Detail("interface id %d not registered", ifaceID).
			Build()
	}
	if checksum != ie.Checksum {
		return 0, errors.ChecksumMismatch(errors.PhaseLink, ie.Name, ie.Checksum, checksum)
	}

	factory := r.linker.factory(ifaceID)
	if factory == nil {
		return 0, errors.NotFound(errors.PhaseLink, "factory", ie.Name)
	}
	value, err := factory(name)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseLink, errors.KindRegistration, err, "create instance of "+ie.Name)
	}
	return r.linker.BindInstance(ifaceID, value)
}

// digest computes the registry version: FNV-64a over each interface's
// id, checksum and type tag followed by each function's id and
// checksum, in registry order.
func (r *Registry) digest() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	word := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for i := range r.Interfaces {
		ie := &r.Interfaces[i]
		word(ie.ID)
		word(ie.Checksum)
		word(uint64(ie.TypeTag))
		for j := range ie.Funcs {
			word(ie.Funcs[j].ID)
			word(ie.Funcs[j].Checksum)
		}
	}
	return h.Sum64()
}
