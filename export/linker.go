package export

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wasmfoundry/hostlink"
	"github.com/wasmfoundry/hostlink/adapter"
	"github.com/wasmfoundry/hostlink/errors"
	"github.com/wasmfoundry/hostlink/handle"
)

// Options configures linker behavior.
type Options struct {
	// Strict propagates arity and invalid-handle callback faults as
	// errors instead of logged no-ops.
	Strict bool
}

// Factory constructs a fresh host instance for Registry.Create. The
// name argument is caller-defined creation input, often empty.
type Factory func(name string) (any, error)

// Linker accumulates host interfaces and assembles them into an export
// Registry. Thread-safe. Interface registration closes once the
// registry is built; factories and instances stay live.
type Linker struct {
	mu         sync.RWMutex
	interfaces []hostlink.Interface
	byID       map[uint64]int
	byName     map[string]int
	sums       map[uint64]bool
	factories  map[uint64]Factory
	instances  *handle.Table
	opts       Options
	built      bool

	linkOnce sync.Once
	registry *Registry
	linkErr  error
}

// NewLinker creates a Linker with default options.
func NewLinker() *Linker {
	return NewLinkerWithOptions(Options{})
}

// NewLinkerWithOptions creates a Linker with the given options.
func NewLinkerWithOptions(opts Options) *Linker {
	return &Linker{
		byID:      make(map[uint64]int),
		byName:    make(map[string]int),
		sums:      make(map[uint64]bool),
		factories: make(map[uint64]Factory),
		instances: handle.NewTable(),
		opts:      opts,
	}
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.opts
}

// Instances returns the table live host instances are stored in. The
// generated callbacks resolve wire handles against this table.
func (l *Linker) Instances() *handle.Table {
	return l.instances
}

// Register adds a host interface to the linker. The interface must
// validate, and its ID, name and checksum must be unused. Registration
// fails once the registry has been built.
func (l *Linker) Register(iface hostlink.Interface) error {
	if err := iface.Validate(); err != nil {
		return errors.Registration(errors.PhaseLink, iface.Name, "", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.built {
		return errors.New(errors.PhaseLink, errors.KindRegistration).
			Path(iface.Name).
			Detail("registry already built").
			Build()
	}
	if _, ok := l.byID[iface.ID]; ok {
		return errors.DuplicateID(errors.PhaseLink, "interface", iface.ID)
	}
	if _, ok := l.byName[iface.Name]; ok {
		return errors.New(errors.PhaseLink, errors.KindRegistration).
			Path(iface.Name).
			Detail("duplicate interface name").
			Build()
	}
	if l.sums[iface.Checksum] {
		return errors.New(errors.PhaseLink, errors.KindDuplicateID).
			Path(iface.Name).
			Detail("duplicate interface checksum %#x", iface.Checksum).
			Build()
	}

	l.byID[iface.ID] = len(l.interfaces)
	l.byName[iface.Name] = len(l.interfaces)
	l.sums[iface.Checksum] = true
	l.interfaces = append(l.interfaces, iface)

	Logger().Debug("interface registered",
		zap.String("interface", iface.Name),
		zap.Uint64("id", iface.ID),
		zap.Int("funcs", len(iface.Funcs)))
	return nil
}

// RegisterFactory installs the instance factory Registry.Create uses
// for the interface. RegisterFactory overwrites any factory previously
// registered for the same interface and is allowed after linking.
func (l *Linker) RegisterFactory(ifaceID uint64, factory Factory) error {
	if factory == nil {
		return errors.InvalidInput(errors.PhaseLink, "factory cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byID[ifaceID]; !ok {
		return errors.New(errors.PhaseLink, errors.KindNotFound).
			Detail("interface id %d not registered", ifaceID).
			Build()
	}
	l.factories[ifaceID] = factory
	return nil
}

// BindInstance stores a live host instance in the instance table under
// the interface's type tag and returns its wire handle. The value must
// be assignable to the interface's host type.
func (l *Linker) BindInstance(ifaceID uint64, value any) (handle.Handle, error) {
	if value == nil {
		return 0, errors.InvalidInput(errors.PhaseLink, "instance cannot be nil")
	}

	l.mu.RLock()
	idx, ok := l.byID[ifaceID]
	var name string
	var hostType reflect.Type
	if ok {
		name = l.interfaces[idx].Name
		hostType = l.interfaces[idx].Type
	}
	l.mu.RUnlock()

	if !ok {
		return 0, errors.New(errors.PhaseLink, errors.KindNotFound).
			Detail("interface id %d not registered", ifaceID).
			Build()
	}
	if !reflect.TypeOf(value).AssignableTo(hostType) {
		return 0, errors.New(errors.PhaseLink, errors.KindTypeMismatch).
			Path(name).
			GoType(reflect.TypeOf(value).String()).
			Detail("instance is not assignable to %s", hostType.String()).
			Build()
	}

	h := l.instances.Insert(TypeTagOf(hostType), value)
	Logger().Debug("instance bound",
		zap.String("interface", name),
		zap.Uint64("handle", uint64(h)))
	return h, nil
}

// LinkInterfaces assembles the registered interfaces into the export
// registry. The first call builds; every later call returns the
// identical registry pointer, or the identical error when building
// failed. versionChecksum is the caller's expected registry version:
// it is logged against the built version and never affects the result.
func (l *Linker) LinkInterfaces(versionChecksum uint64) (*Registry, error) {
	l.linkOnce.Do(func() {
		l.registry, l.linkErr = l.link(versionChecksum)
	})
	return l.registry, l.linkErr
}

func (l *Linker) link(versionChecksum uint64) (*Registry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.built = true

	reg := &Registry{
		Interfaces: make([]InterfaceExport, 0, len(l.interfaces)),
		linker:     l,
	}

	for i := range l.interfaces {
		iface := &l.interfaces[i]
		tag := TypeTagOf(iface.Type)

		// Validated IDs are dense, so descriptor order is ID order.
		funcs := make([]FuncExport, len(iface.Funcs))
		for j := range iface.Funcs {
			fn := iface.Funcs[j]
			w, err := adapter.New(fn, iface.Type, l.instances, tag, adapter.Options{Strict: l.opts.Strict})
			if err != nil {
				return nil, errors.Registration(errors.PhaseLink, iface.Name, fn.Name, err)
			}
			funcs[fn.ID] = FuncExport{
				Name:     fn.Name,
				ID:       fn.ID,
				Checksum: fn.Checksum,
				Type:     w.FuncType(),
				Callback: w.Callback(),
			}
		}

		reg.Interfaces = append(reg.Interfaces, InterfaceExport{
			Name:     iface.Name,
			ID:       iface.ID,
			Checksum: iface.Checksum,
			TypeTag:  tag,
			Funcs:    funcs,
		})
	}

	reg.Version = reg.digest()

	log := Logger()
	log.Info("interfaces linked",
		zap.Int("interfaces", len(reg.Interfaces)),
		zap.Uint64("version", reg.Version),
		zap.Uint64("callerChecksum", versionChecksum))
	if versionChecksum != 0 && versionChecksum != reg.Version {
		log.Warn("caller version checksum differs from built registry",
			zap.Uint64("caller", versionChecksum),
			zap.Uint64("built", reg.Version))
	}
	return reg, nil
}

// factory returns the registered factory for an interface, or nil.
func (l *Linker) factory(ifaceID uint64) Factory {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.factories[ifaceID]
}
