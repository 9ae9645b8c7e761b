package export

import (
	"sync"

	"github.com/wasmfoundry/hostlink/errors"
)

// Symbol is the wire name loaders resolve to reach the link entry
// point, mirroring a dynamic-library export.
const Symbol = "link_interfaces"

var (
	installMu sync.RWMutex
	installed *Linker
)

// Install makes l the process-level linker behind the package entry
// point. Installing the same linker again is a no-op; installing a
// different one while another is active is an error.
func Install(l *Linker) error {
	if l == nil {
		return errors.InvalidInput(errors.PhaseLink, "cannot install a nil linker")
	}

	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil && installed != l {
		return errors.New(errors.PhaseLink, errors.KindRegistration).
			Detail("another linker is already installed").
			Build()
	}
	installed = l
	return nil
}

// Uninstall clears the process-level linker.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()
	installed = nil
}

// Installed returns the process-level linker, or nil.
func Installed() *Linker {
	installMu.RLock()
	defer installMu.RUnlock()
	return installed
}

// LinkInterfaces builds, or returns, the installed linker's registry.
func LinkInterfaces(versionChecksum uint64) (*Registry, error) {
	installMu.RLock()
	l := installed
	installMu.RUnlock()

	if l == nil {
		return nil, errors.NotInstalled("linker")
	}
	return l.LinkInterfaces(versionChecksum)
}
