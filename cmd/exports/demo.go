package main

import (
	"fmt"

	"github.com/wasmfoundry/hostlink"
	"github.com/wasmfoundry/hostlink/export"
	"github.com/wasmfoundry/hostlink/handle"
)

// Demo interface identities. Checksums are pinned by hand so schema
// drift in the described types shows up as a registry version change.
const (
	counterPath     = "demo:host/counter@1.0.0"
	counterID       = 1
	counterChecksum = 0xC017

	mixerPath     = "demo:host/mixer@1.2.0"
	mixerID       = 2
	mixerChecksum = 0x313E
)

// counter is a demo host type: a running total with reset.
type counter struct {
	total int64
}

func (c *counter) Increment(delta int32) int64 {
	c.total += int64(delta)
	return c.total
}

func (c *counter) Reset() {
	c.total = 0
}

func (c *counter) Total() int64 {
	return c.total
}

// mixer is a demo host type covering the float and u64 scalars.
type mixer struct {
	gain    float64
	samples uint64
}

func (m *mixer) Gain() float64 {
	return m.gain
}

func (m *mixer) Mix(a, b float32) float32 {
	m.samples++
	return (a + b) * float32(m.gain)
}

func (m *mixer) Samples() uint64 {
	return m.samples
}

func (m *mixer) SetGain(gain float64) {
	m.gain = gain
}

// demoHost is the linked demo world: two interfaces, one live instance
// of each, and factories for creating more.
type demoHost struct {
	reg       *export.Registry
	instances map[uint64]handle.Handle
}

func buildDemo(versionChecksum uint64) (*demoHost, error) {
	l := export.NewLinker()

	counterIface, err := hostlink.Describe(&counter{}, counterPath, counterID, counterChecksum)
	if err != nil {
		return nil, fmt.Errorf("describe counter: %w", err)
	}
	mixerIface, err := hostlink.Describe(&mixer{}, mixerPath, mixerID, mixerChecksum)
	if err != nil {
		return nil, fmt.Errorf("describe mixer: %w", err)
	}

	for _, iface := range []hostlink.Interface{counterIface, mixerIface} {
		if err := l.Register(iface); err != nil {
			return nil, fmt.Errorf("register %s: %w", iface.Name, err)
		}
	}
	if err := l.RegisterFactory(counterID, func(string) (any, error) { return &counter{}, nil }); err != nil {
		return nil, err
	}
	if err := l.RegisterFactory(mixerID, func(string) (any, error) { return &mixer{gain: 1}, nil }); err != nil {
		return nil, err
	}

	instances := make(map[uint64]handle.Handle, 2)
	ch, err := l.BindInstance(counterID, &counter{})
	if err != nil {
		return nil, fmt.Errorf("bind counter: %w", err)
	}
	instances[counterID] = ch

	mh, err := l.BindInstance(mixerID, &mixer{gain: 1})
	if err != nil {
		return nil, fmt.Errorf("bind mixer: %w", err)
	}
	instances[mixerID] = mh

	reg, err := l.LinkInterfaces(versionChecksum)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	return &demoHost{reg: reg, instances: instances}, nil
}
