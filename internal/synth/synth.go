// Package synth assembles minimal core WASM modules that import host
// functions and re-export direct call trampolines for them. Tests and
// examples use the result as a stand-in guest, so real guest-to-host
// calls can run without shipping .wasm fixtures.
package synth

import (
	"github.com/tetratelabs/wazero/api"
)

// Builder collects host function imports for one synthetic module.
type Builder struct {
	funcs []hostFunc
}

type hostFunc struct {
	module  string
	name    string
	export  string
	params  []api.ValueType
	results []api.ValueType
}

// NewBuilder creates an empty module builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ImportFunc declares a host function import from module/name plus a
// trampoline exported under exportName that forwards its arguments to
// the import and returns its result.
func (b *Builder) ImportFunc(module, name, exportName string, params, results []api.ValueType) {
	b.funcs = append(b.funcs, hostFunc{
		module:  module,
		name:    name,
		export:  exportName,
		params:  params,
		results: results,
	})
}

// Build generates the module bytes, or nil when nothing was imported.
func (b *Builder) Build() []byte {
	if len(b.funcs) == 0 {
		return nil
	}

	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	wasm = appendSection(wasm, 0x01, b.buildTypeSection())
	wasm = appendSection(wasm, 0x02, b.buildImportSection())
	wasm = appendSection(wasm, 0x03, b.buildFuncSection())
	wasm = appendSection(wasm, 0x07, b.buildExportSection())
	wasm = appendSection(wasm, 0x0a, b.buildCodeSection())

	return wasm
}

func appendSection(wasm []byte, id byte, section []byte) []byte {
	wasm = append(wasm, id)
	wasm = append(wasm, EncodeULEB128(uint32(len(section)))...)
	return append(wasm, section...)
}

func appendName(section []byte, name string) []byte {
	section = append(section, EncodeULEB128(uint32(len(name)))...)
	return append(section, name...)
}

// buildTypeSection emits one function type per import; the trampoline
// for import i reuses type i.
func (b *Builder) buildTypeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for _, f := range b.funcs {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(f.params)))...)
		for _, t := range f.params {
			section = append(section, valType(t))
		}
		section = append(section, EncodeULEB128(uint32(len(f.results)))...)
		for _, t := range f.results {
			section = append(section, valType(t))
		}
	}

	return section
}

func (b *Builder) buildImportSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for i, f := range b.funcs {
		section = appendName(section, f.module)
		section = appendName(section, f.name)
		section = append(section, 0x00) // function import
		section = append(section, EncodeULEB128(uint32(i))...)
	}

	return section
}

func (b *Builder) buildFuncSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)
	for i := range b.funcs {
		section = append(section, EncodeULEB128(uint32(i))...)
	}
	return section
}

func (b *Builder) buildExportSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	// Imports occupy function indices 0..n-1; trampolines follow.
	n := len(b.funcs)
	for i, f := range b.funcs {
		section = appendName(section, f.export)
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(uint32(n+i))...)
	}

	return section
}

func (b *Builder) buildCodeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for i, f := range b.funcs {
		body := trampolineBody(i, len(f.params))
		section = append(section, EncodeULEB128(uint32(len(body)))...)
		section = append(section, body...)
	}

	return section
}

// trampolineBody forwards every parameter to the imported function:
// no locals, local.get each param, call, end.
func trampolineBody(importIdx, numParams int) []byte {
	var body []byte
	body = append(body, 0x00)

	for i := 0; i < numParams; i++ {
		body = append(body, 0x20)
		body = append(body, EncodeULEB128(uint32(i))...)
	}

	body = append(body, 0x10)
	body = append(body, EncodeULEB128(uint32(importIdx))...)
	body = append(body, 0x0b)

	return body
}

// EncodeULEB128 encodes an unsigned value in LEB128 format.
func EncodeULEB128(v uint32) []byte {
	var result []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		result = append(result, b)
		if v == 0 {
			break
		}
	}
	return result
}

// valType converts a wazero value type to its binary encoding.
func valType(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI32:
		return 0x7f
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	case api.ValueTypeF64:
		return 0x7c
	default:
		return 0x7f
	}
}
