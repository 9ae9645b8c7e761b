package hostlink

import (
	"context"
	"hash/fnv"
	"io"
	"reflect"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wasmfoundry/hostlink/errors"
)

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Describe builds interface metadata for a host value by reflection.
// Every exported method becomes a member function: the export name is
// the kebab-case form of the Go name, the function ID is the position
// in enumeration order, and the checksum is a digest of the export
// name and wire signature, so checksum drift tracks signature drift.
//
// An optional leading context.Context parameter is host-side plumbing
// and does not appear in the wire signature. All other parameters and
// the result must be scalar: int32, int64, uint64, float32 or float64
// (or named types thereof). A method outside that shape is an error,
// never a silent skip.
func Describe(host any, name string, id, checksum uint64) (Interface, error) {
	if host == nil {
		return Interface{}, errors.InvalidInput(errors.PhaseDescribe, "host cannot be nil")
	}
	if name == "" {
		return Interface{}, errors.InvalidInput(errors.PhaseDescribe, "interface name cannot be empty")
	}

	ht := reflect.TypeOf(host)
	funcs := make([]Func, 0, ht.NumMethod())

	for i := 0; i < ht.NumMethod(); i++ {
		method := ht.Method(i)
		if !method.IsExported() {
			continue
		}

		fn, err := describeMethod(name, method)
		if err != nil {
			return Interface{}, err
		}
		fn.ID = uint64(len(funcs))
		funcs = append(funcs, fn)
	}

	iface := Interface{
		Name:     name,
		ID:       id,
		Checksum: checksum,
		Type:     ht,
		Funcs:    funcs,
	}
	if err := iface.Validate(); err != nil {
		return Interface{}, err
	}
	return iface, nil
}

func describeMethod(ifaceName string, method reflect.Method) (Func, error) {
	mt := method.Type // receiver is In(0)
	witName := toKebabCase(method.Name)

	if mt.IsVariadic() {
		return Func{}, errors.New(errors.PhaseDescribe, errors.KindUnsupported).
			Path(ifaceName, witName).
			GoType(mt.String()).
			Detail("variadic methods cannot be exported").
			Build()
	}

	start := 1
	if mt.NumIn() > 1 && mt.In(1) == ctxType {
		start = 2
	}

	params := make([]wit.Type, 0, mt.NumIn()-start)
	for i := start; i < mt.NumIn(); i++ {
		wt, ok := scalarWitType(mt.In(i))
		if !ok {
			return Func{}, errors.New(errors.PhaseDescribe, errors.KindUnsupported).
				Path(ifaceName, witName).
				GoType(mt.In(i).String()).
				Detail("parameter %d is not a supported scalar", i-start).
				Build()
		}
		params = append(params, wt)
	}

	if mt.NumOut() > 1 {
		return Func{}, errors.New(errors.PhaseDescribe, errors.KindUnsupported).
			Path(ifaceName, witName).
			GoType(mt.String()).
			Detail("at most one result supported, got %d", mt.NumOut()).
			Build()
	}
	var results []wit.Type
	if mt.NumOut() == 1 {
		wt, ok := scalarWitType(mt.Out(0))
		if !ok {
			return Func{}, errors.New(errors.PhaseDescribe, errors.KindUnsupported).
				Path(ifaceName, witName).
				GoType(mt.Out(0).String()).
				Detail("result is not a supported scalar").
				Build()
		}
		results = []wit.Type{wt}
	}

	return Func{
		GoName:   method.Name,
		Name:     witName,
		Checksum: SignatureChecksum(witName, params, results),
		Method:   method.Func,
		Params:   params,
		Results:  results,
	}, nil
}

// scalarWitType maps a Go type onto the boundary's scalar WIT types by
// reflect kind, so named scalar types are accepted too. Platform-width
// int and uint are deliberately excluded: the wire width must not
// depend on the build target.
func scalarWitType(t reflect.Type) (wit.Type, bool) {
	switch t.Kind() {
	case reflect.Int32:
		return wit.S32{}, true
	case reflect.Int64:
		return wit.S64{}, true
	case reflect.Uint64:
		return wit.U64{}, true
	case reflect.Float32:
		return wit.F32{}, true
	case reflect.Float64:
		return wit.F64{}, true
	}
	return nil, false
}

// SignatureChecksum digests an export name and wire signature into the
// drift-detection checksum carried by function descriptors. FNV-64a
// over the name and the WIT spellings of parameter and result types.
func SignatureChecksum(name string, params, results []wit.Type) uint64 {
	h := fnv.New64a()
	io.WriteString(h, name)
	for _, p := range params {
		io.WriteString(h, "|")
		io.WriteString(h, witTypeName(p))
	}
	io.WriteString(h, "->")
	for _, r := range results {
		io.WriteString(h, witTypeName(r))
	}
	return h.Sum64()
}

// toKebabCase converts a PascalCase method name to its kebab-case wire
// form. Uppercase runs stay together as acronyms: ParseJSONBody maps to
// parse-json-body, GetURL to get-url.
func toKebabCase(s string) string {
	runes := []rune(s)
	var b strings.Builder

	for i := 0; i < len(runes); {
		if !unicode.IsUpper(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + 1
		for end < len(runes) && unicode.IsUpper(runes[end]) {
			end++
		}
		// The run's final upper starts the next word when lowercase
		// follows it: the B in ParseJSONBody belongs to "body".
		if end-i > 1 && end < len(runes) && unicode.IsLower(runes[end]) {
			end--
		}
		for ; i < end; i++ {
			b.WriteRune(unicode.ToLower(runes[i]))
		}
	}
	return b.String()
}
