package hostlink

import (
	"context"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wasmfoundry/hostlink/errors"
)

type meter struct {
	total int64
	gain  float32
}

func (m *meter) Add(delta int32) int64 { m.total += int64(delta); return m.total }

func (m *meter) GetHTTPStatus() int32 { return 200 }

func (m *meter) Ping() {}

func (m *meter) SetGain(_ context.Context, g float32) { m.gain = g }

func (m *meter) Total() uint64 { return uint64(m.total) }

func TestDescribe(t *testing.T) {
	iface, err := Describe(&meter{}, "demo:host/meter@1.0.0", 3, 0xabcd)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if iface.Name != "demo:host/meter@1.0.0" || iface.ID != 3 || iface.Checksum != 0xabcd {
		t.Errorf("identity = (%q, %d, %#x)", iface.Name, iface.ID, iface.Checksum)
	}
	if iface.Type == nil || iface.Type.Kind().String() != "ptr" {
		t.Errorf("Type = %v, want *meter", iface.Type)
	}

	// Methods enumerate in Go name order; IDs are dense in that order.
	want := []struct {
		goName string
		name   string
		params []wit.Type
		result wit.Type
	}{
		{"Add", "add", []wit.Type{wit.S32{}}, wit.S64{}},
		{"GetHTTPStatus", "get-http-status", nil, wit.S32{}},
		{"Ping", "ping", nil, nil},
		{"SetGain", "set-gain", []wit.Type{wit.F32{}}, nil},
		{"Total", "total", nil, wit.U64{}},
	}
	if len(iface.Funcs) != len(want) {
		t.Fatalf("got %d functions, want %d", len(iface.Funcs), len(want))
	}

	for i, w := range want {
		f := iface.Funcs[i]
		t.Run(w.name, func(t *testing.T) {
			if f.GoName != w.goName || f.Name != w.name {
				t.Errorf("names = (%q, %q), want (%q, %q)", f.GoName, f.Name, w.goName, w.name)
			}
			if f.ID != uint64(i) {
				t.Errorf("ID = %d, want %d", f.ID, i)
			}
			if f.Checksum == 0 {
				t.Error("checksum is zero")
			}
			if len(f.Params) != len(w.params) {
				t.Fatalf("params = %d, want %d", len(f.Params), len(w.params))
			}
			for j, p := range w.params {
				if f.Params[j] != p {
					t.Errorf("param %d = %T, want %T", j, f.Params[j], p)
				}
			}
			if w.result == nil {
				if len(f.Results) != 0 {
					t.Errorf("results = %v, want none", f.Results)
				}
			} else if len(f.Results) != 1 || f.Results[0] != w.result {
				t.Errorf("results = %v, want [%T]", f.Results, w.result)
			}
			if !f.Method.IsValid() {
				t.Error("method value not captured")
			}
		})
	}
}

func TestDescribeDeterministic(t *testing.T) {
	a, err := Describe(&meter{}, "demo:host/meter@1.0.0", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Describe(&meter{}, "demo:host/meter@1.0.0", 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Funcs {
		if a.Funcs[i].Checksum != b.Funcs[i].Checksum {
			t.Errorf("%s: checksum not deterministic: %#x != %#x",
				a.Funcs[i].Name, a.Funcs[i].Checksum, b.Funcs[i].Checksum)
		}
	}

	seen := map[uint64]string{}
	for _, f := range a.Funcs {
		if prev, dup := seen[f.Checksum]; dup {
			t.Errorf("checksum collision between %s and %s", prev, f.Name)
		}
		seen[f.Checksum] = f.Name
	}
}

func TestSignatureChecksumTracksDrift(t *testing.T) {
	base := SignatureChecksum("add", []wit.Type{wit.S32{}}, []wit.Type{wit.S64{}})

	drifted := []uint64{
		SignatureChecksum("add2", []wit.Type{wit.S32{}}, []wit.Type{wit.S64{}}),
		SignatureChecksum("add", []wit.Type{wit.S64{}}, []wit.Type{wit.S64{}}),
		SignatureChecksum("add", []wit.Type{wit.S32{}}, []wit.Type{wit.U64{}}),
		SignatureChecksum("add", []wit.Type{wit.S32{}}, nil),
		SignatureChecksum("add", []wit.Type{wit.S32{}, wit.S32{}}, []wit.Type{wit.S64{}}),
	}
	for i, d := range drifted {
		if d == base {
			t.Errorf("variant %d produced the same checksum %#x", i, base)
		}
	}

	if again := SignatureChecksum("add", []wit.Type{wit.S32{}}, []wit.Type{wit.S64{}}); again != base {
		t.Errorf("checksum not stable: %#x != %#x", again, base)
	}
}

type gainLevel float32

type dial struct{ level gainLevel }

func (d *dial) SetLevel(l gainLevel) {}

func (d *dial) Level() gainLevel { return d.level }

func TestDescribeNamedScalars(t *testing.T) {
	iface, err := Describe(&dial{}, "demo:host/dial@1.0.0", 1, 1)
	if err != nil {
		t.Fatalf("named scalar types rejected: %v", err)
	}

	lv := iface.Func("level")
	if lv == nil || len(lv.Results) != 1 {
		t.Fatalf("level = %+v", lv)
	}
	if _, ok := lv.Results[0].(wit.F32); !ok {
		t.Errorf("level result = %T, want wit.F32", lv.Results[0])
	}
}

type badString struct{}

func (b *badString) Greet(name string) {}

type badErr struct{}

func (b *badErr) Do() error { return nil }

type badTwo struct{}

func (b *badTwo) Pair() (int32, int32) { return 0, 0 }

type badVariadic struct{}

func (b *badVariadic) Sum(ns ...int32) {}

type badInt struct{}

func (b *badInt) Set(n int) {}

func TestDescribeRejectsInexpressible(t *testing.T) {
	tests := []struct {
		name   string
		host   any
		goType string
	}{
		{"string parameter", &badString{}, "string"},
		{"error result", &badErr{}, "error"},
		{"two results", &badTwo{}, "func(*hostlink.badTwo) (int32, int32)"},
		{"variadic", &badVariadic{}, "func(*hostlink.badVariadic, ...int32)"},
		{"platform int", &badInt{}, "int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Describe(tt.host, "demo:host/bad@1.0.0", 1, 1)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var e *errors.Error
			if !errorsAs(err, &e) {
				t.Fatalf("error type = %T", err)
			}
			if e.Kind != errors.KindUnsupported {
				t.Errorf("kind = %s, want unsupported", e.Kind)
			}
			if e.GoType != tt.goType {
				t.Errorf("GoType = %q, want %q", e.GoType, tt.goType)
			}
		})
	}
}

func TestDescribeInvalidInput(t *testing.T) {
	if _, err := Describe(nil, "demo:host/x@1.0.0", 1, 1); err == nil {
		t.Error("nil host accepted")
	}
	if _, err := Describe(&meter{}, "", 1, 1); err == nil {
		t.Error("empty name accepted")
	}
}

func TestToKebabCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Add", "add"},
		{"SetVolume", "set-volume"},
		{"ParseJSONBody", "parse-json-body"},
		{"GetURL", "get-url"},
		// A trailing acronym cluster has no word boundary to split on.
		{"GetHTTPURL", "get-httpurl"},
		{"ID", "id"},
		{"A", "a"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toKebabCase(tt.in); got != tt.want {
			t.Errorf("toKebabCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// errorsAs avoids importing the stdlib errors package alongside the
// local one.
func errorsAs(err error, target **errors.Error) bool {
	for err != nil {
		if e, ok := err.(*errors.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
