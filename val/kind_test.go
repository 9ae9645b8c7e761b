package val

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "none"},
		{KindS32, "s32"},
		{KindS64, "s64"},
		{KindU64, "u64"},
		{KindF32, "f32"},
		{KindF64, "f64"},
		{Kind(200), "invalid"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		typ  wit.Type
		want Kind
		ok   bool
	}{
		{"s32", wit.S32{}, KindS32, true},
		{"s64", wit.S64{}, KindS64, true},
		{"u64", wit.U64{}, KindU64, true},
		{"f32", wit.F32{}, KindF32, true},
		{"f64", wit.F64{}, KindF64, true},
		{"u32 outside boundary set", wit.U32{}, KindNone, false},
		{"bool outside boundary set", wit.Bool{}, KindNone, false},
		{"string outside boundary set", wit.String{}, KindNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.typ)
			if got != tt.want || ok != tt.ok {
				t.Errorf("KindOf(%T) = (%v, %v), want (%v, %v)", tt.typ, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTypeOfRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindS32, KindS64, KindU64, KindF32, KindF64} {
		typ := TypeOf(k)
		if typ == nil {
			t.Fatalf("TypeOf(%v) = nil", k)
		}
		got, ok := KindOf(typ)
		if !ok || got != k {
			t.Errorf("KindOf(TypeOf(%v)) = (%v, %v), want (%v, true)", k, got, ok, k)
		}
	}

	if typ := TypeOf(KindNone); typ != nil {
		t.Errorf("TypeOf(KindNone) = %v, want nil", typ)
	}
}

func TestKindIsFloat(t *testing.T) {
	floats := map[Kind]bool{
		KindNone: false,
		KindS32:  false,
		KindS64:  false,
		KindU64:  false,
		KindF32:  true,
		KindF64:  true,
	}
	for k, want := range floats {
		if got := k.IsFloat(); got != want {
			t.Errorf("%v.IsFloat() = %v, want %v", k, got, want)
		}
	}
}
