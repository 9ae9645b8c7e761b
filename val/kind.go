package val

import "go.bytecodealliance.org/wit"

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	KindNone Kind = iota
	KindS32
	KindS64
	KindU64
	KindF32
	KindF64
)

var kindNames = [...]string{
	KindNone: "none",
	KindS32:  "s32",
	KindS64:  "s64",
	KindU64:  "u64",
	KindF32:  "f32",
	KindF64:  "f64",
}

// String returns the WIT spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsFloat reports whether the kind is f32 or f64.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// KindOf maps a WIT type to its value kind. It returns false for
// types outside the scalar boundary set.
func KindOf(t wit.Type) (Kind, bool) {
	switch t.(type) {
	case wit.S32:
		return KindS32, true
	case wit.S64:
		return KindS64, true
	case wit.U64:
		return KindU64, true
	case wit.F32:
		return KindF32, true
	case wit.F64:
		return KindF64, true
	}
	return KindNone, false
}

// TypeOf is the inverse of KindOf. It returns nil for KindNone.
func TypeOf(k Kind) wit.Type {
	switch k {
	case KindS32:
		return wit.S32{}
	case KindS64:
		return wit.S64{}
	case KindU64:
		return wit.U64{}
	case KindF32:
		return wit.F32{}
	case KindF64:
		return wit.F64{}
	}
	return nil
}
