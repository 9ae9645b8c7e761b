package val

import (
	"fmt"
	"math"
)

// Value is a tagged 64-bit scalar. The zero Value has KindNone and
// reads as zero under every accessor.
type Value struct {
	bits uint64
	kind Kind
}

// S32 wraps an s32.
func S32(v int32) Value { return Value{kind: KindS32, bits: uint64(uint32(v))} }

// S64 wraps an s64.
func S64(v int64) Value { return Value{kind: KindS64, bits: uint64(v)} }

// U64 wraps a u64.
func U64(v uint64) Value { return Value{kind: KindU64, bits: v} }

// F32 wraps an f32.
func F32(v float32) Value { return Value{kind: KindF32, bits: uint64(math.Float32bits(v))} }

// F64 wraps an f64.
func F64(v float64) Value { return Value{kind: KindF64, bits: math.Float64bits(v)} }

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// S32 returns the s32 payload, or 0 when the value holds another kind.
func (v Value) S32() int32 {
	if v.kind != KindS32 {
		return 0
	}
	return int32(uint32(v.bits))
}

// S64 returns the s64 payload, or 0 when the value holds another kind.
// A u64-tagged value is accepted too: instance handles travel under
// either integer tag.
func (v Value) S64() int64 {
	if v.kind != KindS64 && v.kind != KindU64 {
		return 0
	}
	return int64(v.bits)
}

// U64 returns the u64 payload, or 0 when the value holds another kind.
func (v Value) U64() uint64 {
	if v.kind != KindU64 {
		return 0
	}
	return v.bits
}

// F32 returns the f32 payload, or 0 when the value holds another kind.
func (v Value) F32() float32 {
	if v.kind != KindF32 {
		return 0
	}
	return math.Float32frombits(uint32(v.bits))
}

// F64 returns the f64 payload, or 0 when the value holds another kind.
func (v Value) F64() float64 {
	if v.kind != KindF64 {
		return 0
	}
	return math.Float64frombits(v.bits)
}

// Bits returns the flat core representation: integers as their
// two's-complement bits, floats as IEEE-754 bit patterns. 32-bit
// payloads occupy the low half with the high half zero.
func (v Value) Bits() uint64 { return v.bits }

// FromBits reconstructs a Value of kind k from one core stack slot.
func FromBits(k Kind, bits uint64) Value {
	switch k {
	case KindS32, KindF32:
		return Value{kind: k, bits: uint64(uint32(bits))}
	case KindS64, KindU64, KindF64:
		return Value{kind: k, bits: bits}
	}
	return Value{}
}

// String renders the value as kind(payload), e.g. "s32(-7)".
func (v Value) String() string {
	switch v.kind {
	case KindS32:
		return fmt.Sprintf("s32(%d)", int32(uint32(v.bits)))
	case KindS64:
		return fmt.Sprintf("s64(%d)", int64(v.bits))
	case KindU64:
		return fmt.Sprintf("u64(%d)", v.bits)
	case KindF32:
		return fmt.Sprintf("f32(%g)", math.Float32frombits(uint32(v.bits)))
	case KindF64:
		return fmt.Sprintf("f64(%g)", math.Float64frombits(v.bits))
	}
	return "none"
}
