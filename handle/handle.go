// Package handle stores live host instances and hands out the opaque
// 64-bit references that guests pass back on every call.
//
// A Handle packs the owning interface's 32-bit type tag into the high
// half and a table slot into the low half. Handle 0 is reserved and
// always invalid. Slots are recycled after Remove, so a stale handle
// can point at a slot now owned by a different interface; Table.Lookup
// returns the stored tag so callers can detect that before touching
// the value.
package handle

// Handle is an opaque reference to one live instance.
type Handle uint64

// New packs a type tag and a table slot into a handle.
func New(tag, slot uint32) Handle {
	return Handle(uint64(tag)<<32 | uint64(slot))
}

// Tag returns the type tag embedded in the handle.
func (h Handle) Tag() uint32 { return uint32(h >> 32) }

// Slot returns the table slot embedded in the handle.
func (h Handle) Slot() uint32 { return uint32(h) }

// Zero reports whether the handle is the reserved invalid handle.
func (h Handle) Zero() bool { return h == 0 }

// Dropper is implemented by instance values that need cleanup when
// removed from a table.
type Dropper interface {
	Drop()
}
