package resource

// Handle is an opaque reference to a resource in a table.
// Handle 0 is reserved and always invalid.
//
// A handle packs a slot index with a small generation counter so that a
// handle kept past destruction does not silently alias the resource that
// later reuses the slot.
type Handle uint32

const (
	indexBits  = 24
	indexMask  = 1<<indexBits - 1
	maxEntries = indexMask - 1
)

func makeHandle(idx int, gen uint8) Handle {
	return Handle(uint32(gen)<<indexBits | uint32(idx+1))
}

// Index returns the slot number of the handle, unique among live handles
// in a table and eligible for reuse after the resource is destroyed.
func (h Handle) Index() uint32 {
	return uint32(h) & indexMask
}

func (h Handle) generation() uint8 {
	return uint8(uint32(h) >> indexBits)
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDestroyed
)

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by resource values that need cleanup.
// The table calls Drop when the resource is removed or the table is closed,
// so release happens on every exit path.
type Dropper interface {
	Drop()
}
