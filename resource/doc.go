// Package resource provides the opaque-handle registry shared by every
// stateful subsystem in the library.
//
// # Resource Lifecycle
//
// Every native resource (file stream, thread, mutex, condition variable,
// process) follows the same pattern:
//
//	create() -> handle | failure
//	use(handle, ...) -> result
//	destroy(handle) -> result
//
// A handle exclusively owns exactly one native resource. It is created by
// the corresponding open/create operation and destroyed exactly once by the
// corresponding close/free operation. Handles are never copied; ownership
// transfers explicitly.
//
// # Handle Table
//
// The Table maps integer handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Destroy and get value (for ownership transfer)
//	value, err := table.Remove(handle)
//
// Handles carry a small generation counter, so a stale handle held past
// destruction does not alias the resource that later reuses its slot.
//
// # Debug Mode
//
// With NewTable(resource.WithDebug(true)) destroyed slots are never reused
// and a second destroy of the same handle returns an explicit
// already_closed failure. In release mode the single-owner discipline is
// the caller's responsibility.
//
// # Type Safety
//
// Handles are typed; each resource type gets a unique type ID. Subsystems
// use View for compile-time typed access:
//
//	files := resource.NewView[*Stream](table, fileTypeID)
//	handle := files.Insert(stream)
//	stream, ok := files.Get(handle)
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(obs) // receives EventCreated / EventDestroyed
//
// # Cleanup
//
// Values that need cleanup implement Dropper; the table calls Drop on
// Remove, Clear and Close, so release happens on every exit path.
package resource
