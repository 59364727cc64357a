// Package clock provides the injectable monotonic time source and the
// absolute deadlines used by every bounded wait in the library.
package clock
