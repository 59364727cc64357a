// Package pathutil implements the canonical path representation used
// throughout the library: one fixed separator, no redundant separators,
// root and volume markers preserved. Paths are converted to the host's
// native separator only when crossing into a native file call.
package pathutil
