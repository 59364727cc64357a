// Package thread provides the synchronization subsystem: threads with
// timed joins, mutexes with try-lock, and condition variables with
// deadline waits.
//
// The scheduling model is native preemptive threads running in parallel.
// Mutex locking is always unbounded; every other blocking operation
// accepts a timeout, converted once at wait entry into an absolute
// monotonic deadline. Acquiring a mutex establishes a happens-before
// relationship with the previous holder's release; signal and broadcast
// carry no memory-ordering guarantees beyond what the paired mutex
// provides.
package thread
