// Package proc launches and supervises child processes through a
// System's ProcessBackend.
//
// A Process moves strictly forward through its lifecycle: Launched,
// then Running, then exactly one of Completed (ran to an exit code) or
// Terminated (killed). Wait is bounded; once it observes completion the
// exit code and cause are recorded and every later Wait returns
// immediately. Arguments are passed to the backend as discrete argv
// tokens, never joined into a command line, so tokens containing spaces
// survive on every platform.
package proc
