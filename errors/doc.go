// Package errors provides structured error types for the pal library.
//
// Errors are categorized by Domain (which subsystem produced the error) and
// Kind (error category). Every fallible operation in the library reports
// failures through this vocabulary; timeouts of bounded waits are not errors
// and are reported through Outcome values instead.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.DomainFile, errors.KindNotFound).
//		Op("open").
//		Path("data/config.txt").
//		Detail("no such file").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.DomainFile, "open", path)
//	err := errors.CreationFailed(errors.DomainThread, "mutex-create", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
