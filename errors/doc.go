// Package errors provides the application error type used to add domain
// context on top of transport-level failures.
//
// Service façades wrap an underlying error in an AppError with a
// machine-readable code and a message fit for display, while Cause keeps the
// original error reachable through errors.Unwrap, errors.Is and errors.As.
package errors
