// Package mocks provides testify mocks for the interfaces in internal/ports.
//
// Variadic logger fields are passed to Called as a single slice, so an
// expectation is always On("Info", msg, fields).
package mocks
