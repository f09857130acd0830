// Package common provides common utilities shared across the module's packages.
package common

import "fmt"

// MaskSecret masks sensitive strings for safe logging.
// Shows first 4 and last 4 characters for strings longer than 8 chars.
// Returns "***" for short strings and "<not set>" for empty strings.
//
// Example:
//
//	MaskSecret("") // "<not set>"
//	MaskSecret("short") // "***"
//	MaskSecret("myverylongsecretkey123") // "myve...y123"
func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// Must panics if err is not nil, otherwise returns value.
// Reserved for process-startup initialization that should fail fast (an unparsable
// pool config, a missing store path); never used for per-request errors.
//
// Example:
//
//	cfg := common.Must(config.LoadAll("SI"))
func Must[T any](value T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("Must: operation failed: %v", err))
	}
	return value
}

// MustNoError panics if err is not nil. Same startup-only caveat as Must.
//
// Example:
//
//	common.MustNoError(store.Close())
func MustNoError(err error) {
	if err != nil {
		panic(fmt.Sprintf("MustNoError: operation failed: %v", err))
	}
}

// Ptr returns a pointer to the given value.
// Useful for initializing pointer fields in structs.
func Ptr[T any](v T) *T {
	return &v
}

// PtrValue returns the value of a pointer, or the zero value if nil.
func PtrValue[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}
