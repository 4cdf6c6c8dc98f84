// Package sanitizer normalizes user input before it is validated and sent.
//
// All functions are idempotent and never fail: input that cannot be
// normalized comes back empty or unchanged, and validation decides what to do
// with it.
package sanitizer
