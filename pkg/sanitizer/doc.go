// Package sanitizer normalizes untrusted user input before validation and
// storage. Sanitizing is lossy on purpose: values are canonicalized, never
// rejected; rejection is the validator's job.
package sanitizer
