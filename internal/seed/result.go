// Package seed bulk-loads and refreshes favorite players for the admin CLI.
package seed

import "fmt"

// Result tracks counts and errors from a seeding operation.
type Result struct {
	Added     int
	Existing  int
	Refreshed int
	Errors    []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.Added += other.Added
	r.Existing += other.Existing
	r.Refreshed += other.Refreshed
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"added=%d existing=%d refreshed=%d errors=%d",
		r.Added, r.Existing, r.Refreshed, len(r.Errors),
	)
}
