// Package seed upserts the hero and item reference catalogs into Postgres.
package seed

import "fmt"

// SeedResult tracks counts and errors from a seeding operation.
type SeedResult struct {
	HeroesUpserted int
	ItemsUpserted  int
	Errors         []string
}

// Add merges another SeedResult into this one.
func (r *SeedResult) Add(other SeedResult) {
	r.HeroesUpserted += other.HeroesUpserted
	r.ItemsUpserted += other.ItemsUpserted
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *SeedResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *SeedResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Failed reports whether any error was recorded.
func (r *SeedResult) Failed() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary of the seed operation.
func (r *SeedResult) Summary() string {
	return fmt.Sprintf(
		"heroes=%d items=%d errors=%d",
		r.HeroesUpserted, r.ItemsUpserted, len(r.Errors),
	)
}
