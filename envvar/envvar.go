// Package envvar wraps process-environment lookup. Purely a convenience
// surface: no platform divergence, no failure taxonomy.
package envvar

import "os"

// Get returns the value of the named variable and whether it is present.
// An empty value with true means "set to empty", distinct from unset.
func Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// IsSet reports whether the named variable is present at all.
func IsSet(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}

// IsSetTo reports whether the named variable is present with exactly the
// given value.
func IsSetTo(name, value string) bool {
	v, ok := os.LookupEnv(name)
	return ok && v == value
}
