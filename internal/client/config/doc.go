// Package config loads the docuchat CLI configuration from defaults,
// the environment (.env included), an optional JSON file, and
// command-line flags, in that order of precedence.
package config
