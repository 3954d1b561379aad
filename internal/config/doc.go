// Package config loads and validates the TOML configuration file. Loading
// is three phases: decode over defaults, normalize (trim, lowercase, expand
// paths), then validate. Every command goes through Load, so the rest of
// the program can assume a normalized config.
package config
