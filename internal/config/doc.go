// Package config loads, normalizes, and validates romkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DIAMBRAROMSPATH environment
// variable, which overrides the configured ROM directory whenever it is set.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical backend names, and clear validation errors.
package config
