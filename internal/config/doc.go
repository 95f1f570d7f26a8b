// Package config loads, normalizes, and validates hevcpress configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files (or YAML when the file extension says so).
// The Config type centralizes every knob the batch needs: the source and
// destination folders, the encoder command template and quality, the ignore
// list, and the source-deletion policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
