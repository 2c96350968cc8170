// Package config loads, normalizes, and validates reviewbot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PRACTICUM_TOKEN, TELEGRAM_TOKEN, and TELEGRAM_CHAT_ID. The Config type is
// built once at startup and passed explicitly to every component; nothing in
// the repository reads credentials from process-wide variables.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
