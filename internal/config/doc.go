// Package config loads, normalizes, and validates netdo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// NETDO_NTFY_TOPIC and TELEGRAM_BOT_TOKEN. The Config type centralizes every
// knob the CLI and the watch daemon need: where tasks are persisted, which
// network detector runs, and how notifications are delivered.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
