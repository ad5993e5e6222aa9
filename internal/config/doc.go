// Package config loads the application configuration from an optional
// YAML file merged with ECONTAB_* environment variables, environment
// winning. It covers the HTTP server, logging, fetch defaults (timeout,
// user agent, body size cap) and export defaults (output directory,
// delimiter, BOM).
package config
