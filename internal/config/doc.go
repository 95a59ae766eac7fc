// Package config loads and validates the toolkit configuration.
//
// Configuration is read from an optional YAML file and then overridden by
// environment variables with the SDM prefix (for example SDM_PATHS_DATA_DIR).
// The resolved Paths value centralizes where input tables are read from and
// where reports and figures are written.
package config
