// Package config handles configuration loading for picomcp.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files, chosen by file
// extension, with environment variable expansion. Fields left empty fall
// back to defaults, so an empty file is a valid configuration.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  name: "${PICOMCP_NAME}"
//
// # Configuration Sections
//
// Server identity and bind address:
//
//	server:
//	  addr: "0.0.0.0:8080"
//	  name: "picomcp"
//	  version: "1.0.0"
//	  description: "Optional **markdown** shown on the status page"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
