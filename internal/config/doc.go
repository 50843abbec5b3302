// Package config provides configuration management for the closecli tool.
// It loads configuration from environment variables and an optional YAML
// file and validates the result.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CLOSECLI_* for namespacing,
// for example CLOSECLI_PROVIDER_BASE_URL or CLOSECLI_LOGGING_LEVEL.
package config
