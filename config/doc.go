// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml, overlaid with environment
// variables (a local .env file is honored when present), and validated
// using struct tags. Secret material is expected to arrive via the
// environment, never the yaml file.
package config
