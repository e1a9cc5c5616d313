// Package config loads and validates feedbackd configuration.
//
// Configuration comes from a YAML file, discovered in this order:
//
//  1. Explicit path from the --config flag
//  2. .feedbackd.yaml in the current directory
//  3. ~/.config/feedbackd/config.yaml
//
// Environment variables with the FEEDBACKD_ prefix override file values,
// so FEEDBACKD_SERVER_ADDR=:9000 takes precedence over server.addr.
package config
