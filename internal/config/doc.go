// Package config loads application configuration from a YAML file merged
// with SALES_* environment variables, with environment taking precedence.
// It also builds the process logger from the logging section.
package config
