// Package config provides the csrfctl configuration.
//
// Settings live in ~/.csrfctl/config.yaml and cover the server address,
// the preferred output format, and the session cookie file location.
// Flags and CSRFTOOLS_* environment variables override the file.
package config
