// Package output provides output formatting for csrfctl.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned-column table rendering
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//
// Table output targets humans; json and yaml target scripts.
package output
