// Package output renders command results for the terminal or for scripts.
//
//   - formatter.go: Formatter interface, format parsing and factory
//   - table.go: aligned FIELD/VALUE tables
//   - json.go: indented JSON
//   - yaml.go: YAML via go.yaml.in/yaml/v3
//
// Tables are meant for people; JSON and YAML keep field names stable for
// scripting.
package output
