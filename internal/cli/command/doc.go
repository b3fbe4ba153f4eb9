// Package command defines the tlsserve command line using urfave/cli/v2.
//
//   - root.go: App, global flags and flag-to-config mapping
//   - serve.go: default action, loads credentials then binds and serves
//   - check.go: "check" subcommand, reports on the key pair without binding
//
// Every action loads configuration the same way: defaults, then the YAML
// file named by --config, then TLSSERVE_* environment variables, then the
// flags that were set explicitly.
package command
