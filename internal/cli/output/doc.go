// Package output renders shardkv-cli results.
//
//   - formatter.go: Formatter interface, format parsing
//   - table.go: aligned columns via text/tabwriter
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//
// JSON and YAML use the json field names of the rendered values so both
// machine formats agree.
package output
