// Package buildinfo exposes the version of the running binary.
//
// It backs the --version flag of both commands and the /version admin
// endpoint.
package buildinfo
