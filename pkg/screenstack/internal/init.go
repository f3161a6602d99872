// Package internal contains the infrastructure behind the screenstack engine:
// logging setup and keyed locks used to serialize work per layer and per descriptor.
// Types and functions in this package are not part of the public API.
package internal
