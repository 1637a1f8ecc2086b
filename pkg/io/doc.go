// Package io reads and writes architecture files.
//
// An architecture file names a network and lists its layers in order. Both
// TOML and JSON are accepted; the format is chosen by file extension.
//
// TOML uses an array of [[layer]] tables:
//
//	name = "mnist"
//	title = "MNIST classifier"
//
//	[[layer]]
//	id = "input"
//	name = "Input"
//	nodes = 16
//	units = 784
//
//	[[layer]]
//	id = "output"
//	name = "Output"
//	nodes = 10
//	activation = "Softmax"
//
// JSON uses a "layers" array with the same keys:
//
//	{"name": "tiny", "layers": [{"id": "in", "nodes": 2}, {"id": "out", "nodes": 1}]}
//
// Layer keys: id (required), nodes (required, at least 1), name, units (the
// true width when nodes is a display cap), slot (fractional x position,
// all layers or none) and activation.
//
// Every reader validates the layer list with [network.ValidateLayers], so a
// successfully imported architecture can always be built. Decoding problems
// are INVALID_FORMAT errors; layer problems are INVALID_TOPOLOGY errors.
//
// [network.ValidateLayers]: github.com/matzehuels/netgraph/pkg/network.ValidateLayers
package io
