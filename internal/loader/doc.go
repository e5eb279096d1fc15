// Package loader reads decision flow files and resolves each decision
// unit's rule payload.
//
// Reading turns a flow file (JSON, YAML, CUE or HCL) into []flow.UnitSpec.
// Resolution turns each UnitSpec into a flow.ResolvedUnit by loading table
// rows, taking expression text verbatim, or slurping function source.
//
// Everything is synchronous and fail-fast: the first error stops the load
// and no partial result is returned.
package loader
