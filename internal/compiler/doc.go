// Package compiler projects resolved decision units into a flow.Graph.
//
// Node construction and edge construction are independent single-pass folds
// over the same unit sequence. Build runs Validate first and refuses to
// assemble a graph that breaks a structural invariant; it never returns a
// partial graph.
//
// Cycle detection is left to the evaluation engine.
package compiler
