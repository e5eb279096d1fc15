// Package flow provides the data model shared by the orb loader and compiler.
//
// This package contains type definitions, the structured error type, and the
// serialized forms of a compiled graph. All other internal packages import
// flow; flow imports nothing internal.
//
// Key design constraints:
//   - UnitSpec and ResolvedUnit are immutable once produced by the loader
//   - Payload and NodeContent are closed variants; consumers dispatch through
//     the visitor interfaces so a new variant breaks the build, not a run
//   - Node order is Entry, units in flow order, Exit
//   - Edges are never deduplicated (multi-edge semantics)
package flow
