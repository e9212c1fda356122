// Package netgraph holds the wiring graph of one editing surface.
//
// A [Sheet] owns net segments and their primitives. Every entity lives in an
// arena map of the sheet keyed by UUID; references between entities are IDs,
// never pointers, so ownership stays explicit and acyclic.
//
// # Model
//
//   - [NetSegment]: a connected set of points and lines sharing one net signal
//   - [NetPoint]: a junction with a position, optionally attached to one pin
//   - [NetLine]: a wire between two [Anchor]s of the same segment
//   - [NetLabel]: a positioned marker that may force the name of its net
//   - [Symbol] and [Pin]: placed component terminals usable as anchors
//   - [Plane]: a board copper area bound to a net signal
//
// An [Anchor] is a tagged union of a point ID or a pin ID, resolved through
// the sheet.
//
// # Mutation
//
// The sheet is passive. All changes go through the commands in this package,
// which implement the undo.Command contract. Commands check their
// preconditions in Execute before touching the model: attaching a pin that
// is connected elsewhere is a user-actionable error, while structural
// mistakes such as removing a point that still has lines panic with a logic
// error.
//
// # Invariants
//
// [Sheet.Validate] checks, for every segment:
//  1. both anchors of each line resolve into the line's segment
//  2. the points and lines form one connected graph
//  3. each pin is attached to at most one point and serves at most one segment
//
// Connectivity is computed with gonum's graph/topo package.
//
// # Export
//
// [Sheet.Snapshot] produces a deterministic structural copy suitable for
// equality checks and JSON persistence. [ToDOT] and [RenderSVG] draw the net
// topology with Graphviz for debugging.
package netgraph
