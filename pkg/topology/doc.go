// Package topology implements the algorithms that restructure net segments.
//
// Every function executes its steps as children of a caller-provided
// undo.Group. Nothing is caught on the way: the first error or logic panic
// propagates to the top-level operation, whose group rolls back every step
// already taken. The algorithms are therefore freely composable:
//
//	g := undo.NewCompound("Connect", func(g *undo.Group) error {
//	    sig, err := topology.ResolveNetName(g, sess, candidates, forced)
//	    if err != nil {
//	        return err
//	    }
//	    if err := topology.AssignSignal(g, sess, sheet, segments, sig); err != nil {
//	        return err
//	    }
//	    return topology.CombineSegments(g, sess, sheet, a, anchorA, b, anchorB)
//	})
//	_, err := sess.Stack.Execute(g)
//
// # Algorithms
//
//   - [CombineSegments] merges one segment into another at a pair of anchors.
//   - [CombinePoints] fuses two points of one segment.
//   - [ResolveNetName] applies the forced-name authority rule.
//   - [SplitSegment] partitions a segment after removing lines.
//   - [CombineAllItemsUnderPoint] connects everything at a point's position.
//   - [RemoveUnusedNetSignals] garbage-collects unreferenced signals.
//   - [SimplifySegment] removes redundant junctions and wires.
package topology
