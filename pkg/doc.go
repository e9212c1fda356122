// Package pkg holds the libraries of netedit, the net topology engine of a
// schematic and board editor.
//
// # Overview
//
// A circuit is a set of named net signals. On every sheet (schematic page
// or board) wires are drawn as net segments: connected graphs of net points
// and net lines, each segment carrying exactly one net signal. Editing
// operations keep three things consistent at once: the graph shape of each
// segment, the net signal of every segment, and the net signals of component
// terminals wired on several sheets.
//
// The packages, leaves first:
//
//  1. [geom] - integer scene geometry in nanometers
//  2. [errors] - coded errors: logic panics, user actionable failures, cancellation
//  3. [undo] - commands, command groups and the undo stack
//  4. [circuit] - net classes, net signals and component terminals
//  5. [netgraph] - sheets with segments, points, lines, labels and pins
//  6. [session] - one editing session over a circuit and its sheets
//  7. [topology] - split, combine, naming and garbage collection of segments
//  8. [editor] - interactive operations: draw wire, junctions, labels, removal
//  9. [script] - gesture scripts replayed against a fresh session
//
// Ambient packages: [config] (TOML), [observability] (hooks), [cache]
// (replay report cache) and [buildinfo].
//
// # Transactions
//
// Every change is an undoable command. Interactive operations build command
// groups that either complete or roll back entirely:
//
//	sess := session.New(session.Options{})
//	sheet := sess.AddSheet("Main", netgraph.SheetSchematic)
//	ed := editor.New(sess, editor.Options{GridInterval: geom.Millimeter})
//
//	w := ed.DrawWire(sheet)
//	w.Click(geom.Pt(0, 0), false)
//	w.Move(geom.Pt(10*geom.Millimeter, 0), false)
//	w.Click(geom.Pt(10*geom.Millimeter, 0), false)
//	w.Abort()
//
//	ed.Undo()
package pkg
