package script

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/netedit/pkg/geom"
)

// Script is a parsed gesture script.
type Script struct {
	Statements []*Statement `@@*`
}

// Statement is one gesture or assertion. Exactly one field is set.
type Statement struct {
	Pos lexer.Position

	Sheet     *SheetStmt     `  @@`
	Component *ComponentStmt `| @@`
	Plane     *PlaneStmt     `| @@`
	Mode      *ModeStmt      `| @@`
	Click     *PointerStmt   `| "click" @@`
	Move      *PointerStmt   `| "move" @@`
	RClick    bool           `| @"rclick"`
	Escape    bool           `| @"escape"`
	Junction  *Coord         `| "junction" @@`
	Label     *LabelStmt     `| @@`
	Delete    *DeleteStmt    `| @@`
	Simplify  bool           `| @"simplify"`
	Undo      bool           `| @"undo"`
	Redo      bool           `| @"redo"`
	Expect    *ExpectStmt    `| @@`
}

// Name returns the keyword of the statement.
func (s *Statement) Name() string {
	switch {
	case s.Sheet != nil:
		return "sheet"
	case s.Component != nil:
		return "component"
	case s.Plane != nil:
		return "plane"
	case s.Mode != nil:
		return "mode"
	case s.Click != nil:
		return "click"
	case s.Move != nil:
		return "move"
	case s.RClick:
		return "rclick"
	case s.Escape:
		return "escape"
	case s.Junction != nil:
		return "junction"
	case s.Label != nil:
		return "label"
	case s.Delete != nil:
		return "delete"
	case s.Simplify:
		return "simplify"
	case s.Undo:
		return "undo"
	case s.Redo:
		return "redo"
	case s.Expect != nil:
		return "expect"
	}
	return "unknown"
}

// Coord is a scene position.
type Coord struct {
	X int64 `@Integer`
	Y int64 `@Integer`
}

// Point converts the coordinate.
func (c Coord) Point() geom.Point { return geom.Pt(geom.Length(c.X), geom.Length(c.Y)) }

// SheetStmt selects a sheet, creating it on first use.
// Example: sheet "Main" board
type SheetStmt struct {
	Name  string `"sheet" @String`
	Board bool   `@"board"?`
}

// ComponentStmt places a component symbol on the current sheet.
// Example: component U1 { pin VCC at 0 0 forced "VCC" pin GND at 0 10 }
type ComponentStmt struct {
	Name string     `"component" @Ident LBrace`
	Pins []*PinDecl `@@* RBrace`
}

// PinDecl declares one pin of a component.
type PinDecl struct {
	Name   string `"pin" @( Ident | Integer )`
	At     Coord  `"at" @@`
	Forced string `( "forced" @String )?`
}

// PlaneStmt adds a plane of an existing net to the current board sheet.
type PlaneStmt struct {
	Net string `"plane" @( Ident | String )`
}

// ModeStmt selects the bend mode of the wire tool.
type ModeStmt struct {
	Mode string `"mode" @( WireMode | "straight" )`
}

// PointerStmt is a cursor gesture. Free disables snapping.
type PointerStmt struct {
	At   Coord `@@`
	Free bool  `@"free"?`
}

// LabelStmt adds a net label, optionally forcing a net name.
type LabelStmt struct {
	At     Coord  `"label" @@`
	Forced string `@String?`
}

// DeleteStmt removes the item of the given kind at a position.
// Example: delete line at 5 0
type DeleteStmt struct {
	Kind string `"delete" @( "point" | "line" | "label" | "symbol" )`
	At   Coord  `"at" @@`
}

// ExpectStmt asserts a count of the current sheet or the existence of a net.
// Examples: expect nets 2, expect net "GND"
type ExpectStmt struct {
	What string     `"expect" @( "nets" | "segments" | "points" | "lines" | "labels" | "net" )`
	Arg  *ExpectArg `@@`
}

// ExpectArg is either a count or a net name.
type ExpectArg struct {
	Count *int    `  @Integer`
	Net   *string `| @String`
}
