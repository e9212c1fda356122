// Package script replays gesture scripts against a fresh editing session.
//
// A script is a list of cursor gestures (clicks, moves, mode changes) and
// editing commands, interleaved with expectations about the resulting net
// graph. Failed gestures are recorded and the replay continues; a failed
// expectation stops it.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/editor"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/session"
)

// DefaultSheet is the sheet gestures go to before any sheet statement.
const DefaultSheet = "Main"

// Runner replays scripts.
//
// The Runner holds no state between runs; every run starts with a new
// session.
type Runner struct {
	Config *config.Config
	Logger *log.Logger
}

// NewRunner creates a runner. A nil config selects the defaults and a nil
// logger the default logger.
func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Config: cfg, Logger: logger}
}

// Result is the outcome of a replay.
type Result struct {
	Session  *session.Session
	Failures []Failure
	Stats    Stats
}

// Committed returns the titles of the transactions on the undo history.
func (r *Result) Committed() []string { return r.Session.Stack.Titles() }

// Failure is a gesture that was rejected.
type Failure struct {
	Line    int
	Gesture string
	Err     error
}

func (f Failure) String() string {
	return fmt.Sprintf("line %d: %s: %s", f.Line, f.Gesture, errors.UserMessage(f.Err))
}

// Stats holds execution statistics.
type Stats struct {
	Gestures int
	Duration time.Duration
}

// Run replays s. It returns an error for failed expectations, cancellation
// and broken invariants after the replay.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	opts, err := editor.OptionsFromConfig(r.Config.Editor)
	if err != nil {
		return nil, err
	}
	sess := session.New(session.Options{
		DefaultNetClass: r.Config.Circuit.DefaultNetClass,
		AutoNamePrefix:  r.Config.Circuit.AutoNamePrefix,
	})
	st := &state{
		sess:   sess,
		ed:     editor.New(sess, opts),
		logger: r.Logger,
	}
	result := &Result{Session: sess}

	start := time.Now()
	for _, stmt := range s.Statements {
		if err := ctx.Err(); err != nil {
			st.ed.ExitTool()
			return result, err
		}
		result.Stats.Gestures++
		err := st.exec(stmt)
		switch {
		case err == nil:
		case errors.Is(err, errors.ErrCodeExpectation):
			st.ed.ExitTool()
			return result, fmt.Errorf("line %d: %w", stmt.Pos.Line, err)
		default:
			f := Failure{Line: stmt.Pos.Line, Gesture: stmt.Name(), Err: err}
			result.Failures = append(result.Failures, f)
			r.Logger.Warn("gesture failed", "line", f.Line, "gesture", f.Gesture, "error", errors.UserMessage(err))
		}
	}
	st.ed.ExitTool()
	result.Stats.Duration = time.Since(start)

	if err := sess.Validate(); err != nil {
		return result, err
	}
	r.Logger.Info("replayed script",
		"gestures", result.Stats.Gestures,
		"committed", len(result.Committed()),
		"failures", len(result.Failures),
		"duration", result.Stats.Duration)
	return result, nil
}

type state struct {
	sess   *session.Session
	ed     *editor.Editor
	sheet  *netgraph.Sheet
	logger *log.Logger
}

func (s *state) current() *netgraph.Sheet {
	if s.sheet == nil {
		s.sheet = s.sess.AddSheet(DefaultSheet, netgraph.SheetSchematic)
	}
	return s.sheet
}

func (s *state) exec(stmt *Statement) error {
	s.logger.Debug("gesture", "line", stmt.Pos.Line, "gesture", stmt.Name())
	switch {
	case stmt.Sheet != nil:
		return s.selectSheet(stmt.Sheet)
	case stmt.Component != nil:
		pins := make([]session.PinSpec, 0, len(stmt.Component.Pins))
		for _, p := range stmt.Component.Pins {
			pins = append(pins, session.PinSpec{Name: p.Name, Position: p.At.Point(), ForcedNetName: p.Forced})
		}
		s.ed.ExitTool()
		_, err := s.sess.PlaceComponent(s.current(), stmt.Component.Name, pins)
		return err
	case stmt.Plane != nil:
		s.ed.ExitTool()
		_, err := s.sess.AddPlane(s.current(), stmt.Plane.Net)
		return err
	case stmt.Mode != nil:
		m, err := editor.ParseWireMode(stmt.Mode.Mode)
		if err != nil {
			return err
		}
		s.ed.DrawWire(s.current()).SetMode(m)
		return nil
	case stmt.Click != nil:
		return s.ed.DrawWire(s.current()).Click(stmt.Click.At.Point(), stmt.Click.Free)
	case stmt.Move != nil:
		s.ed.DrawWire(s.current()).Move(stmt.Move.At.Point(), stmt.Move.Free)
		return nil
	case stmt.RClick:
		s.ed.DrawWire(s.current()).RightClick()
		return nil
	case stmt.Escape:
		s.ed.DrawWire(s.current()).Abort()
		return nil
	case stmt.Junction != nil:
		return s.ed.PlaceJunction(s.current(), stmt.Junction.Point())
	case stmt.Label != nil:
		_, err := s.ed.AddNetLabel(s.current(), stmt.Label.At.Point(), stmt.Label.Forced)
		return err
	case stmt.Delete != nil:
		return s.delete(stmt.Delete)
	case stmt.Simplify:
		_, err := s.ed.Simplify(s.current())
		return err
	case stmt.Undo:
		return s.ed.Undo()
	case stmt.Redo:
		return s.ed.Redo()
	case stmt.Expect != nil:
		return s.expect(stmt.Expect)
	}
	return errors.New(errors.ErrCodeInvalidInput, "empty statement")
}

func (s *state) selectSheet(stmt *SheetStmt) error {
	s.ed.ExitTool()
	kind := netgraph.SheetSchematic
	if stmt.Board {
		kind = netgraph.SheetBoard
	}
	if sh := s.sess.Sheet(stmt.Name); sh != nil {
		if sh.Kind != kind {
			return errors.New(errors.ErrCodeInvalidInput, "sheet %q is a %s sheet", stmt.Name, sh.Kind)
		}
		s.sheet = sh
		return nil
	}
	s.sheet = s.sess.AddSheet(stmt.Name, kind)
	return nil
}

func (s *state) delete(stmt *DeleteStmt) error {
	sheet := s.current()
	pos, tol := stmt.At.Point(), s.ed.Options().SnapTolerance
	var sel editor.Selection
	switch stmt.Kind {
	case "point":
		if pts := sheet.PointsAt(pos, tol); len(pts) > 0 {
			sel.Points = []uuid.UUID{pts[0].ID}
		}
	case "line":
		if lines := sheet.LinesAt(pos, tol); len(lines) > 0 {
			sel.Lines = []uuid.UUID{lines[0].ID}
		}
	case "label":
		if labels := sheet.LabelsAt(pos, tol); len(labels) > 0 {
			sel.Labels = []uuid.UUID{labels[0].ID}
		}
	case "symbol":
		if pins := sheet.PinsAt(pos, tol); len(pins) > 0 {
			sel.Symbols = []uuid.UUID{pins[0].Symbol}
		}
	}
	if sel.IsEmpty() {
		return errors.New(errors.ErrCodeNothingHere, "no %s at %s", stmt.Kind, pos)
	}
	return s.ed.RemoveSelection(sheet, sel)
}

func (s *state) expect(stmt *ExpectStmt) error {
	if stmt.What == "net" {
		if stmt.Arg.Net == nil {
			return errors.New(errors.ErrCodeInvalidInput, "expect net needs a quoted net name")
		}
		if s.sess.Circuit.NetSignalByName(*stmt.Arg.Net) == nil {
			return errors.New(errors.ErrCodeExpectation, "expected net %q to exist", *stmt.Arg.Net)
		}
		return nil
	}
	if stmt.Arg.Count == nil {
		return errors.New(errors.ErrCodeInvalidInput, "expect %s needs a count", stmt.What)
	}

	stats := s.current().Stats()
	var got int
	switch stmt.What {
	case "nets":
		got = len(s.sess.Circuit.NetSignals())
	case "segments":
		got = stats.Segments
	case "points":
		got = stats.Points
	case "lines":
		got = stats.Lines
	case "labels":
		got = stats.Labels
	}
	if got != *stmt.Arg.Count {
		return errors.New(errors.ErrCodeExpectation, "expected %d %s, got %d", *stmt.Arg.Count, stmt.What, got)
	}
	return nil
}
