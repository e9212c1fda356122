package script

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/errors"
)

func parse(t *testing.T, src string) *Script {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	s, err := p.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return s
}

func newRunner() *Runner {
	cfg := config.Default()
	cfg.Editor.GridInterval = 10
	return NewRunner(cfg, log.New(io.Discard))
}

func run(t *testing.T, src string) *Result {
	t.Helper()
	res, err := newRunner().Run(context.Background(), parse(t, src))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`sheet "Main"`, "sheet"},
		{`sheet "Top" board`, "sheet"},
		{`component U1 { pin VCC at 0 0 forced "VCC" pin 2 at 0 -10 }`, "component"},
		{`plane GND`, "plane"},
		{`mode 90-45`, "mode"},
		{`mode straight`, "mode"},
		{`click 10 -20 free`, "click"},
		{`move +5 5`, "move"},
		{`rclick`, "rclick"},
		{`escape`, "escape"},
		{`junction 0 0`, "junction"},
		{`label 0 0 "SDA"`, "label"},
		{`delete symbol at 1 2`, "delete"},
		{`simplify`, "simplify"},
		{`undo`, "undo"},
		{`redo`, "redo"},
		{`expect lines 2`, "expect"},
		{`expect net "GND"`, "expect"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := parse(t, tt.src)
			if len(s.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(s.Statements))
			}
			if got := s.Statements[0].Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDetails(t *testing.T) {
	s := parse(t, `
# two pins
component U1 {
    pin 1 at 0 0 forced "GND"
    pin 2 at 0 -10
}
click 10 -20 free
expect net "GND"
`)
	if len(s.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(s.Statements))
	}

	c := s.Statements[0].Component
	if c.Name != "U1" || len(c.Pins) != 2 {
		t.Fatalf("component = %+v", c)
	}
	if c.Pins[0].Forced != "GND" || c.Pins[1].At.Y != -10 {
		t.Errorf("pins = %+v, %+v", c.Pins[0], c.Pins[1])
	}

	click := s.Statements[1]
	if click.Pos.Line != 7 {
		t.Errorf("click on line %d, want 7", click.Pos.Line)
	}
	if click.Click.At.X != 10 || click.Click.At.Y != -20 || !click.Click.Free {
		t.Errorf("click = %+v", click.Click)
	}

	if arg := s.Statements[2].Expect.Arg; arg.Net == nil || *arg.Net != "GND" {
		t.Errorf("expect arg = %+v", arg)
	}
}

func TestParseErrors(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatal(err)
	}
	for _, src := range []string{
		`click x y`,
		`mode diagonal`,
		`delete wire at 0 0`,
		`component U1 { pin 1 }`,
	} {
		if _, err := p.ParseString(src); !errors.Is(err, errors.ErrCodeParse) {
			t.Errorf("ParseString(%q) error = %v, want a parse error", src, err)
		}
	}
}

func TestRunDrawWire(t *testing.T) {
	res := run(t, `
mode h-v
click 0 0
move 10 10
click 10 10
escape
expect segments 1
expect points 3
expect lines 2
expect nets 1
expect net "N1"
`)
	if len(res.Failures) != 0 {
		t.Errorf("failures = %v", res.Failures)
	}
	if got := res.Committed(); len(got) != 1 || got[0] != "Draw Wire" {
		t.Errorf("Committed() = %v", got)
	}
}

func TestRunCollectsFailures(t *testing.T) {
	res := run(t, `
component U1 { pin 1 at 0 0 forced "GND" }
component U2 { pin 1 at 20 0 forced "VCC" }
mode straight
click 0 0
click 20 0
delete line at 50 50
expect lines 0
`)
	if len(res.Failures) != 2 {
		t.Fatalf("failures = %v, want 2", res.Failures)
	}
	if f := res.Failures[0]; f.Line != 6 || f.Gesture != "click" || !errors.Is(f.Err, errors.ErrCodeNameConflict) {
		t.Errorf("first failure = %v", f)
	}
	if f := res.Failures[1]; f.Line != 7 || !errors.Is(f.Err, errors.ErrCodeNothingHere) {
		t.Errorf("second failure = %v", f)
	}
}

func TestRunUndoRedo(t *testing.T) {
	res := run(t, `
mode straight
click 0 0
click 20 0
escape
expect lines 1
undo
expect lines 0
expect nets 0
redo
expect lines 1
undo
undo
`)
	if len(res.Failures) != 1 || res.Failures[0].Gesture != "undo" {
		t.Errorf("failures = %v, want the second undo to fail", res.Failures)
	}
}

func TestRunLabelAndDelete(t *testing.T) {
	run(t, `
mode straight
click 0 0
click 20 0
escape
label 0 0 "SDA"
expect net "SDA"
expect labels 1
junction 10 0
expect points 3
delete line at 15 0
expect segments 2
delete label at 0 0
expect labels 0
`)
}

func TestRunSheets(t *testing.T) {
	res := run(t, `
component R1 { pin 1 at 10 0 }
mode straight
click 0 0
click 10 0
label 0 0 "VCC"
sheet "Board" board
component R1 { pin 1 at 10 0 }
click 0 0
click 10 0
expect segments 1
plane VCC
plane MISSING
sheet "Main"
expect segments 1
expect nets 1
expect net "VCC"
`)
	if len(res.Failures) != 1 || !errors.Is(res.Failures[0].Err, errors.ErrCodeInvalidInput) {
		t.Errorf("failures = %v, want the missing plane net", res.Failures)
	}
	if n := len(res.Session.Sheets()); n != 2 {
		t.Errorf("%d sheets, want 2", n)
	}
}

func TestRunExpectationFails(t *testing.T) {
	_, err := newRunner().Run(context.Background(), parse(t, "click 0 0\nexpect lines 5"))
	if !errors.Is(err, errors.ErrCodeExpectation) {
		t.Fatalf("Run() error = %v, want expectation failure", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2:") {
		t.Errorf("error %q should name the line", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newRunner().Run(ctx, parse(t, "click 0 0"))
	if err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if res.Stats.Gestures != 0 {
		t.Errorf("ran %d gestures after cancel", res.Stats.Gestures)
	}
}

func TestNewReport(t *testing.T) {
	res := run(t, `
component R1 { pin 1 at 20 0 }
mode straight
click 0 0
click 20 0
label 0 0 "SDA"
junction 50 50
`)
	r := NewReport(res, false)
	if r.Gestures != 6 {
		t.Errorf("Gestures = %d, want 6", r.Gestures)
	}
	if len(r.Failures) != 1 || r.Failures[0].Code != errors.ErrCodeNothingHere {
		t.Errorf("Failures = %+v", r.Failures)
	}
	if len(r.Nets) != 1 {
		t.Fatalf("Nets = %+v, want one net", r.Nets)
	}
	net := r.Nets[0]
	if net.Name != "SDA" || net.AutoName || net.Class != "default" || net.Segments != 1 {
		t.Errorf("net = %+v", net)
	}
	if len(net.Terminals) != 1 || net.Terminals[0] != "R1.1" {
		t.Errorf("Terminals = %v", net.Terminals)
	}
	if r.Snapshot != nil {
		t.Error("snapshot should be omitted")
	}
	if NewReport(res, true).Snapshot == nil {
		t.Error("snapshot requested but missing")
	}
}
