package netgraph

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
)

var logicf = errors.Logic

// =============================================================================
// Segments
// =============================================================================

// CmdSegmentAdd adds an empty net segment.
type CmdSegmentAdd struct {
	sheet   *Sheet
	segment *NetSegment
}

// NewCmdSegmentAdd creates a command adding a segment assigned to signal.
func NewCmdSegmentAdd(sheet *Sheet, signal uuid.UUID) *CmdSegmentAdd {
	return &CmdSegmentAdd{sheet: sheet, segment: &NetSegment{ID: uuid.New(), Signal: signal}}
}

func (c *CmdSegmentAdd) Title() string { return "Add Net Segment" }

// Segment returns the segment added by the command.
func (c *CmdSegmentAdd) Segment() *NetSegment { return c.segment }

func (c *CmdSegmentAdd) Execute() (bool, error) {
	if c.segment.Signal == uuid.Nil {
		logicf("net segment without net signal")
	}
	c.segment.seq = c.sheet.nextSeq()
	c.Redo()
	return true, nil
}

func (c *CmdSegmentAdd) Undo() {
	if !c.segment.IsEmpty() || len(c.segment.labels) > 0 {
		logicf("net segment %s is not empty", c.segment.ID)
	}
	delete(c.sheet.segments, c.segment.ID)
}

func (c *CmdSegmentAdd) Redo() { c.sheet.segments[c.segment.ID] = c.segment }

// CmdSegmentRemove removes a net segment together with its points, lines and labels.
type CmdSegmentRemove struct {
	sheet   *Sheet
	segment *NetSegment
	points  []*NetPoint
	lines   []*NetLine
	labels  []*NetLabel
}

// NewCmdSegmentRemove creates a command removing the segment with the given ID.
func NewCmdSegmentRemove(sheet *Sheet, id uuid.UUID) *CmdSegmentRemove {
	return &CmdSegmentRemove{sheet: sheet, segment: sheet.mustSegment(id)}
}

func (c *CmdSegmentRemove) Title() string { return "Remove Net Segment" }

func (c *CmdSegmentRemove) Execute() (bool, error) {
	c.points = c.sheet.SegmentPoints(c.segment.ID)
	c.lines = c.sheet.SegmentLines(c.segment.ID)
	c.labels = c.sheet.SegmentLabels(c.segment.ID)
	c.Redo()
	return true, nil
}

func (c *CmdSegmentRemove) Undo() {
	c.sheet.segments[c.segment.ID] = c.segment
	for _, p := range c.points {
		c.sheet.points[p.ID] = p
	}
	for _, l := range c.lines {
		c.sheet.lines[l.ID] = l
	}
	for _, l := range c.labels {
		c.sheet.labels[l.ID] = l
	}
}

// Redo keeps the segment's element lists intact so Undo restores them as is.
func (c *CmdSegmentRemove) Redo() {
	for _, l := range c.labels {
		delete(c.sheet.labels, l.ID)
	}
	for _, l := range c.lines {
		delete(c.sheet.lines, l.ID)
	}
	for _, p := range c.points {
		delete(c.sheet.points, p.ID)
	}
	delete(c.sheet.segments, c.segment.ID)
}

// CmdSegmentSetSignal assigns a segment to another net signal.
type CmdSegmentSetSignal struct {
	segment  *NetSegment
	from, to uuid.UUID
}

// NewCmdSegmentSetSignal creates a command changing the signal of a segment.
func NewCmdSegmentSetSignal(sheet *Sheet, id, signal uuid.UUID) *CmdSegmentSetSignal {
	seg := sheet.mustSegment(id)
	return &CmdSegmentSetSignal{segment: seg, from: seg.Signal, to: signal}
}

func (c *CmdSegmentSetSignal) Title() string { return "Change Net Signal" }

func (c *CmdSegmentSetSignal) Execute() (bool, error) {
	if c.to == uuid.Nil {
		logicf("net segment %s cannot lose its net signal", c.segment.ID)
	}
	if c.from == c.to {
		return false, nil
	}
	c.Redo()
	return true, nil
}

func (c *CmdSegmentSetSignal) Undo() { c.segment.Signal = c.from }
func (c *CmdSegmentSetSignal) Redo() { c.segment.Signal = c.to }

// =============================================================================
// Segment elements
// =============================================================================

// CmdSegmentAddElements adds points and lines to an existing segment.
//
// Points and lines are declared with the Add* methods before execution. New
// points can be referenced by lines of the same command.
type CmdSegmentAddElements struct {
	sheet   *Sheet
	segment uuid.UUID
	points  []*NetPoint
	lines   []*NetLine
}

// NewCmdSegmentAddElements creates an empty add-elements command for a segment.
func NewCmdSegmentAddElements(sheet *Sheet, segment uuid.UUID) *CmdSegmentAddElements {
	return &CmdSegmentAddElements{sheet: sheet, segment: segment}
}

func (c *CmdSegmentAddElements) Title() string { return "Add Net Elements" }

// AddPoint declares a new free point at pos.
func (c *CmdSegmentAddElements) AddPoint(pos geom.Point) *NetPoint {
	p := &NetPoint{ID: uuid.New(), Segment: c.segment, Position: pos}
	c.points = append(c.points, p)
	return p
}

// AddPinPoint declares a new point attached to pin.
func (c *CmdSegmentAddElements) AddPinPoint(pos geom.Point, pin uuid.UUID) *NetPoint {
	p := c.AddPoint(pos)
	p.Pin = pin
	return p
}

// AddLine declares a new line between two anchors.
func (c *CmdSegmentAddElements) AddLine(a, b Anchor) *NetLine {
	l := &NetLine{ID: uuid.New(), Segment: c.segment, A: a, B: b}
	c.lines = append(c.lines, l)
	return l
}

// Empty reports whether nothing was declared.
func (c *CmdSegmentAddElements) Empty() bool { return len(c.points) == 0 && len(c.lines) == 0 }

func (c *CmdSegmentAddElements) Execute() (bool, error) {
	if c.Empty() {
		return false, nil
	}
	c.sheet.mustSegment(c.segment)

	newPoints := make(map[uuid.UUID]bool, len(c.points))
	for _, p := range c.points {
		newPoints[p.ID] = true
		if p.Pin == uuid.Nil {
			continue
		}
		if err := c.sheet.checkPinAvailable(p.Pin, c.segment, uuid.Nil); err != nil {
			return false, err
		}
		for _, q := range c.points {
			if q != p && q.Pin == p.Pin {
				return false, errors.New(errors.ErrCodePinAttached, "pin %s attached to two new points", p.Pin)
			}
		}
	}
	for _, l := range c.lines {
		if l.A == l.B {
			logicf("net line %s would connect %s to itself", l.ID, l.A)
		}
		for _, a := range [2]Anchor{l.A, l.B} {
			if a.IsPin() {
				c.sheet.mustPin(a.ID)
				if seg := c.sheet.PinSegment(a.ID); seg != uuid.Nil && seg != c.segment {
					return false, errors.New(errors.ErrCodePinAttached,
						"pin %s is already connected to another net segment", c.sheet.pins[a.ID].Name)
				}
				continue
			}
			if newPoints[a.ID] {
				continue
			}
			if p := c.sheet.mustPoint(a.ID); p.Segment != c.segment {
				logicf("net line %s anchors point %s of another segment", l.ID, a.ID)
			}
		}
	}
	c.Redo()
	return true, nil
}

func (c *CmdSegmentAddElements) Undo() {
	for i := len(c.lines) - 1; i >= 0; i-- {
		c.sheet.deleteLine(c.lines[i])
	}
	for i := len(c.points) - 1; i >= 0; i-- {
		c.sheet.deletePoint(c.points[i])
	}
}

func (c *CmdSegmentAddElements) Redo() {
	for _, p := range c.points {
		c.sheet.insertPoint(p)
	}
	for _, l := range c.lines {
		c.sheet.insertLine(l)
	}
}

// CmdSegmentRemoveElements removes points and lines from a segment.
// Every line touching a removed point must be removed by the same command.
type CmdSegmentRemoveElements struct {
	sheet   *Sheet
	segment uuid.UUID
	points  []*NetPoint
	lines   []*NetLine
}

// NewCmdSegmentRemoveElements creates an empty remove-elements command for a segment.
func NewCmdSegmentRemoveElements(sheet *Sheet, segment uuid.UUID) *CmdSegmentRemoveElements {
	return &CmdSegmentRemoveElements{sheet: sheet, segment: segment}
}

func (c *CmdSegmentRemoveElements) Title() string { return "Remove Net Elements" }

// RemovePoint declares a point to remove. Duplicates are ignored.
func (c *CmdSegmentRemoveElements) RemovePoint(id uuid.UUID) {
	p := c.sheet.mustPoint(id)
	if !slices.Contains(c.points, p) {
		c.points = append(c.points, p)
	}
}

// RemoveLine declares a line to remove. Duplicates are ignored.
func (c *CmdSegmentRemoveElements) RemoveLine(id uuid.UUID) {
	l := c.sheet.lines[id]
	if l == nil {
		logicf("net line %s does not exist", id)
	}
	if !slices.Contains(c.lines, l) {
		c.lines = append(c.lines, l)
	}
}

// Empty reports whether nothing was declared.
func (c *CmdSegmentRemoveElements) Empty() bool { return len(c.points) == 0 && len(c.lines) == 0 }

func (c *CmdSegmentRemoveElements) Execute() (bool, error) {
	if c.Empty() {
		return false, nil
	}
	removed := make(map[uuid.UUID]bool, len(c.lines))
	for _, l := range c.lines {
		if l.Segment != c.segment {
			logicf("net line %s is not part of segment %s", l.ID, c.segment)
		}
		removed[l.ID] = true
	}
	for _, p := range c.points {
		if p.Segment != c.segment {
			logicf("net point %s is not part of segment %s", p.ID, c.segment)
		}
		for _, l := range c.sheet.LinesOf(PointAnchor(p.ID)) {
			if !removed[l.ID] {
				logicf("net point %s still has line %s", p.ID, l.ID)
			}
		}
	}
	c.Redo()
	return true, nil
}

func (c *CmdSegmentRemoveElements) Undo() {
	for _, p := range c.points {
		c.sheet.insertPoint(p)
	}
	for _, l := range c.lines {
		c.sheet.insertLine(l)
	}
}

func (c *CmdSegmentRemoveElements) Redo() {
	for _, l := range c.lines {
		c.sheet.deleteLine(l)
	}
	for _, p := range c.points {
		c.sheet.deletePoint(p)
	}
}

// checkPinAvailable returns a user-actionable error when pin cannot join
// segment: it is attached to a point other than self, or it serves another
// segment.
func (s *Sheet) checkPinAvailable(pin, segment, self uuid.UUID) error {
	p := s.mustPin(pin)
	if pt := s.PinPoint(pin); pt != nil && pt.ID != self {
		return errors.New(errors.ErrCodePinAttached, "pin %s is already attached to a net point", p.Name)
	}
	if seg := s.PinSegment(pin); seg != uuid.Nil && seg != segment {
		return errors.New(errors.ErrCodePinAttached, "pin %s is already connected to another net segment", p.Name)
	}
	return nil
}
