package netgraph

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/geom"
)

// SheetKind distinguishes schematic pages from board layouts.
type SheetKind int

const (
	// SheetSchematic is a schematic page; pins are symbol pins.
	SheetSchematic SheetKind = iota
	// SheetBoard is a board layout; pins are footprint pads and planes are allowed.
	SheetBoard
)

func (k SheetKind) String() string {
	if k == SheetBoard {
		return "board"
	}
	return "schematic"
}

// AnchorKind tags the variant of an [Anchor].
type AnchorKind uint8

const (
	AnchorPoint AnchorKind = iota
	AnchorPin
)

// Anchor is a wire endpoint: either a net point or a pin.
type Anchor struct {
	Kind AnchorKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// PointAnchor returns an anchor referencing a net point.
func PointAnchor(id uuid.UUID) Anchor { return Anchor{Kind: AnchorPoint, ID: id} }

// PinAnchor returns an anchor referencing a pin.
func PinAnchor(id uuid.UUID) Anchor { return Anchor{Kind: AnchorPin, ID: id} }

// IsPoint reports whether the anchor references a net point.
func (a Anchor) IsPoint() bool { return a.Kind == AnchorPoint }

// IsPin reports whether the anchor references a pin.
func (a Anchor) IsPin() bool { return a.Kind == AnchorPin }

func (a Anchor) String() string {
	if a.IsPin() {
		return "pin:" + a.ID.String()
	}
	return "point:" + a.ID.String()
}

// NetSegment is a connected set of points and lines sharing one net signal.
// It owns its points, lines and labels.
type NetSegment struct {
	ID     uuid.UUID
	Signal uuid.UUID

	points []uuid.UUID
	lines  []uuid.UUID
	labels []uuid.UUID
	seq    uint64
}

// IsEmpty reports whether the segment has neither points nor lines.
func (s *NetSegment) IsEmpty() bool { return len(s.points) == 0 && len(s.lines) == 0 }

// PointIDs returns the IDs of the segment's points in insertion order.
func (s *NetSegment) PointIDs() []uuid.UUID { return slices.Clone(s.points) }

// LineIDs returns the IDs of the segment's lines in insertion order.
func (s *NetSegment) LineIDs() []uuid.UUID { return slices.Clone(s.lines) }

// LabelIDs returns the IDs of the segment's labels in insertion order.
func (s *NetSegment) LabelIDs() []uuid.UUID { return slices.Clone(s.labels) }

// NetPoint is a junction. Pin is uuid.Nil unless the point is attached to a pin.
type NetPoint struct {
	ID       uuid.UUID  `json:"id"`
	Segment  uuid.UUID  `json:"segment"`
	Position geom.Point `json:"position"`
	Pin      uuid.UUID  `json:"pin"`
}

// NetLine is a wire between two anchors of the same segment.
type NetLine struct {
	ID      uuid.UUID `json:"id"`
	Segment uuid.UUID `json:"segment"`
	A       Anchor    `json:"a"`
	B       Anchor    `json:"b"`
}

// Other returns the endpoint of l opposite to a.
func (l *NetLine) Other(a Anchor) Anchor {
	if l.A == a {
		return l.B
	}
	return l.A
}

// Touches reports whether a is one of the line's endpoints.
func (l *NetLine) Touches(a Anchor) bool { return l.A == a || l.B == a }

// NetLabel marks a segment. A non-empty ForcedName demands that name for the net.
type NetLabel struct {
	ID         uuid.UUID  `json:"id"`
	Segment    uuid.UUID  `json:"segment"`
	Position   geom.Point `json:"position"`
	Rotation   geom.Angle `json:"rotation"`
	ForcedName string     `json:"forced_name,omitempty"`
}

// Symbol groups the pins of one component instance on a sheet.
type Symbol struct {
	ID        uuid.UUID   `json:"id"`
	Component uuid.UUID   `json:"component"`
	Name      string      `json:"name"`
	Pins      []uuid.UUID `json:"pins"`

	seq uint64
}

// Pin is the placed terminal of one component signal instance.
type Pin struct {
	ID        uuid.UUID  `json:"id"`
	Symbol    uuid.UUID  `json:"symbol"`
	Component uuid.UUID  `json:"component"`
	Signal    uuid.UUID  `json:"signal"`
	Name      string     `json:"name"`
	Position  geom.Point `json:"position"`
}

// Plane is a board copper area filled with one net signal.
type Plane struct {
	ID     uuid.UUID `json:"id"`
	Signal uuid.UUID `json:"signal"`
	Name   string    `json:"name"`
}

// Sheet is one editing surface: a schematic page or a board.
//
// The zero value is not usable; create sheets with [NewSheet].
type Sheet struct {
	ID   uuid.UUID
	Name string
	Kind SheetKind

	segments map[uuid.UUID]*NetSegment
	points   map[uuid.UUID]*NetPoint
	lines    map[uuid.UUID]*NetLine
	labels   map[uuid.UUID]*NetLabel
	symbols  map[uuid.UUID]*Symbol
	pins     map[uuid.UUID]*Pin
	planes   map[uuid.UUID]*Plane
	seq      uint64
}

// NewSheet creates an empty sheet.
func NewSheet(name string, kind SheetKind) *Sheet {
	return &Sheet{
		ID:       uuid.New(),
		Name:     name,
		Kind:     kind,
		segments: make(map[uuid.UUID]*NetSegment),
		points:   make(map[uuid.UUID]*NetPoint),
		lines:    make(map[uuid.UUID]*NetLine),
		labels:   make(map[uuid.UUID]*NetLabel),
		symbols:  make(map[uuid.UUID]*Symbol),
		pins:     make(map[uuid.UUID]*Pin),
		planes:   make(map[uuid.UUID]*Plane),
	}
}

// =============================================================================
// Lookups
// =============================================================================

// Segment returns the segment with the given ID, or nil.
func (s *Sheet) Segment(id uuid.UUID) *NetSegment { return s.segments[id] }

// Point returns the net point with the given ID, or nil.
func (s *Sheet) Point(id uuid.UUID) *NetPoint { return s.points[id] }

// Line returns the net line with the given ID, or nil.
func (s *Sheet) Line(id uuid.UUID) *NetLine { return s.lines[id] }

// Label returns the net label with the given ID, or nil.
func (s *Sheet) Label(id uuid.UUID) *NetLabel { return s.labels[id] }

// Symbol returns the symbol with the given ID, or nil.
func (s *Sheet) Symbol(id uuid.UUID) *Symbol { return s.symbols[id] }

// Pin returns the pin with the given ID, or nil.
func (s *Sheet) Pin(id uuid.UUID) *Pin { return s.pins[id] }

// Plane returns the plane with the given ID, or nil.
func (s *Sheet) Plane(id uuid.UUID) *Plane { return s.planes[id] }

// Segments returns all segments in creation order.
func (s *Sheet) Segments() []*NetSegment {
	out := make([]*NetSegment, 0, len(s.segments))
	for _, seg := range s.segments {
		out = append(out, seg)
	}
	slices.SortFunc(out, func(a, b *NetSegment) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// SegmentsOfSignal returns the segments assigned to a net signal in creation order.
func (s *Sheet) SegmentsOfSignal(signal uuid.UUID) []*NetSegment {
	var out []*NetSegment
	for _, seg := range s.Segments() {
		if seg.Signal == signal {
			out = append(out, seg)
		}
	}
	return out
}

// SegmentPoints returns the points of a segment in insertion order.
func (s *Sheet) SegmentPoints(seg uuid.UUID) []*NetPoint {
	sg := s.mustSegment(seg)
	out := make([]*NetPoint, 0, len(sg.points))
	for _, id := range sg.points {
		out = append(out, s.points[id])
	}
	return out
}

// SegmentLines returns the lines of a segment in insertion order.
func (s *Sheet) SegmentLines(seg uuid.UUID) []*NetLine {
	sg := s.mustSegment(seg)
	out := make([]*NetLine, 0, len(sg.lines))
	for _, id := range sg.lines {
		out = append(out, s.lines[id])
	}
	return out
}

// SegmentLabels returns the labels of a segment in insertion order.
func (s *Sheet) SegmentLabels(seg uuid.UUID) []*NetLabel {
	sg := s.mustSegment(seg)
	out := make([]*NetLabel, 0, len(sg.labels))
	for _, id := range sg.labels {
		out = append(out, s.labels[id])
	}
	return out
}

// SegmentPins returns the pins connected to a segment, either through an
// attached point or as a line anchor. Each pin is reported once.
func (s *Sheet) SegmentPins(seg uuid.UUID) []*Pin {
	seen := make(map[uuid.UUID]bool)
	var out []*Pin
	add := func(id uuid.UUID) {
		if id != uuid.Nil && !seen[id] {
			seen[id] = true
			out = append(out, s.pins[id])
		}
	}
	for _, p := range s.SegmentPoints(seg) {
		add(p.Pin)
	}
	for _, l := range s.SegmentLines(seg) {
		for _, a := range [2]Anchor{l.A, l.B} {
			if a.IsPin() {
				add(a.ID)
			}
		}
	}
	return out
}

// Symbols returns all symbols in creation order.
func (s *Sheet) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	slices.SortFunc(out, func(a, b *Symbol) int { return cmp.Compare(a.seq, b.seq) })
	return out
}

// SymbolsOfComponent returns the symbols placed for a component.
func (s *Sheet) SymbolsOfComponent(component uuid.UUID) []*Symbol {
	var out []*Symbol
	for _, sym := range s.Symbols() {
		if sym.Component == component {
			out = append(out, sym)
		}
	}
	return out
}

// Pins returns all pins in symbol order.
func (s *Sheet) Pins() []*Pin {
	var out []*Pin
	for _, sym := range s.Symbols() {
		for _, id := range sym.Pins {
			out = append(out, s.pins[id])
		}
	}
	return out
}

// Planes returns all planes sorted by name.
func (s *Sheet) Planes() []*Plane {
	out := make([]*Plane, 0, len(s.planes))
	for _, p := range s.planes {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Plane) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return out
}

// AnchorPosition returns the scene position of an anchor.
func (s *Sheet) AnchorPosition(a Anchor) geom.Point {
	if a.IsPin() {
		return s.mustPin(a.ID).Position
	}
	return s.mustPoint(a.ID).Position
}

// LinesOf returns the lines with an endpoint at the given anchor, in segment
// and insertion order.
func (s *Sheet) LinesOf(a Anchor) []*NetLine {
	var out []*NetLine
	for _, seg := range s.Segments() {
		for _, id := range seg.lines {
			if l := s.lines[id]; l.Touches(a) {
				out = append(out, l)
			}
		}
	}
	return out
}

// PinPoint returns the net point attached to a pin, or nil.
func (s *Sheet) PinPoint(pin uuid.UUID) *NetPoint {
	for _, p := range s.points {
		if p.Pin == pin {
			return p
		}
	}
	return nil
}

// pinSegments returns every segment a pin is connected to.
func (s *Sheet) pinSegments(pin uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	add := func(id uuid.UUID) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	for _, p := range s.points {
		if p.Pin == pin {
			add(p.Segment)
		}
	}
	for _, l := range s.LinesOf(PinAnchor(pin)) {
		add(l.Segment)
	}
	return out
}

// PinSegment returns the segment a pin is connected to, or uuid.Nil.
func (s *Sheet) PinSegment(pin uuid.UUID) uuid.UUID {
	if segs := s.pinSegments(pin); len(segs) > 0 {
		return segs[0]
	}
	return uuid.Nil
}

// IsPinConnected reports whether any segment uses the pin.
func (s *Sheet) IsPinConnected(pin uuid.UUID) bool {
	return s.PinSegment(pin) != uuid.Nil
}

// ForcedNames resolves forced net names of component terminals.
type ForcedNames interface {
	ForcedNetName(signalInstance uuid.UUID) string
}

// ForcedNetNames returns the distinct, sorted net names demanded by the
// labels of a segment and the terminals of its connected pins.
func (s *Sheet) ForcedNetNames(seg uuid.UUID, terminals ForcedNames) []string {
	var names []string
	for _, l := range s.SegmentLabels(seg) {
		if l.ForcedName != "" {
			names = append(names, l.ForcedName)
		}
	}
	if terminals != nil {
		for _, p := range s.SegmentPins(seg) {
			if n := terminals.ForcedNetName(p.Signal); n != "" {
				names = append(names, n)
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// =============================================================================
// Hit tests
// =============================================================================

// PointsAt returns the net points within tol of pos, in segment order.
func (s *Sheet) PointsAt(pos geom.Point, tol geom.Length) []*NetPoint {
	var out []*NetPoint
	for _, seg := range s.Segments() {
		for _, id := range seg.points {
			if p := s.points[id]; geom.Near(p.Position, pos, tol) {
				out = append(out, p)
			}
		}
	}
	return out
}

// LinesAt returns the net lines passing within tol of pos, in segment order.
func (s *Sheet) LinesAt(pos geom.Point, tol geom.Length) []*NetLine {
	var out []*NetLine
	for _, seg := range s.Segments() {
		for _, id := range seg.lines {
			l := s.lines[id]
			if geom.OnSegment(pos, s.AnchorPosition(l.A), s.AnchorPosition(l.B), tol) {
				out = append(out, l)
			}
		}
	}
	return out
}

// PinsAt returns the pins within tol of pos, in symbol order.
func (s *Sheet) PinsAt(pos geom.Point, tol geom.Length) []*Pin {
	var out []*Pin
	for _, p := range s.Pins() {
		if geom.Near(p.Position, pos, tol) {
			out = append(out, p)
		}
	}
	return out
}

// LabelsAt returns the labels within tol of pos, in segment order.
func (s *Sheet) LabelsAt(pos geom.Point, tol geom.Length) []*NetLabel {
	var out []*NetLabel
	for _, seg := range s.Segments() {
		for _, id := range seg.labels {
			if l := s.labels[id]; geom.Near(l.Position, pos, tol) {
				out = append(out, l)
			}
		}
	}
	return out
}

// =============================================================================
// Arena maintenance
// =============================================================================

func (s *Sheet) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Sheet) mustSegment(id uuid.UUID) *NetSegment {
	seg := s.segments[id]
	if seg == nil {
		logicf("net segment %s does not exist on sheet %q", id, s.Name)
	}
	return seg
}

func (s *Sheet) mustPoint(id uuid.UUID) *NetPoint {
	p := s.points[id]
	if p == nil {
		logicf("net point %s does not exist on sheet %q", id, s.Name)
	}
	return p
}

func (s *Sheet) mustPin(id uuid.UUID) *Pin {
	p := s.pins[id]
	if p == nil {
		logicf("pin %s does not exist on sheet %q", id, s.Name)
	}
	return p
}

func (s *Sheet) insertPoint(p *NetPoint) {
	seg := s.mustSegment(p.Segment)
	s.points[p.ID] = p
	seg.points = append(seg.points, p.ID)
}

func (s *Sheet) deletePoint(p *NetPoint) {
	seg := s.mustSegment(p.Segment)
	delete(s.points, p.ID)
	seg.points = deleteID(seg.points, p.ID)
}

func (s *Sheet) insertLine(l *NetLine) {
	seg := s.mustSegment(l.Segment)
	s.lines[l.ID] = l
	seg.lines = append(seg.lines, l.ID)
}

func (s *Sheet) deleteLine(l *NetLine) {
	seg := s.mustSegment(l.Segment)
	delete(s.lines, l.ID)
	seg.lines = deleteID(seg.lines, l.ID)
}

func (s *Sheet) insertLabel(l *NetLabel) {
	seg := s.mustSegment(l.Segment)
	s.labels[l.ID] = l
	seg.labels = append(seg.labels, l.ID)
}

func (s *Sheet) deleteLabel(l *NetLabel) {
	seg := s.mustSegment(l.Segment)
	delete(s.labels, l.ID)
	seg.labels = deleteID(seg.labels, l.ID)
}

func deleteID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(ids, func(x uuid.UUID) bool { return x == id })
}
