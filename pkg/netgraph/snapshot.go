package netgraph

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// Snapshot is a deterministic structural copy of a sheet. Two snapshots of
// the same model marshal to identical JSON.
type Snapshot struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Kind     string            `json:"kind"`
	Segments []SegmentSnapshot `json:"segments"`
	Points   []NetPoint        `json:"points"`
	Lines    []NetLine         `json:"lines"`
	Labels   []NetLabel        `json:"labels"`
	Symbols  []Symbol          `json:"symbols"`
	Pins     []Pin             `json:"pins"`
	Planes   []Plane           `json:"planes"`
}

// SegmentSnapshot is the snapshot of one net segment.
type SegmentSnapshot struct {
	ID     uuid.UUID   `json:"id"`
	Signal uuid.UUID   `json:"signal"`
	Points []uuid.UUID `json:"points"`
	Lines  []uuid.UUID `json:"lines"`
	Labels []uuid.UUID `json:"labels"`
}

// Snapshot copies the sheet. Every collection is sorted by ID. Empty
// collections are empty slices, never nil, so they marshal the same way
// whether or not they ever held an element.
func (s *Sheet) Snapshot() Snapshot {
	snap := Snapshot{
		ID:       s.ID,
		Name:     s.Name,
		Kind:     s.Kind.String(),
		Segments: make([]SegmentSnapshot, 0, len(s.segments)),
		Points:   make([]NetPoint, 0, len(s.points)),
		Lines:    make([]NetLine, 0, len(s.lines)),
		Labels:   make([]NetLabel, 0, len(s.labels)),
		Symbols:  make([]Symbol, 0, len(s.symbols)),
		Pins:     make([]Pin, 0, len(s.pins)),
		Planes:   make([]Plane, 0, len(s.planes)),
	}
	for _, seg := range s.segments {
		snap.Segments = append(snap.Segments, SegmentSnapshot{
			ID:     seg.ID,
			Signal: seg.Signal,
			Points: sortedIDs(seg.points),
			Lines:  sortedIDs(seg.lines),
			Labels: sortedIDs(seg.labels),
		})
	}
	for _, p := range s.points {
		snap.Points = append(snap.Points, *p)
	}
	for _, l := range s.lines {
		snap.Lines = append(snap.Lines, *l)
	}
	for _, l := range s.labels {
		snap.Labels = append(snap.Labels, *l)
	}
	for _, sym := range s.symbols {
		cp := *sym
		cp.Pins = append(make([]uuid.UUID, 0, len(sym.Pins)), sym.Pins...)
		cp.seq = 0
		snap.Symbols = append(snap.Symbols, cp)
	}
	for _, p := range s.pins {
		snap.Pins = append(snap.Pins, *p)
	}
	for _, p := range s.planes {
		snap.Planes = append(snap.Planes, *p)
	}

	slices.SortFunc(snap.Segments, func(a, b SegmentSnapshot) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Points, func(a, b NetPoint) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Lines, func(a, b NetLine) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Labels, func(a, b NetLabel) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Symbols, func(a, b Symbol) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Pins, func(a, b Pin) int { return compareIDs(a.ID, b.ID) })
	slices.SortFunc(snap.Planes, func(a, b Plane) int { return compareIDs(a.ID, b.ID) })
	return snap
}

// Stats summarizes the size of a sheet.
type Stats struct {
	Segments int `json:"segments"`
	Points   int `json:"points"`
	Lines    int `json:"lines"`
	Labels   int `json:"labels"`
}

// Stats counts the net elements of the sheet.
func (s *Sheet) Stats() Stats {
	return Stats{
		Segments: len(s.segments),
		Points:   len(s.points),
		Lines:    len(s.lines),
		Labels:   len(s.labels),
	}
}

func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := append(make([]uuid.UUID, 0, len(ids)), ids...)
	slices.SortFunc(out, compareIDs)
	return out
}

func compareIDs(a, b uuid.UUID) int {
	return cmp.Compare(a.String(), b.String())
}
