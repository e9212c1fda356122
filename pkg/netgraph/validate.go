package netgraph

import (
	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
)

// Validate checks the structural invariants of the sheet and returns the
// first violation as an [errors.ErrCodeLogic] error.
//
// It verifies that every line's anchors resolve into the line's segment,
// that every segment is connected and that each pin is attached to at most
// one point and serves at most one segment.
func (s *Sheet) Validate() error {
	for _, seg := range s.Segments() {
		for _, id := range seg.points {
			p := s.points[id]
			if p == nil || p.Segment != seg.ID {
				return invalid("segment %s lists foreign point %s", seg.ID, id)
			}
			if p.Pin != uuid.Nil && s.pins[p.Pin] == nil {
				return invalid("point %s is attached to unknown pin %s", id, p.Pin)
			}
		}
		for _, id := range seg.lines {
			l := s.lines[id]
			if l == nil || l.Segment != seg.ID {
				return invalid("segment %s lists foreign line %s", seg.ID, id)
			}
			for _, a := range [2]Anchor{l.A, l.B} {
				if err := s.checkAnchor(l, a); err != nil {
					return err
				}
			}
		}
		for _, id := range seg.labels {
			if l := s.labels[id]; l == nil || l.Segment != seg.ID {
				return invalid("segment %s lists foreign label %s", seg.ID, id)
			}
		}
		if !s.IsConnected(seg.ID) {
			return invalid("segment %s is not connected", seg.ID)
		}
	}

	attached := make(map[uuid.UUID]uuid.UUID)
	for _, p := range s.points {
		if p.Pin == uuid.Nil {
			continue
		}
		if other, ok := attached[p.Pin]; ok {
			return invalid("pin %s is attached to points %s and %s", p.Pin, other, p.ID)
		}
		attached[p.Pin] = p.ID
	}
	for id := range s.pins {
		if segs := s.pinSegments(id); len(segs) > 1 {
			return invalid("pin %s serves %d segments", id, len(segs))
		}
	}
	return nil
}

func (s *Sheet) checkAnchor(l *NetLine, a Anchor) error {
	if a.IsPin() {
		if s.pins[a.ID] == nil {
			return invalid("line %s anchors unknown pin %s", l.ID, a.ID)
		}
		return nil
	}
	p := s.points[a.ID]
	if p == nil {
		return invalid("line %s anchors unknown point %s", l.ID, a.ID)
	}
	if p.Segment != l.Segment {
		return invalid("line %s connects point %s of another segment", l.ID, a.ID)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeLogic, format, args...)
}
