package netgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"
)

// Names resolves display names for DOT export.
type Names interface {
	SignalName(net uuid.UUID) string
	TerminalName(signalInstance uuid.UUID) string
}

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed adds positions to point labels and shows net labels.
	Detailed bool
}

// ToDOT converts the net topology of a sheet to Graphviz DOT format.
// Each segment becomes a cluster titled with its net signal name; points are
// small circles, pins are boxes and lines are undirected edges.
func ToDOT(s *Sheet, names Names, opts DOTOptions) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", s.Name)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=10];\n")
	buf.WriteString("\n")

	for _, p := range s.Pins() {
		label := p.Name
		if names != nil {
			label = names.TerminalName(p.Signal)
		}
		fmt.Fprintf(&buf, "  %q [shape=box, style=filled, fillcolor=lightyellow, label=%q];\n", p.ID.String(), label)
	}

	for i, seg := range s.Segments() {
		title := seg.Signal.String()
		if names != nil {
			title = names.SignalName(seg.Signal)
		}
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", title)
		for _, p := range s.SegmentPoints(seg.ID) {
			attrs := []string{"shape=point", "width=0.08"}
			if opts.Detailed {
				attrs = []string{"shape=circle", "fixedsize=false", fmt.Sprintf("label=%q", p.Position.String())}
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", p.ID.String(), strings.Join(attrs, ", "))
		}
		if opts.Detailed {
			for _, l := range s.SegmentLabels(seg.ID) {
				text := title
				if l.ForcedName != "" {
					text = l.ForcedName
				}
				fmt.Fprintf(&buf, "    %q [shape=note, label=%q];\n", l.ID.String(), text)
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, seg := range s.Segments() {
		for _, l := range s.SegmentLines(seg.ID) {
			fmt.Fprintf(&buf, "  %q -- %q;\n", l.A.ID.String(), l.B.ID.String())
		}
		for _, p := range s.SegmentPoints(seg.ID) {
			if p.Pin != uuid.Nil {
				fmt.Fprintf(&buf, "  %q -- %q [style=dotted];\n", p.ID.String(), p.Pin.String())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
