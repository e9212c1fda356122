package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netedit/pkg/editor"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/geom"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/observability"
	"github.com/matzehuels/netedit/pkg/script"
	"github.com/matzehuels/netedit/pkg/session"
)

var (
	tuiCursorStyle   = lipgloss.NewStyle().Reverse(true)
	tuiWireStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	tuiPinStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	tuiStatusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	tuiErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	tuiViewportWidth = 41
	tuiViewportRows  = 15
)

// tuiOpts holds the command-line flags for the tui command.
type tuiOpts struct {
	config string
	script string
	sheet  string
}

// tuiCommand creates the interactive editor command.
func (c *CLI) tuiCommand() *cobra.Command {
	var opts tuiOpts

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Draw wires on a sheet from the terminal",
		Long: `Draw wires on a sheet from the terminal.

Keys: arrows move the cursor by one grid step, space clicks, m cycles the
bend mode, esc aborts the wire, u/r undo and redo, d deletes the wire under
the cursor, j places a junction, s simplifies the sheet, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&opts.script, "script", "", "replay this script before editing")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet to edit (default: first sheet)")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, opts *tuiOpts) error {
	cfg, err := c.loadConfig(opts.config)
	if err != nil {
		return err
	}
	edOpts, err := editor.OptionsFromConfig(cfg.Editor)
	if err != nil {
		return err
	}

	var sess *session.Session
	if opts.script != "" {
		res, err := c.replay(ctx, opts.script, opts.config)
		if err != nil {
			return err
		}
		sess = res.Session
	} else {
		sess = session.New(session.Options{
			DefaultNetClass: cfg.Circuit.DefaultNetClass,
			AutoNamePrefix:  cfg.Circuit.AutoNamePrefix,
		})
	}
	sheet := sess.Sheet(opts.sheet)
	if sheet == nil {
		if sheets := sess.Sheets(); opts.sheet == "" && len(sheets) > 0 {
			sheet = sheets[0]
		} else {
			name := opts.sheet
			if name == "" {
				name = script.DefaultSheet
			}
			sheet = sess.AddSheet(name, netgraph.SheetSchematic)
		}
	}

	// Log lines would tear the alternate screen.
	c.Logger.SetOutput(io.Discard)

	m := newTUIModel(editor.New(sess, edOpts), sheet)
	observability.SetHighlightHooks(m.highlight)
	defer observability.SetHighlightHooks(observability.NoopHighlightHooks{})

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	printNetTable(script.NetReports(sess))
	return nil
}

// =============================================================================
// tuiModel - Interactive wire drawing
// =============================================================================

// highlightSet records the nets highlighted by the running operation.
type highlightSet struct {
	signals []uuid.UUID
}

func (h *highlightSet) OnHighlight(signals []uuid.UUID) {
	h.signals = slices.Clone(signals)
}

// tuiModel is the bubbletea model of the terminal editor.
type tuiModel struct {
	ed        *editor.Editor
	sheet     *netgraph.Sheet
	cursor    geom.Point
	step      geom.Length
	highlight *highlightSet
	err       error
}

func newTUIModel(ed *editor.Editor, sheet *netgraph.Sheet) tuiModel {
	step := ed.Options().GridInterval
	if step <= 0 {
		step = 1
	}
	return tuiModel{ed: ed, sheet: sheet, step: step, highlight: &highlightSet{}}
}

func (m tuiModel) tool() *editor.DrawWire { return m.ed.DrawWire(m.sheet) }

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.err = nil
	switch key.String() {
	case "q", "ctrl+c":
		m.ed.ExitTool()
		return m, tea.Quit
	case "up":
		m.moveBy(0, -1)
	case "down":
		m.moveBy(0, 1)
	case "left":
		m.moveBy(-1, 0)
	case "right":
		m.moveBy(1, 0)
	case " ", "enter":
		m.err = m.tool().Click(m.cursor, false)
	case "m":
		m.tool().RightClick()
	case "esc":
		m.tool().Abort()
	case "u":
		m.err = m.ed.Undo()
	case "r":
		m.err = m.ed.Redo()
	case "d":
		m.err = m.deleteAtCursor()
	case "j":
		m.err = m.ed.PlaceJunction(m.sheet, m.cursor)
	case "s":
		_, m.err = m.ed.Simplify(m.sheet)
	}
	return m, nil
}

func (m *tuiModel) moveBy(dx, dy geom.Length) {
	m.cursor = m.cursor.Add(geom.Pt(dx*m.step, dy*m.step))
	m.tool().Move(m.cursor, false)
}

// deleteAtCursor removes the wire under the cursor, or the point when the
// cursor sits on a wire end.
func (m tuiModel) deleteAtCursor() error {
	tol := m.ed.Options().SnapTolerance
	var sel editor.Selection
	if pts := m.sheet.PointsAt(m.cursor, tol); len(pts) > 0 {
		sel.Points = []uuid.UUID{pts[0].ID}
	} else if lines := m.sheet.LinesAt(m.cursor, tol); len(lines) > 0 {
		sel.Lines = []uuid.UUID{lines[0].ID}
	}
	if sel.IsEmpty() {
		return errors.New(errors.ErrCodeNothingHere, "nothing to delete at %s", m.cursor)
	}
	return m.ed.RemoveSelection(m.sheet, sel)
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("netedit · " + m.sheet.Name))
	b.WriteString("\n\n")

	origin := m.cursor.Sub(geom.Pt(geom.Length(tuiViewportWidth/2)*m.step, geom.Length(tuiViewportRows/2)*m.step))
	for row := range tuiViewportRows {
		for col := range tuiViewportWidth {
			pos := origin.Add(geom.Pt(geom.Length(col)*m.step, geom.Length(row)*m.step))
			glyph, style := m.cell(pos)
			if pos == m.cursor {
				style = tuiCursorStyle
			}
			b.WriteString(style.Render(glyph))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tuiStatusStyle.Render(m.status()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(tuiErrorStyle.Render(iconError + " " + errors.UserMessage(m.err)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  ␣ click  m mode  esc abort  u/r undo/redo  d delete  j junction  s simplify  q quit"))
	return b.String()
}

// cell returns the glyph of the scene position pos.
func (m tuiModel) cell(pos geom.Point) (string, lipgloss.Style) {
	if pins := m.sheet.PinsAt(pos, 0); len(pins) > 0 {
		return "■", tuiPinStyle
	}
	if pts := m.sheet.PointsAt(pos, 0); len(pts) > 0 {
		p := pts[0]
		glyph := "•"
		if len(m.sheet.LinesOf(netgraph.PointAnchor(p.ID))) > 2 {
			glyph = "●"
		}
		return glyph, m.wireStyle(p.Segment)
	}
	for _, l := range m.sheet.LinesAt(pos, 0) {
		a, b := m.sheet.AnchorPosition(l.A), m.sheet.AnchorPosition(l.B)
		glyph := "╲"
		switch {
		case a.Y == b.Y:
			glyph = "─"
		case a.X == b.X:
			glyph = "│"
		case (b.X-a.X > 0) != (b.Y-a.Y > 0):
			glyph = "╱"
		}
		return glyph, m.wireStyle(l.Segment)
	}
	return "·", StyleDim
}

func (m tuiModel) wireStyle(segment uuid.UUID) lipgloss.Style {
	if seg := m.sheet.Segment(segment); seg != nil && slices.Contains(m.highlight.signals, seg.Signal) {
		return StyleHighlight
	}
	return tuiWireStyle
}

// status describes the tool state, the cursor and the net under it.
func (m tuiModel) status() string {
	w := m.tool()
	parts := []string{
		fmt.Sprintf("mode %s", w.Mode()),
		w.State().String(),
		m.cursor.String(),
	}
	if net := m.netAtCursor(); net != "" {
		parts = append(parts, "net "+net)
	}
	st := m.sheet.Stats()
	parts = append(parts, fmt.Sprintf("%d segments, %d lines", st.Segments, st.Lines))
	return strings.Join(parts, " · ")
}

func (m tuiModel) netAtCursor() string {
	c := m.ed.Session().Circuit
	if pts := m.sheet.PointsAt(m.cursor, 0); len(pts) > 0 {
		return c.SignalName(m.sheet.Segment(pts[0].Segment).Signal)
	}
	if lines := m.sheet.LinesAt(m.cursor, 0); len(lines) > 0 {
		return c.SignalName(m.sheet.Segment(lines[0].Segment).Signal)
	}
	return ""
}
