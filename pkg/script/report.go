package script

import (
	"encoding/json"

	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/session"
)

// Report is the serializable outcome of a replay.
type Report struct {
	Gestures  int             `json:"gestures"`
	Committed []string        `json:"committed"`
	Failures  []FailureReport `json:"failures"`
	Nets      []NetReport     `json:"nets"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
}

// FailureReport describes a rejected gesture.
type FailureReport struct {
	Line    int         `json:"line"`
	Gesture string      `json:"gesture"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// NetReport summarizes one net signal.
type NetReport struct {
	Name      string   `json:"name"`
	Class     string   `json:"class"`
	AutoName  bool     `json:"auto_name"`
	Segments  int      `json:"segments"`
	Terminals []string `json:"terminals"`
}

// NewReport summarizes res. withSnapshot embeds the full model snapshot.
func NewReport(res *Result, withSnapshot bool) *Report {
	sess := res.Session
	r := &Report{
		Gestures:  res.Stats.Gestures,
		Committed: res.Committed(),
		Failures:  []FailureReport{},
	}
	for _, f := range res.Failures {
		r.Failures = append(r.Failures, FailureReport{
			Line:    f.Line,
			Gesture: f.Gesture,
			Code:    errors.GetCode(f.Err),
			Message: errors.UserMessage(f.Err),
		})
	}
	r.Nets = NetReports(sess)
	if withSnapshot {
		r.Snapshot = sess.SnapshotJSON()
	}
	return r
}

// NetReports summarizes every net signal of sess: its class, the number of
// net segments on all sheets and the connected component terminals.
func NetReports(sess *session.Session) []NetReport {
	c := sess.Circuit
	nets := []NetReport{}
	for _, sig := range c.NetSignals() {
		net := NetReport{Name: sig.Name, AutoName: sig.AutoName, Terminals: []string{}}
		if nc := c.NetClass(sig.Class); nc != nil {
			net.Class = nc.Name
		}
		for _, sh := range sess.Sheets() {
			net.Segments += len(sh.SegmentsOfSignal(sig.ID))
		}
		for _, si := range c.SignalInstancesOf(sig.ID) {
			net.Terminals = append(net.Terminals, c.TerminalName(si.ID))
		}
		nets = append(nets, net)
	}
	return nets
}
