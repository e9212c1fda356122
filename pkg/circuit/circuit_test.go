package circuit

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/netedit/pkg/errors"
)

func mustExec(t *testing.T, cmd interface{ Execute() (bool, error) }) {
	t.Helper()
	changed, err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !changed {
		t.Fatal("Execute() reported no change")
	}
}

func newWithClass(t *testing.T) (*Circuit, *NetClass) {
	t.Helper()
	c := New("")
	add := NewCmdNetClassAdd(c, "default")
	mustExec(t, add)
	return c, add.Class()
}

func TestAutoNetName(t *testing.T) {
	c, class := newWithClass(t)

	var names []string
	for range 3 {
		add := NewCmdNetSignalAdd(c, class.ID, "")
		mustExec(t, add)
		names = append(names, add.Signal().Name)
	}
	if want := []string{"N1", "N2", "N3"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	// freed names are reused
	NewCmdNetSignalRemove(c, c.NetSignalByName("N2").ID).Execute()
	if got := c.AutoNetName(); got != "N2" {
		t.Errorf("AutoNetName() = %q, want N2", got)
	}
}

func TestNetSignalAddDuplicate(t *testing.T) {
	c, class := newWithClass(t)
	mustExec(t, NewCmdNetSignalAdd(c, class.ID, "GND"))

	_, err := NewCmdNetSignalAdd(c, class.ID, "GND").Execute()
	if !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Fatalf("Execute() error = %v, want duplicate name", err)
	}
	if len(c.NetSignals()) != 1 {
		t.Errorf("registry has %d signals, want 1", len(c.NetSignals()))
	}

	_, err = NewCmdNetSignalAdd(c, class.ID, "BAD NAME").Execute()
	if !errors.Is(err, errors.ErrCodeInvalidNetName) {
		t.Errorf("Execute() error = %v, want invalid name", err)
	}
}

func TestNetSignalEdit(t *testing.T) {
	c, class := newWithClass(t)
	add := NewCmdNetSignalAdd(c, class.ID, "")
	mustExec(t, add)
	sig := add.Signal()

	edit := NewCmdNetSignalEdit(c, sig.ID).SetName("GND", false)
	mustExec(t, edit)
	if sig.Name != "GND" || sig.AutoName {
		t.Fatalf("signal = %+v", sig)
	}
	if c.NetSignalByName("GND") != sig {
		t.Error("NetSignalByName(GND) should find the renamed signal")
	}
	edit.Undo()
	if sig.Name != "N1" || !sig.AutoName {
		t.Errorf("after undo signal = %+v", sig)
	}

	if changed, _ := NewCmdNetSignalEdit(c, sig.ID).Execute(); changed {
		t.Error("edit without changes should be a no-op")
	}
}

func TestComponentLifecycle(t *testing.T) {
	c, class := newWithClass(t)
	net := NewCmdNetSignalAdd(c, class.ID, "VCC")
	mustExec(t, net)

	add := NewCmdComponentAdd(c, "U1", []string{"VCC", "GND"}, map[string]string{"VCC": "VCC"})
	mustExec(t, add)
	vcc := add.SignalInstances()[0]
	if vcc.ForcedNetName != "VCC" || add.SignalInstances()[1].ForcedNetName != "" {
		t.Fatalf("forced names not applied: %+v", add.SignalInstances())
	}

	mustExec(t, NewCmdSignalInstanceSetNet(c, vcc.ID, net.Signal().ID))
	if !c.IsUsedByComponents(net.Signal().ID) {
		t.Fatal("signal should be used by U1.VCC")
	}
	if got := c.SignalInstancesOf(net.Signal().ID); len(got) != 1 || got[0] != vcc {
		t.Errorf("SignalInstancesOf() = %v", got)
	}

	func() {
		defer func() {
			if errors.AsLogic(recover()) == nil {
				t.Error("removing a connected component should panic")
			}
		}()
		NewCmdComponentRemove(c, add.Component().ID).Execute()
	}()

	mustExec(t, NewCmdSignalInstanceSetNet(c, vcc.ID, uuid.Nil))
	before := c.Snapshot()
	remove := NewCmdComponentRemove(c, add.Component().ID)
	mustExec(t, remove)
	if c.Component(add.Component().ID) != nil || c.SignalInstance(vcc.ID) != nil {
		t.Fatal("component still present")
	}
	remove.Undo()
	if !reflect.DeepEqual(before, c.Snapshot()) {
		t.Error("undo did not restore the registry")
	}
}
