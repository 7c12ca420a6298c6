package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/cache"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

func armAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	a, err := assembly.ReadYAML(strings.NewReader(armYAML))
	if err != nil {
		t.Fatalf("ReadYAML() error = %v", err)
	}
	return a
}

func TestRootCandidates(t *testing.T) {
	got, err := rootCandidates(armAssembly(t))
	if err != nil {
		t.Fatalf("rootCandidates() error = %v", err)
	}
	want := []RootCandidate{
		{Name: "Base", Joints: 2, Grounded: true},
		{Name: "Upper", Joints: 2},
		{Name: "Lower", Joints: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("rootCandidates() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRootPickerModel(t *testing.T) {
	candidates := []RootCandidate{
		{Name: "Frame", Joints: 1},
		{Name: "Base", Joints: 2, Grounded: true},
		{Name: "Arm", Joints: 1},
	}
	m := NewRootPickerModel(candidates)
	if m.Cursor != 1 {
		t.Fatalf("cursor starts at %d, want the grounded part", m.Cursor)
	}

	press := func(m RootPickerModel, k tea.KeyMsg) (RootPickerModel, tea.Cmd) {
		next, cmd := m.Update(k)
		return next.(RootPickerModel), cmd
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("cursor = %d after moving past the end, want 2", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after k, want 1", m.Cursor)
	}

	view := m.View()
	for _, want := range []string{"Select Root Part", "Frame", "Base", "Arm", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.Selected == nil || m.Selected.Name != "Base" {
		t.Errorf("enter selected %+v, want Base and a quit command", m.Selected)
	}

	quit, cmd := press(NewRootPickerModel(candidates), tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || quit.Selected != nil {
		t.Error("esc should quit without a selection")
	}
}

func TestRootPickerModel_Scroll(t *testing.T) {
	var candidates []RootCandidate
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		candidates = append(candidates, RootCandidate{Name: name})
	}
	next, _ := NewRootPickerModel(candidates).Update(tea.WindowSizeMsg{Height: 1})
	m := next.(RootPickerModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want the minimum of 5", m.Height)
	}
	for range 6 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(RootPickerModel)
	}
	if m.Cursor != 6 || m.Offset != 2 {
		t.Errorf("cursor %d offset %d, want 6 and 2", m.Cursor, m.Offset)
	}
}

func TestRenderTree(t *testing.T) {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	red, err := runner.Reduce(context.Background(), armAssembly(t), "")
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}

	out := renderTree(red)
	for _, want := range []string{"Base", "(grounded)", "Upper", "Shoulder (revolute)", "Lower", "Elbow (revolute)"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTree() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Brace") {
		t.Errorf("renderTree() lists the loop joint:\n%s", out)
	}

	loops := renderLoops(red)
	for _, want := range []string{"1 joint exported as weld constraints", "Brace", "fixed"} {
		if !strings.Contains(loops, want) {
			t.Errorf("renderLoops() missing %q:\n%s", want, loops)
		}
	}
}
