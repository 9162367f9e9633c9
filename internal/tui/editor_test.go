package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/gradgen/internal/clipboard"
	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/gradient"
)

type fakeCopier struct {
	copied []string
	err    error
}

func (f *fakeCopier) Copy(text string) (clipboard.Method, error) {
	if f.err != nil {
		return clipboard.MethodNone, f.err
	}
	f.copied = append(f.copied, text)
	return clipboard.MethodSystem, nil
}

func newTestModel(t *testing.T, copier Copier) (Model, *gradient.Editor) {
	t.Helper()
	n := 0
	ed, err := gradient.NewEditor(gradient.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
	require.NoError(t, err)

	m := New(ed, copier)
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), ed
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var updated tea.Model = m
	for _, k := range keys {
		updated, cmd = updated.(Model).Update(k)
	}
	return updated.(Model), cmd
}

func TestSelectionMovesWithinBounds(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.selected)

	m, _ = press(t, m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 1, m.selected)
}

func TestAddAndRemoveStops(t *testing.T) {
	m, ed := newTestModel(t, nil)

	m, _ = press(t, m, runes("a"))
	assert.Len(t, ed.Stops(), 3)
	assert.Equal(t, 2, m.selected)

	m, _ = press(t, m, runes("a"), runes("a"), runes("a"))
	assert.Len(t, ed.Stops(), gradient.MaxStops)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "Cannot add stop")

	m, _ = press(t, m, runes("x"), runes("x"), runes("x"), runes("x"))
	assert.Len(t, ed.Stops(), gradient.MinStops)
	assert.True(t, m.statusErr)
	assert.Less(t, m.selected, gradient.MinStops)
}

func TestNudgePosition(t *testing.T) {
	m, ed := newTestModel(t, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	stop, _ := ed.Stop("stop-1")
	assert.Equal(t, float64(1), stop.Position)

	_, _ = press(t, m, runes("L"), runes("j"), runes("l"))
	stop, _ = ed.Stop("stop-1")
	assert.Equal(t, float64(11), stop.Position)
	last, _ := ed.Stop("stop-2")
	assert.Equal(t, float64(100), last.Position)
}

func TestEditColor(t *testing.T) {
	m, ed := newTestModel(t, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.editing)
	assert.Equal(t, "#ff5f6d", m.input.Value())

	m.input.SetValue("notacolor")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.editing, "unknown color keeps the input open")
	assert.True(t, m.statusErr)

	m.input.SetValue("hsl(0 100% 50%)")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)

	stop, _ := ed.Stop("stop-1")
	assert.Equal(t, "#ff0000", stop.Color)
}

func TestEditColorCancel(t *testing.T) {
	m, ed := newTestModel(t, nil)

	m, _ = press(t, m, runes("e"))
	m.input.SetValue("blue")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.editing)
	stop, _ := ed.Stop("stop-1")
	assert.Equal(t, "#ff5f6d", stop.Color)
}

func TestMoveStopRespreads(t *testing.T) {
	m, ed := newTestModel(t, nil)

	m, _ = press(t, m, runes("a"))
	m, _ = press(t, m, runes("K"))

	ids := make([]string, 0, 3)
	positions := make([]float64, 0, 3)
	for _, s := range ed.Stops() {
		ids = append(ids, s.ID)
		positions = append(positions, s.Position)
	}
	assert.Equal(t, []string{"stop-1", "new-1", "stop-2"}, ids)
	assert.Equal(t, []float64{0, 50, 100}, positions)
	assert.Equal(t, 1, m.selected)
}

func TestParamKeys(t *testing.T) {
	m, ed := newTestModel(t, nil)

	_, _ = press(t, m, runes("t"), runes("]"), runes("]"), runes("+"), runes("+"), runes("-"))

	p := ed.Params()
	assert.Equal(t, gradient.Radial, p.Type)
	assert.Equal(t, float64(100), p.Angle)
	assert.Equal(t, 5, p.Smoothness)
}

func TestRotateHue(t *testing.T) {
	m, ed := newTestModel(t, nil)

	require.NoError(t, ed.SetColor("stop-1", "#ff0000"))

	m, _ = press(t, m, runes(">"))
	stop, _ := ed.Stop("stop-1")
	assert.Equal(t, float64(hueStep), color.HexToHSV(stop.Color).H)

	_, _ = press(t, m, runes("<"), runes("<"))
	stop, _ = ed.Stop("stop-1")
	assert.Equal(t, float64(360-hueStep), color.HexToHSV(stop.Color).H)
}

func TestSidebarToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	require.True(t, m.sidebar)
	assert.Contains(t, m.View(), "Stops")

	m, _ = press(t, m, runes("s"))
	assert.False(t, m.sidebar)
	assert.NotContains(t, m.View(), "Stops")
}

func TestCopyDeclaration(t *testing.T) {
	copier := &fakeCopier{}
	m, ed := newTestModel(t, copier)

	_, cmd := press(t, m, runes("c"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, copiedMsg{}, msg)
	assert.Equal(t, []string{ed.Result().Declaration}, copier.copied)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, copySucceeded)
}

func TestCopyFailureSuggestsManualCopy(t *testing.T) {
	m, _ := newTestModel(t, &fakeCopier{err: errors.New("no display")})

	_, cmd := press(t, m, runes("c"))
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "copy the code manually")
}

func TestStatusClearsOnlyMatchingID(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(t, m, runes("x"))
	require.NotEmpty(t, m.status)

	updated, _ := m.Update(clearStatusMsg{id: m.statusID - 1})
	assert.NotEmpty(t, updated.(Model).status)

	updated, _ = m.Update(clearStatusMsg{id: m.statusID})
	assert.Empty(t, updated.(Model).status)
}

func TestPublishedResultsReachModel(t *testing.T) {
	m, ed := newTestModel(t, nil)

	require.NoError(t, ed.SetType(gradient.Conic))

	msg := waitForResult(m.updates)()
	updated, cmd := m.Update(msg)
	assert.NotNil(t, cmd)
	assert.True(t, strings.HasPrefix(updated.(Model).result.CSS, "conic-gradient("))
}

func TestOfferLatestKeepsNewest(t *testing.T) {
	ch := make(chan gradient.Result, 1)
	offerLatest(ch, gradient.Result{CSS: "old"})
	offerLatest(ch, gradient.Result{CSS: "new"})

	assert.Equal(t, "new", (<-ch).CSS)
}

func TestViewShowsDeclaration(t *testing.T) {
	m, _ := newTestModel(t, nil)

	view := m.View()
	assert.Contains(t, view, "background-image: linear-gradient(")
	assert.Contains(t, view, "gradgen")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
