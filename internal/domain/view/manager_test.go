package view_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/view"
	"github.com/stretchr/testify/require"
)

func newManager() *view.Manager {
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("view-%d", n)
	}
	return view.NewManager(ids, clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestCreateDefaultView_KeepsLegacyPositions(t *testing.T) {
	m := newManager()
	components := []model.Component{
		{ID: "comp-1", Position: &model.Point{X: 100, Y: 100}},
		{ID: "comp-2", Position: &model.Point{X: 200, Y: 200}},
	}

	v := m.CreateDefaultView("proj", components)
	require.Equal(t, view.DefaultViewName, v.Name)
	require.Equal(t, "proj", v.ProjectID)
	require.True(t, v.IsDefault)
	require.Equal(t, []string{"comp-1", "comp-2"}, v.VisibleComponents)
	require.Equal(t, model.Point{X: 200, Y: 200}, v.ComponentPositions["comp-2"])
	require.False(t, v.CreatedAt.IsZero())
}

func TestCreateDefaultView_GridLayout(t *testing.T) {
	m := newManager()
	components := []model.Component{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}}

	v := m.CreateDefaultView("proj", components)
	require.Equal(t, model.Point{X: 100, Y: 100}, v.ComponentPositions["c1"])
	require.Equal(t, model.Point{X: 350, Y: 100}, v.ComponentPositions["c2"])
	require.Equal(t, model.Point{X: 100, Y: 250}, v.ComponentPositions["c3"])
	require.Equal(t, model.Point{X: 350, Y: 250}, v.ComponentPositions["c4"])
}

func TestGridPosition_ThreeColumnsForFiveComponents(t *testing.T) {
	require.Equal(t, model.Point{X: 600, Y: 100}, view.GridPosition(2, 5))
	require.Equal(t, model.Point{X: 100, Y: 250}, view.GridPosition(3, 5))
}

func TestCreateEmptyView(t *testing.T) {
	v := newManager().CreateEmptyView("proj", "Power", "")
	require.Equal(t, "Power", v.Name)
	require.Empty(t, v.Description)
	require.Empty(t, v.VisibleComponents)
	require.Empty(t, v.VisibleInterfaces)
	require.Empty(t, v.ComponentPositions)
	require.False(t, v.IsDefault)
}

func TestResolvePosition_Fallbacks(t *testing.T) {
	v := &model.SystemView{ComponentPositions: map[string]model.Point{"c1": {X: 300, Y: 400}}}

	require.Equal(t, model.Point{X: 300, Y: 400}, view.ResolvePosition(model.Component{ID: "c1"}, v))
	require.Equal(t, model.Point{X: 200, Y: 200},
		view.ResolvePosition(model.Component{ID: "c2", Position: &model.Point{X: 200, Y: 200}}, v))
	require.Equal(t, view.DefaultPoint, view.ResolvePosition(model.Component{ID: "c3"}, v))
	require.Equal(t, view.DefaultPoint, view.ResolvePosition(model.Component{ID: "c3"}, nil))
}

func TestIsVisible(t *testing.T) {
	v := &model.SystemView{VisibleComponents: []string{"c1", "c3"}}
	require.True(t, view.IsVisible("c1", v))
	require.False(t, view.IsVisible("c2", v))
	require.False(t, view.IsVisible("c1", nil))

	require.True(t, view.IsInterfaceVisible("any", v))
	v.VisibleInterfaces = []string{"i1"}
	require.True(t, view.IsInterfaceVisible("i1", v))
	require.False(t, view.IsInterfaceVisible("i2", v))
}

func projectWithDefaultView(m *view.Manager) *model.Project {
	p := &model.Project{ID: "proj", Components: []model.Component{{ID: "root", Type: model.TypeSystem}}}
	return m.EnsureHasSystemViews(p)
}

func TestAddAndUpdateView(t *testing.T) {
	m := newManager()
	p := projectWithDefaultView(m)

	withView := m.AddView(p, m.CreateEmptyView("ignored", "Custom", "A custom view"))
	require.Len(t, p.SystemViews, 1)
	require.Len(t, withView.SystemViews, 2)
	added := withView.SystemViews[1]
	require.Equal(t, "proj", added.ProjectID)
	require.False(t, added.IsDefault)

	name := "Renamed"
	updated := m.UpdateView(withView, added.ID, view.ViewPatch{Name: &name})
	require.Equal(t, "Renamed", updated.SystemViews[1].Name)
	require.Equal(t, "Custom", withView.SystemViews[1].Name)

	require.Same(t, updated, m.UpdateView(updated, "missing", view.ViewPatch{Name: &name}))
}

func TestRemoveView(t *testing.T) {
	m := newManager()
	p := projectWithDefaultView(m)
	defaultID := p.SystemViews[0].ID

	_, err := m.RemoveView(p, defaultID)
	require.ErrorIs(t, err, view.ErrDefaultViewRemoval)

	withView := m.AddView(p, m.CreateEmptyView("proj", "Second", ""))
	secondID := withView.SystemViews[1].ID
	active := m.SetCurrentView(withView, secondID)

	removed, err := m.RemoveView(active, secondID)
	require.NoError(t, err)
	require.Len(t, removed.SystemViews, 1)
	require.Equal(t, defaultID, removed.CurrentSystemViewID)

	same, err := m.RemoveView(removed, "missing")
	require.NoError(t, err)
	require.Same(t, removed, same)
}

func TestRemoveView_LastNonDefaultView(t *testing.T) {
	m := newManager()
	p := &model.Project{ID: "proj", SystemViews: []model.SystemView{{ID: "only"}}}

	_, err := m.RemoveView(p, "only")
	require.ErrorIs(t, err, view.ErrLastView)
}

func TestCurrentView_Fallback(t *testing.T) {
	m := newManager()
	p := projectWithDefaultView(m)

	dangling := m.SetCurrentView(p, "does-not-exist")
	require.Equal(t, "does-not-exist", dangling.CurrentSystemViewID)
	current, ok := view.CurrentView(dangling)
	require.True(t, ok)
	require.Equal(t, p.SystemViews[0].ID, current.ID)

	_, ok = view.CurrentView(&model.Project{})
	require.False(t, ok)
}

func TestUpdatePositionInView_CopyOnWrite(t *testing.T) {
	m := newManager()
	p := &model.Project{ID: "proj", Components: []model.Component{{ID: "a"}, {ID: "b"}}}
	p = m.EnsureHasSystemViews(p)
	viewID := p.SystemViews[0].ID
	before := p.SystemViews[0].ComponentPositions["b"]

	moved := m.UpdatePositionInView(p, viewID, "a", model.Point{X: 500, Y: 600})
	require.Equal(t, model.Point{X: 500, Y: 600}, moved.SystemViews[0].ComponentPositions["a"])
	require.Equal(t, before, moved.SystemViews[0].ComponentPositions["b"])
	require.NotEqual(t, model.Point{X: 500, Y: 600}, p.SystemViews[0].ComponentPositions["a"])
}

func TestSetVisibilityAndForget(t *testing.T) {
	m := newManager()
	p := projectWithDefaultView(m)
	viewID := p.SystemViews[0].ID

	hidden := m.SetVisibility(p, viewID, "root", false)
	require.False(t, view.IsVisible("root", &hidden.SystemViews[0]))
	require.True(t, view.IsVisible("root", &p.SystemViews[0]))

	forgotten := m.ForgetComponents(p, map[string]bool{"root": true})
	require.Empty(t, forgotten.SystemViews[0].VisibleComponents)
	require.NotContains(t, forgotten.SystemViews[0].ComponentPositions, "root")
	require.Contains(t, p.SystemViews[0].ComponentPositions, "root")
}

func TestEnsureHasSystemViews_Idempotent(t *testing.T) {
	m := newManager()
	legacy := &model.Project{
		ID:         "proj",
		Components: []model.Component{{ID: "c1", Position: &model.Point{X: 42, Y: 7}}},
	}

	once := m.EnsureHasSystemViews(legacy)
	require.Len(t, once.SystemViews, 1)
	require.Equal(t, once.SystemViews[0].ID, once.CurrentSystemViewID)
	require.Equal(t, model.Point{X: 42, Y: 7}, once.SystemViews[0].ComponentPositions["c1"])
	require.Empty(t, legacy.SystemViews)

	require.Same(t, once, m.EnsureHasSystemViews(once))
}
