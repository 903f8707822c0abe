package view

import (
	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/model"
)

const (
	DefaultViewName        = "All Components"
	DefaultViewDescription = "Default view showing all components in the system"
)

// Manager creates and edits the system views of a project. Every method that
// takes a project returns a new snapshot and leaves its input untouched.
type Manager struct {
	ids   model.IDGenerator
	clock clock.Clock
}

// NewManager creates a view manager. Nil arguments fall back to uuid ids and the wall clock.
func NewManager(ids model.IDGenerator, clk clock.Clock) *Manager {
	if ids == nil {
		ids = model.NewID
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Manager{ids: ids, clock: clk}
}

// ViewPatch lists the fields UpdateView may change. Nil fields are left as is.
type ViewPatch struct {
	Name               *string
	Description        *string
	VisibleComponents  []string
	VisibleInterfaces  []string
	ComponentPositions map[string]model.Point
}

// CreateDefaultView builds the "All Components" view: every component visible,
// components without a legacy position laid out on a grid.
func (m *Manager) CreateDefaultView(projectID string, components []model.Component) model.SystemView {
	now := m.clock.Now()
	positions := make(map[string]model.Point, len(components))
	visible := make([]string, 0, len(components))
	for i, c := range components {
		if c.Position != nil {
			positions[c.ID] = *c.Position
		} else {
			positions[c.ID] = GridPosition(i, len(components))
		}
		visible = append(visible, c.ID)
	}

	return model.SystemView{
		ID:                 m.ids(),
		Name:               DefaultViewName,
		Description:        DefaultViewDescription,
		ProjectID:          projectID,
		ComponentPositions: positions,
		VisibleComponents:  visible,
		VisibleInterfaces:  []string{},
		IsDefault:          true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CreateEmptyView builds a view with nothing visible, the seed of a curated view.
func (m *Manager) CreateEmptyView(projectID, name, description string) model.SystemView {
	now := m.clock.Now()
	return model.SystemView{
		ID:                 m.ids(),
		Name:               name,
		Description:        description,
		ProjectID:          projectID,
		ComponentPositions: map[string]model.Point{},
		VisibleComponents:  []string{},
		VisibleInterfaces:  []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AddView appends v under a fresh id. Only the first view of a project may be the default.
func (m *Manager) AddView(p *model.Project, v model.SystemView) *model.Project {
	now := m.clock.Now()
	added := cloneView(v)
	added.ID = m.ids()
	added.ProjectID = p.ID
	added.CreatedAt = now
	added.UpdatedAt = now
	added.IsDefault = len(p.SystemViews) == 0

	next := p.Clone()
	next.SystemViews = append(append(make([]model.SystemView, 0, len(p.SystemViews)+1), p.SystemViews...), added)
	return next
}

// UpdateView applies patch to the view with the given id. Unknown ids are a no-op.
func (m *Manager) UpdateView(p *model.Project, viewID string, patch ViewPatch) *model.Project {
	return m.editView(p, viewID, func(v *model.SystemView) {
		if patch.Name != nil {
			v.Name = *patch.Name
		}
		if patch.Description != nil {
			v.Description = *patch.Description
		}
		if patch.VisibleComponents != nil {
			v.VisibleComponents = append([]string{}, patch.VisibleComponents...)
		}
		if patch.VisibleInterfaces != nil {
			v.VisibleInterfaces = append([]string{}, patch.VisibleInterfaces...)
		}
		if patch.ComponentPositions != nil {
			positions := make(map[string]model.Point, len(patch.ComponentPositions))
			for id, pos := range patch.ComponentPositions {
				positions[id] = pos
			}
			v.ComponentPositions = positions
		}
	})
}

// RemoveView deletes a view. The default view and the last remaining view are
// protected. Removing the current view moves the pointer to the first remaining one.
func (m *Manager) RemoveView(p *model.Project, viewID string) (*model.Project, error) {
	idx := p.FindView(viewID)
	if idx < 0 {
		return p, nil
	}
	if p.SystemViews[idx].IsDefault {
		return nil, ErrDefaultViewRemoval
	}
	if len(p.SystemViews) == 1 {
		return nil, ErrLastView
	}

	next := p.Clone()
	next.SystemViews = make([]model.SystemView, 0, len(p.SystemViews)-1)
	next.SystemViews = append(next.SystemViews, p.SystemViews[:idx]...)
	next.SystemViews = append(next.SystemViews, p.SystemViews[idx+1:]...)

	if p.CurrentSystemViewID == viewID || next.FindView(next.CurrentSystemViewID) < 0 {
		next.CurrentSystemViewID = next.SystemViews[0].ID
	}
	return next, nil
}

// SetCurrentView points the project at viewID. The id is not validated;
// CurrentView falls back to the first view when it does not resolve.
func (m *Manager) SetCurrentView(p *model.Project, viewID string) *model.Project {
	next := p.Clone()
	next.CurrentSystemViewID = viewID
	return next
}

// UpdatePositionInView sets one component position, leaving every other entry untouched.
func (m *Manager) UpdatePositionInView(p *model.Project, viewID, componentID string, pos model.Point) *model.Project {
	return m.editView(p, viewID, func(v *model.SystemView) {
		v.ComponentPositions[componentID] = pos
	})
}

// SetVisibility adds or removes a component from a view's visible set.
func (m *Manager) SetVisibility(p *model.Project, viewID, componentID string, visible bool) *model.Project {
	return m.editView(p, viewID, func(v *model.SystemView) {
		v.VisibleComponents = withoutID(v.VisibleComponents, componentID)
		if visible {
			v.VisibleComponents = append(v.VisibleComponents, componentID)
		}
	})
}

// ShowInCurrentView makes a component visible in the active view and records its position.
func (m *Manager) ShowInCurrentView(p *model.Project, componentID string, pos model.Point) *model.Project {
	current, ok := CurrentView(p)
	if !ok {
		return p
	}
	next := m.SetVisibility(p, current.ID, componentID, true)
	return m.UpdatePositionInView(next, current.ID, componentID, pos)
}

// ForgetComponents drops the given component ids from the visible set and
// position map of every view.
func (m *Manager) ForgetComponents(p *model.Project, componentIDs map[string]bool) *model.Project {
	if len(componentIDs) == 0 || len(p.SystemViews) == 0 {
		return p
	}
	now := m.clock.Now()
	next := p.Clone()
	next.SystemViews = make([]model.SystemView, len(p.SystemViews))
	for i, v := range p.SystemViews {
		touched := false
		for id := range componentIDs {
			if _, ok := v.ComponentPositions[id]; ok || IsVisible(id, &v) {
				touched = true
				break
			}
		}
		if !touched {
			next.SystemViews[i] = v
			continue
		}
		cp := cloneView(v)
		kept := cp.VisibleComponents[:0]
		for _, id := range cp.VisibleComponents {
			if !componentIDs[id] {
				kept = append(kept, id)
			}
		}
		cp.VisibleComponents = kept
		for id := range componentIDs {
			delete(cp.ComponentPositions, id)
		}
		cp.UpdatedAt = now
		next.SystemViews[i] = cp
	}
	return next
}

// EnsureHasSystemViews synthesizes a default view for projects saved before
// views existed. A project that already has views is returned as is, so callers
// can compare pointers to detect that nothing was migrated.
func (m *Manager) EnsureHasSystemViews(p *model.Project) *model.Project {
	if len(p.SystemViews) > 0 {
		return p
	}
	v := m.CreateDefaultView(p.ID, p.Components)
	next := p.Clone()
	next.SystemViews = []model.SystemView{v}
	next.CurrentSystemViewID = v.ID
	return next
}

// CurrentView resolves the active view, falling back to the first view.
func CurrentView(p *model.Project) (*model.SystemView, bool) {
	if len(p.SystemViews) == 0 {
		return nil, false
	}
	if idx := p.FindView(p.CurrentSystemViewID); idx >= 0 {
		return &p.SystemViews[idx], true
	}
	return &p.SystemViews[0], true
}

func (m *Manager) editView(p *model.Project, viewID string, edit func(v *model.SystemView)) *model.Project {
	idx := p.FindView(viewID)
	if idx < 0 {
		return p
	}
	cp := cloneView(p.SystemViews[idx])
	edit(&cp)
	cp.UpdatedAt = m.clock.Now()

	next := p.Clone()
	next.SystemViews = append([]model.SystemView{}, p.SystemViews...)
	next.SystemViews[idx] = cp
	return next
}

func cloneView(v model.SystemView) model.SystemView {
	cp := v
	cp.ComponentPositions = make(map[string]model.Point, len(v.ComponentPositions))
	for id, pos := range v.ComponentPositions {
		cp.ComponentPositions[id] = pos
	}
	cp.VisibleComponents = append([]string{}, v.VisibleComponents...)
	cp.VisibleInterfaces = append([]string{}, v.VisibleInterfaces...)
	return cp
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
