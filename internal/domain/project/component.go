package project

import (
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/view"
)

// ComponentInput describes a component to add.
type ComponentInput struct {
	Name        string
	Description string
	Type        model.ComponentType
	ParentID    string
	// Position places the component in the active view. Nil picks the next grid slot.
	Position   *model.Point
	Interfaces []InterfaceInput
}

// InterfaceInput describes an interface instance to attach to a component.
type InterfaceInput struct {
	InterfaceDefinitionID string
	Name                  string
	Position              model.InterfacePosition
}

// ComponentPatch lists the fields UpdateComponent may change. Nil fields are kept.
type ComponentPatch struct {
	Name        *string
	Description *string
	Type        *model.ComponentType
	ParentID    *string
}

// AddComponent appends a component under a fresh id and shows it in the active
// view, so a new component is never invisible. A missing or unknown Type
// becomes component. It returns the new component id.
func (s *Store) AddComponent(p *model.Project, in ComponentInput) (*model.Project, string) {
	componentType := in.Type
	if !componentType.Valid() {
		componentType = model.TypeComponent
	}

	c := model.Component{
		ID:          s.ids(),
		Name:        in.Name,
		Description: in.Description,
		Type:        componentType,
		ParentID:    in.ParentID,
		Interfaces:  make([]model.ComponentInterface, 0, len(in.Interfaces)),
	}
	for _, iface := range in.Interfaces {
		c.Interfaces = append(c.Interfaces, s.newInterface(c.ID, iface))
	}

	next := p.Clone()
	next.Components = append(append(make([]model.Component, 0, len(p.Components)+1), p.Components...), c)

	pos := view.DefaultPoint
	if in.Position != nil {
		pos = *in.Position
	} else if current, ok := view.CurrentView(p); ok {
		n := len(current.VisibleComponents)
		pos = view.GridPosition(n, n+1)
	}
	return s.views.ShowInCurrentView(next, c.ID, pos), c.ID
}

// UpdateComponent shallow-merges patch into the component. Unknown ids are a
// no-op, and so are a patch that changes nothing and a Type outside
// system/component.
func (s *Store) UpdateComponent(p *model.Project, componentID string, patch ComponentPatch) *model.Project {
	idx := p.FindComponent(componentID)
	if idx < 0 {
		return p
	}

	orig := p.Components[idx]
	c := orig
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Type != nil && patch.Type.Valid() {
		c.Type = *patch.Type
	}
	if patch.ParentID != nil && *patch.ParentID != c.ID {
		c.ParentID = *patch.ParentID
	}
	if c.Name == orig.Name && c.Description == orig.Description &&
		c.Type == orig.Type && c.ParentID == orig.ParentID {
		return p
	}
	return replaceComponent(p, idx, c)
}

// RemoveComponent deletes a component together with its interfaces, every
// connection touching it, and its entries in all views. Connection flags on
// the surviving endpoints are cleared. Unknown ids are a no-op.
func (s *Store) RemoveComponent(p *model.Project, componentID string, opts RemoveOptions) *model.Project {
	idx := p.FindComponent(componentID)
	if idx < 0 {
		return p
	}

	removed := map[string]bool{componentID: true}
	if opts.Cascade {
		collectDescendants(p.Components, componentID, removed)
	}
	newParent := p.Components[idx].ParentID

	next := p.Clone()
	next.Components = make([]model.Component, 0, len(p.Components))
	for _, c := range p.Components {
		if removed[c.ID] {
			continue
		}
		if c.ParentID == componentID {
			c.ParentID = newParent
		}
		next.Components = append(next.Components, c)
	}

	dropped := make(map[string]bool)
	next.Connections = make([]model.Connection, 0, len(p.Connections))
	for _, conn := range p.Connections {
		if removed[conn.SourceComponentID] || removed[conn.TargetComponentID] {
			dropped[conn.ID] = true
			continue
		}
		next.Connections = append(next.Connections, conn)
	}
	next.Components = clearConnectionFlags(next.Components, dropped)

	return s.views.ForgetComponents(next, removed)
}

// AddInterface attaches a new interface to a component and returns its id.
// An unknown component is a no-op and yields an empty id.
func (s *Store) AddInterface(p *model.Project, componentID string, in InterfaceInput) (*model.Project, string) {
	idx := p.FindComponent(componentID)
	if idx < 0 {
		return p, ""
	}

	c := p.Components[idx]
	iface := s.newInterface(c.ID, in)
	c.Interfaces = append(append(make([]model.ComponentInterface, 0, len(c.Interfaces)+1), c.Interfaces...), iface)
	return replaceComponent(p, idx, c), iface.ID
}

// RemoveInterface detaches an interface and removes the connections that use it.
func (s *Store) RemoveInterface(p *model.Project, componentID, interfaceID string) *model.Project {
	idx := p.FindComponent(componentID)
	if idx < 0 {
		return p
	}
	if _, ok := p.FindInterface(componentID, interfaceID); !ok {
		return p
	}

	c := p.Components[idx]
	kept := make([]model.ComponentInterface, 0, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		if iface.ID != interfaceID {
			kept = append(kept, iface)
		}
	}
	c.Interfaces = kept
	next := replaceComponent(p, idx, c)

	dropped := make(map[string]bool)
	next.Connections = make([]model.Connection, 0, len(p.Connections))
	for _, conn := range p.Connections {
		if conn.SourceInterfaceID == interfaceID || conn.TargetInterfaceID == interfaceID {
			dropped[conn.ID] = true
			continue
		}
		next.Connections = append(next.Connections, conn)
	}
	next.Components = clearConnectionFlags(next.Components, dropped)
	return next
}

func (s *Store) newInterface(componentID string, in InterfaceInput) model.ComponentInterface {
	pos := in.Position
	if pos == "" {
		pos = model.PositionRight
	}
	return model.ComponentInterface{
		ID:                    s.ids(),
		ComponentID:           componentID,
		InterfaceDefinitionID: in.InterfaceDefinitionID,
		Name:                  in.Name,
		Position:              pos,
	}
}

func replaceComponent(p *model.Project, idx int, c model.Component) *model.Project {
	next := p.Clone()
	next.Components = append([]model.Component{}, p.Components...)
	next.Components[idx] = c
	return next
}

func collectDescendants(components []model.Component, parentID string, into map[string]bool) {
	for _, c := range components {
		if c.ParentID == parentID && !into[c.ID] {
			into[c.ID] = true
			collectDescendants(components, c.ID, into)
		}
	}
}

// clearConnectionFlags resets isConnected/connectionId on interfaces that point
// at a dropped connection. Components without such interfaces are reused as is.
func clearConnectionFlags(components []model.Component, dropped map[string]bool) []model.Component {
	if len(dropped) == 0 {
		return components
	}
	out := make([]model.Component, len(components))
	for i, c := range components {
		out[i] = c
		touched := false
		for _, iface := range c.Interfaces {
			if iface.ConnectionID != "" && dropped[iface.ConnectionID] {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		ifaces := make([]model.ComponentInterface, len(c.Interfaces))
		for j, iface := range c.Interfaces {
			if iface.ConnectionID != "" && dropped[iface.ConnectionID] {
				iface.IsConnected = false
				iface.ConnectionID = ""
			}
			ifaces[j] = iface
		}
		out[i].Interfaces = ifaces
	}
	return out
}
