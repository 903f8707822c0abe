package schema

import (
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/view"
)

// Normalize migrates a decoded project to model.SchemaVersion and repairs its
// structure.
//
// The repair runs on every record regardless of its stamped version: it folds
// 'subsystem' into 'component', re-links interface owner ids, drops
// connections whose endpoints do not resolve, recomputes every derived flag
// from the connection list, synthesizes a default view when none exists
// (seeded from legacy component positions), and points the current view at a
// real view. A project that needs none of this is returned as is.
func Normalize(p *model.Project, views *view.Manager) *model.Project {
	if p.SchemaVersion >= model.SchemaVersion && isConsistent(p) {
		return p
	}

	next := p.Clone()
	next.Components = make([]model.Component, len(p.Components))
	for i, c := range p.Components {
		if !c.Type.Valid() {
			c.Type = model.TypeComponent
		}
		ifaces := make([]model.ComponentInterface, len(c.Interfaces))
		for j, iface := range c.Interfaces {
			iface.ComponentID = c.ID
			iface.IsConnected = false
			iface.ConnectionID = ""
			ifaces[j] = iface
		}
		c.Interfaces = ifaces
		next.Components[i] = c
	}

	next.Connections = make([]model.Connection, 0, len(p.Connections))
	for _, conn := range p.Connections {
		if _, ok := next.FindInterface(conn.SourceComponentID, conn.SourceInterfaceID); !ok {
			continue
		}
		if _, ok := next.FindInterface(conn.TargetComponentID, conn.TargetInterfaceID); !ok {
			continue
		}
		conn.IsFullyDefined = model.IsFullyDefined(conn.CompatibilityStatus)
		next.Connections = append(next.Connections, conn)
		markConnected(next, conn.SourceComponentID, conn.SourceInterfaceID, conn.ID)
		markConnected(next, conn.TargetComponentID, conn.TargetInterfaceID, conn.ID)
	}

	next = views.EnsureHasSystemViews(next)
	next = adoptLegacyPositions(next)
	if next.FindView(next.CurrentSystemViewID) < 0 && len(next.SystemViews) > 0 {
		next.CurrentSystemViewID = next.SystemViews[0].ID
	}
	next.SchemaVersion = model.SchemaVersion
	return next
}

// isConsistent reports whether p already satisfies everything Normalize
// repairs.
func isConsistent(p *model.Project) bool {
	if len(p.SystemViews) == 0 || p.FindView(p.CurrentSystemViewID) < 0 {
		return false
	}

	// interface key -> id of the last connection claiming it
	claimed := make(map[string]string, 2*len(p.Connections))
	for _, conn := range p.Connections {
		if _, ok := p.FindInterface(conn.SourceComponentID, conn.SourceInterfaceID); !ok {
			return false
		}
		if _, ok := p.FindInterface(conn.TargetComponentID, conn.TargetInterfaceID); !ok {
			return false
		}
		if conn.IsFullyDefined != model.IsFullyDefined(conn.CompatibilityStatus) {
			return false
		}
		claimed[conn.SourceComponentID+"/"+conn.SourceInterfaceID] = conn.ID
		claimed[conn.TargetComponentID+"/"+conn.TargetInterfaceID] = conn.ID
	}

	for _, c := range p.Components {
		if !c.Type.Valid() || c.Position != nil {
			return false
		}
		for _, iface := range c.Interfaces {
			if iface.ComponentID != c.ID {
				return false
			}
			connID, ok := claimed[c.ID+"/"+iface.ID]
			if iface.IsConnected != ok || iface.ConnectionID != connID {
				return false
			}
		}
	}
	return true
}

// markConnected sets the flags on one interface. Later connections win when
// two claim the same interface.
func markConnected(p *model.Project, componentID, interfaceID, connectionID string) {
	idx := p.FindComponent(componentID)
	for j := range p.Components[idx].Interfaces {
		iface := &p.Components[idx].Interfaces[j]
		if iface.ID == interfaceID {
			iface.IsConnected = true
			iface.ConnectionID = connectionID
		}
	}
}

// adoptLegacyPositions copies component positions into views that show the
// component without placing it, then clears the legacy field.
func adoptLegacyPositions(p *model.Project) *model.Project {
	legacy := false
	for _, c := range p.Components {
		if c.Position != nil {
			legacy = true
			break
		}
	}
	if !legacy {
		return p
	}

	out := make([]model.SystemView, len(p.SystemViews))
	for i, v := range p.SystemViews {
		positions := make(map[string]model.Point, len(v.ComponentPositions))
		for id, pos := range v.ComponentPositions {
			positions[id] = pos
		}
		for _, c := range p.Components {
			if _, ok := positions[c.ID]; !ok && c.Position != nil && view.IsVisible(c.ID, &v) {
				positions[c.ID] = *c.Position
			}
		}
		v.ComponentPositions = positions
		out[i] = v
	}
	p.SystemViews = out
	for i := range p.Components {
		p.Components[i].Position = nil
	}
	return p
}
