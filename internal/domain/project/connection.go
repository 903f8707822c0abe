package project

import (
	"fmt"

	"github.com/rpggio/require/internal/domain/model"
)

// CreateConnection joins two component interfaces. The new connection and the
// isConnected/connectionId flags of both endpoints land in the same snapshot.
// It returns the new connection id.
func (s *Store) CreateConnection(p *model.Project, srcComponentID, srcInterfaceID, tgtComponentID, tgtInterfaceID string) (*model.Project, string, error) {
	src, ok := p.FindInterface(srcComponentID, srcInterfaceID)
	if !ok {
		return p, "", fmt.Errorf("source %s/%s: %w", srcComponentID, srcInterfaceID, ErrInterfaceNotFound)
	}
	tgt, ok := p.FindInterface(tgtComponentID, tgtInterfaceID)
	if !ok {
		return p, "", fmt.Errorf("target %s/%s: %w", tgtComponentID, tgtInterfaceID, ErrInterfaceNotFound)
	}

	for _, iface := range []model.ComponentInterface{src, tgt} {
		if !iface.IsConnected {
			continue
		}
		if s.reconnect == ReconnectReject {
			return p, "", fmt.Errorf("interface %s: %w", iface.ID, ErrInterfaceInUse)
		}
		s.logger.Warn("reconnecting interface, previous connection left in place",
			"project_id", p.ID,
			"interface_id", iface.ID,
			"previous_connection_id", iface.ConnectionID)
	}

	status := s.checker.Check(src.InterfaceDefinitionID, tgt.InterfaceDefinitionID)
	conn := model.Connection{
		ID:                  s.ids(),
		SourceComponentID:   srcComponentID,
		SourceInterfaceID:   srcInterfaceID,
		TargetComponentID:   tgtComponentID,
		TargetInterfaceID:   tgtInterfaceID,
		CompatibilityStatus: status,
		IsFullyDefined:      model.IsFullyDefined(status),
	}

	next := p.Clone()
	next.Connections = append(append(make([]model.Connection, 0, len(p.Connections)+1), p.Connections...), conn)
	next.Components = make([]model.Component, len(p.Components))
	for i, c := range p.Components {
		next.Components[i] = c
		if c.ID != srcComponentID && c.ID != tgtComponentID {
			continue
		}
		ifaces := make([]model.ComponentInterface, len(c.Interfaces))
		for j, iface := range c.Interfaces {
			if (c.ID == srcComponentID && iface.ID == srcInterfaceID) ||
				(c.ID == tgtComponentID && iface.ID == tgtInterfaceID) {
				iface.IsConnected = true
				iface.ConnectionID = conn.ID
			}
			ifaces[j] = iface
		}
		next.Components[i].Interfaces = ifaces
	}

	s.logger.Debug("connection created",
		"project_id", p.ID,
		"connection_id", conn.ID,
		"status", status)
	return next, conn.ID, nil
}

// RemoveConnection deletes a connection and clears the flags of every interface
// that referenced it. Unknown ids are a no-op.
func (s *Store) RemoveConnection(p *model.Project, connectionID string) *model.Project {
	idx := p.FindConnection(connectionID)
	if idx < 0 {
		return p
	}

	next := p.Clone()
	next.Connections = make([]model.Connection, 0, len(p.Connections)-1)
	next.Connections = append(next.Connections, p.Connections[:idx]...)
	next.Connections = append(next.Connections, p.Connections[idx+1:]...)
	next.Components = clearConnectionFlags(p.Components, map[string]bool{connectionID: true})
	return next
}

// Recheck recomputes the status of every connection with the store's checker,
// for use after the compatibility rules change.
func (s *Store) Recheck(p *model.Project) *model.Project {
	changed := false
	conns := make([]model.Connection, len(p.Connections))
	for i, conn := range p.Connections {
		src, srcOK := p.FindInterface(conn.SourceComponentID, conn.SourceInterfaceID)
		tgt, tgtOK := p.FindInterface(conn.TargetComponentID, conn.TargetInterfaceID)
		status := model.StatusUnknown
		if srcOK && tgtOK {
			status = s.checker.Check(src.InterfaceDefinitionID, tgt.InterfaceDefinitionID)
		}
		if status != conn.CompatibilityStatus || conn.IsFullyDefined != model.IsFullyDefined(status) {
			changed = true
		}
		conn.CompatibilityStatus = status
		conn.IsFullyDefined = model.IsFullyDefined(status)
		conns[i] = conn
	}
	if !changed {
		return p
	}
	next := p.Clone()
	next.Connections = conns
	return next
}
