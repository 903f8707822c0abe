package model

import "time"

// SchemaVersion is the current persisted project layout.
//
//	0: components carry their own position, no system views
//	1: system views exist, 'subsystem' type may still appear
//	2: current
const SchemaVersion = 2

// ComponentType distinguishes the root system from everything nested below it
type ComponentType string

const (
	TypeSystem    ComponentType = "system"
	TypeComponent ComponentType = "component"

	// LegacySubsystem only appears in version 0/1 records. Normalization folds it into TypeComponent.
	LegacySubsystem ComponentType = "subsystem"
)

// Valid reports whether t may appear in a current-version project.
func (t ComponentType) Valid() bool {
	return t == TypeSystem || t == TypeComponent
}

// InterfacePosition is the side of a component an interface is drawn on
type InterfacePosition string

const (
	PositionLeft   InterfacePosition = "left"
	PositionRight  InterfacePosition = "right"
	PositionTop    InterfacePosition = "top"
	PositionBottom InterfacePosition = "bottom"
)

// CompatibilityStatus is the derived status of a connection
type CompatibilityStatus string

const (
	StatusCompatible   CompatibilityStatus = "compatible"
	StatusIncompatible CompatibilityStatus = "incompatible"
	StatusUnknown      CompatibilityStatus = "unknown"
)

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Interface is an entry of the user-managed interface catalog (e.g. "CAN", "USB-C").
type Interface struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category,omitempty"`
}

// Component is a node of the system hierarchy. It exclusively owns its interfaces.
type Component struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Type        ComponentType        `json:"type"`
	ParentID    string               `json:"parentId,omitempty"`
	Interfaces  []ComponentInterface `json:"interfaces"`

	// Position is the pre-view layout field. Only read while migrating old records.
	Position *Point `json:"position,omitempty"`
}

// ComponentInterface is a positioned instance of a catalog Interface attached to one component.
type ComponentInterface struct {
	ID                    string            `json:"id"`
	ComponentID           string            `json:"componentId"`
	InterfaceDefinitionID string            `json:"interfaceDefinitionId"`
	Name                  string            `json:"name"`
	Position              InterfacePosition `json:"position"`
	IsConnected           bool              `json:"isConnected"`
	ConnectionID          string            `json:"connectionId,omitempty"`
}

// Connection joins two component interfaces.
type Connection struct {
	ID                  string              `json:"id"`
	SourceComponentID   string              `json:"sourceComponentId"`
	SourceInterfaceID   string              `json:"sourceInterfaceId"`
	TargetComponentID   string              `json:"targetComponentId"`
	TargetInterfaceID   string              `json:"targetInterfaceId"`
	CompatibilityStatus CompatibilityStatus `json:"compatibilityStatus"`
	IsFullyDefined      bool                `json:"isFullyDefined"`
}

// SystemView is one saved layout and visibility filter over the shared component graph.
type SystemView struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	ProjectID          string           `json:"projectId"`
	ComponentPositions map[string]Point `json:"componentPositions"`
	VisibleComponents  []string         `json:"visibleComponents"`
	// VisibleInterfaces filters interfaces; empty means all are shown.
	VisibleInterfaces []string  `json:"visibleInterfaces"`
	IsDefault         bool      `json:"isDefault,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Project is the aggregate root. It owns every component, connection and view.
type Project struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description,omitempty"`
	SchemaVersion       int          `json:"schemaVersion"`
	Components          []Component  `json:"components"`
	Connections         []Connection `json:"connections"`
	SystemViews         []SystemView `json:"systemViews"`
	CurrentSystemViewID string       `json:"currentSystemViewId,omitempty"`
}

// FindComponent returns the index of the component with the given id, or -1.
func (p *Project) FindComponent(id string) int {
	for i := range p.Components {
		if p.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// FindInterface resolves an interface owned by the given component.
func (p *Project) FindInterface(componentID, interfaceID string) (ComponentInterface, bool) {
	idx := p.FindComponent(componentID)
	if idx < 0 {
		return ComponentInterface{}, false
	}
	for _, iface := range p.Components[idx].Interfaces {
		if iface.ID == interfaceID {
			return iface, true
		}
	}
	return ComponentInterface{}, false
}

// FindConnection returns the index of the connection with the given id, or -1.
func (p *Project) FindConnection(id string) int {
	for i := range p.Connections {
		if p.Connections[i].ID == id {
			return i
		}
	}
	return -1
}

// FindView returns the index of the view with the given id, or -1.
func (p *Project) FindView(id string) int {
	for i := range p.SystemViews {
		if p.SystemViews[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a shallow copy of the project. Slices are shared with the
// receiver; callers replace a slice before changing any element.
func (p *Project) Clone() *Project {
	cp := *p
	return &cp
}
