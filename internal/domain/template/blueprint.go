package template

import "github.com/rpggio/require/internal/domain/model"

// Blueprint describes a project graph without ids. Components, interfaces and
// views refer to each other through template-local keys; the project store
// assigns real ids when it materializes the blueprint.
type Blueprint struct {
	Components  []ComponentSpec
	Connections []ConnectionSpec
	Views       []ViewSpec
}

// ComponentSpec is one component of a blueprint.
type ComponentSpec struct {
	Key         string
	Name        string
	Description string
	Type        model.ComponentType
	ParentKey   string
	Position    model.Point
	Interfaces  []InterfaceSpec
}

// InterfaceSpec is an interface instance owned by a ComponentSpec.
type InterfaceSpec struct {
	Key          string
	DefinitionID string
	Name         string
	Position     model.InterfacePosition
}

// Endpoint addresses an interface inside a blueprint.
type Endpoint struct {
	ComponentKey string
	InterfaceKey string
}

// ConnectionSpec links two blueprint interfaces.
type ConnectionSpec struct {
	Source Endpoint
	Target Endpoint
}

// ViewSpec is a curated view over a subset of blueprint components.
type ViewSpec struct {
	Name          string
	Description   string
	ComponentKeys []string
	// Positions overrides component positions inside this view, by component key.
	Positions map[string]model.Point
}
