package mcp

import (
	"time"

	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/project"
)

type NoParams struct{}

type ProjectRef struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
}

type ProjectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type CreateProjectParams struct {
	Name        string `json:"name" jsonschema:"Project display name"`
	Description string `json:"description,omitempty" jsonschema:"Project description"`
}

type CreateFromTemplateParams struct {
	TemplateID  string `json:"template_id" jsonschema:"Template ID from list_templates"`
	Name        string `json:"name" jsonschema:"Project display name"`
	Description string `json:"description,omitempty" jsonschema:"Project description"`
}

type InterfaceParams struct {
	InterfaceDefinitionID string `json:"interface_definition_id" jsonschema:"Catalog interface ID, e.g. can or usbc"`
	Name                  string `json:"name" jsonschema:"Interface instance name"`
	Position              string `json:"position,omitempty" jsonschema:"Side of the component: left, right, top or bottom"`
}

type AddComponentParams struct {
	ProjectID   string            `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	Name        string            `json:"name" jsonschema:"Component name"`
	Description string            `json:"description,omitempty" jsonschema:"Component description"`
	Type        string            `json:"type,omitempty" jsonschema:"system or component (default component)"`
	ParentID    string            `json:"parent_id,omitempty" jsonschema:"Parent component ID"`
	X           *float64          `json:"x,omitempty" jsonschema:"X position in the current view"`
	Y           *float64          `json:"y,omitempty" jsonschema:"Y position in the current view"`
	Interfaces  []InterfaceParams `json:"interfaces,omitempty" jsonschema:"Interfaces to attach"`
}

type UpdateComponentParams struct {
	ProjectID   string  `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ComponentID string  `json:"component_id" jsonschema:"Component ID"`
	Name        *string `json:"name,omitempty" jsonschema:"New name"`
	Description *string `json:"description,omitempty" jsonschema:"New description"`
	Type        *string `json:"type,omitempty" jsonschema:"New type: system or component"`
	ParentID    *string `json:"parent_id,omitempty" jsonschema:"New parent component ID"`
}

type RemoveComponentParams struct {
	ProjectID   string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ComponentID string `json:"component_id" jsonschema:"Component ID"`
	Cascade     bool   `json:"cascade,omitempty" jsonschema:"Also remove every descendant component"`
}

type AddInterfaceParams struct {
	ProjectID             string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ComponentID           string `json:"component_id" jsonschema:"Component ID"`
	InterfaceDefinitionID string `json:"interface_definition_id" jsonschema:"Catalog interface ID, e.g. can or usbc"`
	Name                  string `json:"name" jsonschema:"Interface instance name"`
	Position              string `json:"position,omitempty" jsonschema:"Side of the component: left, right, top or bottom"`
}

type RemoveInterfaceParams struct {
	ProjectID   string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ComponentID string `json:"component_id" jsonschema:"Component ID"`
	InterfaceID string `json:"interface_id" jsonschema:"Component interface ID"`
}

type CreateConnectionParams struct {
	ProjectID         string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	SourceComponentID string `json:"source_component_id" jsonschema:"Source component ID"`
	SourceInterfaceID string `json:"source_interface_id" jsonschema:"Source interface ID"`
	TargetComponentID string `json:"target_component_id" jsonschema:"Target component ID"`
	TargetInterfaceID string `json:"target_interface_id" jsonschema:"Target interface ID"`
}

type RemoveConnectionParams struct {
	ProjectID    string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ConnectionID string `json:"connection_id" jsonschema:"Connection ID"`
}

type CreateInterfaceParams struct {
	ID          string `json:"id" jsonschema:"Unique catalog ID"`
	Name        string `json:"name" jsonschema:"Display name"`
	Description string `json:"description,omitempty" jsonschema:"Description"`
	Icon        string `json:"icon,omitempty" jsonschema:"Icon key"`
	Category    string `json:"category,omitempty" jsonschema:"Category"`
}

type DeleteInterfaceParams struct {
	ID string `json:"id" jsonschema:"Catalog interface ID"`
}

type CreateViewParams struct {
	ProjectID    string   `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	Name         string   `json:"name" jsonschema:"View name"`
	Description  string   `json:"description,omitempty" jsonschema:"View description"`
	ComponentIDs []string `json:"component_ids,omitempty" jsonschema:"Components visible in the view"`
}

type UpdateViewParams struct {
	ProjectID         string   `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ViewID            string   `json:"view_id" jsonschema:"View ID"`
	Name              *string  `json:"name,omitempty" jsonschema:"New name"`
	Description       *string  `json:"description,omitempty" jsonschema:"New description"`
	VisibleComponents []string `json:"visible_components,omitempty" jsonschema:"Replacement visible component set"`
}

type ViewParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ViewID    string `json:"view_id" jsonschema:"View ID"`
}

type MoveComponentParams struct {
	ProjectID   string  `json:"project_id,omitempty" jsonschema:"Project ID (omit to use the current project)"`
	ViewID      string  `json:"view_id,omitempty" jsonschema:"View ID (omit to use the current view)"`
	ComponentID string  `json:"component_id" jsonschema:"Component ID"`
	X           float64 `json:"x" jsonschema:"X position"`
	Y           float64 `json:"y" jsonschema:"Y position"`
}

// ViewDTO is a SystemView with wire-friendly timestamps.
type ViewDTO struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description,omitempty"`
	ComponentPositions map[string]model.Point `json:"component_positions"`
	VisibleComponents  []string               `json:"visible_components"`
	VisibleInterfaces  []string               `json:"visible_interfaces"`
	IsDefault          bool                   `json:"is_default"`
	CreatedAt          string                 `json:"created_at"`
	UpdatedAt          string                 `json:"updated_at"`
}

type ProjectDTO struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Description         string             `json:"description,omitempty"`
	Components          []model.Component  `json:"components"`
	Connections         []model.Connection `json:"connections"`
	SystemViews         []ViewDTO          `json:"system_views"`
	CurrentSystemViewID string             `json:"current_system_view_id"`
}

type ProjectResult struct {
	Project ProjectDTO `json:"project"`
}

type ProjectSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Components   int    `json:"components"`
	Connections  int    `json:"connections"`
	Completeness int    `json:"completeness"`
	Current      bool   `json:"current"`
}

type ListProjectsResult struct {
	Projects []ProjectSummary `json:"projects"`
}

type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

type ListTemplatesResult struct {
	Templates []TemplateInfo `json:"templates"`
}

// EntityResult carries the id of a created entity. ID is empty and Changed is
// false when the parent reference did not resolve.
type EntityResult struct {
	ProjectID string `json:"project_id"`
	ID        string `json:"id"`
	Changed   bool   `json:"changed"`
}

// MutationResult reports whether an edit changed anything. Edits that target
// an unknown id succeed with Changed=false.
type MutationResult struct {
	Changed bool `json:"changed"`
}

type ConnectionResult struct {
	ProjectID  string           `json:"project_id"`
	Connection model.Connection `json:"connection"`
}

type OrphanRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AnalysisResult struct {
	ProjectID    string          `json:"project_id"`
	Completeness int             `json:"completeness"`
	Orphans      []OrphanRef     `json:"orphans"`
	Issues       []project.Issue `json:"issues"`
}

type ListInterfacesResult struct {
	Interfaces []model.Interface `json:"interfaces"`
}

type MermaidResult struct {
	ProjectID string `json:"project_id"`
	Diagram   string `json:"diagram"`
}

func toProjectDTO(p *model.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Components:          nonNil(p.Components),
		Connections:         nonNil(p.Connections),
		SystemViews:         make([]ViewDTO, 0, len(p.SystemViews)),
		CurrentSystemViewID: p.CurrentSystemViewID,
	}
	for _, v := range p.SystemViews {
		positions := v.ComponentPositions
		if positions == nil {
			positions = map[string]model.Point{}
		}
		dto.SystemViews = append(dto.SystemViews, ViewDTO{
			ID:                 v.ID,
			Name:               v.Name,
			Description:        v.Description,
			ComponentPositions: positions,
			VisibleComponents:  nonNil(v.VisibleComponents),
			VisibleInterfaces:  nonNil(v.VisibleInterfaces),
			IsDefault:          v.IsDefault,
			CreatedAt:          v.CreatedAt.Format(time.RFC3339),
			UpdatedAt:          v.UpdatedAt.Format(time.RFC3339),
		})
	}
	return dto
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type RuleParams struct {
	SourceInterfaceID string `json:"source_interface_id" jsonschema:"Catalog interface ID on one end"`
	TargetInterfaceID string `json:"target_interface_id" jsonschema:"Catalog interface ID on the other end"`
	IsCompatible      bool   `json:"is_compatible" jsonschema:"Whether the pair may be connected"`
	Message           string `json:"message,omitempty" jsonschema:"Explanation shown with the status"`
}

type SetRulesParams struct {
	Rules []RuleParams `json:"rules" jsonschema:"Full replacement rule list; pairs not listed use the identity rule"`
}

type RulesResult struct {
	Rules             []RuleParams `json:"rules"`
	ProjectsRechecked int          `json:"projects_rechecked,omitempty"`
}
