package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/domain/view"
	"github.com/rpggio/require/internal/export"
)

// Handler implements the MCP tools on top of a workspace.
type Handler struct {
	ws     WorkspaceService
	logger *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(ws WorkspaceService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{ws: ws, logger: logger}
}

func (h *Handler) ListProjects(_ context.Context, _ NoParams) (ListProjectsResult, error) {
	currentID := ""
	if cur, err := h.ws.CurrentProject(); err == nil {
		currentID = cur.ID
	}
	projects := h.ws.Projects()
	out := ListProjectsResult{Projects: make([]ProjectSummary, 0, len(projects))}
	for _, p := range projects {
		out.Projects = append(out.Projects, ProjectSummary{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Components:   len(p.Components),
			Connections:  len(p.Connections),
			Completeness: project.CalculateCompleteness(p),
			Current:      p.ID == currentID,
		})
	}
	return out, nil
}

func (h *Handler) GetProject(_ context.Context, req ProjectRef) (ProjectResult, error) {
	p, err := h.resolve(req.ProjectID)
	if err != nil {
		return ProjectResult{}, err
	}
	return ProjectResult{Project: toProjectDTO(p)}, nil
}

func (h *Handler) CreateProject(_ context.Context, req CreateProjectParams) (ProjectResult, error) {
	p, err := h.ws.CreateProject(req.Name, req.Description)
	if err != nil {
		return ProjectResult{}, err
	}
	return ProjectResult{Project: toProjectDTO(p)}, nil
}

func (h *Handler) CreateProjectFromTemplate(_ context.Context, req CreateFromTemplateParams) (ProjectResult, error) {
	p, err := h.ws.CreateFromTemplate(req.TemplateID, req.Name, req.Description)
	if err != nil {
		return ProjectResult{}, err
	}
	return ProjectResult{Project: toProjectDTO(p)}, nil
}

func (h *Handler) DeleteProject(_ context.Context, req ProjectIDParams) (MutationResult, error) {
	if err := h.ws.DeleteProject(req.ProjectID); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Changed: true}, nil
}

func (h *Handler) SetCurrentProject(_ context.Context, req ProjectIDParams) (MutationResult, error) {
	if err := h.ws.SetCurrentProject(req.ProjectID); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Changed: true}, nil
}

func (h *Handler) ListTemplates(_ context.Context, _ NoParams) (ListTemplatesResult, error) {
	templates := h.ws.Store().Templates().All()
	out := ListTemplatesResult{Templates: make([]TemplateInfo, 0, len(templates))}
	for _, t := range templates {
		out.Templates = append(out.Templates, TemplateInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
		})
	}
	return out, nil
}

func (h *Handler) AddComponent(_ context.Context, req AddComponentParams) (EntityResult, error) {
	if req.Type != "" {
		if err := checkComponentType(req.Type); err != nil {
			return EntityResult{}, err
		}
	}
	in := project.ComponentInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        model.ComponentType(req.Type),
		ParentID:    req.ParentID,
	}
	if req.X != nil || req.Y != nil {
		pos := model.Point{}
		if req.X != nil {
			pos.X = *req.X
		}
		if req.Y != nil {
			pos.Y = *req.Y
		}
		in.Position = &pos
	}
	for _, iface := range req.Interfaces {
		in.Interfaces = append(in.Interfaces, interfaceInput(iface))
	}

	var id string
	p, changed, err := h.mutate(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		next, newID := h.ws.Store().AddComponent(p, in)
		id = newID
		return next, nil
	})
	if err != nil {
		return EntityResult{}, err
	}
	return EntityResult{ProjectID: p.ID, ID: id, Changed: changed}, nil
}

func (h *Handler) UpdateComponent(_ context.Context, req UpdateComponentParams) (MutationResult, error) {
	patch := project.ComponentPatch{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if req.Type != nil {
		if err := checkComponentType(*req.Type); err != nil {
			return MutationResult{}, err
		}
		t := model.ComponentType(*req.Type)
		patch.Type = &t
	}
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().UpdateComponent(p, req.ComponentID, patch), nil
	})
}

func checkComponentType(t string) error {
	if !model.ComponentType(t).Valid() {
		return fmt.Errorf("component type %q must be system or component: %w", t, project.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) RemoveComponent(_ context.Context, req RemoveComponentParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().RemoveComponent(p, req.ComponentID, project.RemoveOptions{Cascade: req.Cascade}), nil
	})
}

func (h *Handler) AddInterface(_ context.Context, req AddInterfaceParams) (EntityResult, error) {
	var id string
	p, changed, err := h.mutate(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		next, newID := h.ws.Store().AddInterface(p, req.ComponentID, interfaceInput(InterfaceParams{
			InterfaceDefinitionID: req.InterfaceDefinitionID,
			Name:                  req.Name,
			Position:              req.Position,
		}))
		id = newID
		return next, nil
	})
	if err != nil {
		return EntityResult{}, err
	}
	return EntityResult{ProjectID: p.ID, ID: id, Changed: changed}, nil
}

func (h *Handler) RemoveInterface(_ context.Context, req RemoveInterfaceParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().RemoveInterface(p, req.ComponentID, req.InterfaceID), nil
	})
}

func (h *Handler) CreateConnection(_ context.Context, req CreateConnectionParams) (ConnectionResult, error) {
	var id string
	p, _, err := h.mutate(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		next, newID, err := h.ws.Store().CreateConnection(p,
			req.SourceComponentID, req.SourceInterfaceID, req.TargetComponentID, req.TargetInterfaceID)
		id = newID
		return next, err
	})
	if err != nil {
		return ConnectionResult{}, err
	}
	return ConnectionResult{ProjectID: p.ID, Connection: p.Connections[p.FindConnection(id)]}, nil
}

func (h *Handler) RemoveConnection(_ context.Context, req RemoveConnectionParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().RemoveConnection(p, req.ConnectionID), nil
	})
}

func (h *Handler) RecheckCompatibility(_ context.Context, req ProjectRef) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().Recheck(p), nil
	})
}

func (h *Handler) AnalyzeProject(_ context.Context, req ProjectRef) (AnalysisResult, error) {
	p, err := h.resolve(req.ProjectID)
	if err != nil {
		return AnalysisResult{}, err
	}
	summary, err := h.ws.Analyze(p.ID)
	if err != nil {
		return AnalysisResult{}, err
	}
	out := AnalysisResult{
		ProjectID:    p.ID,
		Completeness: summary.Completeness,
		Orphans:      make([]OrphanRef, 0, len(summary.Orphans)),
		Issues:       nonNil(summary.Issues),
	}
	for _, c := range summary.Orphans {
		out.Orphans = append(out.Orphans, OrphanRef{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (h *Handler) ListInterfaces(_ context.Context, _ NoParams) (ListInterfacesResult, error) {
	return ListInterfacesResult{Interfaces: nonNil(h.ws.Interfaces())}, nil
}

func (h *Handler) GetCompatibilityRules(_ context.Context, _ NoParams) (RulesResult, error) {
	return RulesResult{Rules: toRuleParams(h.ws.CompatibilityRules())}, nil
}

func (h *Handler) SetCompatibilityRules(_ context.Context, req SetRulesParams) (RulesResult, error) {
	rules := make(model.RuleSet, 0, len(req.Rules))
	for _, r := range req.Rules {
		rules = append(rules, model.CompatibilityRule{
			SourceInterfaceID: r.SourceInterfaceID,
			TargetInterfaceID: r.TargetInterfaceID,
			IsCompatible:      r.IsCompatible,
			Message:           r.Message,
		})
	}
	n, err := h.ws.SetCompatibilityRules(rules)
	if err != nil {
		return RulesResult{}, err
	}
	return RulesResult{Rules: toRuleParams(h.ws.CompatibilityRules()), ProjectsRechecked: n}, nil
}

func toRuleParams(rules model.RuleSet) []RuleParams {
	out := make([]RuleParams, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleParams{
			SourceInterfaceID: r.SourceInterfaceID,
			TargetInterfaceID: r.TargetInterfaceID,
			IsCompatible:      r.IsCompatible,
			Message:           r.Message,
		})
	}
	return out
}

func (h *Handler) CreateInterface(_ context.Context, req CreateInterfaceParams) (MutationResult, error) {
	if err := h.ws.AddInterface(catalogEntry(req)); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Changed: true}, nil
}

func (h *Handler) UpdateInterface(_ context.Context, req CreateInterfaceParams) (MutationResult, error) {
	if err := h.ws.UpdateInterface(catalogEntry(req)); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Changed: true}, nil
}

func (h *Handler) DeleteInterface(_ context.Context, req DeleteInterfaceParams) (MutationResult, error) {
	before := len(h.ws.Interfaces())
	h.ws.RemoveInterface(req.ID)
	return MutationResult{Changed: len(h.ws.Interfaces()) != before}, nil
}

func (h *Handler) CreateView(_ context.Context, req CreateViewParams) (EntityResult, error) {
	views := h.ws.Store().Views()
	var id string
	p, changed, err := h.mutate(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		if strings.TrimSpace(req.Name) == "" {
			return nil, project.ErrInvalidInput
		}
		v := views.CreateEmptyView(p.ID, req.Name, req.Description)
		v.VisibleComponents = append(v.VisibleComponents, req.ComponentIDs...)
		next := views.AddView(p, v)
		id = next.SystemViews[len(next.SystemViews)-1].ID
		return next, nil
	})
	if err != nil {
		return EntityResult{}, err
	}
	return EntityResult{ProjectID: p.ID, ID: id, Changed: changed}, nil
}

func (h *Handler) UpdateView(_ context.Context, req UpdateViewParams) (MutationResult, error) {
	patch := view.ViewPatch{
		Name:              req.Name,
		Description:       req.Description,
		VisibleComponents: req.VisibleComponents,
	}
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().Views().UpdateView(p, req.ViewID, patch), nil
	})
}

func (h *Handler) RemoveView(_ context.Context, req ViewParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		return h.ws.Store().Views().RemoveView(p, req.ViewID)
	})
}

func (h *Handler) SetCurrentView(_ context.Context, req ViewParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		if p.FindView(req.ViewID) < 0 || p.CurrentSystemViewID == req.ViewID {
			return p, nil
		}
		return h.ws.Store().Views().SetCurrentView(p, req.ViewID), nil
	})
}

func (h *Handler) MoveComponent(_ context.Context, req MoveComponentParams) (MutationResult, error) {
	return h.mutation(req.ProjectID, func(p *model.Project) (*model.Project, error) {
		viewID := req.ViewID
		if viewID == "" {
			current, ok := view.CurrentView(p)
			if !ok {
				return p, nil
			}
			viewID = current.ID
		}
		if p.FindComponent(req.ComponentID) < 0 {
			return p, nil
		}
		return h.ws.Store().Views().UpdatePositionInView(p, viewID, req.ComponentID, model.Point{X: req.X, Y: req.Y}), nil
	})
}

func (h *Handler) ExportMermaid(_ context.Context, req ProjectRef) (MermaidResult, error) {
	p, err := h.resolve(req.ProjectID)
	if err != nil {
		return MermaidResult{}, err
	}
	return MermaidResult{ProjectID: p.ID, Diagram: export.Mermaid(p)}, nil
}

// resolve looks up a project, falling back to the current one for an empty id.
func (h *Handler) resolve(projectID string) (*model.Project, error) {
	if projectID == "" {
		return h.ws.CurrentProject()
	}
	return h.ws.Project(projectID)
}

// mutate applies fn to the resolved project and reports whether it produced a new snapshot.
func (h *Handler) mutate(projectID string, fn func(*model.Project) (*model.Project, error)) (*model.Project, bool, error) {
	p, err := h.resolve(projectID)
	if err != nil {
		return nil, false, err
	}
	changed := false
	next, err := h.ws.UpdateProject(p.ID, func(cur *model.Project) (*model.Project, error) {
		out, err := fn(cur)
		if err != nil {
			return nil, err
		}
		changed = out != cur
		return out, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !changed {
		h.logger.Debug("edit left project unchanged", "project_id", p.ID)
	}
	return next, changed, nil
}

func (h *Handler) mutation(projectID string, fn func(*model.Project) (*model.Project, error)) (MutationResult, error) {
	_, changed, err := h.mutate(projectID, fn)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Changed: changed}, nil
}

func interfaceInput(p InterfaceParams) project.InterfaceInput {
	return project.InterfaceInput{
		InterfaceDefinitionID: p.InterfaceDefinitionID,
		Name:                  p.Name,
		Position:              model.InterfacePosition(p.Position),
	}
}

func catalogEntry(req CreateInterfaceParams) model.Interface {
	return model.Interface{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
	}
}
