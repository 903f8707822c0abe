// Package workspace is the persisted state of one user: every project, the
// interface catalog, and the current project selection.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/require/internal/domain/catalog"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/persist"
	"github.com/rpggio/require/internal/repository"
)

// Store keys.
const (
	KeyProjects       = "projects"
	KeyInterfaces     = "interfaces"
	KeyCurrentProject = "current-project-id"
	KeyRules          = "compatibility-rules"
)

// Service provides workspace operations. Every mutation goes through a
// persist.Cache, so writes are coalesced and survive restarts.
type Service struct {
	store      *project.Store
	hub        *persist.Hub
	projects   *persist.Cache[[]*model.Project]
	interfaces *persist.Cache[[]model.Interface]
	current    *persist.Cache[string]
	rules      *persist.Cache[model.RuleSet]
	logger     *slog.Logger
}

// NewService loads the workspace from kv.
func NewService(ctx context.Context, kv repository.KVStore, store *project.Store, cfg persist.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}

	s := &Service{
		hub:    persist.NewHub(),
		logger: logger,
	}
	s.rules = persist.NewCache(ctx, kv, KeyRules, model.RuleSet{}, nil, cfg)
	s.store = store.UsingChecker(ruleChecker{rules: s.rules, fallback: store.Checker()})
	s.projects = persist.NewCache(ctx, kv, KeyProjects, []*model.Project{},
		projectCodec{views: store.Views(), logger: logger}, cfg)
	s.interfaces = persist.NewCache(ctx, kv, KeyInterfaces, catalog.Defaults(), nil, cfg)
	s.current = persist.NewCache(ctx, kv, KeyCurrentProject, "", nil, cfg)
	s.hub.Register(s.projects, s.interfaces, s.current, s.rules)
	return s
}

// Store returns the project store used for edits. Its checker consults the
// persisted compatibility rules.
func (s *Service) Store() *project.Store {
	return s.store
}

// Projects lists every project.
func (s *Service) Projects() []*model.Project {
	return append([]*model.Project(nil), s.projects.Get()...)
}

// Project returns the project with the given id.
func (s *Service) Project(id string) (*model.Project, error) {
	for _, p := range s.projects.Get() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProjectNotFound
}

// CreateProject creates a blank project and selects it.
func (s *Service) CreateProject(name, description string) (*model.Project, error) {
	p, err := s.store.Create(name, description)
	if err != nil {
		return nil, err
	}
	s.add(p)
	return p, nil
}

// CreateFromTemplate materializes a template as a new project and selects it.
func (s *Service) CreateFromTemplate(templateID, name, description string) (*model.Project, error) {
	p, err := s.store.CreateFromTemplate(templateID, name, description)
	if err != nil {
		return nil, err
	}
	s.add(p)
	return p, nil
}

func (s *Service) add(p *model.Project) {
	s.projects.Update(func(list []*model.Project) []*model.Project {
		return append(append(make([]*model.Project, 0, len(list)+1), list...), p)
	})
	s.current.Set(p.ID)
	s.logger.Info("project created", "project_id", p.ID, "name", p.Name)
}

// UpdateProject replaces a project with the snapshot fn derives from it. When
// fn fails, or returns its input unchanged, nothing is written.
func (s *Service) UpdateProject(id string, fn func(*model.Project) (*model.Project, error)) (*model.Project, error) {
	var updated *model.Project
	_, err := s.projects.TryUpdate(func(list []*model.Project) ([]*model.Project, error) {
		idx := indexOf(list, id)
		if idx < 0 {
			return nil, ErrProjectNotFound
		}
		next, err := fn(list[idx])
		if err != nil {
			return nil, err
		}
		updated = next
		if next == list[idx] {
			return nil, errUnchanged
		}
		out := append([]*model.Project(nil), list...)
		out[idx] = next
		return out, nil
	})
	if errors.Is(err, errUnchanged) {
		return updated, nil
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes a project, clearing the selection if it pointed at it.
func (s *Service) DeleteProject(id string) error {
	_, err := s.projects.TryUpdate(func(list []*model.Project) ([]*model.Project, error) {
		idx := indexOf(list, id)
		if idx < 0 {
			return nil, ErrProjectNotFound
		}
		out := make([]*model.Project, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	if s.current.Get() == id {
		s.current.Set("")
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

// CurrentProject returns the selected project.
func (s *Service) CurrentProject() (*model.Project, error) {
	id := s.current.Get()
	if id == "" {
		return nil, ErrNoCurrentProject
	}
	p, err := s.Project(id)
	if err != nil {
		return nil, ErrNoCurrentProject
	}
	return p, nil
}

// SetCurrentProject selects a project. An empty id clears the selection.
func (s *Service) SetCurrentProject(id string) error {
	if id != "" {
		if _, err := s.Project(id); err != nil {
			return err
		}
	}
	s.current.Set(id)
	return nil
}

// Interfaces returns the interface catalog.
func (s *Service) Interfaces() []model.Interface {
	return append([]model.Interface(nil), s.interfaces.Get()...)
}

// AddInterface adds a catalog entry.
func (s *Service) AddInterface(iface model.Interface) error {
	_, err := s.interfaces.TryUpdate(func(list []model.Interface) ([]model.Interface, error) {
		return catalog.Add(list, iface)
	})
	return err
}

// UpdateInterface replaces a catalog entry. Unknown ids are a no-op.
func (s *Service) UpdateInterface(iface model.Interface) error {
	_, err := s.interfaces.TryUpdate(func(list []model.Interface) ([]model.Interface, error) {
		return catalog.Update(list, iface)
	})
	return err
}

// RemoveInterface drops a catalog entry. Component interfaces referencing it are kept.
func (s *Service) RemoveInterface(id string) {
	s.interfaces.Update(func(list []model.Interface) []model.Interface {
		return catalog.Remove(list, id)
	})
}

// CompatibilityRules returns the persisted rule overrides.
func (s *Service) CompatibilityRules() model.RuleSet {
	return append(model.RuleSet{}, s.rules.Get()...)
}

// SetCompatibilityRules replaces the rule overrides and rechecks every
// connection in every project. It returns the number of projects whose
// statuses changed.
func (s *Service) SetCompatibilityRules(rules model.RuleSet) (int, error) {
	if err := catalog.ValidateRules(rules); err != nil {
		return 0, err
	}
	s.rules.Set(append(model.RuleSet{}, rules...))

	changed := 0
	_, err := s.projects.TryUpdate(func(list []*model.Project) ([]*model.Project, error) {
		out := make([]*model.Project, len(list))
		for i, p := range list {
			out[i] = s.store.Recheck(p)
			if out[i] != p {
				changed++
			}
		}
		if changed == 0 {
			return nil, errUnchanged
		}
		return out, nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return 0, err
	}
	s.logger.Info("compatibility rules replaced", "rules", len(rules), "projects_rechecked", changed)
	return changed, nil
}

// Analyze reports completeness, orphans and compatibility issues of a project.
func (s *Service) Analyze(id string) (project.Summary, error) {
	p, err := s.Project(id)
	if err != nil {
		return project.Summary{}, err
	}
	return project.Analyze(p), nil
}

// Flush writes every pending value. Call it from the process-exit path.
func (s *Service) Flush(ctx context.Context) error {
	if err := s.hub.FlushAll(ctx); err != nil {
		return fmt.Errorf("flush workspace: %w", err)
	}
	return nil
}

// Close flushes and tears down the caches.
func (s *Service) Close() error {
	return s.hub.Close()
}

func indexOf(list []*model.Project, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}
