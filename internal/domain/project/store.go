package project

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/template"
	"github.com/rpggio/require/internal/domain/view"
)

// Store implements the invariant-preserving project operations. Every method
// takes a project snapshot and returns a new one; inputs are never modified.
type Store struct {
	ids       model.IDGenerator
	clock     clock.Clock
	checker   model.Checker
	templates *template.Registry
	reconnect ReconnectPolicy
	logger    *slog.Logger
	views     *view.Manager
}

// NewStore creates a project store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		ids:       model.NewID,
		clock:     clock.Real{},
		checker:   model.IdentityChecker{},
		reconnect: ReconnectOverwrite,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.templates == nil {
		s.templates = template.DefaultRegistry()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.views = view.NewManager(s.ids, s.clock)
	return s
}

// Checker returns the compatibility rule new connections are checked with.
func (s *Store) Checker() model.Checker {
	return s.checker
}

// UsingChecker returns a store sharing everything with s except the
// compatibility rule.
func (s *Store) UsingChecker(checker model.Checker) *Store {
	next := *s
	next.checker = checker
	return &next
}

// Views returns the view manager sharing this store's id source and clock.
func (s *Store) Views() *view.Manager {
	return s.views
}

// Templates returns the registry CreateFromTemplate reads from.
func (s *Store) Templates() *template.Registry {
	return s.templates
}

// Create builds a blank project: one root system component and a default view showing it.
func (s *Store) Create(name, description string) (*model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}

	root := model.Component{
		ID:          s.ids(),
		Name:        name + " System",
		Description: "Root system for " + name,
		Type:        model.TypeSystem,
		Interfaces:  []model.ComponentInterface{},
	}
	p := &model.Project{
		ID:            s.ids(),
		Name:          name,
		Description:   description,
		SchemaVersion: model.SchemaVersion,
		Components:    []model.Component{root},
		Connections:   []model.Connection{},
	}
	return s.views.EnsureHasSystemViews(p), nil
}

// CreateFromTemplate materializes the blueprint of a registered template.
// Every entity receives a fresh id; interface owner ids are linked in a second
// pass once all component ids are known.
func (s *Store) CreateFromTemplate(templateID, name, description string) (*model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	tmpl, err := s.templates.Get(templateID)
	if err != nil {
		return nil, err
	}
	bp := tmpl.Build(name, description)

	p := &model.Project{
		ID:            s.ids(),
		Name:          name,
		Description:   description,
		SchemaVersion: model.SchemaVersion,
		Components:    make([]model.Component, 0, len(bp.Components)),
		Connections:   []model.Connection{},
	}

	componentIDs := make(map[string]string, len(bp.Components))
	interfaceIDs := make(map[string]map[string]string, len(bp.Components))
	for _, spec := range bp.Components {
		id := s.ids()
		componentIDs[spec.Key] = id
		ifaceIDs := make(map[string]string, len(spec.Interfaces))
		interfaceIDs[spec.Key] = ifaceIDs

		pos := spec.Position
		c := model.Component{
			ID:          id,
			Name:        spec.Name,
			Description: spec.Description,
			Type:        spec.Type,
			Position:    &pos,
			Interfaces:  make([]model.ComponentInterface, 0, len(spec.Interfaces)),
		}
		for _, is := range spec.Interfaces {
			ifaceID := s.ids()
			ifaceIDs[is.Key] = ifaceID
			c.Interfaces = append(c.Interfaces, model.ComponentInterface{
				ID:                    ifaceID,
				InterfaceDefinitionID: is.DefinitionID,
				Name:                  is.Name,
				Position:              is.Position,
			})
		}
		p.Components = append(p.Components, c)
	}

	for i := range p.Components {
		c := &p.Components[i]
		for j := range c.Interfaces {
			c.Interfaces[j].ComponentID = c.ID
		}
		if parentKey := bp.Components[i].ParentKey; parentKey != "" {
			c.ParentID = componentIDs[parentKey]
		}
	}

	// The default view adopts the template positions; the components themselves
	// do not keep a legacy position.
	p = s.views.EnsureHasSystemViews(p)
	for i := range p.Components {
		p.Components[i].Position = nil
	}

	for _, vs := range bp.Views {
		curated := s.views.CreateEmptyView(p.ID, vs.Name, vs.Description)
		for _, key := range vs.ComponentKeys {
			id, ok := componentIDs[key]
			if !ok {
				return nil, fmt.Errorf("template %s: view %q references unknown component %q", templateID, vs.Name, key)
			}
			curated.VisibleComponents = append(curated.VisibleComponents, id)
			if pos, ok := vs.Positions[key]; ok {
				curated.ComponentPositions[id] = pos
			}
		}
		p = s.views.AddView(p, curated)
	}

	for _, cs := range bp.Connections {
		srcComp, tgtComp := componentIDs[cs.Source.ComponentKey], componentIDs[cs.Target.ComponentKey]
		srcIface := interfaceIDs[cs.Source.ComponentKey][cs.Source.InterfaceKey]
		tgtIface := interfaceIDs[cs.Target.ComponentKey][cs.Target.InterfaceKey]
		p, _, err = s.CreateConnection(p, srcComp, srcIface, tgtComp, tgtIface)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", templateID, err)
		}
	}

	return p, nil
}
