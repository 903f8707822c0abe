package template

// Template produces a Blueprint for a new project.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`

	// Build returns the graph for a project called name.
	Build func(name, description string) Blueprint `json:"-"`
}

// Registry is an ordered set of templates addressed by id.
type Registry struct {
	templates []Template
}

// NewRegistry creates a registry. Later templates replace earlier ones with the same id.
func NewRegistry(templates ...Template) *Registry {
	r := &Registry{}
	for _, t := range templates {
		r.Register(t)
	}
	return r
}

// DefaultRegistry returns a fresh registry holding the built-in templates.
func DefaultRegistry() *Registry {
	return NewRegistry(Car(), Satellite())
}

// Register adds or replaces a template.
func (r *Registry) Register(t Template) {
	for i := range r.templates {
		if r.templates[i].ID == t.ID {
			r.templates[i] = t
			return
		}
	}
	r.templates = append(r.templates, t)
}

// Get looks a template up by id.
func (r *Registry) Get(id string) (Template, error) {
	for _, t := range r.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, ErrTemplateNotFound
}

// All lists templates in registration order.
func (r *Registry) All() []Template {
	return append([]Template(nil), r.templates...)
}
