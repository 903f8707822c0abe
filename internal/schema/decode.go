// Package schema rebuilds project records from stored JSON and migrates them
// to the current layout.
package schema

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/require/internal/domain/model"
	"github.com/tidwall/gjson"
)

const unnamedComponent = "Unnamed Component"

// Decode reconstructs a project field by field. Missing optional fields get
// safe defaults; a record without id, name or a components array yields
// ErrIrreparable and must be discarded by the caller.
func Decode(raw []byte) (*model.Project, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrIrreparable)
	}
	return decodeProject(gjson.ParseBytes(raw))
}

// DecodeProjects decodes a stored array of projects. Irreparable entries are
// logged and skipped; a value that is not a JSON array returns ErrMalformed.
func DecodeProjects(raw []byte, logger *slog.Logger) ([]*model.Project, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected array", ErrMalformed)
	}

	projects := []*model.Project{}
	for i, item := range doc.Array() {
		p, err := decodeProject(item)
		if err != nil {
			logger.Warn("discarding project record", "index", i, "error", err)
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func decodeProject(r gjson.Result) (*model.Project, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrIrreparable)
	}
	id, name, comps := r.Get("id").String(), r.Get("name").String(), r.Get("components")
	if id == "" || name == "" || !comps.IsArray() {
		return nil, fmt.Errorf("%w: missing id, name or components", ErrIrreparable)
	}

	p := &model.Project{
		ID:                  id,
		Name:                name,
		Description:         r.Get("description").String(),
		Components:          []model.Component{},
		Connections:         []model.Connection{},
		SystemViews:         []model.SystemView{},
		CurrentSystemViewID: r.Get("currentSystemViewId").String(),
	}

	views := r.Get("systemViews")
	switch v := r.Get("schemaVersion"); {
	case v.Exists():
		p.SchemaVersion = int(v.Int())
	case views.IsArray():
		p.SchemaVersion = 1
	}

	for _, c := range comps.Array() {
		if c.IsObject() {
			p.Components = append(p.Components, decodeComponent(c))
		}
	}
	for _, c := range r.Get("connections").Array() {
		if c.IsObject() {
			p.Connections = append(p.Connections, decodeConnection(c))
		}
	}
	for _, v := range views.Array() {
		if v.IsObject() {
			p.SystemViews = append(p.SystemViews, decodeView(v, p.ID))
		}
	}
	return p, nil
}

func decodeComponent(r gjson.Result) model.Component {
	c := model.Component{
		ID:          stringOr(r.Get("id"), model.NewID()),
		Name:        stringOr(r.Get("name"), unnamedComponent),
		Description: r.Get("description").String(),
		Type:        model.ComponentType(stringOr(r.Get("type"), string(model.TypeComponent))),
		ParentID:    r.Get("parentId").String(),
		Interfaces:  []model.ComponentInterface{},
	}
	if pos := r.Get("position"); pos.IsObject() {
		pt := decodePoint(pos)
		c.Position = &pt
	}
	for _, iface := range r.Get("interfaces").Array() {
		if !iface.IsObject() {
			continue
		}
		c.Interfaces = append(c.Interfaces, model.ComponentInterface{
			ID:                    stringOr(iface.Get("id"), model.NewID()),
			ComponentID:           iface.Get("componentId").String(),
			InterfaceDefinitionID: iface.Get("interfaceDefinitionId").String(),
			Name:                  iface.Get("name").String(),
			Position:              model.InterfacePosition(stringOr(iface.Get("position"), string(model.PositionRight))),
			IsConnected:           iface.Get("isConnected").Bool(),
			ConnectionID:          iface.Get("connectionId").String(),
		})
	}
	return c
}

func decodeConnection(r gjson.Result) model.Connection {
	status := model.CompatibilityStatus(r.Get("compatibilityStatus").String())
	switch status {
	case model.StatusCompatible, model.StatusIncompatible, model.StatusUnknown:
	default:
		status = model.StatusUnknown
	}
	return model.Connection{
		ID:                  stringOr(r.Get("id"), model.NewID()),
		SourceComponentID:   r.Get("sourceComponentId").String(),
		SourceInterfaceID:   r.Get("sourceInterfaceId").String(),
		TargetComponentID:   r.Get("targetComponentId").String(),
		TargetInterfaceID:   r.Get("targetInterfaceId").String(),
		CompatibilityStatus: status,
		IsFullyDefined:      r.Get("isFullyDefined").Bool(),
	}
}

func decodeView(r gjson.Result, projectID string) model.SystemView {
	v := model.SystemView{
		ID:                 stringOr(r.Get("id"), model.NewID()),
		Name:               r.Get("name").String(),
		Description:        r.Get("description").String(),
		ProjectID:          stringOr(r.Get("projectId"), projectID),
		ComponentPositions: make(map[string]model.Point),
		VisibleComponents:  stringArray(r.Get("visibleComponents")),
		VisibleInterfaces:  stringArray(r.Get("visibleInterfaces")),
		IsDefault:          r.Get("isDefault").Bool(),
		CreatedAt:          decodeTime(r.Get("createdAt")),
		UpdatedAt:          decodeTime(r.Get("updatedAt")),
	}
	r.Get("componentPositions").ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			v.ComponentPositions[key.String()] = decodePoint(value)
		}
		return true
	})
	return v
}

func decodePoint(r gjson.Result) model.Point {
	return model.Point{X: r.Get("x").Float(), Y: r.Get("y").Float()}
}

func decodeTime(r gjson.Result) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

func stringArray(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, item := range r.Array() {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
	}
	return out
}

func stringOr(r gjson.Result, fallback string) string {
	if s := r.String(); s != "" {
		return s
	}
	return fallback
}
