package workspace

import (
	"encoding/json"
	"log/slog"

	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/view"
	"github.com/rpggio/require/internal/schema"
)

// projectCodec decodes the stored project list tolerantly and migrates every
// record to the current schema.
type projectCodec struct {
	views  *view.Manager
	logger *slog.Logger
}

func (c projectCodec) Encode(projects []*model.Project) ([]byte, error) {
	return json.Marshal(projects)
}

func (c projectCodec) Decode(raw []byte) ([]*model.Project, error) {
	projects, err := schema.DecodeProjects(raw, c.logger)
	if err != nil {
		return nil, err
	}
	for i, p := range projects {
		projects[i] = schema.Normalize(p, c.views)
	}
	return projects, nil
}
