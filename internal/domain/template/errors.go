package template

import "errors"

// ErrTemplateNotFound indicates an unknown template id.
var ErrTemplateNotFound = errors.New("template not found")
