package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/require/internal/domain/catalog"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/domain/template"
	"github.com/rpggio/require/internal/domain/view"
	"github.com/rpggio/require/internal/domain/workspace"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

var errorCodes = []struct {
	target error
	code   string
	hint   string
}{
	{workspace.ErrProjectNotFound, "PROJECT_NOT_FOUND", "Call list_projects for valid ids"},
	{workspace.ErrNoCurrentProject, "NO_CURRENT_PROJECT", "Pass project_id or call set_current_project"},
	{project.ErrInterfaceNotFound, "INVALID_REFERENCE", "Check component and interface ids with get_project"},
	{project.ErrInterfaceInUse, "INTERFACE_IN_USE", "Remove the existing connection first"},
	{project.ErrInvalidInput, "INVALID_INPUT", ""},
	{view.ErrDefaultViewRemoval, "DEFAULT_VIEW", "The default view is permanent"},
	{view.ErrLastView, "LAST_VIEW", "Create another view before removing this one"},
	{template.ErrTemplateNotFound, "TEMPLATE_NOT_FOUND", "Call list_templates for valid ids"},
	{catalog.ErrInvalidInterface, "INVALID_INTERFACE", "id and name are required"},
	{catalog.ErrDuplicateInterface, "DUPLICATE_INTERFACE", "Use update_interface to change an existing entry"},
	{catalog.ErrInvalidRule, "INVALID_RULE", "Every rule needs source_interface_id and target_interface_id"},
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.target) {
			return &APIError{Code: c.code, Message: err.Error(), RecoveryHint: c.hint, cause: err}
		}
	}
	return nil
}
