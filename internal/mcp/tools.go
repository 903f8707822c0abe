package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool registers a typed handler, mapping domain errors to API errors so the
// client sees a stable code.
func addTool[In, Out any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (Out, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
			out, err := fn(ctx, in)
			if err != nil {
				var zero Out
				if apiErr := MapError(err); apiErr != nil {
					return nil, zero, apiErr
				}
				return nil, zero, err
			}
			return nil, out, nil
		})
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Projects
	addTool(server, "list_projects", "List every project with counts and completeness.", h.ListProjects)
	addTool(server, "get_project", "Return a full project: components, connections and views.", h.GetProject)
	addTool(server, "create_project", "Create an empty project with a default view and select it.", h.CreateProject)
	addTool(server, "create_project_from_template", "Create a project from a built-in template and select it.", h.CreateProjectFromTemplate)
	addTool(server, "delete_project", "Delete a project.", h.DeleteProject)
	addTool(server, "set_current_project", "Select the project used when project_id is omitted.", h.SetCurrentProject)
	addTool(server, "list_templates", "List built-in project templates.", h.ListTemplates)

	// Components and interfaces
	addTool(server, "add_component", "Add a component, optionally with interfaces. It is shown in the current view.", h.AddComponent)
	addTool(server, "update_component", "Change a component's name, description, type or parent.", h.UpdateComponent)
	addTool(server, "remove_component", "Remove a component and its connections. Children are reparented unless cascade is set.", h.RemoveComponent)
	addTool(server, "add_interface", "Attach an interface instance to a component.", h.AddInterface)
	addTool(server, "remove_interface", "Detach an interface and drop its connections.", h.RemoveInterface)

	// Connections and analysis
	addTool(server, "create_connection", "Connect two component interfaces. The compatibility status is derived.", h.CreateConnection)
	addTool(server, "remove_connection", "Remove a connection and clear its endpoint flags.", h.RemoveConnection)
	addTool(server, "recheck_compatibility", "Recompute the compatibility status of every connection.", h.RecheckCompatibility)
	addTool(server, "analyze_project", "Report completeness, orphaned components and compatibility issues.", h.AnalyzeProject)
	addTool(server, "export_mermaid", "Render the project as a Mermaid flowchart.", h.ExportMermaid)

	// Interface catalog
	addTool(server, "list_interfaces", "List the interface catalog.", h.ListInterfaces)
	addTool(server, "create_interface", "Add an interface definition to the catalog.", h.CreateInterface)
	addTool(server, "update_interface", "Replace an interface definition in the catalog.", h.UpdateInterface)
	addTool(server, "delete_interface", "Remove an interface definition from the catalog.", h.DeleteInterface)
	addTool(server, "get_compatibility_rules", "List the compatibility rule overrides.", h.GetCompatibilityRules)
	addTool(server, "set_compatibility_rules", "Replace the compatibility rule overrides and recheck every connection.", h.SetCompatibilityRules)

	// System views
	addTool(server, "create_view", "Create a system view showing the given components.", h.CreateView)
	addTool(server, "update_view", "Rename a view or replace its visible components.", h.UpdateView)
	addTool(server, "remove_view", "Remove a view. The default and the last view are protected.", h.RemoveView)
	addTool(server, "set_current_view", "Make a view the active one.", h.SetCurrentView)
	addTool(server, "move_component", "Set a component's position in a view.", h.MoveComponent)
}
