package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `require models engineering systems as Projects of Components joined by Connections.

Core concepts:
- Project: one system model. It owns components, connections and system views.
- Component: a node in the hierarchy (type system or component), with positioned interface instances.
- Interface catalog: reusable interface kinds (CAN, USB-C, ...). Component interfaces reference a catalog id.
- Connection: joins two component interfaces. Its compatibility status (compatible, incompatible, unknown) is derived, never set.
- System view: a saved layout and visibility filter. Every project has a permanent default view.

Default workflow:
1) Orient: list_projects, then get_project (project_id defaults to the current project).
2) Build: add_component with interfaces, then create_connection between interface ids.
3) Check: analyze_project for completeness, orphans and incompatible links.
4) Present: create_view for a focused subset, export_mermaid for a diagram.

Edits that target an unknown id succeed with changed=false instead of failing.

Docs:
- require://docs/index
- require://docs/concepts
- require://docs/workflows/modeling
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "require://docs/index",
		Name:        "docs_index",
		Title:       "require docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# require: Agent Docs Index

## Quick start

1. ` + "`create_project_from_template`" + ` with ` + "`satellite`" + ` or ` + "`car`" + ` for a worked example, or ` + "`create_project`" + ` for a blank one.
2. ` + "`add_component`" + ` to add nodes. Pass ` + "`interfaces`" + ` to attach ports in the same call.
3. ` + "`create_connection`" + ` between two interface ids.
4. ` + "`analyze_project`" + ` to see what is still missing.

## Docs

- ` + "`require://docs/concepts`" + ` glossary and rules.
- ` + "`require://docs/workflows/modeling`" + ` the build and check loop.
`,
	},
	{
		URI:         "require://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and rules",
		Description: "Glossary plus the rules the model enforces on every edit.",
		Content: `# Concepts and rules

## Glossary

- **Project**: aggregate root. Every edit replaces the project snapshot as a whole.
- **Component**: node with ` + "`type`" + ` system or component and an optional ` + "`parent_id`" + `.
- **Component interface**: port on one component, referencing a catalog entry by ` + "`interface_definition_id`" + `.
- **Connection**: link between two component interfaces.
- **System view**: positions plus a visible component set. Views never own components.

## Rules

- Two interfaces are compatible exactly when they reference the same catalog id.
- A connection and the connected flags on both endpoints are always written together.
- Removing a component removes every connection that touches it. Its children move to its parent unless ` + "`cascade`" + ` is set.
- A new component is always visible in the current view.
- The default view and the last remaining view cannot be removed.

## Completeness

` + "`analyze_project`" + ` reports the share of fully defined connections, rounded to a whole percent. A project without connections is 0%.
`,
	},
	{
		URI:         "require://docs/workflows/modeling",
		Name:        "docs_workflow_modeling",
		Title:       "Workflow: modeling a system",
		Description: "Playbook for building a system model and checking it.",
		Content: `# Workflow: modeling a system

1) Check the catalog with ` + "`list_interfaces`" + `. Add missing kinds with ` + "`create_interface`" + `.
2) Add the root with ` + "`add_component`" + ` and ` + "`type`" + `=system, then its parts with ` + "`parent_id`" + `.
3) Connect ports with ` + "`create_connection`" + `. Connecting an interface that is already in use replaces its link.
4) Run ` + "`analyze_project`" + `. Errors are incompatible links, warnings need verification.
   An adapter between two different kinds can be recorded with ` + "`set_compatibility_rules`" + `; every project is rechecked.
5) Use ` + "`create_view`" + ` and ` + "`move_component`" + ` to present a subsystem, and ` + "`export_mermaid`" + ` to share it.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
