package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/project"
)

// WorkspaceService defines the workspace operations needed by MCP.
type WorkspaceService interface {
	Store() *project.Store
	Projects() []*model.Project
	Project(id string) (*model.Project, error)
	CreateProject(name, description string) (*model.Project, error)
	CreateFromTemplate(templateID, name, description string) (*model.Project, error)
	UpdateProject(id string, fn func(*model.Project) (*model.Project, error)) (*model.Project, error)
	DeleteProject(id string) error
	CurrentProject() (*model.Project, error)
	SetCurrentProject(id string) error
	Interfaces() []model.Interface
	AddInterface(iface model.Interface) error
	UpdateInterface(iface model.Interface) error
	RemoveInterface(id string)
	Analyze(id string) (project.Summary, error)
	CompatibilityRules() model.RuleSet
	SetCompatibilityRules(rules model.RuleSet) (int, error)
}

// Config contains server configuration.
type Config struct {
	Workspace     WorkspaceService
	AuthEnabled   bool
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "require",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; auth applies to HTTP.
	if cfg.TransportMode == "http" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Workspace, cfg.Logger))

	return server
}
