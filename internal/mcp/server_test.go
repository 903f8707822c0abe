package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer(cfg)
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callText(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	cs := connect(t, Config{Workspace: newTestWorkspace(t), TransportMode: "stdio"})
	ctx := context.Background()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"create_project", "add_component", "create_connection", "analyze_project", "create_view", "export_mermaid"} {
		require.True(t, names[want], want)
	}

	text, isErr := callText(t, cs, "create_project_from_template", map[string]any{"template_id": "satellite", "name": "Sat"})
	require.False(t, isErr, text)

	text, isErr = callText(t, cs, "analyze_project", map[string]any{})
	require.False(t, isErr, text)
	var analysis AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(text), &analysis))
	require.Equal(t, 100, analysis.Completeness)

	text, isErr = callText(t, cs, "get_project", map[string]any{"project_id": "missing"})
	require.True(t, isErr)
	require.Contains(t, text, "PROJECT_NOT_FOUND")
}

func TestServer_DocResources(t *testing.T) {
	cs := connect(t, Config{Workspace: newTestWorkspace(t)})
	ctx := context.Background()

	list, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Resources, len(docResources))

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "require://docs/concepts"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.True(t, strings.HasPrefix(res.Contents[0].Text, "# Concepts and rules"))
}

func TestAuthMiddleware(t *testing.T) {
	next := func(context.Context, string, sdkmcp.Request) (sdkmcp.Result, error) {
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := authMiddleware("secret")(next)
	ctx := context.Background()

	request := func(auth string) *sdkmcp.CallToolRequest {
		header := http.Header{}
		if auth != "" {
			header.Set("Authorization", auth)
		}
		return &sdkmcp.CallToolRequest{
			Params: &sdkmcp.CallToolParamsRaw{Name: "list_projects"},
			Extra:  &sdkmcp.RequestExtra{Header: header},
		}
	}

	_, err := handler(ctx, "tools/call", request("Bearer secret"))
	require.NoError(t, err)

	_, err = handler(ctx, "tools/call", request("Bearer wrong"))
	require.ErrorContains(t, err, "invalid bearer token")

	_, err = handler(ctx, "tools/call", request(""))
	require.ErrorContains(t, err, "missing bearer token")

	_, err = handler(ctx, "ping", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
}
