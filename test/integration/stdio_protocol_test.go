package integration_test

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// serverBinary locates the built binary, skipping the test when it is missing.
func serverBinary(t *testing.T) string {
	t.Helper()
	for _, path := range []string{"./bin/require", "../../bin/require"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("Server binary not found. Run 'go build -o bin/require ./cmd/require' first.")
	return ""
}

func stdioCommand(ctx context.Context, binaryPath string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, binaryPath, "serve")
	cmd.Env = append(os.Environ(),
		"REQUIRE_TRANSPORT_MODE=stdio",
		"REQUIRE_STORAGE_BACKEND=memory",
		"REQUIRE_METRICS_ENABLED=false",
	)
	return cmd
}

func TestStdioProtocolCompliance(t *testing.T) {
	binaryPath := serverBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: stdioCommand(ctx, binaryPath)}, nil)
	require.NoError(t, err, "Failed to connect to server")
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initResult := session.InitializeResult()
		require.NotNil(t, initResult)
		require.NotNil(t, initResult.ServerInfo)
		require.Equal(t, "require", initResult.ServerInfo.Name)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)

		toolNames := make(map[string]bool)
		for _, tool := range tools.Tools {
			toolNames[tool.Name] = true
		}
		for _, name := range []string{"create_project", "list_projects", "add_component", "create_connection", "analyze_project"} {
			require.True(t, toolNames[name], "Missing expected tool: %s", name)
		}
	})

	t.Run("CreateAndList", func(t *testing.T) {
		result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "create_project_from_template",
			Arguments: map[string]any{"template_id": "car", "name": "Car"},
		})
		require.NoError(t, err)
		require.False(t, result.IsError, "create_project_from_template returned error: %v", result)

		result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
		require.NoError(t, err)
		require.False(t, result.IsError)
		text, ok := result.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)
		require.Contains(t, text.Text, `"name":"Car"`)
	})
}

// TestStdioProtocol_StdoutHygiene verifies that logs never reach stdout.
func TestStdioProtocol_StdoutHygiene(t *testing.T) {
	binaryPath := serverBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := stdioCommand(ctx, binaryPath)
	cmd.Env = append(cmd.Env, "REQUIRE_LOG_LEVEL=debug")
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	initReq := `{"jsonrpc":"2.0","method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}},"id":1}`
	_, err = stdin.Write([]byte(initReq + "\n"))
	require.NoError(t, err)

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	select {
	case line, ok := <-lines:
		require.True(t, ok, "Server produced no stdout output")
		require.NotEmpty(t, line)
		require.Equal(t, byte('{'), line[0], "First stdout line should be JSON, got: %q", line)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for server response")
	}
}
