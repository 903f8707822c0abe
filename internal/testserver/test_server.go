// Package testserver runs the MCP server over streamable HTTP against an
// in-memory sqlite database, for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/domain/workspace"
	"github.com/rpggio/require/internal/mcp"
	"github.com/rpggio/require/internal/persist"
	"github.com/rpggio/require/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	KV        *sqlite.KVStore
	Workspace *workspace.Service
	Clock     *clock.Fake
	Token     string
}

// New starts a server that requires token as bearer auth.
func New(t *testing.T, token string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clk := clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	kv := sqlite.NewKVStore(db)
	ws := workspace.NewService(context.Background(), kv,
		project.NewStore(project.WithClock(clk)), persist.Config{Clock: clk}, nil)

	server := mcp.NewServer(mcp.Config{
		Workspace:     ws,
		AuthEnabled:   true,
		AuthToken:     token,
		TransportMode: "http",
	})
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return server }, nil)
	httpServer := httptest.NewServer(handler)

	ts := &TestServer{
		Server:    httpServer,
		DB:        db,
		KV:        kv,
		Workspace: ws,
		Clock:     clk,
		Token:     token,
	}

	t.Cleanup(func() {
		httpServer.Close()
		_ = ws.Close()
		_ = db.Close()
	})

	return ts
}

// Connect opens a client session that sends token as bearer auth.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL,
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, next: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.next.RoundTrip(req)
}
