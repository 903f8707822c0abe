package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// trafficLoggingMiddleware logs each message at debug level. Tool calls also
// get an info line with their duration so slow edits show up without debug.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			debug := logger.Enabled(ctx, slog.LevelDebug)
			if !debug && method != "tools/call" {
				return next(ctx, method, req)
			}

			sessionID := safeSessionID(req)
			if debug {
				logger.Debug("mcp traffic", "direction", direction, "stage", "request", "method", method,
					"session_id", sessionID, "params", formatPayload(safeParams(req)))
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if direction == "inbound" && method == "tools/call" {
				logToolCall(ctx, logger, req, result, err, elapsed)
			}
			if debug && !strings.HasPrefix(method, "notifications/") {
				attrs := []any{"direction", direction, "stage", "response", "method", method,
					"session_id", sessionID, "result", formatPayload(result)}
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.Debug("mcp traffic", attrs...)
			}
			return result, err
		}
	}
}

func logToolCall(ctx context.Context, logger *slog.Logger, req sdkmcp.Request, result sdkmcp.Result, err error, elapsed time.Duration) {
	name := ""
	if params, ok := safeParams(req).(*sdkmcp.CallToolParamsRaw); ok && params != nil {
		name = params.Name
	}
	failed := err != nil
	if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil && res.IsError {
		failed = true
	}
	level := slog.LevelInfo
	if failed {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "tool call", "tool", name, "failed", failed, "duration", elapsed)
}

func safeSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
