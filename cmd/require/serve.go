package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/require/internal/config"
	"github.com/rpggio/require/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if mode != "" {
				cfg.Transport.Mode = mode
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "override the transport mode (stdio or http)")
	return cmd
}

func runServe(parent context.Context, cfg config.Config) error {
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws, closeWorkspace, err := openWorkspace(ctx, cfg, logger, registerer(reg))
	if err != nil {
		logger.Error("failed to open workspace", "error", err)
		return err
	}
	defer func() {
		// Pending edits are written before the process exits.
		if err := closeWorkspace(); err != nil {
			logger.Error("failed to close workspace", "error", err)
		}
	}()

	mcpServer := mcp.NewServer(mcp.Config{
		Workspace:     ws,
		AuthEnabled:   cfg.Auth.Enabled,
		AuthToken:     cfg.Auth.Token,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer, cfg, reg)
	}
	return runHTTPMode(ctx, logger, mcpServer, cfg, reg)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, reg *prometheus.Registry) error {
	logger.Info("starting stdio transport", "auth", "disabled", "storage", cfg.Storage.Backend)

	if reg != nil {
		// Stdout belongs to JSON-RPC, so metrics get their own listener.
		router := http.NewServeMux()
		mountOps(router, cfg, reg)
		srv := &http.Server{Addr: addr(cfg), Handler: router}
		go listen(logger, srv)
		defer shutdown(logger, srv)
	}

	// Run blocks until stdin closes or the context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config, reg *prometheus.Registry) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	mountOps(router, cfg, reg)

	srv := &http.Server{Addr: addr(cfg), Handler: router}
	go listen(logger, srv)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdown(logger, srv)
	return nil
}

// mountOps adds /health and, when enabled, the metrics endpoint.
func mountOps(router *http.ServeMux, cfg config.Config, reg *prometheus.Registry) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if reg != nil {
		router.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
}

func listen(logger *slog.Logger, srv *http.Server) {
	logger.Info("server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}

func shutdown(logger *slog.Logger, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func addr(cfg config.Config) string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}

// registerer avoids handing a typed nil registry to prometheus.Registerer.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}
