package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/djmoore711/brandfetch-mcp/brand"
)

const serverVersion = "1.0.0"

func main() {
	mcpTransport := env("MCP_TRANSPORT", "stdio")
	port := env("PORT", "8085")
	logLevel := env("LOG_LEVEL", "info")

	// Logging. Stdio transport owns stdout for the protocol, so logs go
	// to stderr in every mode.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg *brand.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = brand.LoadConfigFile(path)
	} else {
		cfg, err = brand.LoadConfig()
	}
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	svc, err := brand.New(ctx, cfg, logger)
	if err != nil {
		slog.Error("brand service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "brandfetch-mcp",
		Version: serverVersion,
	}, nil)
	svc.RegisterMCP(srv)

	switch mcpTransport {
	case "stdio":
		slog.Info("MCP stdio transport starting")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}

	case "http":
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return srv
		}, nil)

		r := chi.NewRouter()
		r.Handle("/mcp", handler)
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		httpSrv := &http.Server{Addr: ":" + port, Handler: r}
		go func() {
			<-ctx.Done()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutCancel()
			httpSrv.Shutdown(shutCtx)
		}()

		slog.Info("MCP HTTP transport starting", "port", port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("MCP HTTP", "error", err)
			os.Exit(1)
		}

	default:
		slog.Error("unknown MCP_TRANSPORT", "transport", mcpTransport)
		os.Exit(1)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
