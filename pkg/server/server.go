package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"orgbridge/internal/audit"
	"orgbridge/internal/cache"
	"orgbridge/internal/config"
	"orgbridge/internal/handshake"
	obmcp "orgbridge/internal/mcp"
	"orgbridge/internal/platform"
	"orgbridge/internal/redact"
	"orgbridge/internal/startup"
	"orgbridge/internal/state"
	"orgbridge/internal/tmpfile"
	"orgbridge/internal/workspace"
)

type Options struct {
	ConfigPath      string
	Transport       string
	HTTPPort        int
	LogLevel        string
	Workspace       string
	LoginURL        string
	Secret          string
	BypassHandshake bool
	Toolsets        []string
	ReadOnly        bool
	Version         string
	Stderr          io.Writer
}

// Run is the process entry point: it builds the process state, drives the
// startup phases, and hands control to the transport collaborator. Any
// phase failure aborts the whole start and is returned to main.
func Run(ctx context.Context, opts Options) error {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("ORGBRIDGE_CONFIG")
	}
	overrides := overridesFrom(opts)

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(errOut, &slog.HandlerOptions{Level: level}))

	st := state.New()
	defer st.BeginShutdown()

	var (
		cfg       config.Config
		toolCtx   obmcp.ToolContext
		reg       *obmcp.HandlerRegistry
		sdkServer *sdkmcp.Server
	)

	steps := []startup.Step{
		{Phase: state.ConfigLoaded, Run: func(ctx context.Context) error {
			loaded, err := config.Load(configPath, overrides)
			if err != nil {
				return err
			}
			cfg = loaded
			level.Set(parseLevel(cfg.LogLevel))
			return nil
		}},
		{Phase: state.WorkspaceResolved, Run: func(ctx context.Context) error {
			strategy := workspace.ForClient(cfg.ClientName, os.Getenv)
			paths, err := workspace.Resolve(cfg.Workspace, strategy, os.Getwd)
			if err != nil {
				return err
			}
			logger.Info("workspace resolved", "paths", paths, "clientStrategy", strategy.Name())
			return st.SetWorkspacePaths(paths)
		}},
		{Phase: state.HandshakeValidated, Run: func(ctx context.Context) error {
			return handshake.New(cfg, st, logger).Validate(ctx)
		}},
		{Phase: state.HandlersRegistered, Run: func(ctx context.Context) error {
			builtCtx, builtReg, err := buildRuntime(cfg, st, logger, errOut)
			if err != nil {
				return err
			}
			toolCtx, reg = builtCtx, builtReg
			reg.Seal()
			return nil
		}},
		{Phase: state.TransportBound, Run: func(ctx context.Context) error {
			sdkServer = sdkmcp.NewServer(&sdkmcp.Implementation{Name: "orgbridge", Version: opts.Version}, nil)
			return obmcp.BindSDKServer(sdkServer, reg, toolCtx)
		}},
	}
	if err := startup.NewRunner(st, logger, steps).Run(ctx); err != nil {
		return err
	}
	if err := st.MarkPhase(state.Ready); err != nil {
		return err
	}
	logger.Info("orgbridge ready",
		"transport", cfg.Transport,
		"tools", len(reg.ListAll(obmcp.CategoryTool)),
		"prompts", len(reg.ListAll(obmcp.CategoryPrompt)),
		"resources", len(reg.ListAll(obmcp.CategoryResource)))

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopCh)
	go func() {
		select {
		case <-stopCh:
			st.BeginShutdown()
			cancel()
		case <-serveCtx.Done():
		}
	}()

	switch cfg.Transport {
	case "http":
		return serveHTTP(serveCtx, cfg, sdkServer, logger)
	default:
		if err := sdkServer.Run(serveCtx, &sdkmcp.StdioTransport{}); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, sdkServer *sdkmcp.Server, logger *slog.Logger) error {
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return sdkServer
	}, nil)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	logger.Info("listening", "port", cfg.HTTPPort)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func buildRuntime(cfg config.Config, st *state.State, logger *slog.Logger, errOut io.Writer) (obmcp.ToolContext, *obmcp.HandlerRegistry, error) {
	sanitizer := redact.New()
	auditLogger := audit.NewLogger(errOut)
	store := cache.NewStore()
	tmpManager := tmpfile.NewManager(logger)
	platformClient := platform.NewClient(cfg.PlatformURL,
		platform.WithToken(cfg.Secret),
		platform.WithCache(store, time.Duration(cfg.Cache.OrgContextTTLSeconds)*time.Second))
	services := obmcp.NewServiceRegistry()
	reg := obmcp.NewRegistry(&cfg)

	toolCtx := obmcp.ToolContext{
		Config:    &cfg,
		State:     st,
		Platform:  platformClient,
		Sanitizer: sanitizer,
		Audit:     auditLogger,
		Logger:    logger,
		Services:  services,
		Cache:     store,
		Tmp:       tmpManager,
		Registry:  reg,
	}
	toolCtx.Invoker = obmcp.NewToolInvoker(reg, toolCtx)

	for _, id := range cfg.Toolsets {
		factory, ok := obmcp.ToolsetFactoryFor(id)
		if !ok {
			return obmcp.ToolContext{}, nil, fmt.Errorf("unknown toolset: %s", id)
		}
		toolset := factory()
		if err := toolset.Init(toolCtx); err != nil {
			return obmcp.ToolContext{}, nil, err
		}
		if err := toolset.Register(reg); err != nil {
			return obmcp.ToolContext{}, nil, err
		}
	}
	return toolCtx, reg, nil
}

func overridesFrom(opts Options) config.Overrides {
	overrides := config.Overrides{}
	if opts.Transport != "" {
		overrides.Transport = &opts.Transport
	}
	if opts.HTTPPort != 0 {
		overrides.HTTPPort = &opts.HTTPPort
	}
	if opts.LogLevel != "" {
		overrides.LogLevel = &opts.LogLevel
	}
	if opts.Workspace != "" {
		overrides.Workspace = &opts.Workspace
	}
	if opts.LoginURL != "" {
		overrides.LoginURL = &opts.LoginURL
	}
	if opts.Secret != "" {
		overrides.Secret = &opts.Secret
	}
	if opts.BypassHandshake {
		overrides.BypassHandshake = &opts.BypassHandshake
	}
	if len(opts.Toolsets) > 0 {
		overrides.Toolsets = &opts.Toolsets
	}
	if opts.ReadOnly {
		overrides.ReadOnly = &opts.ReadOnly
	}
	return overrides
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
