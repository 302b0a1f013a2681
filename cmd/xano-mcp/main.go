package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpGoServer "github.com/mark3labs/mcp-go/server"

	"github.com/xano-community/xano-mcp/configs"
	"github.com/xano-community/xano-mcp/internal/adapter/inbound/adminhttp"
	"github.com/xano-community/xano-mcp/internal/adapter/outbound/memrepo"
	"github.com/xano-community/xano-mcp/internal/adapter/outbound/openapispec"
	"github.com/xano-community/xano-mcp/internal/adapter/outbound/xanoapi"
	"github.com/xano-community/xano-mcp/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serverName    = "xano-mcp"
	serverVersion = "0.1.0"
)

func main() {
	// === Command Line Flags ===
	var (
		transport  string
		listenAddr string
		token      string
		configFile string
		debug      bool
	)
	flag.StringVar(&transport, "transport", "stdio", "Transport mode: stdio or sse")
	flag.StringVar(&listenAddr, "listen", "", "SSE listen address (overrides XANO_LISTEN_ADDR)")
	flag.StringVar(&token, "token", "", "Xano API token (overrides XANO_API_TOKEN)")
	flag.StringVar(&configFile, "config", "", "Path to YAML config file (overrides XANO_CONFIG_FILE)")
	flag.BoolVar(&debug, "debug", false, "Log every outbound API request verbosely")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	// Best effort: a .env file is a local-development convenience.
	_ = godotenv.Load()

	cfg, err := configs.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		cfg.APIToken = token
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}
	if debug {
		cfg.Debug = true
	}

	// === Logging ===
	logLevel := cfg.ParsedLogLevel()
	var logger *slog.Logger

	if transport == "stdio" {
		// In stdio mode, log to file to avoid interfering with the
		// protocol stream on stdout.
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
		} else {
			logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel}))
		}
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}

	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", logLevel.String()), slog.String("transport", transport))

	// === Fatal startup check: the credential must exist ===
	if !cfg.HasToken() {
		logger.Error("Xano API token not provided. Set XANO_API_TOKEN, put api_token in the config file, or pass -token.")
		os.Exit(1)
	}

	// === OpenTelemetry Initialization ===
	tracingEnabled := cfg.OtelExporterOtlpEndpoint != ""
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry.", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry TracerProvider.", slog.Any("error", err))
		}
	}()

	// === MCP Server (mark3labs/mcp-go) ===
	mcpSrv := mcpGoServer.NewMCPServer(serverName, serverVersion)
	logger.Info("MCP server initialized.")

	// === Dependency Injection ===
	httpClient := &http.Client{
		Timeout: cfg.HTTPClientTimeout,
	}
	logger.Debug("HTTP client configured.", slog.Duration("timeout", cfg.HTTPClientTimeout))

	observers := []xanoapi.Observer{xanoapi.NewLogObserver(logger)}
	if tracingEnabled {
		observers = append(observers, xanoapi.NewTraceObserver())
		metricsObs, err := xanoapi.NewMetricsObserver()
		if err != nil {
			logger.Error("Failed to create metrics observer.", slog.Any("error", err))
			os.Exit(1)
		}
		observers = append(observers, metricsObs)
	}

	dispatcher := xanoapi.New(httpClient, logger, observers...)
	specFetcher := openapispec.New(httpClient, logger)
	registry := memrepo.NewInMemoryToolRegistry(logger)

	toolset := usecase.NewToolset(cfg.APIToken, dispatcher, specFetcher, registry, cfg.Debug, logger)
	if err := toolset.RegisterAll(ctx, mcpSrv); err != nil {
		logger.Error("Failed to register tools.", slog.Any("error", err))
		os.Exit(1)
	}

	// === Transport Mode Selection ===
	switch transport {
	case "stdio":
		logger.Info("Starting in stdio mode.")

		stdioServer := mcpGoServer.NewStdioServer(mcpSrv)
		if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("Stdio server error.", slog.Any("error", err))
			os.Exit(1)
		}

	case "sse":
		logger.Info("Starting in SSE mode.")

		sseServer := mcpGoServer.NewSSEServer(mcpSrv, mcpGoServer.WithBaseURL("http://"+cfg.ListenAddr))

		adminMux := http.NewServeMux()
		adminhttp.NewHandlers(registry, logger).RegisterAdminRoutes(adminMux)
		adminServer := &http.Server{
			Addr:    cfg.AdminAddr,
			Handler: adminMux,
		}
		go func() {
			logger.Info("Admin HTTP server starting.", slog.String("address", adminServer.Addr))
			if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Admin HTTP server failed.", slog.Any("error", err))
			}
		}()

		go func() {
			logger.Info("MCP SSE server starting.", slog.String("address", cfg.ListenAddr))
			if err := sseServer.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP SSE server failed.", slog.Any("error", err))
				stop()
			}
		}()

		<-ctx.Done()

		logger.Info("Shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Admin HTTP server graceful shutdown failed.", slog.Any("error", err))
		}
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("MCP SSE server graceful shutdown failed.", slog.Any("error", err))
		}
		logger.Info("Servers shut down gracefully.")

	default:
		logger.Error("Invalid transport mode.", slog.String("transport", transport))
		os.Exit(1)
	}
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP
// trace exporter. It returns a shutdown function to be called on exit. With
// no endpoint configured, tracing stays disabled and the shutdown is a no-op.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry tracing disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serverName),
			semconv.ServiceVersionKey.String(serverVersion),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("OpenTelemetry TracerProvider configured.")

	return func(ctx context.Context) error {
		providerErr := tp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(providerErr, connErr)
	}, nil
}
