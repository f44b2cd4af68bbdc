package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	_ "github.com/joho/godotenv/autoload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"github.com/ytaudio/extractor/internal/api"
	"github.com/ytaudio/extractor/internal/config"
	"github.com/ytaudio/extractor/internal/extractor"
	"github.com/ytaudio/extractor/internal/logger"
	"github.com/ytaudio/extractor/internal/telemetry"
	"github.com/ytaudio/extractor/internal/ytdlp"
	"go.opentelemetry.io/otel"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger)

	// The yt-dlp client and strategy engine are stateless; one of each
	// serves every request.
	tool := ytdlp.NewClient(cfg.Extraction.BinaryPath)
	engine := extractor.NewEngine(tool, extractor.DefaultStrategies(), cfg.Extraction.ExtractTimeout())

	apiServer := api.NewServer(cfg, engine, tool)

	// Router
	r := chi.NewRouter()

	// Middleware
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Mount("/", apiServer.Routes())

	addr := cfg.Host + ":" + cfg.Port
	slog.Info("Starting server", "addr", addr, "yt_dlp", cfg.Extraction.BinaryPath)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
