package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/chefvision/server/internal/api"
	"github.com/chefvision/server/internal/config"
	"github.com/chefvision/server/internal/httpclient"
	"github.com/chefvision/server/internal/logger"
	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/middleware"
	"github.com/chefvision/server/internal/sentry"
	"github.com/chefvision/server/internal/services/gemini"
	"github.com/chefvision/server/internal/services/image"
	"github.com/chefvision/server/internal/services/nutrition"
	"github.com/chefvision/server/internal/services/orchestrator"
	"github.com/chefvision/server/internal/services/recipe"
	"github.com/chefvision/server/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger with OTel support
	slog.SetDefault(logger.New(cfg.Env))

	// Initialize telemetry
	shutdownTelemetry, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
	} else {
		defer shutdownTelemetry(context.Background())
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	genaiClient, err := gemini.NewClient(ctx, cfg.GeminiKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	details, err := recipe.NewDetailsProvider(cfg.Text, genaiClient.Models)
	if err != nil {
		log.Fatalf("Failed to create details provider: %v", err)
	}
	nutritionProvider, err := nutrition.NewProvider(cfg.Text, genaiClient.Models)
	if err != nil {
		log.Fatalf("Failed to create nutrition provider: %v", err)
	}

	upstreamClient := httpclient.New(0)
	proxy, err := image.NewProxyFromConfig(cfg, genaiClient.Models, upstreamClient)
	if err != nil {
		log.Fatalf("Failed to create image proxy: %v", err)
	}
	images, err := image.NewGenerator(cfg, proxy, upstreamClient)
	if err != nil {
		log.Fatalf("Failed to create image generator: %v", err)
	}

	orch := orchestrator.New(details, images, nutritionProvider, cfg.Orchestrator)
	apiServer := api.NewServer(proxy, orch)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(sentry.HTTPMiddleware)

	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/api/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(middleware.RequestLogger(slog.Default()))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	apiServer.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Orchestrator),
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"env", cfg.Env,
			"image_mode", cfg.Image.Mode,
			"image_models", cfg.Image.Models,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// writeTimeout covers the slowest recipe: the longer of details and image,
// then nutrition.
func writeTimeout(t config.OrchestratorConfig) time.Duration {
	return max(t.DetailsTimeout, t.ImageTimeout) + t.NutritionTimeout + 10*time.Second
}
