package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/dhiaMK/tunisia-weather/internal/api/http"
	"github.com/dhiaMK/tunisia-weather/internal/config"
	"github.com/dhiaMK/tunisia-weather/internal/geocode"
	"github.com/dhiaMK/tunisia-weather/internal/scheduler"
	"github.com/dhiaMK/tunisia-weather/internal/store"
	"github.com/dhiaMK/tunisia-weather/internal/weather"
	"github.com/dhiaMK/tunisia-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.CacheMaxHistory, cfg.CacheMaxAge)

	// OpenWeatherMap goes first: it is the only alert source and the
	// preferred forecast.
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	if cfg.EnableOpenMeteo {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient))
	}
	if len(provs) == 0 {
		log.Printf("ERROR: no weather providers enabled; every weather request will fail")
	}

	opts := []weather.Option{weather.WithCacheTTL(cfg.CacheMaxAge)}
	if cfg.MockAlerts {
		opts = append(opts, weather.WithMockAlerts(nil))
	}
	service := weather.NewService(memStore, provs, opts...)

	var lookup geocode.LookupFunc
	if cfg.GeocoderAPIKey != "" {
		lookup = geocode.GoogleLookup(cfg.GeocoderAPIKey)
	}
	resolver := geocode.NewResolver(lookup)

	if cfg.RefreshInterval > 0 {
		sched := scheduler.New(cfg.Locations, cfg.RefreshInterval, service)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "tunisia-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "tunisia-weather",
			"providers": len(provs),
		})
	})

	httpapi.RegisterRoutes(app, service, resolver)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
