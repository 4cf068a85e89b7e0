package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dhiaMK/tunisia-weather/internal/maps"
	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

var validate = validator.New()

const internalErrorMessage = "Internal server error"

// CityResolver turns a city name into coordinates.
type CityResolver interface {
	Resolve(ctx context.Context, name string) (weather.Location, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, resolver CityResolver) {
	h := &handlers{resolver: resolver}

	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(weather.Cities)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		loc, err := h.location(c)
		if err != nil {
			return err
		}

		cur, err := service.Current(c.UserContext(), loc)
		if err != nil {
			return upstreamError(err, "weather")
		}
		return c.JSON(currentResponse{Conditions: cur, IconURL: maps.IconURL(cur.Icon)})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		days, err := parseDays(c.Query("days"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		loc, err := h.location(c)
		if err != nil {
			return err
		}

		f, err := service.Forecast(c.UserContext(), loc, days)
		if err != nil {
			return upstreamError(err, "forecast")
		}
		return c.JSON(f)
	})

	v1.Get("/weather/alerts", func(c *fiber.Ctx) error {
		loc, err := h.location(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"alerts":   service.Alerts(c.UserContext(), loc),
		})
	})

	v1.Get("/marine", func(c *fiber.Ctx) error {
		loc, err := h.location(c)
		if err != nil {
			return err
		}

		report, err := service.Marine(c.UserContext(), loc)
		if err != nil {
			return upstreamError(err, "weather")
		}
		return c.JSON(report)
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		loc, err := h.location(c)
		if err != nil {
			return err
		}

		d, err := service.Dashboard(c.UserContext(), loc)
		if err != nil {
			return upstreamError(err, "weather")
		}
		return c.JSON(d)
	})

	v1.Get("/maps/overlays", func(c *fiber.Ctx) error {
		zoom := c.QueryInt("zoom", 0)

		var layer maps.Layer
		if name := c.Query("layer"); name != "" {
			l, err := maps.ParseLayer(name)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			layer = l
		}

		view := maps.DefaultView
		if c.Query("lat") != "" || c.Query("lon") != "" || c.Query("city") != "" {
			loc, err := h.location(c)
			if err != nil {
				return err
			}
			view = maps.View{Lat: loc.Lat, Lon: loc.Lon, Zoom: maps.LayerZoom}
		}

		overlays := maps.Overlays(view.Lat, view.Lon, zoom)
		if layer != "" {
			overlays = filterOverlays(overlays, layer)
		}

		return c.JSON(fiber.Map{
			"view":     view,
			"base":     maps.BaseTiles,
			"overlays": overlays,
		})
	})
}

type handlers struct {
	resolver CityResolver
}

type currentResponse struct {
	weather.Conditions
	IconURL string `json:"iconUrl"`
}

// coordinateQuery holds the raw coordinate query parameters.
type coordinateQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

// location reads lat/lon, or failing that a city name, from the query.
func (h *handlers) location(c *fiber.Ctx) (weather.Location, error) {
	q := coordinateQuery{Lat: c.Query("lat"), Lon: c.Query("lon")}
	city := c.Query("city")

	if q.Lat == "" && q.Lon == "" {
		if city == "" {
			return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "Latitude and longitude are required")
		}
		if h.resolver == nil {
			return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "city lookup is not available")
		}
		loc, err := h.resolver.Resolve(c.UserContext(), city)
		if err != nil {
			return weather.Location{}, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return loc, nil
	}

	if err := validate.Struct(q); err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	lat, _ := strconv.ParseFloat(q.Lat, 64)
	lon, _ := strconv.ParseFloat(q.Lon, 64)

	loc := weather.Location{Lat: lat, Lon: lon}
	if known, ok := weather.FindCity(city); ok {
		loc.Name = known.Name
	}
	return loc, nil
}

func filterOverlays(overlays []maps.Overlay, layer maps.Layer) []maps.Overlay {
	out := overlays[:0]
	for _, o := range overlays {
		if o.Layer == layer {
			out = append(out, o)
		}
	}
	return out
}

func parseDays(s string) (int, error) {
	if s == "" {
		return weather.MaxForecastDays, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days < 1 || days > weather.MaxForecastDays {
		return 0, fmt.Errorf("days must be between 1 and %d", weather.MaxForecastDays)
	}
	return days, nil
}

// upstreamError converts a service error into the response the dashboard
// expects. what names the data that failed, e.g. "weather" or "forecast".
func upstreamError(err error, what string) error {
	var upstream *weather.UpstreamError
	switch {
	case errors.Is(err, weather.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key. Please check your OpenWeather API key.")
	case errors.Is(err, weather.ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "API rate limit exceeded. Please try again later.")
	case errors.As(err, &upstream):
		return fiber.NewError(upstream.StatusCode, fmt.Sprintf("Weather API error: %d %s", upstream.StatusCode, upstream.Status))
	case errors.Is(err, weather.ErrNoProviders):
		return fiber.NewError(fiber.StatusServiceUnavailable, "No weather providers are configured.")
	default:
		return fiber.NewError(fiber.StatusInternalServerError,
			fmt.Sprintf("Failed to fetch %s data. Please check your internet connection.", what))
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
// Only *fiber.Error messages reach the client; anything else is logged and
// answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := internalErrorMessage

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
