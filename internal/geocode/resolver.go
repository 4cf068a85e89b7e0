// Package geocode resolves city names to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/dhiaMK/tunisia-weather/internal/weather"
)

// DefaultCountry is appended to remote lookups.
const DefaultCountry = "Tunisia"

var (
	ErrEmptyQuery = errors.New("city name cannot be empty")
	ErrNotFound   = errors.New("city not found")
)

// LookupFunc geocodes a city within a country.
type LookupFunc func(ctx context.Context, city, country string) (weather.Location, error)

// Resolver looks cities up in the built-in catalog first and falls back to a
// remote lookup when one is configured.
type Resolver struct {
	lookup  LookupFunc
	country string

	mu    sync.RWMutex
	cache map[string]weather.Location
}

// NewResolver creates a Resolver. A nil lookup restricts it to the catalog.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{
		lookup:  lookup,
		country: DefaultCountry,
		cache:   make(map[string]weather.Location),
	}
}

// Resolve returns the location of the named city.
func (r *Resolver) Resolve(ctx context.Context, name string) (weather.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return weather.Location{}, ErrEmptyQuery
	}
	if c, ok := weather.FindCity(name); ok {
		return c.Location(), nil
	}
	if r.lookup == nil {
		return weather.Location{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	key := strings.ToLower(name)
	r.mu.RLock()
	loc, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := r.lookup(ctx, name, r.country)
	if err != nil {
		log.Printf("geocoding %q failed: %v", name, err)
		return weather.Location{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if loc.Name == "" {
		loc.Name = name
	}

	r.mu.Lock()
	r.cache[key] = loc
	r.mu.Unlock()
	return loc, nil
}

var apiKeyMu sync.Mutex

// GoogleLookup returns a LookupFunc backed by the Google geocoding API.
func GoogleLookup(apiKey string) LookupFunc {
	return func(ctx context.Context, city, country string) (weather.Location, error) {
		if err := ctx.Err(); err != nil {
			return weather.Location{}, err
		}

		// The client keeps its key in a package variable.
		apiKeyMu.Lock()
		defer apiKeyMu.Unlock()
		geocoder.ApiKey = apiKey

		res, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
		if err != nil {
			return weather.Location{}, err
		}
		return weather.Location{Name: city, Lat: res.Latitude, Lon: res.Longitude}, nil
	}
}
