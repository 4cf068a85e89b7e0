// Package maps describes the weather-map overlays and base map the dashboard
// renders.
package maps

import (
	"fmt"
	"net/url"
	"strconv"
)

// Layer is an OpenWeatherMap weather-map layer.
type Layer string

const (
	LayerPrecipitation Layer = "precipitation"
	LayerClouds        Layer = "clouds"
	LayerTemperature   Layer = "temp"
	LayerWind          Layer = "wind"
)

const (
	weatherMapURL = "https://openweathermap.org/weathermap"
	iconURL       = "https://openweathermap.org/img/wn/%s@2x.png"

	// LayerZoom is used for single-layer overlays; CombinedZoom for the
	// overview that shows all of them.
	LayerZoom    = 8
	CombinedZoom = 7
	MinZoom      = 1
	MaxZoom      = 18
)

// Overlay is one embeddable weather-map view.
type Overlay struct {
	Layer Layer  `json:"layer"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Zoom  int    `json:"zoom"`
}

// TileLayer is the base map.
type TileLayer struct {
	URLTemplate string `json:"urlTemplate"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

// View is a map center and zoom.
type View struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// Layers lists the overlays in display order.
var Layers = []Layer{LayerPrecipitation, LayerClouds, LayerTemperature, LayerWind}

var layerTitles = map[Layer]string{
	LayerPrecipitation: "Precipitation",
	LayerClouds:        "Clouds",
	LayerTemperature:   "Temperature",
	LayerWind:          "Wind Speed",
}

// BaseTiles is the OpenStreetMap tile layer.
var BaseTiles = TileLayer{
	URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: "&copy; OpenStreetMap contributors",
	MaxZoom:     19,
}

// DefaultView frames all of Tunisia.
var DefaultView = View{Lat: 34.0, Lon: 9.5, Zoom: 6}

// ParseLayer validates a layer name.
func ParseLayer(s string) (Layer, error) {
	l := Layer(s)
	if _, ok := layerTitles[l]; !ok {
		return "", fmt.Errorf("unknown map layer %q", s)
	}
	return l, nil
}

// LayerURL builds the weather-map URL for a layer around (lat, lon). An empty
// layer yields the combined view.
func LayerURL(layer Layer, lat, lon float64, zoom int) string {
	q := url.Values{}
	q.Set("basemap", "map")
	q.Set("cities", "true")
	if layer != "" {
		q.Set("layer", string(layer))
	}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", strconv.Itoa(zoom))
	return weatherMapURL + "?" + q.Encode()
}

// Overlays returns one overlay per layer plus the combined view last. A zoom
// outside [MinZoom, MaxZoom] falls back to the defaults.
func Overlays(lat, lon float64, zoom int) []Overlay {
	layerZoom, combinedZoom := LayerZoom, CombinedZoom
	if zoom >= MinZoom && zoom <= MaxZoom {
		layerZoom, combinedZoom = zoom, zoom
	}

	out := make([]Overlay, 0, len(Layers)+1)
	for _, l := range Layers {
		out = append(out, Overlay{
			Layer: l,
			Title: layerTitles[l],
			URL:   LayerURL(l, lat, lon, layerZoom),
			Zoom:  layerZoom,
		})
	}
	out = append(out, Overlay{
		Title: "All Layers",
		URL:   LayerURL("", lat, lon, combinedZoom),
		Zoom:  combinedZoom,
	})
	return out
}

// IconURL returns the image URL of an OpenWeatherMap condition icon.
func IconURL(icon string) string {
	if icon == "" {
		icon = "01d"
	}
	return fmt.Sprintf(iconURL, url.PathEscape(icon))
}
