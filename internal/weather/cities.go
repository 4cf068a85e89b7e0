package weather

import "strings"

// City is an entry of the built-in catalog of Tunisian coastal cities.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Location converts the catalog entry into a request location.
func (c City) Location() Location {
	return Location{Name: c.Name, Lat: c.Lat, Lon: c.Lon}
}

// Cities lists the catalog, north to south.
var Cities = []City{
	{Name: "Bizerte", Lat: 37.2744, Lon: 9.8739},
	{Name: "Tunis", Lat: 36.8065, Lon: 10.1815},
	{Name: "Nabeul", Lat: 36.4561, Lon: 10.7376},
	{Name: "Hammamet", Lat: 36.4, Lon: 10.6167},
	{Name: "Sousse", Lat: 35.8256, Lon: 10.636},
	{Name: "Monastir", Lat: 35.7643, Lon: 10.8113},
	{Name: "Mahdia", Lat: 35.5047, Lon: 11.0622},
	{Name: "Sfax", Lat: 34.7406, Lon: 10.7603},
	{Name: "Medenine", Lat: 33.3549, Lon: 10.5055},
}

// FindCity looks a city up by name, ignoring case and surrounding spaces.
func FindCity(name string) (City, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// CityLocations returns the catalog as request locations.
func CityLocations() []Location {
	locs := make([]Location, 0, len(Cities))
	for _, c := range Cities {
		locs = append(locs, c.Location())
	}
	return locs
}
