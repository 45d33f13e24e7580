package match

import (
	"fmt"
	"math"
)

// Coordinates is a resolved lat/lon pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// defaultZIPCoords is the built-in ZIP lookup table. Real geocoding is an
// external concern; profiles with resolved latitude/longitude bypass the
// table entirely.
var defaultZIPCoords = map[string]Coordinates{
	"75201": {32.7767, -96.7970},  // Dallas
	"75202": {32.7767, -96.7970},  // Dallas
	"78701": {30.2672, -97.7431},  // Austin
	"78702": {30.2672, -97.7431},  // Austin
	"10001": {40.7505, -73.9934},  // New York
	"90210": {34.0901, -118.4065}, // Beverly Hills
	"60601": {41.8781, -87.6298},  // Chicago
	"02101": {42.3601, -71.0589},  // Boston
}

// resolveCoordinates maps a profile to coordinates: explicit lat/lon wins,
// otherwise the ZIP table. A ZIP the table does not know yields
// ErrLocationUnresolved rather than a made-up default.
func resolveCoordinates(p Profile, zips map[string]Coordinates) (Coordinates, error) {
	if p.Latitude != nil && p.Longitude != nil {
		return Coordinates{Lat: *p.Latitude, Lon: *p.Longitude}, nil
	}
	if c, ok := zips[p.ZipCode]; ok {
		return c, nil
	}
	return Coordinates{}, fmt.Errorf("%w: zip %q", ErrLocationUnresolved, p.ZipCode)
}

// haversineMiles computes the great-circle distance between two coordinates.
func haversineMiles(a, b Coordinates) float64 {
	const earthRadiusMiles = 3959

	dLat := (b.Lat - a.Lat) * (math.Pi / 180)
	dLon := (b.Lon - a.Lon) * (math.Pi / 180)
	lat1 := a.Lat * (math.Pi / 180)
	lat2 := b.Lat * (math.Pi / 180)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// GeoScore decays linearly from 1.0 at distance zero to 0.0 at the cutoff
// radius. Anything at or beyond the radius scores exactly 0, never negative.
func GeoScore(distanceMiles, maxRadiusMiles float64) float64 {
	if maxRadiusMiles <= 0 || distanceMiles >= maxRadiusMiles {
		return 0
	}
	return 1 - distanceMiles/maxRadiusMiles
}
