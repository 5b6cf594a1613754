package estimator

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// CapitalName is the canonical name of Bangkok, the one place always present in a PlaceTable.
const CapitalName = "กรุงเทพ"

// CapitalCoordinate is Bangkok's city centre.
var CapitalCoordinate = Coordinate{Lat: 13.7563, Lng: 100.5018}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a named location with a known coordinate and optional alternative spellings.
type Place struct {
	Name       string
	Coordinate Coordinate
	Aliases    []string
}

// PlaceTable resolves place names to canonical names and coordinates.
// It is immutable after construction and safe for concurrent use.
type PlaceTable struct {
	coords  map[string]Coordinate
	aliases map[string]string
}

// NewPlaceTable indexes places by normalized name. Later entries win on duplicates.
// The capital is added when places does not contain it.
func NewPlaceTable(places []Place) *PlaceTable {
	t := &PlaceTable{
		coords:  make(map[string]Coordinate, len(places)+1),
		aliases: make(map[string]string),
	}
	for _, p := range places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		t.coords[NormalizeName(name)] = p.Coordinate
		for _, alias := range p.Aliases {
			if key := NormalizeName(alias); key != "" {
				t.aliases[key] = name
			}
		}
	}
	if _, ok := t.coords[NormalizeName(CapitalName)]; !ok {
		t.coords[NormalizeName(CapitalName)] = CapitalCoordinate
	}
	return t
}

// NormalizeName trims and case-folds a place name for comparison.
func NormalizeName(name string) string {
	// A Caser is stateful, so a fresh one is used per call.
	return cases.Fold().String(strings.TrimSpace(name))
}

// Canonical trims name and substitutes a known alias. Unknown names are returned trimmed.
func (t *PlaceTable) Canonical(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := t.aliases[NormalizeName(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Lookup returns the known coordinate for name.
func (t *PlaceTable) Lookup(name string) (Coordinate, bool) {
	c, ok := t.coords[NormalizeName(t.Canonical(name))]
	return c, ok
}

// CoordinateOf returns the known coordinate for name, or its pseudo-coordinate.
func (t *PlaceTable) CoordinateOf(name string) Coordinate {
	if c, ok := t.Lookup(name); ok {
		return c
	}
	return PseudoCoordinate(name)
}

// Len returns the number of places with known coordinates.
func (t *PlaceTable) Len() int {
	return len(t.coords)
}

// PseudoCoordinate derives a stable point inside Thailand's bounding box from the
// character codes of the normalized name. The same name always maps to the same point.
func PseudoCoordinate(name string) Coordinate {
	var h uint32
	for _, r := range NormalizeName(name) {
		h = h*31 + uint32(r)
	}
	return Coordinate{
		Lat: 6.0 + float64(h%1400)/100,
		Lng: 97.5 + float64((h/1400)%800)/100,
	}
}

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b Coordinate) float64 {
	const earthRadiusKm = 6371.0

	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	lat1Rad := degreesToRadians(a.Lat)
	lat2Rad := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
