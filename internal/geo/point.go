package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Point is a WGS84 position. X is longitude and Y is latitude, matching the
// startX/startY naming the routing endpoints use.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Valid reports whether the point lies inside the WGS84 coordinate range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// X returns the longitude as a decimal string.
func (p Point) X() string { return FormatDegrees(p.Lon) }

// Y returns the latitude as a decimal string.
func (p Point) Y() string { return FormatDegrees(p.Lat) }

// String renders "lon,lat", the form used in pass lists and CLI flags.
func (p Point) String() string {
	return p.X() + "," + p.Y()
}

// ParsePoint parses "lon,lat".
func ParsePoint(s string) (Point, error) {
	lonStr, latStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("point %q: want lon,lat", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: parse lon: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("point %q: parse lat: %w", s, err)
	}
	p := Point{Lon: lon, Lat: lat}
	if !p.Valid() {
		return Point{}, fmt.Errorf("point %q out of range", s)
	}
	return p, nil
}

// FormatDegrees formats a coordinate with the shortest representation that
// round-trips, so no precision is added or dropped.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Degrees is a coordinate value that decodes from either a JSON number or a
// quoted decimal string. The search and geocoding endpoints return quoted
// strings, the routing endpoints plain numbers. An empty string decodes to 0.
type Degrees float64

// UnmarshalJSON implements json.Unmarshaler.
func (d *Degrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("degrees %q: %w", s, err)
		}
		*d = Degrees(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = Degrees(v)
	return nil
}

// Float64 returns d as a float64.
func (d Degrees) Float64() float64 { return float64(d) }

// NullDegrees is a Degrees that records whether a value was present. null,
// an empty string and a missing field all leave Valid false.
type NullDegrees struct {
	Degrees Degrees
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullDegrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = NullDegrees{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*n = NullDegrees{}
			return nil
		}
	}
	if err := n.Degrees.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullDegrees) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n.Degrees))
}
