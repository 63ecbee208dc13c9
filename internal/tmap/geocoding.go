package tmap

import (
	"context"
	"encoding/json"

	"tmapmcp/internal/geo"
)

// Geocoding converts a structured address to coordinates and returns the
// upstream body unchanged.
func (c *Client) Geocoding(ctx context.Context, r GeocodingRequest) (json.RawMessage, error) {
	spec, err := c.BuildGeocoding(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "geocoding", spec)
}

// GeocodeCoordinates geocodes a structured address and projects the match
// position: coordinateInfo.lat/lon for lot-number matches, newLat/newLon for
// road-name matches. A response with neither complete pair yields
// ErrNoResults.
func (c *Client) GeocodeCoordinates(ctx context.Context, r GeocodingRequest) (*Coordinates, error) {
	spec, err := c.BuildGeocoding(r)
	if err != nil {
		return nil, err
	}
	var res geocodingResponse
	if err := c.doJSON(ctx, "geocoding", spec, &res); err != nil {
		return nil, err
	}
	info := res.CoordinateInfo
	if info.Lat.Valid && info.Lon.Valid {
		return coordinates(info.Lat, info.Lon)
	}
	return coordinates(info.NewLat, info.NewLon)
}

// coordinates builds a Coordinates only when both values are present.
func coordinates(lat, lon geo.NullDegrees) (*Coordinates, error) {
	if !lat.Valid || !lon.Valid {
		return nil, ErrNoResults
	}
	return &Coordinates{Lat: lat.Degrees.Float64(), Lon: lon.Degrees.Float64()}, nil
}

// FullTextGeocoding converts a free-form address to candidate coordinates
// and returns the upstream body unchanged.
func (c *Client) FullTextGeocoding(ctx context.Context, r FullTextGeocodingRequest) (json.RawMessage, error) {
	spec, err := c.BuildFullTextGeocoding(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "full_text_geocoding", spec)
}

// ReverseGeocoding returns the upstream address record at a point unchanged.
func (c *Client) ReverseGeocoding(ctx context.Context, r ReverseGeocodingRequest) (json.RawMessage, error) {
	spec, err := c.BuildReverseGeocoding(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "reverse_geocoding", spec)
}
