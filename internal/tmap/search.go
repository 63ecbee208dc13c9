package tmap

import (
	"context"
	"encoding/json"
	"fmt"
)

// SearchPOI searches points of interest by keyword and returns the upstream
// body unchanged.
func (c *Client) SearchPOI(ctx context.Context, r POISearchRequest) (json.RawMessage, error) {
	spec, err := c.BuildPOISearch(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "search_poi", spec)
}

// firstPOI runs a single-result keyword search and returns the top hit.
func (c *Client) firstPOI(ctx context.Context, keyword string, st SearchType) (*poi, error) {
	spec, err := c.BuildPOISearch(POISearchRequest{Keyword: keyword, SearchType: st, Count: 1})
	if err != nil {
		return nil, err
	}
	var res poiSearchResponse
	if err := c.doJSON(ctx, "search_poi", spec, &res); err != nil {
		return nil, err
	}
	pois := res.SearchPoiInfo.Pois.POI
	if len(pois) == 0 {
		return nil, ErrNoResults
	}
	return &pois[0], nil
}

// CoordinatesByKeyword returns the entrance coordinates (frontLat/frontLon)
// of the best keyword match. When nothing matches, the hit lacks either
// coordinate, or the search fails, it returns nil with ErrNoResults or the
// failure.
func (c *Client) CoordinatesByKeyword(ctx context.Context, keyword string, st SearchType) (*Coordinates, error) {
	hit, err := c.firstPOI(ctx, keyword, st)
	if err != nil {
		return nil, err
	}
	return coordinates(hit.FrontLat, hit.FrontLon)
}

// AddressByKeyword returns the province, city and neighbourhood of the best
// keyword match. Absence is reported as for CoordinatesByKeyword.
func (c *Client) AddressByKeyword(ctx context.Context, keyword string, st SearchType) (*Address, error) {
	hit, err := c.firstPOI(ctx, keyword, st)
	if err != nil {
		return nil, err
	}
	return &Address{
		Sido:    hit.UpperAddrName,
		Sigungu: hit.MiddleAddrName,
		Dong:    hit.LowerAddrName,
	}, nil
}

// POIDetail returns the upstream description of a POI unchanged.
func (c *Client) POIDetail(ctx context.Context, poiID string) (json.RawMessage, error) {
	spec, err := c.BuildPOIDetail(poiID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "poi_detail", spec)
}

// PlaceCongestion returns realtime crowding for a POI. The POI is looked up
// first; an unknown POI short-circuits with the lookup's outcome and the
// congestion endpoint is not called.
func (c *Client) PlaceCongestion(ctx context.Context, r PlaceCongestionRequest) (json.RawMessage, error) {
	spec, err := c.BuildPlaceCongestion(r)
	if err != nil {
		return nil, err
	}
	if _, err := c.POIDetail(ctx, r.POIID); err != nil {
		return nil, fmt.Errorf("look up poi %s: %w", r.POIID, err)
	}
	return c.do(ctx, "place_congestion", spec)
}
