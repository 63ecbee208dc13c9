package tmap

import (
	"context"
	"encoding/json"
)

// TransitRoute plans a public-transit journey with full leg detail and
// returns the upstream body unchanged.
func (c *Client) TransitRoute(ctx context.Context, r TransitRouteRequest) (json.RawMessage, error) {
	spec, err := c.BuildTransitRoute(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "transit_route", spec)
}

// TransitRouteSummary plans a public-transit journey without legs and
// returns the upstream body unchanged.
func (c *Client) TransitRouteSummary(ctx context.Context, r TransitRouteRequest) (json.RawMessage, error) {
	spec, err := c.BuildTransitRouteSummary(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "transit_route_summary", spec)
}

// TransitTotals returns distance, time and fare of the best itinerary, as
// reported by the summary endpoint.
func (c *Client) TransitTotals(ctx context.Context, r TransitRouteRequest) (*RouteSummary, error) {
	spec, err := c.BuildTransitRouteSummary(r)
	if err != nil {
		return nil, err
	}
	var res transitRouteResponse
	if err := c.doJSON(ctx, "transit_route_summary", spec, &res); err != nil {
		return nil, err
	}
	return summarizeTransit(&res)
}

// summarizeTransit reads only the first itinerary. No itinerary, including
// the upstream's in-band "no route" result, is an absent result. A fare the
// upstream omits stays nil.
func summarizeTransit(res *transitRouteResponse) (*RouteSummary, error) {
	its := res.MetaData.Plan.Itineraries
	if len(its) == 0 {
		return nil, ErrNoResults
	}
	it := its[0]
	s := &RouteSummary{TotalDistance: it.TotalDistance, TotalTime: it.TotalTime}
	if it.Fare != nil && it.Fare.Regular != nil {
		s.TotalFare = it.Fare.Regular.TotalFare
	}
	return s, nil
}

// SubwayTrainCongestion returns train-level congestion (%) for trains
// entering a station, in ten-minute slots.
func (c *Client) SubwayTrainCongestion(ctx context.Context, r SubwayCongestionRequest) (json.RawMessage, error) {
	return c.subway(ctx, "subway_train_congestion", subwayTrain, r)
}

// SubwayCarCongestion returns per-car congestion (%) for trains entering a
// station.
func (c *Client) SubwayCarCongestion(ctx context.Context, r SubwayCongestionRequest) (json.RawMessage, error) {
	return c.subway(ctx, "subway_car_congestion", subwayCar, r)
}

// SubwayGetOffRate returns the per-car share (%) of passengers alighting at a
// station.
func (c *Client) SubwayGetOffRate(ctx context.Context, r SubwayCongestionRequest) (json.RawMessage, error) {
	return c.subway(ctx, "subway_getoff_rate", subwayGetOff, r)
}

func (c *Client) subway(ctx context.Context, op, kind string, r SubwayCongestionRequest) (json.RawMessage, error) {
	spec, err := c.BuildSubwayCongestion(kind, r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, op, spec)
}
