package tmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PedestrianRoute plans a walking route and returns the upstream GeoJSON
// unchanged.
func (c *Client) PedestrianRoute(ctx context.Context, r PedestrianRouteRequest) (json.RawMessage, error) {
	spec, err := c.BuildPedestrianRoute(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "pedestrian_route", spec)
}

// PedestrianRouteSummary returns the total distance (m) and time (s) of a
// walking route.
func (c *Client) PedestrianRouteSummary(ctx context.Context, r PedestrianRouteRequest) (*RouteSummary, error) {
	spec, err := c.BuildPedestrianRoute(r)
	if err != nil {
		return nil, err
	}
	return c.routeSummary(ctx, "pedestrian_route", spec, false)
}

// CarRoute plans a driving route and returns the upstream GeoJSON unchanged.
func (c *Client) CarRoute(ctx context.Context, r CarRouteRequest) (json.RawMessage, error) {
	spec, err := c.BuildCarRoute(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "car_route", spec)
}

// CarRouteSummary returns distance, time, toll fare and estimated taxi fare
// of a driving route.
func (c *Client) CarRouteSummary(ctx context.Context, r CarRouteRequest) (*RouteSummary, error) {
	spec, err := c.BuildCarRoute(r)
	if err != nil {
		return nil, err
	}
	return c.routeSummary(ctx, "car_route", spec, true)
}

// TimeMachineRoute plans a driving route for a given departure or arrival
// time and returns the upstream GeoJSON unchanged.
func (c *Client) TimeMachineRoute(ctx context.Context, r TimeMachineRouteRequest) (json.RawMessage, error) {
	spec, err := c.BuildTimeMachineRoute(r)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "time_machine_route", spec)
}

func (c *Client) routeSummary(ctx context.Context, op string, spec RequestSpec, withFares bool) (*RouteSummary, error) {
	var res routeResponse
	if err := c.doJSON(ctx, op, spec, &res); err != nil {
		return nil, err
	}
	return summarizeRoute(&res, withFares)
}

// summarizeRoute reads the totals from the first feature only. An empty
// feature collection is an absent result. Fares the upstream omits stay nil.
func summarizeRoute(res *routeResponse, withFares bool) (*RouteSummary, error) {
	if len(res.Features) == 0 {
		return nil, ErrNoResults
	}
	p := res.Features[0].Properties
	s := &RouteSummary{TotalDistance: p.TotalDistance, TotalTime: p.TotalTime}
	if withFares {
		s.TotalFare = p.TotalFare
		s.TaxiFare = p.TaxiFare
	}
	return s, nil
}

// StaticMap writes the route overview image to w and returns the number of
// bytes written.
func (c *Client) StaticMap(ctx context.Context, r StaticMapRequest, w io.Writer) (int64, error) {
	spec, err := c.BuildStaticMap(r)
	if err != nil {
		return 0, err
	}
	return c.stream(ctx, "static_map", spec, w)
}

// SaveStaticMap writes the route overview image to path. The image is
// downloaded into a new temporary file next to path and renamed over path
// only once complete, so a failed download leaves any existing file as it
// was.
func (c *Client) SaveStaticMap(ctx context.Context, r StaticMapRequest, path string) (int64, error) {
	if path == "" {
		return 0, invalidArg("file path is required")
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temporary file for %s: %w", path, err)
	}
	tmp := f.Name()

	n, err := c.StaticMap(ctx, r, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &TransportError{Op: "static_map", Err: fmt.Errorf("close %s: %w", tmp, cerr)}
	}
	if err == nil {
		if err = os.Rename(tmp, path); err != nil {
			err = fmt.Errorf("move static map into place: %w", err)
		}
	}
	if err != nil {
		if rerr := os.Remove(tmp); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			c.logger.Warn("removing partial static map", "path", tmp, "error", rerr)
		}
		return 0, err
	}
	c.logger.Info("static map saved", "path", path, "bytes", n)
	return n, nil
}
