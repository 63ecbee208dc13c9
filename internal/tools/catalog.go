package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tmapmcp/internal/mcpserver"
	"tmapmcp/internal/tmap"
)

// Instructions describes the tool catalogue to MCP clients.
const Instructions = "Tmap API tools for Korean place search, geocoding, route planning, public transit and congestion. " +
	"Coordinates are WGS84 longitude (x) and latitude (y). Every tool answers {found, result}; found=false means the API had no match."

// Register adds every Tmap tool to rt, and the call history resource when a
// journal is configured.
func (h *Handler) Register(rt *mcpserver.Runtime) {
	c := h.client

	addTool(rt, h, "search_poi_keyword", "Search points of interest by keyword.",
		func(ctx context.Context, a POISearchArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.SearchPOI(ctx, req))
		})
	addTool(rt, h, "search_address_keyword", "Province, city and neighbourhood of the best keyword match.",
		func(ctx context.Context, a KeywordArgs) (*tmap.Address, error) {
			st, err := tmap.ParseSearchType(a.SearchType)
			if err != nil {
				return nil, err
			}
			return c.AddressByKeyword(ctx, a.Keyword, st)
		})
	addTool(rt, h, "search_coord_keyword", "Entrance coordinates of the best keyword match.",
		func(ctx context.Context, a KeywordArgs) (*tmap.Coordinates, error) {
			st, err := tmap.ParseSearchType(a.SearchType)
			if err != nil {
				return nil, err
			}
			return c.CoordinatesByKeyword(ctx, a.Keyword, st)
		})
	addTool(rt, h, "geocoding", "Convert a structured address to coordinates.",
		func(ctx context.Context, a GeocodingArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.Geocoding(ctx, req))
		})
	addTool(rt, h, "full_text_geocoding", "Convert a free-form address to candidate coordinates.",
		func(ctx context.Context, a FullTextGeocodingArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.FullTextGeocoding(ctx, req))
		})
	addTool(rt, h, "reverse_geocoding", "Convert coordinates to an address.",
		func(ctx context.Context, a ReverseGeocodingArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.ReverseGeocoding(ctx, req))
		})
	addTool(rt, h, "pedestrian_route_detail", "Walking route with turn-by-turn features.",
		func(ctx context.Context, a PedestrianRouteArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.PedestrianRoute(ctx, req))
		})
	addTool(rt, h, "pedestrian_route_summary", "Total distance (m) and time (s) of a walking route.",
		func(ctx context.Context, a PedestrianRouteArgs) (*tmap.RouteSummary, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return c.PedestrianRouteSummary(ctx, req)
		})
	addTool(rt, h, "car_route", "Driving route departing now.",
		func(ctx context.Context, a CarRouteArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.CarRoute(ctx, req))
		})
	addTool(rt, h, "car_route_summary", "Distance, time, toll fare and taxi fare of a driving route.",
		func(ctx context.Context, a CarRouteArgs) (*tmap.RouteSummary, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return c.CarRouteSummary(ctx, req)
		})
	addTool(rt, h, "time_machine_route", "Driving route predicted for a past or future departure or arrival time.",
		func(ctx context.Context, a TimeMachineRouteArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.TimeMachineRoute(ctx, req))
		})
	addTool(rt, h, "get_poi_detail", "Details of a POI.",
		func(ctx context.Context, a POIDetailArgs) (*Document, error) {
			return document(c.POIDetail(ctx, a.POIID))
		})
	addTool(rt, h, "realtime_place_congestion", "Realtime crowding at a POI or around a center point.",
		func(ctx context.Context, a PlaceCongestionArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.PlaceCongestion(ctx, req))
		})
	addTool(rt, h, "public_transit_route", "Public transit itineraries with legs and walking steps.",
		func(ctx context.Context, a TransitRouteArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.TransitRoute(ctx, req))
		})
	addTool(rt, h, "public_transit_route_summary", "Public transit itineraries without legs.",
		func(ctx context.Context, a TransitRouteArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.TransitRouteSummary(ctx, req))
		})
	addTool(rt, h, "subway_congestion", "Train congestion (%) entering a station, in ten-minute slots.",
		func(ctx context.Context, a SubwayArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.SubwayTrainCongestion(ctx, req))
		})
	addTool(rt, h, "subway_car_congestion", "Per-car congestion (%) of trains entering a station.",
		func(ctx context.Context, a SubwayArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.SubwayCarCongestion(ctx, req))
		})
	addTool(rt, h, "subway_car_getoff_rate", "Per-car share (%) of passengers alighting at a station.",
		func(ctx context.Context, a SubwayArgs) (*Document, error) {
			req, err := a.request()
			if err != nil {
				return nil, err
			}
			return document(c.SubwayGetOffRate(ctx, req))
		})

	mcpserver.AddTool(rt, &mcp.Tool{
		Name:        "static_map",
		Description: "Route overview image between two points.",
	}, h.staticMap)

	if h.journal != nil {
		h.registerHistory(rt)
	}
}

// StaticMapResult describes a rendered route image. The image itself is sent
// as image content.
type StaticMapResult struct {
	Bytes    int64  `json:"bytes"`
	MIMEType string `json:"mime_type"`
}

func (h *Handler) staticMap(ctx context.Context, req *mcp.CallToolRequest, a StaticMapArgs) (*mcp.CallToolResult, Output[StaticMapResult], error) {
	var img []byte
	render := func(ctx context.Context, a StaticMapArgs) (*StaticMapResult, error) {
		var buf bytes.Buffer
		n, err := h.client.StaticMap(ctx, a.request(), &buf)
		if err != nil {
			return nil, err
		}
		img = buf.Bytes()
		return &StaticMapResult{Bytes: n, MIMEType: http.DetectContentType(img)}, nil
	}

	result, out, err := op(h, "static_map", render)(ctx, req, a)
	if err != nil || !out.Found {
		return result, out, err
	}
	text, err := json.Marshal(out)
	if err != nil {
		return nil, out, err
	}
	return &mcp.CallToolResult{Content: []mcp.Content{
		&mcp.ImageContent{Data: img, MIMEType: out.Result.MIMEType},
		&mcp.TextContent{Text: string(text)},
	}}, out, nil
}
