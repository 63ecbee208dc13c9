package tools

import (
	"fmt"
	"strconv"
	"strings"

	"tmapmcp/internal/geo"
	"tmapmcp/internal/tmap"
)

// KeywordArgs are the arguments of the keyword projection tools.
type KeywordArgs struct {
	Keyword    string `json:"keyword" jsonschema:"search keyword, e.g. a place or business name"`
	SearchType string `json:"search_type,omitempty" jsonschema:"match against all, name or telno (default all)"`
}

// POISearchArgs are the arguments of search_poi_keyword.
type POISearchArgs struct {
	Keyword    string `json:"keyword" jsonschema:"search keyword"`
	SearchType string `json:"search_type,omitempty" jsonschema:"match against all, name or telno (default all)"`
	Count      int    `json:"count,omitempty" jsonschema:"maximum number of results, 1 to 200 (default 20)"`
	Page       int    `json:"page,omitempty" jsonschema:"result page, starting at 1"`
}

func (a POISearchArgs) request() (tmap.POISearchRequest, error) {
	st, err := tmap.ParseSearchType(a.SearchType)
	if err != nil {
		return tmap.POISearchRequest{}, err
	}
	return tmap.POISearchRequest{Keyword: a.Keyword, SearchType: st, Count: a.Count, Page: a.Page}, nil
}

// GeocodingArgs are the arguments of geocoding.
type GeocodingArgs struct {
	CityDo    string `json:"city_do" jsonschema:"province or metropolitan city, e.g. 서울특별시"`
	GuGun     string `json:"gu_gun" jsonschema:"county or district, e.g. 중구"`
	Dong      string `json:"dong" jsonschema:"neighbourhood or road name, e.g. 세종대로"`
	Bunji     string `json:"bunji,omitempty" jsonschema:"lot or building number"`
	CoordType string `json:"coord_type,omitempty" jsonschema:"WGS84GEO, EPSG3857 or KATECH (default WGS84GEO)"`
}

func (a GeocodingArgs) request() (tmap.GeocodingRequest, error) {
	ct, err := tmap.ParseCoordType(a.CoordType)
	if err != nil {
		return tmap.GeocodingRequest{}, err
	}
	return tmap.GeocodingRequest{CityDo: a.CityDo, GuGun: a.GuGun, Dong: a.Dong, Bunji: a.Bunji, CoordType: ct}, nil
}

// FullTextGeocodingArgs are the arguments of full_text_geocoding.
type FullTextGeocodingArgs struct {
	Address     string `json:"address" jsonschema:"free-form address"`
	CoordType   string `json:"coord_type,omitempty" jsonschema:"WGS84GEO, EPSG3857 or KATECH (default WGS84GEO)"`
	SearchCount int    `json:"search_count,omitempty" jsonschema:"number of candidates (default 10)"`
}

func (a FullTextGeocodingArgs) request() (tmap.FullTextGeocodingRequest, error) {
	ct, err := tmap.ParseCoordType(a.CoordType)
	if err != nil {
		return tmap.FullTextGeocodingRequest{}, err
	}
	return tmap.FullTextGeocodingRequest{Address: a.Address, CoordType: ct, SearchCount: a.SearchCount}, nil
}

// ReverseGeocodingArgs are the arguments of reverse_geocoding.
type ReverseGeocodingArgs struct {
	Lat         float64 `json:"lat" jsonschema:"latitude"`
	Lon         float64 `json:"lon" jsonschema:"longitude"`
	AddressType string  `json:"address_type,omitempty" jsonschema:"A10 administrative and legal (default), A02 administrative, A03 legal, A04 legal and road"`
}

func (a ReverseGeocodingArgs) request() (tmap.ReverseGeocodingRequest, error) {
	at, err := tmap.ParseAddressType(a.AddressType)
	if err != nil {
		return tmap.ReverseGeocodingRequest{}, err
	}
	return tmap.ReverseGeocodingRequest{Point: geo.Point{Lon: a.Lon, Lat: a.Lat}, AddressType: at}, nil
}

// points converts the start_x/start_y/end_x/end_y arguments shared by the
// route tools.
func points(startX, startY, endX, endY float64) (start, end geo.Point) {
	return geo.Point{Lon: startX, Lat: startY}, geo.Point{Lon: endX, Lat: endY}
}

// PedestrianRouteArgs are the arguments of the pedestrian route tools.
type PedestrianRouteArgs struct {
	StartX       float64 `json:"start_x" jsonschema:"start longitude"`
	StartY       float64 `json:"start_y" jsonschema:"start latitude"`
	EndX         float64 `json:"end_x" jsonschema:"destination longitude"`
	EndY         float64 `json:"end_y" jsonschema:"destination latitude"`
	StartName    string  `json:"startName" jsonschema:"start place name"`
	EndName      string  `json:"endName" jsonschema:"destination place name"`
	SearchOption string  `json:"search_option,omitempty" jsonschema:"0 recommended (default), 4 main roads, 10 shortest, 30 avoid stairs"`
}

func (a PedestrianRouteArgs) request() (tmap.PedestrianRouteRequest, error) {
	opt, err := tmap.ParsePedestrianOption(a.SearchOption)
	if err != nil {
		return tmap.PedestrianRouteRequest{}, err
	}
	start, end := points(a.StartX, a.StartY, a.EndX, a.EndY)
	return tmap.PedestrianRouteRequest{Start: start, End: end, StartName: a.StartName, EndName: a.EndName, Option: opt}, nil
}

// CarRouteArgs are the arguments of the car route tools.
type CarRouteArgs struct {
	StartX       float64 `json:"start_x" jsonschema:"start longitude"`
	StartY       float64 `json:"start_y" jsonschema:"start latitude"`
	EndX         float64 `json:"end_x" jsonschema:"destination longitude"`
	EndY         float64 `json:"end_y" jsonschema:"destination latitude"`
	SearchOption string  `json:"search_option,omitempty" jsonschema:"0 recommended (default), 1 traffic optimal, 2 shortest"`
}

func (a CarRouteArgs) request() (tmap.CarRouteRequest, error) {
	opt, err := tmap.ParseCarOption(a.SearchOption)
	if err != nil {
		return tmap.CarRouteRequest{}, err
	}
	start, end := points(a.StartX, a.StartY, a.EndX, a.EndY)
	return tmap.CarRouteRequest{Start: start, End: end, Option: opt}, nil
}

// TimeMachineRouteArgs are the arguments of time_machine_route.
type TimeMachineRouteArgs struct {
	StartX        float64     `json:"start_x" jsonschema:"start longitude"`
	StartY        float64     `json:"start_y" jsonschema:"start latitude"`
	EndX          float64     `json:"end_x" jsonschema:"destination longitude"`
	EndY          float64     `json:"end_y" jsonschema:"destination latitude"`
	DepartureTime string      `json:"departure_time" jsonschema:"RFC 3339 with an offset, or YYYY-MM-DD hh:mm:ss without one; see use_kst for how a time without offset is sent"`
	SearchOption  string      `json:"search_option,omitempty" jsonschema:"0 recommended (default), 1 traffic optimal, 2 shortest"`
	ArrivalOption string      `json:"arrival_option,omitempty" jsonschema:"0 the time is a departure (default), 1 an arrival"`
	ViaPoints     []geo.Point `json:"via_points,omitempty" jsonschema:"waypoints in visiting order"`
	UseKST        *bool       `json:"use_kst,omitempty" jsonschema:"default true: a departure_time without offset is read as Korean Standard Time and converted to UTC. false: it is sent to the API as written, with no conversion"`
}

func (a TimeMachineRouteArgs) request() (tmap.TimeMachineRouteRequest, error) {
	opt, err := tmap.ParseCarOption(a.SearchOption)
	if err != nil {
		return tmap.TimeMachineRouteRequest{}, err
	}
	arrival, err := tmap.ParseArrivalOption(a.ArrivalOption)
	if err != nil {
		return tmap.TimeMachineRouteRequest{}, err
	}
	useKST := a.UseKST == nil || *a.UseKST
	dep, err := tmap.ParseDepartureTime(a.DepartureTime, useKST)
	if err != nil {
		return tmap.TimeMachineRouteRequest{}, err
	}
	start, end := points(a.StartX, a.StartY, a.EndX, a.EndY)
	return tmap.TimeMachineRouteRequest{
		Start:     start,
		End:       end,
		Option:    opt,
		Departure: dep,
		Arrival:   arrival,
		Via:       a.ViaPoints,
	}, nil
}

// POIDetailArgs are the arguments of get_poi_detail.
type POIDetailArgs struct {
	POIID string `json:"poi_id" jsonschema:"POI id from a keyword search"`
}

// PlaceCongestionArgs are the arguments of realtime_place_congestion.
type PlaceCongestionArgs struct {
	POIID string   `json:"poi_id" jsonschema:"POI id from a keyword search"`
	Lat   *float64 `json:"lat,omitempty" jsonschema:"center latitude for surrounding congestion, together with lng"`
	Lng   *float64 `json:"lng,omitempty" jsonschema:"center longitude for surrounding congestion, together with lat"`
}

func (a PlaceCongestionArgs) request() (tmap.PlaceCongestionRequest, error) {
	req := tmap.PlaceCongestionRequest{POIID: a.POIID}
	switch {
	case a.Lat != nil && a.Lng != nil:
		req.Center = &geo.Point{Lon: *a.Lng, Lat: *a.Lat}
	case a.Lat != nil || a.Lng != nil:
		return req, invalidArg("lat and lng must be given together")
	}
	return req, nil
}

// TransitRouteArgs are the arguments of the public transit tools.
type TransitRouteArgs struct {
	StartX     float64 `json:"start_x" jsonschema:"start longitude"`
	StartY     float64 `json:"start_y" jsonschema:"start latitude"`
	EndX       float64 `json:"end_x" jsonschema:"destination longitude"`
	EndY       float64 `json:"end_y" jsonschema:"destination latitude"`
	Lang       int     `json:"lang,omitempty" jsonschema:"0 Korean (default), 1 English"`
	Count      int     `json:"count,omitempty" jsonschema:"maximum number of itineraries, 1 to 10 (default 10)"`
	SearchDttm string  `json:"search_dttm,omitempty" jsonschema:"departure time as yyyymmddhhmi or YYYY-MM-DD hh:mm in KST"`
}

func (a TransitRouteArgs) request() (tmap.TransitRouteRequest, error) {
	if a.Lang != int(tmap.Korean) && a.Lang != int(tmap.English) {
		return tmap.TransitRouteRequest{}, invalidArg("lang %d", a.Lang)
	}
	var when string
	if a.SearchDttm != "" {
		var err error
		if when, err = tmap.ParseTransitSearchTime(a.SearchDttm); err != nil {
			return tmap.TransitRouteRequest{}, err
		}
	}
	start, end := points(a.StartX, a.StartY, a.EndX, a.EndY)
	return tmap.TransitRouteRequest{
		Start:      start,
		End:        end,
		Language:   tmap.Language(a.Lang),
		Count:      a.Count,
		SearchTime: when,
	}, nil
}

// SubwayArgs are the arguments of the subway congestion tools.
type SubwayArgs struct {
	RouteNm   string `json:"route_nm" jsonschema:"subway line, e.g. 1호선"`
	StationNm string `json:"station_nm" jsonschema:"station name, e.g. 서울역"`
	Dow       string `json:"dow,omitempty" jsonschema:"weekday MON to SUN (default today)"`
	Hh        string `json:"hh,omitempty" jsonschema:"hour 05 to 23 (default now)"`
}

func (a SubwayArgs) request() (tmap.SubwayCongestionRequest, error) {
	day, err := tmap.ParseWeekday(strings.ToUpper(a.Dow))
	if err != nil {
		return tmap.SubwayCongestionRequest{}, err
	}
	req := tmap.SubwayCongestionRequest{Line: a.RouteNm, Station: a.StationNm, Day: day}
	if a.Hh != "" {
		h, err := strconv.Atoi(a.Hh)
		if err != nil {
			return req, invalidArg("hh %q", a.Hh)
		}
		req.Hour = &h
	}
	return req, nil
}

// StaticMapArgs are the arguments of static_map.
type StaticMapArgs struct {
	StartX float64 `json:"start_x" jsonschema:"start longitude"`
	StartY float64 `json:"start_y" jsonschema:"start latitude"`
	EndX   float64 `json:"end_x" jsonschema:"destination longitude"`
	EndY   float64 `json:"end_y" jsonschema:"destination latitude"`
}

func (a StaticMapArgs) request() tmap.StaticMapRequest {
	start, end := points(a.StartX, a.StartY, a.EndX, a.EndY)
	return tmap.StaticMapRequest{Start: start, End: end}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", tmap.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
