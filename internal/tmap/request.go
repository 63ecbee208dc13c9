package tmap

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tmapmcp/internal/geo"
)

// apiVersion is the literal version parameter the tmap endpoints expect.
const apiVersion = "1"

// Root selects which endpoint family a request is sent to.
type Root int

const (
	RootTmap    Root = iota // {base}/tmap
	RootTransit             // {base}/transit
)

// RequestSpec is a fully shaped upstream request. Query holds decoded values;
// they are percent-encoded exactly once, by EncodedQuery, and the transport
// sends that string as-is. Body is nil for GET requests.
type RequestSpec struct {
	Method string
	Root   Root
	Path   string
	Query  url.Values
	Body   map[string]any
}

// EncodedQuery returns the UTF-8 percent-encoded query string.
func (s RequestSpec) EncodedQuery() string {
	if len(s.Query) == 0 {
		return ""
	}
	return s.Query.Encode()
}

// POISearchRequest searches POIs by keyword.
type POISearchRequest struct {
	Keyword    string
	SearchType SearchType
	Count      int // 1..200, defaults to 20
	Page       int // optional, 1-based
}

// GeocodingRequest geocodes a structured Korean address.
type GeocodingRequest struct {
	CityDo    string // province or metropolitan city
	GuGun     string // county or district
	Dong      string // neighbourhood or road name
	Bunji     string // optional lot / building number
	CoordType CoordType
}

// FullTextGeocodingRequest geocodes a free-form address.
type FullTextGeocodingRequest struct {
	Address     string
	CoordType   CoordType
	SearchCount int // defaults to 10
}

// ReverseGeocodingRequest resolves the address at a point.
type ReverseGeocodingRequest struct {
	Point       geo.Point
	AddressType AddressType
}

// PedestrianRouteRequest plans a walking route.
type PedestrianRouteRequest struct {
	Start     geo.Point
	End       geo.Point
	StartName string
	EndName   string
	Option    PedestrianOption
}

// CarRouteRequest plans a driving route departing now.
type CarRouteRequest struct {
	Start  geo.Point
	End    geo.Point
	Option CarOption
}

// TimeMachineRouteRequest plans a driving route for a past or future
// departure or arrival time.
type TimeMachineRouteRequest struct {
	Start     geo.Point
	End       geo.Point
	Option    CarOption
	Departure DepartureTime
	Arrival   ArrivalOption
	Via       []geo.Point // optional waypoints
}

// StaticMapRequest renders a route overview image.
type StaticMapRequest struct {
	Start geo.Point
	End   geo.Point
}

// PlaceCongestionRequest looks up realtime crowding for a POI. When Center is
// set the upstream reports crowding around that point instead.
type PlaceCongestionRequest struct {
	POIID  string
	Center *geo.Point
}

// TransitRouteRequest plans a public-transit journey.
type TransitRouteRequest struct {
	Start      geo.Point
	End        geo.Point
	Language   Language
	Count      int    // 1..10, defaults to 10
	SearchTime string // optional yyyymmddhhmi, see TransitSearchTime
}

// SubwayCongestionRequest selects a station's congestion statistics.
type SubwayCongestionRequest struct {
	Line    string // e.g. "1호선"
	Station string // e.g. "서울역"
	Day     Weekday
	Hour    *int // 5..23; unset means the current hour
}

// Default place names the car endpoints require but do not display.
const (
	defaultStartName = "출발지"
	defaultEndName   = "도착지"
)

func (c *Client) baseQuery() url.Values {
	return url.Values{
		"version": {apiVersion},
		"appKey":  {c.appKey},
	}
}

// BuildPOISearch shapes a POI keyword search.
func (c *Client) BuildPOISearch(r POISearchRequest) (RequestSpec, error) {
	keyword := strings.TrimSpace(r.Keyword)
	if keyword == "" {
		return RequestSpec{}, invalidArg("keyword is required")
	}
	count := r.Count
	if count <= 0 {
		count = 20
	}
	if count > 200 {
		return RequestSpec{}, invalidArg("count %d exceeds 200", count)
	}
	q := c.baseQuery()
	q.Set("searchKeyword", keyword)
	q.Set("searchType", r.SearchType.code())
	q.Set("count", strconv.Itoa(count))
	if r.Page > 0 {
		q.Set("page", strconv.Itoa(r.Page))
	}
	return RequestSpec{Method: http.MethodGet, Root: RootTmap, Path: "/pois", Query: q}, nil
}

// BuildPOIDetail shapes a POI detail lookup.
func (c *Client) BuildPOIDetail(poiID string) (RequestSpec, error) {
	poiID = strings.TrimSpace(poiID)
	if poiID == "" {
		return RequestSpec{}, invalidArg("poi id is required")
	}
	return RequestSpec{
		Method: http.MethodGet,
		Root:   RootTmap,
		Path:   "/pois/" + url.PathEscape(poiID),
		Query:  c.baseQuery(),
	}, nil
}

// BuildGeocoding shapes a structured-address geocoding request.
func (c *Client) BuildGeocoding(r GeocodingRequest) (RequestSpec, error) {
	if r.CityDo == "" || r.GuGun == "" || r.Dong == "" {
		return RequestSpec{}, invalidArg("city_do, gu_gun and dong are required")
	}
	q := c.baseQuery()
	q.Set("city_do", r.CityDo)
	q.Set("gu_gun", r.GuGun)
	q.Set("dong", r.Dong)
	q.Set("coordType", r.CoordType.code())
	if r.Bunji != "" {
		q.Set("bunji", r.Bunji)
	}
	return RequestSpec{Method: http.MethodGet, Root: RootTmap, Path: "/geo/geocoding", Query: q}, nil
}

// BuildFullTextGeocoding shapes a free-text geocoding request.
func (c *Client) BuildFullTextGeocoding(r FullTextGeocodingRequest) (RequestSpec, error) {
	addr := strings.TrimSpace(r.Address)
	if addr == "" {
		return RequestSpec{}, invalidArg("address is required")
	}
	n := r.SearchCount
	if n <= 0 {
		n = 10
	}
	q := c.baseQuery()
	q.Set("coordType", r.CoordType.code())
	q.Set("fullAddr", addr)
	q.Set("searchCount", strconv.Itoa(n))
	return RequestSpec{Method: http.MethodGet, Root: RootTmap, Path: "/geo/fullAddrGeo", Query: q}, nil
}

// BuildReverseGeocoding shapes a reverse geocoding request.
func (c *Client) BuildReverseGeocoding(r ReverseGeocodingRequest) (RequestSpec, error) {
	if err := checkPoint("point", r.Point); err != nil {
		return RequestSpec{}, err
	}
	q := c.baseQuery()
	q.Set("lat", r.Point.Y())
	q.Set("lon", r.Point.X())
	q.Set("coordType", string(WGS84GEO))
	q.Set("addressType", r.AddressType.code())
	return RequestSpec{Method: http.MethodGet, Root: RootTmap, Path: "/geo/reversegeocoding", Query: q}, nil
}

// BuildPedestrianRoute shapes a pedestrian route request.
func (c *Client) BuildPedestrianRoute(r PedestrianRouteRequest) (RequestSpec, error) {
	if err := checkEndpoints(r.Start, r.End); err != nil {
		return RequestSpec{}, err
	}
	if r.StartName == "" || r.EndName == "" {
		return RequestSpec{}, invalidArg("start and end names are required")
	}
	body := endpointsBody(r.Start, r.End)
	body["startName"] = r.StartName
	body["endName"] = r.EndName
	body["searchOption"] = r.Option.code()
	return RequestSpec{Method: http.MethodPost, Root: RootTmap, Path: "/routes/pedestrian", Body: body}, nil
}

// BuildCarRoute shapes a car route request.
func (c *Client) BuildCarRoute(r CarRouteRequest) (RequestSpec, error) {
	if err := checkEndpoints(r.Start, r.End); err != nil {
		return RequestSpec{}, err
	}
	return RequestSpec{Method: http.MethodPost, Root: RootTmap, Path: "/routes", Body: c.carBody(r.Start, r.End, r.Option)}, nil
}

// BuildTimeMachineRoute shapes a time-machine car route request. The
// departure time is always normalized to UTC and always sent together with
// the arrival option.
func (c *Client) BuildTimeMachineRoute(r TimeMachineRouteRequest) (RequestSpec, error) {
	if err := checkEndpoints(r.Start, r.End); err != nil {
		return RequestSpec{}, err
	}
	if r.Departure.IsZero() {
		return RequestSpec{}, invalidArg("departure time is required")
	}
	body := c.carBody(r.Start, r.End, r.Option)
	body["departureTime"] = r.Departure.Normalize()
	body["arrivalOption"] = r.Arrival.code()
	if len(r.Via) > 0 {
		parts := make([]string, len(r.Via))
		for i, p := range r.Via {
			if err := checkPoint(fmt.Sprintf("via[%d]", i), p); err != nil {
				return RequestSpec{}, err
			}
			parts[i] = p.String()
		}
		body["passList"] = strings.Join(parts, "_")
	}
	return RequestSpec{Method: http.MethodPost, Root: RootTmap, Path: "/routes/prediction", Body: body}, nil
}

// BuildStaticMap shapes a route static map request.
func (c *Client) BuildStaticMap(r StaticMapRequest) (RequestSpec, error) {
	if err := checkEndpoints(r.Start, r.End); err != nil {
		return RequestSpec{}, err
	}
	q := c.baseQuery()
	q.Set("startX", r.Start.X())
	q.Set("startY", r.Start.Y())
	q.Set("endX", r.End.X())
	q.Set("endY", r.End.Y())
	return RequestSpec{Method: http.MethodGet, Root: RootTmap, Path: "/routeStaticMap", Query: q}, nil
}

// BuildPlaceCongestion shapes a realtime place congestion request.
func (c *Client) BuildPlaceCongestion(r PlaceCongestionRequest) (RequestSpec, error) {
	poiID := strings.TrimSpace(r.POIID)
	if poiID == "" {
		return RequestSpec{}, invalidArg("poi id is required")
	}
	q := c.baseQuery()
	if r.Center != nil {
		if err := checkPoint("center", *r.Center); err != nil {
			return RequestSpec{}, err
		}
		q.Set("lat", r.Center.Y())
		q.Set("lng", r.Center.X())
	}
	return RequestSpec{
		Method: http.MethodGet,
		Root:   RootTmap,
		Path:   "/puzzle/pois/" + url.PathEscape(poiID),
		Query:  q,
	}, nil
}

// BuildTransitRoute shapes a public-transit route request.
func (c *Client) BuildTransitRoute(r TransitRouteRequest) (RequestSpec, error) {
	body, err := transitBody(r)
	if err != nil {
		return RequestSpec{}, err
	}
	body["lang"] = int(r.Language)
	return RequestSpec{Method: http.MethodPost, Root: RootTransit, Path: "/routes", Body: body}, nil
}

// BuildTransitRouteSummary shapes a public-transit route summary request.
// The summary endpoint takes no language.
func (c *Client) BuildTransitRouteSummary(r TransitRouteRequest) (RequestSpec, error) {
	body, err := transitBody(r)
	if err != nil {
		return RequestSpec{}, err
	}
	return RequestSpec{Method: http.MethodPost, Root: RootTransit, Path: "/routes/sub", Body: body}, nil
}

// Subway congestion statistics kinds, by path suffix.
const (
	subwayTrain  = "train"
	subwayCar    = "car"
	subwayGetOff = "get-off"
)

// BuildSubwayCongestion shapes one of the subway congestion statistics
// requests. kind is "train", "car" or "get-off".
func (c *Client) BuildSubwayCongestion(kind string, r SubwayCongestionRequest) (RequestSpec, error) {
	switch kind {
	case subwayTrain, subwayCar, subwayGetOff:
	default:
		return RequestSpec{}, invalidArg("subway statistics kind %q", kind)
	}
	if r.Line == "" || r.Station == "" {
		return RequestSpec{}, invalidArg("line and station are required")
	}
	q := url.Values{
		"routeNm":   {r.Line},
		"stationNm": {r.Station},
	}
	if r.Day != "" {
		q.Set("dow", string(r.Day))
	}
	if r.Hour != nil {
		if *r.Hour < 0 || *r.Hour > 23 {
			return RequestSpec{}, invalidArg("hour %d out of range", *r.Hour)
		}
		q.Set("hh", fmt.Sprintf("%02d", *r.Hour))
	}
	return RequestSpec{
		Method: http.MethodGet,
		Root:   RootTransit,
		Path:   "/puzzle/subway/congestion/stat/" + kind,
		Query:  q,
	}, nil
}

func (c *Client) carBody(start, end geo.Point, opt CarOption) map[string]any {
	body := endpointsBody(start, end)
	body["startName"] = defaultStartName
	body["endName"] = defaultEndName
	body["searchOption"] = opt.code()
	body["appKey"] = c.appKey
	return body
}

func transitBody(r TransitRouteRequest) (map[string]any, error) {
	if err := checkEndpoints(r.Start, r.End); err != nil {
		return nil, err
	}
	count := r.Count
	if count <= 0 {
		count = 10
	}
	if count > 10 {
		return nil, invalidArg("count %d exceeds 10", count)
	}
	body := endpointsBody(r.Start, r.End)
	body["format"] = "json"
	body["count"] = count
	if r.SearchTime != "" {
		body["searchDttm"] = r.SearchTime
	}
	return body, nil
}

func endpointsBody(start, end geo.Point) map[string]any {
	return map[string]any{
		"startX": start.X(),
		"startY": start.Y(),
		"endX":   end.X(),
		"endY":   end.Y(),
	}
}

func checkEndpoints(start, end geo.Point) error {
	if err := checkPoint("start", start); err != nil {
		return err
	}
	return checkPoint("end", end)
}

func checkPoint(name string, p geo.Point) error {
	if !p.Valid() {
		return invalidArg("%s %s out of range", name, p)
	}
	return nil
}
