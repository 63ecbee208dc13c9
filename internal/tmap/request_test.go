package tmap

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tmapmcp/internal/geo"
)

func newBuilder(t *testing.T) *Client {
	t.Helper()
	c, err := New(Config{AppKey: "test-key"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

var (
	cityHall   = geo.Point{Lon: 126.9786567, Lat: 37.566826}
	deoksugung = geo.Point{Lon: 126.9753, Lat: 37.5668}
)

func TestBuildPOISearch(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildPOISearch(POISearchRequest{Keyword: "경복궁"})
	if err != nil {
		t.Fatalf("BuildPOISearch: %v", err)
	}
	if spec.Method != http.MethodGet || spec.Root != RootTmap || spec.Path != "/pois" {
		t.Errorf("spec = %s %d %s", spec.Method, spec.Root, spec.Path)
	}
	want := url.Values{
		"version":       {"1"},
		"appKey":        {"test-key"},
		"searchKeyword": {"경복궁"},
		"searchType":    {"all"},
		"count":         {"20"},
	}
	if diff := cmp.Diff(want, spec.Query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if spec.Body != nil {
		t.Errorf("GET request should have no body, got %v", spec.Body)
	}
}

func TestBuildPOISearch_Page(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildPOISearch(POISearchRequest{Keyword: "카페", SearchType: SearchName, Count: 5, Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Query.Get("page") != "2" || spec.Query.Get("count") != "5" || spec.Query.Get("searchType") != "name" {
		t.Errorf("query = %v", spec.Query)
	}
}

func TestBuildPOISearch_Invalid(t *testing.T) {
	c := newBuilder(t)
	tests := []struct {
		name string
		req  POISearchRequest
	}{
		{"empty keyword", POISearchRequest{}},
		{"blank keyword", POISearchRequest{Keyword: "  "}},
		{"count too large", POISearchRequest{Keyword: "a", Count: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.BuildPOISearch(tt.req)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestEncodedQuery_SingleEncodingRoundTrip(t *testing.T) {
	c := newBuilder(t)
	keyword := "서울특별시 중구 세종대로 110 & 덕수궁/정동"
	spec, err := c.BuildPOISearch(POISearchRequest{Keyword: keyword})
	if err != nil {
		t.Fatal(err)
	}
	raw := spec.EncodedQuery()
	if strings.Contains(raw, "%25") {
		t.Errorf("query looks double-encoded: %s", raw)
	}
	decoded, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if got := decoded.Get("searchKeyword"); got != keyword {
		t.Errorf("round trip = %q, want %q", got, keyword)
	}
}

func TestBuildGeocoding(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildGeocoding(GeocodingRequest{CityDo: "서울특별시", GuGun: "중구", Dong: "세종대로"})
	if err != nil {
		t.Fatal(err)
	}
	want := url.Values{
		"version":   {"1"},
		"appKey":    {"test-key"},
		"city_do":   {"서울특별시"},
		"gu_gun":    {"중구"},
		"dong":      {"세종대로"},
		"coordType": {"WGS84GEO"},
	}
	if diff := cmp.Diff(want, spec.Query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if spec.Path != "/geo/geocoding" {
		t.Errorf("path = %q", spec.Path)
	}

	if _, err := c.BuildGeocoding(GeocodingRequest{CityDo: "서울특별시"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("missing fields: err = %v", err)
	}
}

func TestBuildReverseGeocoding(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildReverseGeocoding(ReverseGeocodingRequest{Point: cityHall, AddressType: AddressLegal})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Query.Get("lat") != "37.566826" || spec.Query.Get("lon") != "126.9786567" {
		t.Errorf("coordinates not passed through: %v", spec.Query)
	}
	if spec.Query.Get("addressType") != "A03" || spec.Query.Get("coordType") != "WGS84GEO" {
		t.Errorf("query = %v", spec.Query)
	}
}

func TestBuildPedestrianRoute(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildPedestrianRoute(PedestrianRouteRequest{
		Start: cityHall, End: deoksugung,
		StartName: "서울시청", EndName: "덕수궁",
		Option: PedestrianShortest,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"startX":       "126.9786567",
		"startY":       "37.566826",
		"endX":         "126.9753",
		"endY":         "37.5668",
		"startName":    "서울시청",
		"endName":      "덕수궁",
		"searchOption": "10",
	}
	if diff := cmp.Diff(want, spec.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if spec.Method != http.MethodPost || spec.Path != "/routes/pedestrian" || len(spec.Query) != 0 {
		t.Errorf("spec = %+v", spec)
	}
}

func TestBuildCarRoute(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildCarRoute(CarRouteRequest{Start: cityHall, End: deoksugung})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Body["appKey"] != "test-key" || spec.Body["startName"] != "출발지" || spec.Body["endName"] != "도착지" {
		t.Errorf("body = %v", spec.Body)
	}
	if spec.Body["searchOption"] != "0" {
		t.Errorf("searchOption = %v, want 0", spec.Body["searchOption"])
	}

	if _, err := c.BuildCarRoute(CarRouteRequest{Start: geo.Point{Lon: 200, Lat: 0}, End: deoksugung}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("out of range start: err = %v", err)
	}
}

func TestBuildTimeMachineRoute(t *testing.T) {
	c := newBuilder(t)
	dep := DepartWallClock(time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), true)

	spec, err := c.BuildTimeMachineRoute(TimeMachineRouteRequest{Start: cityHall, End: deoksugung, Departure: dep})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Body["departureTime"] != "2025-01-02 00:00:00" {
		t.Errorf("departureTime = %v", spec.Body["departureTime"])
	}
	if spec.Body["arrivalOption"] != "0" {
		t.Errorf("arrivalOption = %v, want always present as 0", spec.Body["arrivalOption"])
	}
	if _, ok := spec.Body["passList"]; ok {
		t.Error("passList should be absent without waypoints")
	}
	if spec.Path != "/routes/prediction" {
		t.Errorf("path = %q", spec.Path)
	}
}

func TestBuildTimeMachineRoute_ViaAndArrival(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildTimeMachineRoute(TimeMachineRouteRequest{
		Start: cityHall, End: deoksugung,
		Departure: DepartFormatted("2025-01-02 00:00:00"),
		Arrival:   ArriveByTime,
		Via:       []geo.Point{{Lon: 126.97, Lat: 37.56}, {Lon: 126.98, Lat: 37.57}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Body["passList"] != "126.97,37.56_126.98,37.57" {
		t.Errorf("passList = %v", spec.Body["passList"])
	}
	if spec.Body["arrivalOption"] != "1" {
		t.Errorf("arrivalOption = %v", spec.Body["arrivalOption"])
	}
}

func TestBuildTimeMachineRoute_RequiresDeparture(t *testing.T) {
	c := newBuilder(t)
	_, err := c.BuildTimeMachineRoute(TimeMachineRouteRequest{Start: cityHall, End: deoksugung})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestBuildPlaceCongestion_OptionalCenter(t *testing.T) {
	c := newBuilder(t)

	spec, err := c.BuildPlaceCongestion(PlaceCongestionRequest{POIID: "10067845"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := spec.Query["lat"]; ok {
		t.Error("lat should be absent")
	}
	if _, ok := spec.Query["lng"]; ok {
		t.Error("lng should be absent")
	}
	if spec.Path != "/puzzle/pois/10067845" {
		t.Errorf("path = %q", spec.Path)
	}

	spec, err = c.BuildPlaceCongestion(PlaceCongestionRequest{POIID: "10067845", Center: &cityHall})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Query.Get("lat") != "37.566826" || spec.Query.Get("lng") != "126.9786567" {
		t.Errorf("query = %v", spec.Query)
	}
}

func TestBuildTransitRoute(t *testing.T) {
	c := newBuilder(t)
	spec, err := c.BuildTransitRoute(TransitRouteRequest{Start: cityHall, End: deoksugung, Language: English})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"startX": "126.9786567",
		"startY": "37.566826",
		"endX":   "126.9753",
		"endY":   "37.5668",
		"lang":   1,
		"format": "json",
		"count":  10,
	}
	if diff := cmp.Diff(want, spec.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if spec.Root != RootTransit || spec.Path != "/routes" {
		t.Errorf("spec = %d %s", spec.Root, spec.Path)
	}

	sum, err := c.BuildTransitRouteSummary(TransitRouteRequest{Start: cityHall, End: deoksugung, SearchTime: "202501020930"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sum.Body["lang"]; ok {
		t.Error("summary should not carry lang")
	}
	if sum.Body["searchDttm"] != "202501020930" || sum.Path != "/routes/sub" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestBuildSubwayCongestion_OptionalFilters(t *testing.T) {
	c := newBuilder(t)

	spec, err := c.BuildSubwayCongestion("train", SubwayCongestionRequest{Line: "1호선", Station: "서울역"})
	if err != nil {
		t.Fatal(err)
	}
	want := url.Values{"routeNm": {"1호선"}, "stationNm": {"서울역"}}
	if diff := cmp.Diff(want, spec.Query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	hour := 8
	spec, err = c.BuildSubwayCongestion("get-off", SubwayCongestionRequest{Line: "1호선", Station: "서울역", Day: Monday, Hour: &hour})
	if err != nil {
		t.Fatal(err)
	}
	if spec.Query.Get("dow") != "MON" || spec.Query.Get("hh") != "08" {
		t.Errorf("query = %v", spec.Query)
	}
	if spec.Path != "/puzzle/subway/congestion/stat/get-off" || spec.Root != RootTransit {
		t.Errorf("spec = %d %s", spec.Root, spec.Path)
	}

	if _, err := c.BuildSubwayCongestion("bus", SubwayCongestionRequest{Line: "1호선", Station: "서울역"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown kind: err = %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	if st, err := ParseSearchType(""); err != nil || st != SearchAll {
		t.Errorf("ParseSearchType(\"\") = %v, %v", st, err)
	}
	if _, err := ParseSearchType("phone"); err == nil {
		t.Error("ParseSearchType(phone) should fail")
	}
	if at, err := ParseAddressType("A02"); err != nil || at != AddressAdmin {
		t.Errorf("ParseAddressType(A02) = %v, %v", at, err)
	}
	if o, err := ParsePedestrianOption("4"); err != nil || o != PedestrianMainRoads {
		t.Errorf("ParsePedestrianOption(4) = %v, %v", o, err)
	}
	if _, err := ParsePedestrianOption("3"); err == nil {
		t.Error("ParsePedestrianOption(3) should fail")
	}
	if o, err := ParseCarOption("2"); err != nil || o != CarShortest {
		t.Errorf("ParseCarOption(2) = %v, %v", o, err)
	}
	if _, err := ParseArrivalOption("2"); err == nil {
		t.Error("ParseArrivalOption(2) should fail")
	}
	if d, err := ParseWeekday("SUN"); err != nil || d != Sunday {
		t.Errorf("ParseWeekday(SUN) = %v, %v", d, err)
	}
	if _, err := ParseWeekday("sunday"); err == nil {
		t.Error("ParseWeekday(sunday) should fail")
	}
	if ct, err := ParseCoordType("EPSG3857"); err != nil || ct != EPSG3857 {
		t.Errorf("ParseCoordType(EPSG3857) = %v, %v", ct, err)
	}
}
