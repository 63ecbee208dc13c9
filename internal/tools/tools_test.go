package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tmapmcp/internal/mcpserver"
	"tmapmcp/internal/storage"
	"tmapmcp/internal/tmap"
)

type fixture struct {
	rt      *mcpserver.Runtime
	journal *storage.DB
}

// newFixture wires the tool catalogue to a stub upstream serving h.
func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client, err := tmap.New(tmap.Config{AppKey: "test-key", BaseURL: srv.URL, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	db, err := storage.Open(filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	rt := mcpserver.New(&mcp.Implementation{Name: "tmap-test", Version: "v0.0.0"}, nil)
	New(client, db, logger).Register(rt)
	return &fixture{rt: rt, journal: db}
}

func (f *fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := f.rt.CallTool(context.Background(), name, args)
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) Output[T] {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", errorText(res))
	}
	var out Output[T]
	if err := json.Unmarshal(res.StructuredContent.(json.RawMessage), &out); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	return out
}

func errorText(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if tc, ok := res.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

const poiBody = `{"searchPoiInfo":{"totalCount":"1","count":"1","page":"1","pois":{"poi":[
	{"id":"10067845","name":"경복궁","frontLat":"37.57601","frontLon":"126.97689",
	 "upperAddrName":"서울","middleAddrName":"종로구","lowerAddrName":"세종로"}]}}}`

func TestRegister_Catalogue(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	want := []string{
		"car_route", "car_route_summary", "full_text_geocoding", "geocoding",
		"get_poi_detail", "pedestrian_route_detail", "pedestrian_route_summary",
		"public_transit_route", "public_transit_route_summary", "realtime_place_congestion",
		"reverse_geocoding", "search_address_keyword", "search_coord_keyword",
		"search_poi_keyword", "static_map", "subway_car_congestion",
		"subway_car_getoff_rate", "subway_congestion", "time_machine_route",
	}
	var got []string
	for _, tool := range f.rt.ListTools() {
		got = append(got, tool.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tools mismatch (-want +got):\n%s", diff)
	}
	if !f.rt.HasResource(HistoryURI) {
		t.Error("history resource not registered")
	}
}

func TestSearchCoordKeyword(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(poiBody))
	})
	out := decode[tmap.Coordinates](t, f.call(t, "search_coord_keyword", map[string]any{"keyword": "경복궁"}))
	if !out.Found || out.Result == nil {
		t.Fatalf("out = %+v", out)
	}
	if diff := cmp.Diff(tmap.Coordinates{Lat: 37.57601, Lon: 126.97689}, *out.Result); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchAddressKeyword_NotFound(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	res := f.call(t, "search_address_keyword", map[string]any{"keyword": "없는장소xyz"})
	out := decode[tmap.Address](t, res)
	if out.Found || out.Result != nil {
		t.Errorf("out = %+v, want found=false", out)
	}
	if text := res.Content[0].(*mcp.TextContent).Text; text != `{"found":false}` {
		t.Errorf("text = %s", text)
	}
}

func TestHTTPFailureIsToolError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"id":"401","code":"INVALID_API_KEY"}}`))
	})
	res := f.call(t, "geocoding", map[string]any{"city_do": "서울특별시", "gu_gun": "중구", "dong": "세종대로"})
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if text := errorText(res); !strings.Contains(text, "HTTP 401") || !strings.Contains(text, "INVALID_API_KEY") {
		t.Errorf("error text = %q", text)
	}
}

func TestInvalidArguments(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream should not be called, got %s", r.URL.Path)
	})
	tests := []struct {
		tool string
		args map[string]any
	}{
		{"search_poi_keyword", map[string]any{"keyword": "a", "search_type": "phone"}},
		{"time_machine_route", map[string]any{"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57, "departure_time": "next tuesday"}},
		{"realtime_place_congestion", map[string]any{"poi_id": "1", "lat": 37.5}},
		{"subway_congestion", map[string]any{"route_nm": "1호선", "station_nm": "서울역", "hh": "eight"}},
		{"public_transit_route", map[string]any{"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57, "lang": 2}},
		{"car_route", map[string]any{"start_x": 226.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			res := f.call(t, tt.tool, tt.args)
			if !res.IsError {
				t.Errorf("expected tool error, got %v", res.StructuredContent)
			}
			if text := errorText(res); !strings.Contains(text, "invalid argument") {
				t.Errorf("error text = %q", text)
			}
		})
	}
}

func TestTimeMachineRoute_DefaultsToKST(t *testing.T) {
	var body map[string]any
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature",
			"geometry":{"type":"Point","coordinates":[126.97,37.56]},
			"properties":{"totalDistance":8100,"totalTime":1260}}]}`))
	})
	type route struct {
		Features []struct {
			Properties struct {
				TotalDistance int `json:"totalDistance"`
			} `json:"properties"`
		} `json:"features"`
	}
	out := decode[route](t, f.call(t, "time_machine_route", map[string]any{
		"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57,
		"departure_time": "2025-01-02 09:00:00",
		"via_points":     []map[string]float64{{"lon": 126.975, "lat": 37.565}},
	}))
	if !out.Found || out.Result.Features[0].Properties.TotalDistance != 8100 {
		t.Errorf("out = %+v", out)
	}
	if body["departureTime"] != "2025-01-02 00:00:00" {
		t.Errorf("departureTime = %v", body["departureTime"])
	}
	if body["passList"] != "126.975,37.565" || body["arrivalOption"] != "0" {
		t.Errorf("body = %v", body)
	}
}

func TestTimeMachineRoute_UseKSTFalse(t *testing.T) {
	var body map[string]any
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})
	f.call(t, "time_machine_route", map[string]any{
		"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57,
		"departure_time": "2025-01-02 09:00:00",
		"use_kst":        false,
	})
	if body["departureTime"] != "2025-01-02 09:00:00" {
		t.Errorf("departureTime = %v", body["departureTime"])
	}
}

func TestTimeMachineRouteArgs_DescribeUseKST(t *testing.T) {
	typ := reflect.TypeOf(TimeMachineRouteArgs{})
	useKST, _ := typ.FieldByName("UseKST")
	if desc := useKST.Tag.Get("jsonschema"); !strings.Contains(desc, "converted to UTC") || !strings.Contains(desc, "sent to the API as written") {
		t.Errorf("use_kst description = %q", desc)
	}
	dep, _ := typ.FieldByName("DepartureTime")
	if desc := dep.Tag.Get("jsonschema"); !strings.Contains(desc, "use_kst") {
		t.Errorf("departure_time description = %q", desc)
	}
}

func TestCarRouteSummary(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature",
			"geometry":{"type":"Point","coordinates":[126.97,37.56]},
			"properties":{"totalDistance":8100,"totalTime":1260,"totalFare":0,"taxiFare":9800}}]}`))
	})
	res := f.call(t, "car_route_summary", map[string]any{"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57})
	text := res.Content[0].(*mcp.TextContent).Text
	want := `{"found":true,"result":{"total_distance":8100,"total_time":1260,"total_fare":0,"taxi_fare":9800}}`
	if text != want {
		t.Errorf("text = %s\nwant %s", text, want)
	}
}

func TestCarRouteSummary_NoFares(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature",
			"properties":{"totalDistance":8100,"totalTime":1260}}]}`))
	})
	res := f.call(t, "car_route_summary", map[string]any{"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57})
	text := res.Content[0].(*mcp.TextContent).Text
	want := `{"found":true,"result":{"total_distance":8100,"total_time":1260}}`
	if text != want {
		t.Errorf("text = %s\nwant %s", text, want)
	}
}

func TestTransitRoute_PassesBodyThrough(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metaData":{"plan":{"itineraries":[{"totalTime":1500,"legs":[
			{"mode":"BUS","route":"간선:472","routeId":"11446001",
			 "passStopList":{"stationList":[{"index":0,"stationName":"시청앞"}]},
			 "passShape":{"linestring":"126.97,37.56 126.98,37.57"}}]}]}}}`))
	})
	res := f.call(t, "public_transit_route", map[string]any{"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57})
	out := decode[Document](t, res)
	if !out.Found {
		t.Fatal("expected found")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	for _, field := range []string{`"routeId":"11446001"`, `"passStopList"`, `"passShape"`, `"totalTime":1500`} {
		if !strings.Contains(text, field) {
			t.Errorf("text lost %s: %s", field, text)
		}
	}
	if strings.Contains(text, "fare") {
		t.Errorf("text invented a fare: %s", text)
	}
}

func TestSubwayCongestion_Query(t *testing.T) {
	var path string
	var query map[string][]string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.Query()
		w.Write([]byte(`{"status":{"code":"00","message":"success","totalCount":1},"contents":{"stat":[]}}`))
	})
	out := decode[Document](t, f.call(t, "subway_car_getoff_rate", map[string]any{
		"route_nm": "2호선", "station_nm": "강남역", "dow": "tue", "hh": "8",
	}))
	if !out.Found {
		t.Error("expected found")
	}
	if path != "/transit/puzzle/subway/congestion/stat/get-off" {
		t.Errorf("path = %q", path)
	}
	want := map[string][]string{"routeNm": {"2호선"}, "stationNm": {"강남역"}, "dow": {"TUE"}, "hh": {"08"}}
	if diff := cmp.Diff(want, query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticMap(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	})
	res := f.call(t, "static_map", map[string]any{
		"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57,
	})
	if res.IsError {
		t.Fatalf("tool error: %s", errorText(res))
	}
	img, ok := res.Content[0].(*mcp.ImageContent)
	if !ok {
		t.Fatalf("content[0] = %T, want *mcp.ImageContent", res.Content[0])
	}
	if img.MIMEType != "image/png" || string(img.Data) != string(png) {
		t.Errorf("image = %s %q", img.MIMEType, img.Data)
	}
	out := decode[StaticMapResult](t, res)
	if out.Result.Bytes != int64(len(png)) {
		t.Errorf("result = %+v", out.Result)
	}
}

func TestStaticMap_NeverWritesServerFiles(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	path := filepath.Join(t.TempDir(), "important.txt")
	if err := os.WriteFile(path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	res := f.call(t, "static_map", map[string]any{
		"start_x": 126.97, "start_y": 37.56, "end_x": 126.98, "end_y": 37.57, "file_path": path,
	})
	if !res.IsError {
		t.Errorf("expected tool error, got %v", res.StructuredContent)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "keep me" {
		t.Errorf("file = %q, %v; want it untouched", got, err)
	}
	if _, ok := reflect.TypeOf(StaticMapArgs{}).FieldByName("FilePath"); ok {
		t.Error("static_map accepts a server file path")
	}
}

func TestHistoryResource(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tmap/pois":
			w.Write([]byte(poiBody))
		case "/tmap/pois/0":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	f.call(t, "search_coord_keyword", map[string]any{"keyword": "경복궁"})
	f.call(t, "get_poi_detail", map[string]any{"poi_id": "0"})
	f.call(t, "reverse_geocoding", map[string]any{"lat": 37.56, "lon": 126.97})

	res, err := f.rt.ReadResource(context.Background(), HistoryURI)
	if err != nil {
		t.Fatal(err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &entries); err != nil {
		t.Fatal(err)
	}
	var got [][2]string
	for _, e := range entries {
		got = append(got, [2]string{e.Tool, e.Status})
	}
	want := [][2]string{
		{"reverse_geocoding", storage.StatusError},
		{"get_poi_detail", storage.StatusEmpty},
		{"search_coord_keyword", storage.StatusOK},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if string(entries[2].Args) != `{"keyword":"경복궁"}` {
		t.Errorf("args = %s", entries[2].Args)
	}
	if !strings.Contains(entries[0].Error, "HTTP 500") {
		t.Errorf("error = %q", entries[0].Error)
	}
}
