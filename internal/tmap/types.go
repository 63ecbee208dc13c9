package tmap

import "tmapmcp/internal/geo"

// Detail operations hand the upstream body back unchanged. The types below
// are the narrow views the unwrapping operations decode, so they list only
// the fields those operations read.

// poiSearchResponse is the keyword search body as read by the keyword
// unwrappers.
type poiSearchResponse struct {
	SearchPoiInfo struct {
		Pois struct {
			POI []poi `json:"poi"`
		} `json:"pois"`
	} `json:"searchPoiInfo"`
}

// poi is a single search hit. Coordinates arrive as quoted strings that may
// be empty.
type poi struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	FrontLat       geo.NullDegrees `json:"frontLat"`
	FrontLon       geo.NullDegrees `json:"frontLon"`
	UpperAddrName  string          `json:"upperAddrName"`
	MiddleAddrName string          `json:"middleAddrName"`
	LowerAddrName  string          `json:"lowerAddrName"`
}

// geocodingResponse is the structured-address geocoder body. Lat/Lon are
// set for lot-number matches, NewLat/NewLon for road-name matches.
type geocodingResponse struct {
	CoordinateInfo struct {
		Lat    geo.NullDegrees `json:"lat"`
		Lon    geo.NullDegrees `json:"lon"`
		NewLat geo.NullDegrees `json:"newLat"`
		NewLon geo.NullDegrees `json:"newLon"`
	} `json:"coordinateInfo"`
}

// routeResponse is the GeoJSON feature collection returned by the
// pedestrian, car and time-machine route endpoints. Totals are only present
// on the first feature.
type routeResponse struct {
	Features []struct {
		Properties routeTotals `json:"properties"`
	} `json:"features"`
}

type routeTotals struct {
	TotalDistance int  `json:"totalDistance"`
	TotalTime     int  `json:"totalTime"`
	TotalFare     *int `json:"totalFare"`
	TaxiFare      *int `json:"taxiFare"`
}

// transitRouteResponse is the public-transit body. When no route exists the
// upstream answers 200 with only a result block, which leaves the plan
// empty.
type transitRouteResponse struct {
	MetaData struct {
		Plan struct {
			Itineraries []itinerary `json:"itineraries"`
		} `json:"plan"`
	} `json:"metaData"`
}

type itinerary struct {
	TotalTime     int `json:"totalTime"`
	TotalDistance int `json:"totalDistance"`
	Fare          *struct {
		Regular *struct {
			TotalFare *int `json:"totalFare"`
		} `json:"regular"`
	} `json:"fare"`
}

// Coordinates is the projected position of a keyword or address match.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address is the province / city / neighbourhood of a keyword match.
type Address struct {
	Sido    string `json:"sido"`
	Sigungu string `json:"sigungu"`
	Dong    string `json:"dong"`
}

// RouteSummary holds the totals of the first route candidate. Fares are only
// set when the upstream reports them.
type RouteSummary struct {
	TotalDistance int  `json:"total_distance"`
	TotalTime     int  `json:"total_time"`
	TotalFare     *int `json:"total_fare,omitempty"`
	TaxiFare      *int `json:"taxi_fare,omitempty"`
}
