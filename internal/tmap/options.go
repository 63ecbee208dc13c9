package tmap

import "strconv"

// SearchType selects which POI fields a keyword search matches against.
type SearchType string

const (
	SearchAll   SearchType = "all"
	SearchName  SearchType = "name"
	SearchTelNo SearchType = "telno"
)

// ParseSearchType maps a wire code to a SearchType. An empty code is SearchAll.
func ParseSearchType(code string) (SearchType, error) {
	switch SearchType(code) {
	case "", SearchAll:
		return SearchAll, nil
	case SearchName, SearchTelNo:
		return SearchType(code), nil
	}
	return "", invalidArg("search type %q", code)
}

func (t SearchType) code() string {
	if t == "" {
		return string(SearchAll)
	}
	return string(t)
}

// CoordType is the coordinate system of request or response coordinates.
type CoordType string

const (
	WGS84GEO CoordType = "WGS84GEO"
	EPSG3857 CoordType = "EPSG3857"
	KATECH   CoordType = "KATECH"
)

// ParseCoordType maps a wire code to a CoordType. An empty code is WGS84GEO.
func ParseCoordType(code string) (CoordType, error) {
	switch CoordType(code) {
	case "", WGS84GEO:
		return WGS84GEO, nil
	case EPSG3857, KATECH:
		return CoordType(code), nil
	}
	return "", invalidArg("coordinate type %q", code)
}

func (t CoordType) code() string {
	if t == "" {
		return string(WGS84GEO)
	}
	return string(t)
}

// AddressType selects the address flavour returned by reverse geocoding.
type AddressType string

const (
	AddressAdminOrLegal AddressType = "A00" // administrative or legal dong, whichever matches
	AddressAdminPlain   AddressType = "A01"
	AddressAdmin        AddressType = "A02"
	AddressLegal        AddressType = "A03"
	AddressLegalAndRoad AddressType = "A04"
	AddressAdminLegal   AddressType = "A10" // administrative + legal dong
)

// ParseAddressType maps a wire code to an AddressType. An empty code is A10.
func ParseAddressType(code string) (AddressType, error) {
	switch AddressType(code) {
	case "", AddressAdminLegal:
		return AddressAdminLegal, nil
	case AddressAdminOrLegal, AddressAdminPlain, AddressAdmin, AddressLegal, AddressLegalAndRoad:
		return AddressType(code), nil
	}
	return "", invalidArg("address type %q", code)
}

func (t AddressType) code() string {
	if t == "" {
		return string(AddressAdminLegal)
	}
	return string(t)
}

// PedestrianOption is the pedestrian route search preference.
type PedestrianOption int

const (
	PedestrianRecommended PedestrianOption = 0
	PedestrianMainRoads   PedestrianOption = 4
	PedestrianShortest    PedestrianOption = 10
	PedestrianAvoidStairs PedestrianOption = 30
)

// ParsePedestrianOption maps a wire code to a PedestrianOption. An empty code
// is PedestrianRecommended.
func ParsePedestrianOption(code string) (PedestrianOption, error) {
	n, err := parseCode(code)
	if err != nil {
		return 0, invalidArg("pedestrian option %q", code)
	}
	switch o := PedestrianOption(n); o {
	case PedestrianRecommended, PedestrianMainRoads, PedestrianShortest, PedestrianAvoidStairs:
		return o, nil
	}
	return 0, invalidArg("pedestrian option %q", code)
}

func (o PedestrianOption) code() string { return strconv.Itoa(int(o)) }

// CarOption is the car route search preference.
type CarOption int

const (
	CarRecommended    CarOption = 0
	CarTrafficOptimal CarOption = 1
	CarShortest       CarOption = 2
)

// ParseCarOption maps a wire code to a CarOption. An empty code is
// CarRecommended.
func ParseCarOption(code string) (CarOption, error) {
	n, err := parseCode(code)
	if err != nil {
		return 0, invalidArg("car option %q", code)
	}
	switch o := CarOption(n); o {
	case CarRecommended, CarTrafficOptimal, CarShortest:
		return o, nil
	}
	return 0, invalidArg("car option %q", code)
}

func (o CarOption) code() string { return strconv.Itoa(int(o)) }

// ArrivalOption says whether a time-machine timestamp is a departure or an
// arrival time.
type ArrivalOption int

const (
	DepartAtTime ArrivalOption = 0
	ArriveByTime ArrivalOption = 1
)

// ParseArrivalOption maps a wire code to an ArrivalOption. An empty code is
// DepartAtTime.
func ParseArrivalOption(code string) (ArrivalOption, error) {
	n, err := parseCode(code)
	if err != nil || (n != 0 && n != 1) {
		return 0, invalidArg("arrival option %q", code)
	}
	return ArrivalOption(n), nil
}

func (o ArrivalOption) code() string { return strconv.Itoa(int(o)) }

// Language of transit route descriptions.
type Language int

const (
	Korean  Language = 0
	English Language = 1
)

// Weekday filters subway congestion statistics. The zero value means "not
// set", in which case the upstream uses the current day.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

// ParseWeekday maps a wire code to a Weekday. An empty code stays unset.
func ParseWeekday(code string) (Weekday, error) {
	switch d := Weekday(code); d {
	case "", Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return d, nil
	}
	return "", invalidArg("weekday %q", code)
}

func parseCode(code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	return strconv.Atoi(code)
}
