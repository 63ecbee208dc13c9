package tmap

import (
	"fmt"
	"strings"
	"time"
)

// wireTimeLayout is the timestamp format the prediction endpoint accepts.
// Values are always UTC.
const wireTimeLayout = "2006-01-02 15:04:05"

// kst is the fixed +09:00 offset naive timestamps are assumed to be in when
// the source offset is requested.
var kst = time.FixedZone("KST", 9*60*60)

type departureKind int

const (
	departureUnset departureKind = iota
	departureInstant
	departureWallClock
	departureFormatted
)

// DepartureTime is the timestamp attached to a time-machine route: either an
// instant with a known zone, a wall-clock reading without zone information,
// or an already formatted wire string.
type DepartureTime struct {
	kind            departureKind
	t               time.Time
	raw             string
	useSourceOffset bool
}

// DepartAt returns a DepartureTime for an instant whose zone is known.
func DepartAt(t time.Time) DepartureTime {
	return DepartureTime{kind: departureInstant, t: t}
}

// DepartWallClock returns a DepartureTime for a reading without zone
// information. Only the calendar and clock fields of t are used; its
// location is ignored. With useSourceOffset the reading is taken to be KST
// (+09:00); without it the reading is sent as-is, as if it were already UTC.
func DepartWallClock(t time.Time, useSourceOffset bool) DepartureTime {
	return DepartureTime{kind: departureWallClock, t: t, useSourceOffset: useSourceOffset}
}

// DepartFormatted returns a DepartureTime that is sent verbatim. The string
// is not validated.
func DepartFormatted(s string) DepartureTime {
	return DepartureTime{kind: departureFormatted, raw: s}
}

var wallClockLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// ParseDepartureTime parses s as an RFC 3339 timestamp with an offset, or as
// a wall-clock reading in one of the forms "2006-01-02 15:04:05",
// "2006-01-02T15:04:05", "2006-01-02 15:04" or "2006-01-02T15:04".
func ParseDepartureTime(s string, useSourceOffset bool) (DepartureTime, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DepartAt(t), nil
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DepartWallClock(t, useSourceOffset), nil
		}
	}
	return DepartureTime{}, invalidArg("departure time %q: want RFC 3339 or YYYY-MM-DD HH:MM:SS", s)
}

// IsZero reports whether d was never set.
func (d DepartureTime) IsZero() bool { return d.kind == departureUnset }

// Normalize returns the UTC wire form "YYYY-MM-DD HH:MM:SS".
func (d DepartureTime) Normalize() string {
	switch d.kind {
	case departureInstant:
		return NormalizeTime(d.t, false, false)
	case departureWallClock:
		return NormalizeTime(d.t, true, d.useSourceOffset)
	case departureFormatted:
		return d.raw
	}
	return ""
}

func (d DepartureTime) String() string {
	switch d.kind {
	case departureUnset:
		return "<unset>"
	case departureFormatted:
		return fmt.Sprintf("%q", d.raw)
	}
	return d.Normalize() + " UTC"
}

// NormalizeTime converts t to the UTC wire form. When naive is false t's own
// location is honoured. When naive is true only the wall-clock fields are
// read: they are placed in +09:00 if useSourceOffset is set, and in UTC (no
// conversion) otherwise.
func NormalizeTime(t time.Time, naive, useSourceOffset bool) string {
	if naive {
		loc := time.UTC
		if useSourceOffset {
			loc = kst
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	}
	return t.UTC().Format(wireTimeLayout)
}

// TransitSearchTime formats t as a transit searchDttm value (yyyymmddhhmi),
// expressed in KST.
func TransitSearchTime(t time.Time) string {
	return t.In(kst).Format("200601021504")
}

// ParseTransitSearchTime converts s to a transit searchDttm value. It accepts
// the wire form yyyymmddhhmi unchanged, an RFC 3339 timestamp, or a
// wall-clock reading in KST in any form ParseDepartureTime accepts.
func ParseTransitSearchTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.ParseInLocation("200601021504", s, kst); err == nil {
		return s, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return TransitSearchTime(t), nil
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, s, kst); err == nil {
			return TransitSearchTime(t), nil
		}
	}
	return "", invalidArg("search time %q: want yyyymmddhhmi, RFC 3339 or YYYY-MM-DD HH:MM", s)
}
