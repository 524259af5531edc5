package data

import (
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// Path addresses a value inside a JSON document. Array elements are written
// as "[0]".
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

// LookupFloat returns the first number found along paths. Numbers encoded as
// strings are accepted; anything else at a path is treated as absent.
func LookupFloat(payload []byte, paths ...Path) (float64, bool) {
	for _, path := range paths {
		value, typ, _, err := jsonparser.Get(payload, path...)
		if err != nil {
			continue
		}
		var f float64
		switch typ {
		case jsonparser.Number:
			f, err = jsonparser.ParseFloat(value)
		case jsonparser.String:
			f, err = strconv.ParseFloat(strings.TrimSpace(string(value)), 64)
		default:
			continue
		}
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return f, true
	}
	return 0, false
}

// LookupString returns the first non-empty string found along paths.
func LookupString(payload []byte, paths ...Path) (string, bool) {
	for _, path := range paths {
		value, typ, _, err := jsonparser.Get(payload, path...)
		if err != nil || typ != jsonparser.String {
			continue
		}
		s, err := jsonparser.ParseString(value)
		if err != nil || s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

// LookupObject returns the raw bytes of the first object found along paths.
func LookupObject(payload []byte, paths ...Path) ([]byte, bool) {
	for _, path := range paths {
		value, typ, _, err := jsonparser.Get(payload, path...)
		if err == nil && typ == jsonparser.Object {
			return value, true
		}
	}
	return nil, false
}
