// Package polyline decodes the encoded polyline format used by directions APIs:
// delta-encoded coordinates, zig-zag signed values, 5 bits per printable character.
package polyline

import (
	"errors"
	"fmt"
	"friend-locator-service/internal/domain"
)

// Precision is the fixed-point scale of encoded coordinates (five decimal places).
const Precision = 1e5

// ErrMalformedPolyline is returned when the input ends in the middle of a value.
var ErrMalformedPolyline = errors.New("malformed polyline")

// Decode converts an encoded polyline into an ordered path.
//
// Input characters are not validated; anything outside the encoding's printable
// range yields meaningless coordinates rather than an error. Truncated input,
// where a value still expects continuation characters, fails with
// ErrMalformedPolyline and no partial path.
func Decode(encoded string) (domain.Path, error) {
	path := make(domain.Path, 0, len(encoded)/4)

	var lat, lng int
	index := 0
	for index < len(encoded) {
		dlat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = next
		lat += dlat

		dlng, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		index = next
		lng += dlng

		path = append(path, domain.Coordinates{
			Lat: float64(lat) / Precision,
			Lng: float64(lng) / Precision,
		})
	}

	return path, nil
}

// decodeValue reads one zig-zag value starting at index and returns it with
// the index of the first unread byte.
func decodeValue(encoded string, index int) (int, int, error) {
	start := index
	result, shift := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, fmt.Errorf("%w: value starting at offset %d runs past end of input (len=%d)",
				ErrMalformedPolyline, start, len(encoded))
		}

		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}
