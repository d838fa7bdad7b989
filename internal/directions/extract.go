// Package directions turns a directions API response body into a single path.
package directions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/polyline"
)

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// ExtractPath parses a directions response and concatenates the decoded
// polyline of every step of the first leg of the first route, in step order.
//
// Points shared by consecutive steps are kept; nothing is deduplicated.
// A response without routes, legs, or steps yields an empty path and no error.
// Unparseable bodies fail with ErrMalformedResponse, undecodable step
// polylines with polyline.ErrMalformedPolyline, and failure statuses with a
// *StatusError.
func ExtractPath(body []byte) (domain.Path, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("extract path: %w: empty body", ErrMalformedResponse)
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("extract path: %w: %v", ErrMalformedResponse, err)
	}

	switch resp.Status {
	case "", statusOK, statusZeroResults:
	default:
		return nil, fmt.Errorf("extract path: %w", &StatusError{Status: resp.Status, Message: resp.ErrorMessage})
	}

	steps := resp.firstSteps()
	path := make(domain.Path, 0, len(steps)*8)
	for i, step := range steps {
		if step.Polyline == nil {
			continue
		}

		points, err := polyline.Decode(step.Polyline.Points)
		if err != nil {
			return nil, fmt.Errorf("extract path: step %d: %w", i, err)
		}
		path = append(path, points...)
	}

	return path, nil
}

// ExtractPathString is ExtractPath for callers holding the body as text.
func ExtractPathString(body string) (domain.Path, error) {
	return ExtractPath([]byte(body))
}
