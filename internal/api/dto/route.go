package dto

import (
	"friend-locator-service/internal/domain"

	gopolyline "github.com/twpayne/go-polyline"
)

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type BoundsResponse struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

type RouteResponse struct {
	Origin          CoordinatesResponse `json:"origin"`
	Destination     CoordinatesResponse `json:"destination"`
	Points          [][]float64         `json:"points"`
	EncodedPolyline string              `json:"encoded_polyline"`
	DistanceMeters  float64             `json:"distance_meters"`
	Bounds          BoundsResponse      `json:"bounds"`
	PointCount      int                 `json:"point_count"`
}

type FriendRouteResponse struct {
	FriendID string        `json:"friend_id"`
	Route    RouteResponse `json:"route"`
}

type ListFriendRoutesResponse struct {
	UserID string                `json:"user_id"`
	Routes []FriendRouteResponse `json:"routes"`
}

func coordinates(c domain.Coordinates) CoordinatesResponse {
	return CoordinatesResponse{Lat: c.Lat, Lng: c.Lng}
}

// NewRouteResponse renders a route; the path is re-encoded at 1e5 precision
// so clients can draw it without decoding the points array.
func NewRouteResponse(r *domain.Route) RouteResponse {
	points := make([][]float64, 0, len(r.Path))
	for _, c := range r.Path {
		points = append(points, c.CoordsToList())
	}

	return RouteResponse{
		Origin:          coordinates(r.Origin),
		Destination:     coordinates(r.Destination),
		Points:          points,
		EncodedPolyline: string(gopolyline.EncodeCoords(points)),
		DistanceMeters:  r.DistanceMeters,
		Bounds: BoundsResponse{
			North: r.Bounds.North,
			South: r.Bounds.South,
			East:  r.Bounds.East,
			West:  r.Bounds.West,
		},
		PointCount: len(points),
	}
}

func NewFriendRouteResponse(fr *domain.FriendRoute) FriendRouteResponse {
	return FriendRouteResponse{
		FriendID: fr.Friend.UserID,
		Route:    NewRouteResponse(&fr.Route),
	}
}
