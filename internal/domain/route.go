package domain

// Geographic bounding box of a route.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Represents the route between two coordinates returned by a directions lookup.
// Path keeps every decoded step point in order, including points shared at
// step boundaries. A Route with an empty Path means the provider found no route.
// It is immutable result data and contains no side effects.
type Route struct {
	Origin         Coordinates
	Destination    Coordinates
	Path           Path
	DistanceMeters float64
	Bounds         Bounds
}

// A route from a user to one of their friends.
type FriendRoute struct {
	Friend User
	Route  Route
}
