package handlers

import (
	"errors"
	"fmt"
	"friend-locator-service/internal/api/dto"
	"friend-locator-service/internal/domain"
	"friend-locator-service/internal/ports"
	"friend-locator-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// RouteHandler serves route lookups between coordinates and between friends.
type RouteHandler struct {
	Dir      ports.UserDirectory
	Provider ports.DirectionsProvider
}

// Route answers GET /routes?origin=lat,lng&destination=lat,lng.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	origin, err := parseCoordinates(q.Get("origin"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	destination, err := parseCoordinates(q.Get("destination"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "destination: "+err.Error())
		return
	}

	route, err := services.FindRoute(r.Context(), h.Provider, origin, destination)
	if err != nil {
		writeServiceError(w, r, "find route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(route))
}

// FriendRoute answers GET /users/{userID}/friends/{friendID}/route.
func (h *RouteHandler) FriendRoute(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	friendID := strings.TrimSpace(r.PathValue("friendID"))
	if userID == "" || friendID == "" {
		writeError(w, r, http.StatusBadRequest, "user and friend ids are required")
		return
	}
	if userID == friendID {
		writeError(w, r, http.StatusBadRequest, "friend must differ from user")
		return
	}

	fr, err := services.RouteToFriend(r.Context(), h.Dir, h.Provider, userID, friendID)
	if err != nil {
		writeServiceError(w, r, "route to friend", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewFriendRouteResponse(fr))
}

// FriendRoutes answers GET /users/{userID}/friends/routes.
func (h *RouteHandler) FriendRoutes(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "user id is required")
		return
	}

	routes, err := services.RoutesToFriends(r.Context(), h.Dir, h.Provider, userID)
	if err != nil {
		writeServiceError(w, r, "routes to friends", err)
		return
	}

	res := dto.ListFriendRoutesResponse{
		UserID: userID,
		Routes: make([]dto.FriendRouteResponse, 0, len(routes)),
	}
	for _, fr := range routes {
		res.Routes = append(res.Routes, dto.NewFriendRouteResponse(fr))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// parseCoordinates reads "lat,lng" in degrees and rejects out-of-range values.
func parseCoordinates(s string) (domain.Coordinates, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Coordinates{}, errors.New("required as lat,lng")
	}

	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%q: expected lat,lng", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%q: invalid latitude", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%q: invalid longitude", s)
	}

	if !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return domain.Coordinates{}, fmt.Errorf("%q: out of range", s)
	}

	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}
