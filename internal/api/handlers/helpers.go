package handlers

import (
	"encoding/json"
	"errors"
	"friend-locator-service/internal/directions"
	"friend-locator-service/internal/platform/obs"
	"friend-locator-service/internal/polyline"
	"friend-locator-service/internal/ports"
	"friend-locator-service/internal/services"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps service and upstream failures to a response status and a
// message safe to show clients.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ports.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, services.ErrLocationUnknown):
		return http.StatusConflict, "location unknown"
	case errors.Is(err, directions.ErrProviderStatus),
		errors.Is(err, directions.ErrMalformedResponse),
		errors.Is(err, polyline.ErrMalformedPolyline):
		return http.StatusBadGateway, "directions provider returned an unusable response"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error(op+" failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeError(w, r, status, msg)
}
