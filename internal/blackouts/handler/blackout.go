package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tably/internal/blackouts/service"
	httputil "tably/pkg/http"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type BlackoutHandler struct {
	service service.BlackoutService
	log     *logger.Logger
}

func NewBlackoutHandler(service service.BlackoutService, log *logger.Logger) *BlackoutHandler {
	return &BlackoutHandler{
		service: service,
		log:     log,
	}
}

func (h *BlackoutHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var blackout model.BlackoutDate
	if err := json.NewDecoder(r.Body).Decode(&blackout); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	blackout.RestaurantID = ps.ByName("restaurant_id")

	if err := h.service.Create(r.Context(), &blackout); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, blackout); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlackoutHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("restaurant_id")
	date := ps.ByName("date")

	if err := h.service.Delete(r.Context(), restaurantID, date); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlackoutHandler) ListByRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("restaurant_id")

	blackouts, err := h.service.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, blackouts); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRestaurant", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlackoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/restaurants/:restaurant_id/blackouts", h.Create)
	router.GET("/api/v1/restaurants/:restaurant_id/blackouts", h.ListByRestaurant)
	router.DELETE("/api/v1/restaurants/:restaurant_id/blackouts/:date", h.Delete)
}
