package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tably/internal/waitlist/service"
	httputil "tably/pkg/http"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type WaitlistHandler struct {
	service service.WaitlistService
	log     *logger.Logger
}

func NewWaitlistHandler(service service.WaitlistService, log *logger.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		service: service,
		log:     log,
	}
}

type joinResponse struct {
	Entry    *model.WaitlistEntry `json:"entry"`
	Position int64                `json:"position"`
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry model.WaitlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Join", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	entry.RestaurantID = ps.ByName("restaurant_id")

	position, err := h.service.Join(r.Context(), &entry)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Join", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, joinResponse{
		Entry:    &entry,
		Position: position,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Join", "operation", "WriteCreated", "error", err)
	}
}

func (h *WaitlistHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entry, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entry); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WaitlistHandler) Position(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	position, err := h.service.Position(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Position", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"position": position}); err != nil {
		h.log.Error("failed to write success response", "handler", "Position", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WaitlistHandler) ListByRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	entries, total, err := h.service.ListByRestaurant(r.Context(), ps.ByName("restaurant_id"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, entries, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByRestaurant", "operation", "WritePaginated", "error", err)
	}
}

func (h *WaitlistHandler) MarkConverted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkConverted(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkConverted", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WaitlistHandler) MarkExpired(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkExpired(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkExpired", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WaitlistHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/restaurants/:restaurant_id/waitlist", h.Join)
	router.GET("/api/v1/restaurants/:restaurant_id/waitlist", h.ListByRestaurant)
	router.GET("/api/v1/waitlist/id/:id", h.GetByID)
	router.GET("/api/v1/waitlist/id/:id/position", h.Position)
	router.POST("/api/v1/waitlist/id/:id/convert", h.MarkConverted)
	router.POST("/api/v1/waitlist/id/:id/expire", h.MarkExpired)
}
