package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"tably/internal/reservations/service"
	apperrors "tably/pkg/errors"
	httputil "tably/pkg/http"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type ReservationHandler struct {
	service      service.ReservationService
	availability service.AvailabilityService
	log          *logger.Logger
}

func NewReservationHandler(
	service service.ReservationService,
	availability service.AvailabilityService,
	log *logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		service:      service,
		availability: availability,
		log:          log,
	}
}

type createResponse struct {
	Reservation *model.Reservation `json:"reservation"`
	ManageToken string             `json:"manage_token,omitempty"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	token, err := h.service.Create(r.Context(), &reservation)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, createResponse{
		Reservation: &reservation,
		ManageToken: token,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Cancel", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	if err := h.service.Cancel(r.Context(), id, req.Reason); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) MarkCompleted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkCompleted(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkCompleted", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) MarkNoShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkNoShow(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkNoShow", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) ListByRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("restaurant_id")
	query := r.URL.Query()

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var reservations []*model.Reservation
	var total int64
	if phone := query.Get("phone"); phone != "" {
		reservations, total, err = h.service.ListByCustomer(r.Context(), restaurantID, phone, limit, offset)
	} else {
		reservations, total, err = h.service.ListByDate(r.Context(), restaurantID, query.Get("date"), limit, offset)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByRestaurant", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	guestCount := 0
	if countStr := query.Get("guest_count"); countStr != "" {
		var err error
		guestCount, err = strconv.Atoi(countStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid guest_count parameter: %s", countStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	result, err := h.availability.Check(r.Context(), &service.AvailabilityRequest{
		RestaurantID: query.Get("restaurant_id"),
		Date:         query.Get("date"),
		StartTime:    query.Get("start_time"),
		GuestCount:   guestCount,
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CheckAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetByManageToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByManageToken(r.Context(), ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByManageToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByManageToken", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) UpdateByManageToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByManageToken(r.Context(), ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateByManageToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var updates model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateByManageToken", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), reservation.ID, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateByManageToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) CancelByManageToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByManageToken(r.Context(), ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelByManageToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req cancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "CancelByManageToken", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	if err := h.service.Cancel(r.Context(), reservation.ID, req.Reason); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelByManageToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Update)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.POST("/api/v1/reservations/id/:id/complete", h.MarkCompleted)
	router.POST("/api/v1/reservations/id/:id/no-show", h.MarkNoShow)
	router.GET("/api/v1/restaurants/:restaurant_id/reservations", h.ListByRestaurant)
	router.GET("/api/v1/availability", h.CheckAvailability)
	router.GET("/api/v1/manage/:token", h.GetByManageToken)
	router.PATCH("/api/v1/manage/:token", h.UpdateByManageToken)
	router.DELETE("/api/v1/manage/:token", h.CancelByManageToken)
}
