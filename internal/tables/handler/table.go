package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tably/internal/tables/service"
	httputil "tably/pkg/http"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type TableHandler struct {
	service service.TableService
	log     *logger.Logger
}

func NewTableHandler(service service.TableService, log *logger.Logger) *TableHandler {
	return &TableHandler{
		service: service,
		log:     log,
	}
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var table model.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &table); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, table); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TableHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	table, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, table); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TableHandler) ListByRestaurant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	restaurantID := ps.ByName("restaurant_id")

	tables, err := h.service.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByRestaurant", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, tables); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByRestaurant", "operation", "WriteSuccess", "error", err)
	}
}

type statusRequest struct {
	Status model.TableStatus `json:"status"`
}

func (h *TableHandler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetStatus(r.Context(), id, req.Status); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TableHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/tables", h.Create)
	router.GET("/api/v1/tables/id/:id", h.GetByID)
	router.PATCH("/api/v1/tables/id/:id/status", h.SetStatus)
	router.GET("/api/v1/restaurants/:restaurant_id/tables", h.ListByRestaurant)
}
