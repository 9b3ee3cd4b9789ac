package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type GracePeriodHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type gracePeriodHandlerImpl struct {
	gracePeriodService graceperiod.GracePeriodService
}

func NewGracePeriodHandler(gracePeriodService graceperiod.GracePeriodService) GracePeriodHandler {
	return &gracePeriodHandlerImpl{
		gracePeriodService: gracePeriodService,
	}
}

// Create implements GracePeriodHandler. An empty body takes the default minutes.
func (h *gracePeriodHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req graceperiod.CreateGracePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode grace period request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = middleware.CompanyID(r.Context())

	result, err := h.gracePeriodService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Grace period set", result)
}

// GetActive implements GracePeriodHandler.
func (h *gracePeriodHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.gracePeriodService.GetActive(r.Context(), middleware.CompanyID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements GracePeriodHandler.
func (h *gracePeriodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.gracePeriodService.List(r.Context(), middleware.CompanyID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
