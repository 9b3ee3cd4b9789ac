package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

const maxCalendarUpload = 5 << 20

type CalendarHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
	}
}

// Create implements CalendarHandler.
func (h *calendarHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode holiday request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = middleware.CompanyID(r.Context())

	result, err := h.calendarService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

// List implements CalendarHandler.
func (h *calendarHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := calendar.HolidayFilter{
		StartDate:       optionalQuery(r, "start_date"),
		EndDate:         optionalQuery(r, "end_date"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
	}

	result, err := h.calendarService.List(r.Context(), middleware.CompanyID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Toggle implements CalendarHandler.
func (h *calendarHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.calendarService.ToggleActive(r.Context(), id, middleware.CompanyID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements CalendarHandler.
func (h *calendarHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.calendarService.Delete(r.Context(), id, middleware.CompanyID(r.Context())); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// Import implements CalendarHandler. The feed is either the "file" part of
// a multipart form or the raw text/calendar body.
func (h *calendarHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCalendarUpload)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxCalendarUpload); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "Calendar file is required", nil)
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.calendarService.ImportICS(r.Context(), middleware.CompanyID(r.Context()), body)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calendar imported", result)
}
