package overtime

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OvertimeResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    *string          `json:"employee_name,omitempty"`
	WorkSessionID   *string          `json:"work_session_id,omitempty"`
	Date            string           `json:"date"`
	Type            string           `json:"type"`
	Status          string           `json:"status"`
	PunchIn         string           `json:"punch_in"`
	PunchOut        *string          `json:"punch_out,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	DurationHours   *decimal.Decimal `json:"duration_hours,omitempty"`
	Source          string           `json:"source"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// NewOvertimeResponse renders r with timestamps in loc.
func NewOvertimeResponse(r Record, loc *time.Location) OvertimeResponse {
	resp := OvertimeResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		WorkSessionID:   r.WorkSessionID,
		Date:            r.Date.String(),
		Type:            string(r.Type),
		Status:          string(r.Status),
		PunchIn:         r.PunchIn.In(loc).Format(time.RFC3339),
		DurationMinutes: r.DurationMinutes,
		Source:          r.Source,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.In(loc).Format(time.RFC3339),
	}
	if r.PunchOut != nil {
		out := r.PunchOut.In(loc).Format(time.RFC3339)
		resp.PunchOut = &out
	}
	if r.DurationMinutes != nil {
		hours := MinutesToHours(int64(*r.DurationMinutes))
		resp.DurationHours = &hours
	}
	return resp
}

// MinutesToHours converts minutes to hours rounded to two decimals.
func MinutesToHours(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

type OvertimeFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *OvertimeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Type != nil && !validator.IsInSlice(*f.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(TypeValues, ", "),
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListOvertimeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Records    []OvertimeResponse `json:"records"`
}

type UpdateStatusRequest struct {
	ID        string  `json:"-"`
	CompanyID string  `json:"-"`
	Status    string  `json:"status" validate:"required,oneof=APPROVED REJECTED PAID"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r)
}

// CreateOvertimeRequest enters a closed record by hand. Punch times may be
// RFC3339 or local wall-clock values read in the employee's time zone.
type CreateOvertimeRequest struct {
	CompanyID  string  `json:"-" validate:"required"`
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Type       string  `json:"type" validate:"required,oneof=UNSCHEDULED EARLY_ARRIVAL LATE_DEPARTURE EXTENDED_SHIFT HOLIDAY_WORK REST_DAY_WORK"`
	PunchIn    string  `json:"punch_in" validate:"required"`
	PunchOut   string  `json:"punch_out" validate:"required"`
	Notes      *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *CreateOvertimeRequest) Validate() error {
	return validator.Struct(r)
}

// UpdateOvertimeRequest changes the fields that are set and keeps the rest.
type UpdateOvertimeRequest struct {
	ID        string  `json:"-" validate:"required"`
	CompanyID string  `json:"-" validate:"required"`
	Type      *string `json:"type" validate:"omitempty,oneof=UNSCHEDULED EARLY_ARRIVAL LATE_DEPARTURE EXTENDED_SHIFT HOLIDAY_WORK REST_DAY_WORK"`
	PunchIn   *string `json:"punch_in"`
	PunchOut  *string `json:"punch_out"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *UpdateOvertimeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Type == nil && r.PunchIn == nil && r.PunchOut == nil && r.Notes == nil {
		return validator.ValidationErrors{{Field: "body", Message: "at least one of type, punch_in, punch_out or notes is required"}}
	}
	return nil
}

// TypeSummary aggregates closed records of one type and status.
type TypeSummary struct {
	Type         Type
	Status       Status
	Count        int64
	TotalMinutes int64
}

type SummaryLine struct {
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Count        int64           `json:"count"`
	TotalMinutes int64           `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

type SummaryResponse struct {
	Lines        []SummaryLine   `json:"lines"`
	TotalMinutes int64           `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}
