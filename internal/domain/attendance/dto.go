package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type Direction string

const (
	DirectionAuto Direction = ""
	DirectionIn   Direction = "IN"
	DirectionOut  Direction = "OUT"
)

// PunchRequest is either a device punch (CheckTime) or a manual entry
// (PunchIn and/or PunchOut). Timestamps may be RFC3339 or local wall-clock
// values, which are read in the employee's time zone.
type PunchRequest struct {
	CompanyID      string `json:"-" validate:"required"`
	EmployeeID     string `json:"employee_id" validate:"required_without=DeviceUserID"`
	DeviceUserID   string `json:"device_user_id"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	CheckTime      string `json:"check_time"`
	CheckType      string `json:"check_type" validate:"omitempty,oneof=IN OUT"`
	DeviceIP       string `json:"device_ip"`
	PunchIn        string `json:"punch_in"`
	PunchInSource  string `json:"punch_in_source"`
	PunchOut       string `json:"punch_out"`
	PunchOutSource string `json:"punch_out_source"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	hasManual := r.PunchIn != "" || r.PunchOut != ""
	switch {
	case r.CheckTime == "" && !hasManual:
		errs = append(errs, validator.ValidationError{
			Field:   "check_time",
			Message: "check_time or punch_in/punch_out is required",
		})
	case r.CheckTime != "" && hasManual:
		errs = append(errs, validator.ValidationError{
			Field:   "check_time",
			Message: "check_time cannot be combined with punch_in/punch_out",
		})
	}

	if r.CheckType != "" && r.CheckTime == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "check_type",
			Message: "check_type is only allowed with check_time",
		})
	}

	errs = append(errs, timestampErrors(map[string]string{
		"check_time": r.CheckTime,
		"punch_in":   r.PunchIn,
		"punch_out":  r.PunchOut,
	})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsManualPair reports whether the request carries both punches at once.
func (r PunchRequest) IsManualPair() bool {
	return r.PunchIn != "" && r.PunchOut != ""
}

// Direction is the explicit direction of a single-punch request, if any.
func (r PunchRequest) Direction() Direction {
	switch {
	case r.CheckTime != "":
		return Direction(r.CheckType)
	case r.PunchIn != "" && r.PunchOut == "":
		return DirectionIn
	case r.PunchOut != "" && r.PunchIn == "":
		return DirectionOut
	}
	return DirectionAuto
}

// SingleTime is the raw timestamp of a single-punch request.
func (r PunchRequest) SingleTime() string {
	switch {
	case r.CheckTime != "":
		return r.CheckTime
	case r.PunchIn != "":
		return r.PunchIn
	}
	return r.PunchOut
}

// SingleSource is the source recorded for a single-punch request.
func (r PunchRequest) SingleSource() string {
	switch {
	case r.CheckTime != "":
		if r.DeviceIP != "" {
			return SourceDevice
		}
		return SourceManual
	case r.PunchIn != "":
		return sourceOrManual(r.PunchInSource)
	}
	return sourceOrManual(r.PunchOutSource)
}

func sourceOrManual(s string) string {
	if strings.TrimSpace(s) == "" {
		return SourceManual
	}
	return s
}

// timestampErrors checks syntax only; the zone is applied once the employee is known.
func timestampErrors(fields map[string]string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	probe := clock.New(time.UTC)
	for _, field := range []string{"check_time", "punch_in", "punch_out"} {
		value, ok := fields[field]
		if !ok || value == "" {
			continue
		}
		if _, err := clock.ParseInstant(probe, value); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be RFC3339 or YYYY-MM-DD HH:MM[:SS]",
			})
		}
	}
	return errs
}

type BulkPunchRequest struct {
	CompanyID string         `json:"-" validate:"required"`
	Records   []PunchRequest `json:"attendance_records" validate:"required,min=1"`
}

func (r *BulkPunchRequest) Validate() error {
	return validator.Struct(r)
}

type ReclassifyRequest struct {
	ID             string `json:"-" validate:"required"`
	CompanyID      string `json:"-" validate:"required"`
	PunchIn        string `json:"punch_in"`
	PunchInSource  string `json:"punch_in_source"`
	PunchOut       string `json:"punch_out"`
	PunchOutSource string `json:"punch_out_source"`
}

func (r *ReclassifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	if r.PunchIn == "" && r.PunchOut == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_in",
			Message: "punch_in or punch_out is required",
		})
	}

	errs = append(errs, timestampErrors(map[string]string{
		"punch_in":  r.PunchIn,
		"punch_out": r.PunchOut,
	})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResultKind string

const (
	ResultWorkSession  ResultKind = "work_session"
	ResultOvertimeOnly ResultKind = "overtime_only"
)

type PunchAction string

const (
	ActionPunchIn    PunchAction = "punch_in"
	ActionPunchOut   PunchAction = "punch_out"
	ActionManual     PunchAction = "manual"
	ActionReclassify PunchAction = "reclassify"
)

// PunchResult carries the session touched by a punch and the overtime records it created or closed.
// Overnight is set when the scheduled end falls on the day after the work date.
type PunchResult struct {
	Kind        ResultKind                  `json:"kind"`
	Action      PunchAction                 `json:"action"`
	DayKind     calendar.DayKind            `json:"day_kind"`
	EmployeeID  string                      `json:"employee_id"`
	Date        string                      `json:"date"`
	Overnight   bool                        `json:"overnight"`
	WorkSession *WorkSessionResponse        `json:"work_session,omitempty"`
	Overtime    []overtime.OvertimeResponse `json:"overtime"`
}

type BulkSuccess struct {
	Index  int         `json:"index"`
	Result PunchResult `json:"result"`
}

type BulkFailure struct {
	Index        int    `json:"index"`
	EmployeeID   string `json:"employee_id,omitempty"`
	DeviceUserID string `json:"device_user_id,omitempty"`
	Date         string `json:"date,omitempty"`
	Error        string `json:"error"`
}

type BulkPunchResult struct {
	TotalRecords      int           `json:"total_records"`
	SuccessfulRecords int           `json:"successful_records"`
	FailedRecords     int           `json:"failed_records"`
	Successes         []BulkSuccess `json:"successes"`
	Failures          []BulkFailure `json:"failures"`
}

// ========================================
// WORK SESSION DTOs
// ========================================

type WorkSessionResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	ShiftID         *string `json:"shift_id,omitempty"`
	Date            string  `json:"date"`
	State           string  `json:"state"`
	PunchIn         string  `json:"punch_in"`
	PunchOut        *string `json:"punch_out,omitempty"`
	ActualPunchIn   string  `json:"actual_punch_in"`
	ActualPunchOut  *string `json:"actual_punch_out,omitempty"`
	PunchInSource   string  `json:"punch_in_source"`
	PunchOutSource  *string `json:"punch_out_source,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	EarlyMinutes    int     `json:"early_minutes"`
	LateMinutes     int     `json:"late_minutes"`
	DeductedMinutes int     `json:"deducted_minutes"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`

	// Overtime lists the records derived from the session. Only filled on single reads.
	Overtime []overtime.OvertimeResponse `json:"overtime,omitempty"`
}

type WorkSessionFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *WorkSessionFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
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
		f.SortOrder = "desc" // Newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListWorkSessionResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Sessions   []WorkSessionResponse `json:"sessions"`
}
