package calendar

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	CompanyID string `json:"-"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Title     string `json:"title" validate:"required,max=255"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validator.Struct(r)
}

type HolidayFilter struct {
	StartDate       *string `json:"start_date,omitempty"`
	EndDate         *string `json:"end_date,omitempty"`
	IncludeInactive bool    `json:"include_inactive"`
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

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

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	DayType   string `json:"day_type"`
	Title     string `json:"title"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
