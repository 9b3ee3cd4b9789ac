package graceperiod

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"

type CreateGracePeriodRequest struct {
	CompanyID          string `json:"-"`
	GracePeriodMinutes *int   `json:"grace_period_minutes" validate:"omitempty,gte=0,lte=720"`
}

func (r *CreateGracePeriodRequest) Validate() error {
	return validator.Struct(r)
}

// Minutes returns the requested value or DefaultMinutes.
func (r CreateGracePeriodRequest) Minutes() int {
	if r.GracePeriodMinutes == nil {
		return DefaultMinutes
	}
	return *r.GracePeriodMinutes
}

type GracePeriodResponse struct {
	ID                 string `json:"id"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
