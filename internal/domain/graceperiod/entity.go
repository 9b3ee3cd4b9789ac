package graceperiod

import "time"

// DefaultMinutes applies when a company configures a grace period without a value.
const DefaultMinutes = 10

type CompanyGracePeriod struct {
	ID                 string
	CompanyID          string
	GracePeriodMinutes int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
