package employee

import "time"

type Employee struct {
	ID           string
	CompanyID    string
	DeviceUserID string
	FullName     string
	Timezone     string // IANA zone used for the employee's local dates
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
