// Package events publishes overtime lifecycle notifications for downstream
// consumers such as payroll exports.
package events

import (
	"context"
	"time"
)

const (
	TypeOvertimeCreated       = "overtime.created"
	TypeOvertimeStatusChanged = "overtime.status_changed"
	TypeOvertimeUpdated       = "overtime.updated"
)

type Event struct {
	Type       string    `json:"type"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
