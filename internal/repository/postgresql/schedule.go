package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetActiveEmployeeShift implements schedule.ShiftRepository.
// When ranges overlap the assignment that started last wins.
func (r *shiftRepository) GetActiveEmployeeShift(ctx context.Context, employeeID string, date clock.Date) (*schedule.EmployeeShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT es.id, es.employee_id, es.shift_id, es.start_date, es.end_date, es.is_active,
			   s.id, s.company_id, s.name, s.shift_type, s.cycle_days, s.created_at, s.updated_at
		FROM employee_shifts es
		JOIN shifts s ON s.id = es.shift_id
		WHERE es.employee_id = $1
		  AND es.is_active
		  AND es.start_date <= $2
		  AND (es.end_date IS NULL OR es.end_date >= $2)
		ORDER BY es.start_date DESC
		LIMIT 1
	`

	var (
		es        schedule.EmployeeShift
		startDate time.Time
		endDate   *time.Time
	)
	err := q.QueryRow(ctx, query, employeeID, date.Time()).Scan(
		&es.ID, &es.EmployeeID, &es.ShiftID, &startDate, &endDate, &es.IsActive,
		&es.Shift.ID, &es.Shift.CompanyID, &es.Shift.Name, &es.Shift.Type, &es.Shift.CycleDays,
		&es.Shift.CreatedAt, &es.Shift.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee shift: %w", err)
	}

	es.StartDate = clock.DateOf(startDate)
	es.EndDate = datePtr(endDate)
	return &es, nil
}

// GetShiftDay implements schedule.ShiftRepository.
func (r *shiftRepository) GetShiftDay(ctx context.Context, shiftID string, dayNumber int) (*schedule.ShiftDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, day_number, day_type, start_time, end_time, break_minutes, grace_period_minutes
		FROM shift_days
		WHERE shift_id = $1 AND day_number = $2
	`

	var (
		day        schedule.ShiftDay
		start, end pgtype.Time
	)
	err := q.QueryRow(ctx, query, shiftID, dayNumber).Scan(
		&day.ID, &day.ShiftID, &day.DayNumber, &day.DayType, &start, &end,
		&day.BreakMinutes, &day.GracePeriodMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift day: %w", err)
	}

	day.StartTime = timeOfDayFromPG(start)
	day.EndTime = timeOfDayFromPG(end)
	return &day, nil
}

// GetRotatingAssignment implements schedule.ShiftRepository.
func (r *shiftRepository) GetRotatingAssignment(ctx context.Context, employeeID string, date clock.Date) (*schedule.RotatingAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ra.id, ra.employee_id, ra.date, ra.shift_type_id, ra.hours,
			   rst.id, rst.company_id, rst.name, rst.start_time, rst.end_time, rst.break_minutes
		FROM rotating_assignments ra
		LEFT JOIN rotating_shift_types rst ON rst.id = ra.shift_type_id
		WHERE ra.employee_id = $1 AND ra.date = $2
	`

	var (
		a            schedule.RotatingAssignment
		day          time.Time
		hours        pgtype.Numeric
		typeID       *string
		typeCompany  *string
		typeName     *string
		start, end   pgtype.Time
		breakMinutes *int
	)
	err := q.QueryRow(ctx, query, employeeID, date.Time()).Scan(
		&a.ID, &a.EmployeeID, &day, &a.ShiftTypeID, &hours,
		&typeID, &typeCompany, &typeName, &start, &end, &breakMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rotating assignment: %w", err)
	}

	a.Date = clock.DateOf(day)
	a.Hours = decimalFromPG(hours)
	if typeID != nil {
		a.ShiftType = &schedule.RotatingShiftType{
			ID:        *typeID,
			CompanyID: *typeCompany,
			Name:      *typeName,
			StartTime: timeOfDayFromPG(start),
			EndTime:   timeOfDayFromPG(end),
		}
		if breakMinutes != nil {
			a.ShiftType.BreakMinutes = *breakMinutes
		}
	}
	return &a, nil
}
