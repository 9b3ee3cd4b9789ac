package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workSessionRepository struct {
	db *database.DB
}

func NewWorkSessionRepository(db *database.DB) attendance.WorkSessionRepository {
	return &workSessionRepository{db: db}
}

const workSessionSelect = `
	SELECT ws.id, ws.company_id, ws.employee_id, ws.shift_id, ws.date,
		   ws.punch_in, ws.punch_out, ws.actual_punch_in, ws.actual_punch_out,
		   ws.punch_in_source, ws.punch_out_source, ws.duration_minutes,
		   ws.early_minutes, ws.late_minutes, ws.deducted_minutes,
		   ws.created_at, ws.updated_at,
		   e.full_name, e.timezone
	FROM work_sessions ws
	JOIN employees e ON e.id = ws.employee_id
`

func scanWorkSession(row pgx.Row) (attendance.WorkSession, error) {
	var (
		s          attendance.WorkSession
		day        time.Time
		inSource   *string
		name, zone string
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.EmployeeID, &s.ShiftID, &day,
		&s.PunchIn, &s.PunchOut, &s.ActualPunchIn, &s.ActualPunchOut,
		&inSource, &s.PunchOutSource, &s.DurationMinutes,
		&s.EarlyMinutes, &s.LateMinutes, &s.DeductedMinutes,
		&s.CreatedAt, &s.UpdatedAt,
		&name, &zone,
	)
	if err != nil {
		return attendance.WorkSession{}, err
	}
	s.Date = clock.DateOf(day)
	if inSource != nil {
		s.PunchInSource = *inSource
	}
	s.EmployeeName = &name
	s.Timezone = &zone
	return s, nil
}

// GetByEmployeeAndDate implements attendance.WorkSessionRepository.
func (r *workSessionRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date clock.Date) (*attendance.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := workSessionSelect + ` WHERE ws.employee_id = $1 AND ws.date = $2`

	s, err := scanWorkSession(q.QueryRow(ctx, query, employeeID, date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work session by employee and date: %w", err)
	}
	return &s, nil
}

// GetByID implements attendance.WorkSessionRepository.
func (r *workSessionRepository) GetByID(ctx context.Context, id, companyID string) (attendance.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := workSessionSelect + ` WHERE ws.id = $1 AND ws.company_id = $2`

	s, err := scanWorkSession(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.WorkSession{}, attendance.ErrWorkSessionNotFound
		}
		return attendance.WorkSession{}, fmt.Errorf("failed to get work session: %w", err)
	}
	return s, nil
}

// Create implements attendance.WorkSessionRepository.
func (r *workSessionRepository) Create(ctx context.Context, session attendance.WorkSession) (attendance.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.WorkSession{}, err
	}

	query := `
		INSERT INTO work_sessions (
			id, company_id, employee_id, shift_id, date,
			punch_in, punch_out, actual_punch_in, actual_punch_out,
			punch_in_source, punch_out_source, duration_minutes,
			early_minutes, late_minutes, deducted_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id,
		session.CompanyID,
		session.EmployeeID,
		session.ShiftID,
		session.Date.Time(),
		session.PunchIn,
		session.PunchOut,
		session.ActualPunchIn,
		session.ActualPunchOut,
		session.PunchInSource,
		session.PunchOutSource,
		session.DurationMinutes,
		session.EarlyMinutes,
		session.LateMinutes,
		session.DeductedMinutes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.WorkSession{}, attendance.ErrWorkSessionExists
		}
		return attendance.WorkSession{}, fmt.Errorf("failed to create work session: %w", err)
	}

	return session, nil
}

// Update implements attendance.WorkSessionRepository.
func (r *workSessionRepository) Update(ctx context.Context, session attendance.WorkSession) (attendance.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_sessions SET
			shift_id = $3,
			punch_in = $4,
			punch_out = $5,
			actual_punch_in = $6,
			actual_punch_out = $7,
			punch_in_source = $8,
			punch_out_source = $9,
			duration_minutes = $10,
			early_minutes = $11,
			late_minutes = $12,
			deducted_minutes = $13,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.CompanyID,
		session.ShiftID,
		session.PunchIn,
		session.PunchOut,
		session.ActualPunchIn,
		session.ActualPunchOut,
		session.PunchInSource,
		session.PunchOutSource,
		session.DurationMinutes,
		session.EarlyMinutes,
		session.LateMinutes,
		session.DeductedMinutes,
	).Scan(&session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.WorkSession{}, attendance.ErrWorkSessionNotFound
		}
		return attendance.WorkSession{}, fmt.Errorf("failed to update work session: %w", err)
	}

	return session, nil
}

// PunchOut implements attendance.WorkSessionRepository.
func (r *workSessionRepository) PunchOut(ctx context.Context, session attendance.WorkSession) (attendance.WorkSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_sessions SET
			punch_in = $3,
			punch_out = $4,
			actual_punch_out = $5,
			punch_out_source = $6,
			duration_minutes = $7,
			early_minutes = $8,
			late_minutes = $9,
			deducted_minutes = $10,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND actual_punch_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		session.ID,
		session.CompanyID,
		session.PunchIn,
		session.PunchOut,
		session.ActualPunchOut,
		session.PunchOutSource,
		session.DurationMinutes,
		session.EarlyMinutes,
		session.LateMinutes,
		session.DeductedMinutes,
	)
	if err != nil {
		return attendance.WorkSession{}, fmt.Errorf("failed to punch out work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, session.ID, session.CompanyID); err != nil {
			return attendance.WorkSession{}, err
		}
		return attendance.WorkSession{}, attendance.ErrSessionCompleted
	}

	return r.GetByID(ctx, session.ID, session.CompanyID)
}

// Delete implements attendance.WorkSessionRepository. Overtime rows go with
// the session through ON DELETE CASCADE.
func (r *workSessionRepository) Delete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_sessions WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrWorkSessionNotFound
	}
	return nil
}

// List implements attendance.WorkSessionRepository.
func (r *workSessionRepository) List(ctx context.Context, companyID string, filter attendance.WorkSessionFilter) ([]attendance.WorkSession, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"ws.company_id = $1"}
	args := []any{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("ws.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if start, ok := dateArg(filter.StartDate); ok {
		conditions = append(conditions, fmt.Sprintf("ws.date >= $%d", argIdx))
		args = append(args, start)
		argIdx++
	}
	if end, ok := dateArg(filter.EndDate); ok {
		conditions = append(conditions, fmt.Sprintf("ws.date <= $%d", argIdx))
		args = append(args, end)
		argIdx++
	}
	baseWhere := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM work_sessions ws WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work sessions: %w", err)
	}

	dir := sortDirection(filter.SortOrder)
	query := fmt.Sprintf("%s WHERE %s ORDER BY ws.date %s, ws.actual_punch_in %s", workSessionSelect, baseWhere, dir, dir)
	if filter.Limit > 0 {
		pageNum := max(filter.Page, 1)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (pageNum-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.WorkSession
	for rows.Next() {
		s, err := scanWorkSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, total, rows.Err()
}
