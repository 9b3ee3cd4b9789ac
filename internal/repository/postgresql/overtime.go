package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

const overtimeSelect = `
	SELECT o.id, o.company_id, o.employee_id, o.work_session_id, o.date, o.type, o.status,
		   o.punch_in, o.punch_out, o.duration_minutes, o.source, o.notes, o.created_at, o.updated_at,
		   e.full_name, e.timezone
	FROM overtime_records o
	JOIN employees e ON e.id = o.employee_id
`

func scanOvertime(row pgx.Row) (overtime.Record, error) {
	var (
		rec        overtime.Record
		day        time.Time
		name, zone string
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.WorkSessionID, &day, &rec.Type, &rec.Status,
		&rec.PunchIn, &rec.PunchOut, &rec.DurationMinutes, &rec.Source, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&name, &zone,
	)
	if err != nil {
		return overtime.Record{}, err
	}
	rec.Date = clock.DateOf(day)
	rec.EmployeeName = &name
	rec.Timezone = &zone
	return rec, nil
}

// ExistsByEmployeeDateType implements overtime.OvertimeRepository.
func (r *overtimeRepository) ExistsByEmployeeDateType(ctx context.Context, employeeID string, date clock.Date, overtimeType overtime.Type) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM overtime_records WHERE employee_id = $1 AND date = $2 AND type = $3
		)
	`, employeeID, date.Time(), overtimeType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overtime record: %w", err)
	}
	return exists, nil
}

// GetByEmployeeDateType implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetByEmployeeDateType(ctx context.Context, employeeID string, date clock.Date, overtimeType overtime.Type) (*overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := overtimeSelect + ` WHERE o.employee_id = $1 AND o.date = $2 AND o.type = $3`

	rec, err := scanOvertime(q.QueryRow(ctx, query, employeeID, date.Time(), overtimeType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overtime record: %w", err)
	}
	return &rec, nil
}

// Create implements overtime.OvertimeRepository.
func (r *overtimeRepository) Create(ctx context.Context, record overtime.Record) (overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return overtime.Record{}, err
	}
	if record.Source == "" {
		record.Source = overtime.SourceSystem
	}

	query := `
		INSERT INTO overtime_records (
			id, company_id, employee_id, work_session_id, date, type, status,
			punch_in, punch_out, duration_minutes, source, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id,
		record.CompanyID,
		record.EmployeeID,
		record.WorkSessionID,
		record.Date.Time(),
		record.Type,
		record.Status,
		record.PunchIn,
		record.PunchOut,
		record.DurationMinutes,
		record.Source,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return overtime.Record{}, overtime.ErrOvertimeExists
		}
		return overtime.Record{}, fmt.Errorf("failed to create overtime record: %w", err)
	}

	return record, nil
}

// Close implements overtime.OvertimeRepository.
func (r *overtimeRepository) Close(ctx context.Context, record overtime.Record) (overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		UPDATE overtime_records
		SET punch_out = $2, duration_minutes = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND punch_out IS NULL
		RETURNING updated_at
	`, record.ID, record.PunchOut, record.DurationMinutes, record.Status).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.GetByID(ctx, record.ID, record.CompanyID); err != nil {
				return overtime.Record{}, err
			}
			return overtime.Record{}, overtime.ErrOvertimeClosed
		}
		return overtime.Record{}, fmt.Errorf("failed to close overtime record: %w", err)
	}
	return record, nil
}

// GetByID implements overtime.OvertimeRepository.
func (r *overtimeRepository) GetByID(ctx context.Context, id, companyID string) (overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := overtimeSelect + ` WHERE o.id = $1 AND o.company_id = $2`

	rec, err := scanOvertime(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Record{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Record{}, fmt.Errorf("failed to get overtime record: %w", err)
	}
	return rec, nil
}

// Update implements overtime.OvertimeRepository.
func (r *overtimeRepository) Update(ctx context.Context, record overtime.Record) (overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE overtime_records SET
			type = $3,
			punch_in = $4,
			punch_out = $5,
			duration_minutes = $6,
			notes = $7,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, record.ID, record.CompanyID, record.Type, record.PunchIn, record.PunchOut, record.DurationMinutes, record.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return overtime.Record{}, overtime.ErrOvertimeExists
		}
		return overtime.Record{}, fmt.Errorf("failed to update overtime record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	return r.GetByID(ctx, record.ID, record.CompanyID)
}

// UpdateStatus implements overtime.OvertimeRepository.
func (r *overtimeRepository) UpdateStatus(ctx context.Context, id, companyID string, status overtime.Status, notes *string) (overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE overtime_records SET status = $3, notes = COALESCE($4, notes), updated_at = NOW()
		WHERE id = $1 AND company_id = $2
	`, id, companyID, status, notes)
	if err != nil {
		return overtime.Record{}, fmt.Errorf("failed to update overtime status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	return r.GetByID(ctx, id, companyID)
}

// Delete implements overtime.OvertimeRepository.
func (r *overtimeRepository) Delete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM overtime_records WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete overtime record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

// DeleteByWorkSession implements overtime.OvertimeRepository.
func (r *overtimeRepository) DeleteByWorkSession(ctx context.Context, workSessionID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM overtime_records WHERE work_session_id = $1`, workSessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session overtime: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByWorkSession implements overtime.OvertimeRepository.
func (r *overtimeRepository) ListByWorkSession(ctx context.Context, workSessionID string) ([]overtime.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, overtimeSelect+` WHERE o.work_session_id = $1 ORDER BY o.punch_in ASC`, workSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session overtime: %w", err)
	}
	defer rows.Close()

	return collectOvertime(rows)
}

// overtimeWhere builds the shared filter clause for List and Summarize.
func overtimeWhere(companyID string, filter overtime.OvertimeFilter) (string, []any) {
	conditions := []string{"o.company_id = $1"}
	args := []any{companyID}
	argIdx := 2

	add := func(cond string, v any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, v)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("o.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Type != nil && *filter.Type != "" {
		add("o.type = $%d", *filter.Type)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("o.status = $%d", *filter.Status)
	}
	if start, ok := dateArg(filter.StartDate); ok {
		add("o.date >= $%d", start)
	}
	if end, ok := dateArg(filter.EndDate); ok {
		add("o.date <= $%d", end)
	}

	return strings.Join(conditions, " AND "), args
}

// List implements overtime.OvertimeRepository.
func (r *overtimeRepository) List(ctx context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args := overtimeWhere(companyID, filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM overtime_records o WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime records: %w", err)
	}

	dir := sortDirection(filter.SortOrder)
	query := fmt.Sprintf("%s WHERE %s ORDER BY o.date %s, o.punch_in %s", overtimeSelect, baseWhere, dir, dir)
	if filter.Limit > 0 {
		pageNum := max(filter.Page, 1)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, (pageNum-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime records: %w", err)
	}
	defer rows.Close()

	records, err := collectOvertime(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Summarize implements overtime.OvertimeRepository. Open records carry no
// duration and are left out.
func (r *overtimeRepository) Summarize(ctx context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.TypeSummary, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args := overtimeWhere(companyID, filter)
	query := `
		SELECT o.type, o.status, COUNT(*), COALESCE(SUM(o.duration_minutes), 0)
		FROM overtime_records o
		WHERE ` + baseWhere + ` AND o.duration_minutes IS NOT NULL
		GROUP BY o.type, o.status
		ORDER BY o.type, o.status
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize overtime: %w", err)
	}
	defer rows.Close()

	var out []overtime.TypeSummary
	for rows.Next() {
		var s overtime.TypeSummary
		if err := rows.Scan(&s.Type, &s.Status, &s.Count, &s.TotalMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan overtime summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func collectOvertime(rows pgx.Rows) ([]overtime.Record, error) {
	var records []overtime.Record
	for rows.Next() {
		rec, err := scanOvertime(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
