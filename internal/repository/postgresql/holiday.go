package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

const holidayColumns = `id, company_id, date, day_type, title, is_active, created_at, updated_at`

func scanHoliday(row pgx.Row) (calendar.HolidayEntry, error) {
	var (
		e   calendar.HolidayEntry
		day time.Time
	)
	if err := row.Scan(&e.ID, &e.CompanyID, &day, &e.DayType, &e.Title, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return calendar.HolidayEntry{}, err
	}
	e.Date = clock.DateOf(day)
	return e, nil
}

// GetActiveByDate implements calendar.HolidayRepository.
func (r *holidayRepository) GetActiveByDate(ctx context.Context, companyID string, date clock.Date) (*calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + ` FROM holiday_calendar WHERE company_id = $1 AND date = $2 AND is_active`

	e, err := scanHoliday(q.QueryRow(ctx, query, companyID, date.Time()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get holiday: %w", err)
	}
	return &e, nil
}

// Create implements calendar.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, entry calendar.HolidayEntry) (calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return calendar.HolidayEntry{}, err
	}

	query := `
		INSERT INTO holiday_calendar (id, company_id, date, day_type, title, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query,
		id, entry.CompanyID, entry.Date.Time(), entry.DayType, entry.Title, entry.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return calendar.HolidayEntry{}, calendar.ErrHolidayExists
		}
		return calendar.HolidayEntry{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// Upsert implements calendar.HolidayRepository. xmax is zero only for a row
// the statement inserted.
func (r *holidayRepository) Upsert(ctx context.Context, entry calendar.HolidayEntry) (calendar.HolidayEntry, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return calendar.HolidayEntry{}, false, err
	}

	query := `
		INSERT INTO holiday_calendar (id, company_id, date, day_type, title, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (company_id, date) DO UPDATE
		SET title = EXCLUDED.title, is_active = TRUE, updated_at = NOW()
		RETURNING ` + holidayColumns + `, (xmax = 0)`

	var (
		e        calendar.HolidayEntry
		day      time.Time
		inserted bool
	)
	err = q.QueryRow(ctx, query, id, entry.CompanyID, entry.Date.Time(), entry.DayType, entry.Title).Scan(
		&e.ID, &e.CompanyID, &day, &e.DayType, &e.Title, &e.IsActive, &e.CreatedAt, &e.UpdatedAt, &inserted,
	)
	if err != nil {
		return calendar.HolidayEntry{}, false, fmt.Errorf("failed to upsert holiday: %w", err)
	}
	e.Date = clock.DateOf(day)
	return e, inserted, nil
}

// GetByID implements calendar.HolidayRepository.
func (r *holidayRepository) GetByID(ctx context.Context, id, companyID string) (calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + holidayColumns + ` FROM holiday_calendar WHERE id = $1 AND company_id = $2`

	e, err := scanHoliday(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.HolidayEntry{}, calendar.ErrHolidayNotFound
		}
		return calendar.HolidayEntry{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return e, nil
}

// List implements calendar.HolidayRepository.
func (r *holidayRepository) List(ctx context.Context, companyID string, filter calendar.HolidayFilter) ([]calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []any{companyID}
	argIdx := 2

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active")
	}
	if start, ok := dateArg(filter.StartDate); ok {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, start)
		argIdx++
	}
	if end, ok := dateArg(filter.EndDate); ok {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIdx))
		args = append(args, end)
	}

	query := `SELECT ` + holidayColumns + ` FROM holiday_calendar WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var entries []calendar.HolidayEntry
	for rows.Next() {
		e, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetActive implements calendar.HolidayRepository.
func (r *holidayRepository) SetActive(ctx context.Context, id, companyID string, active bool) (calendar.HolidayEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holiday_calendar SET is_active = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + holidayColumns

	e, err := scanHoliday(q.QueryRow(ctx, query, id, companyID, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.HolidayEntry{}, calendar.ErrHolidayNotFound
		}
		return calendar.HolidayEntry{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return e, nil
}

// Delete implements calendar.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holiday_calendar WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}
