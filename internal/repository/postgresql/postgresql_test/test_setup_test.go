package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// TestDatabaseSetup holds a migrated connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := database.Migrate(dsn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row the repositories write.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"overtime_records",
		"work_sessions",
		"holiday_calendar",
		"company_grace_periods",
		"employee_shifts",
		"rotating_assignments",
		"rotating_shift_types",
		"shift_days",
		"shifts",
		"employees",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateEmployee inserts an employee and returns its id.
func (s *TestDatabaseSetup) CreateEmployee(ctx context.Context, companyID, deviceUserID, name, timezone string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, device_user_id, full_name, timezone)
		VALUES ($1, $2, $3, $4, $5)
	`, id, companyID, deviceUserID, name, timezone)
	return id, err
}

// CreateFixedShift inserts a FIXED_WEEKLY shift with the same window Monday
// to Friday and rest days on the weekend, assigned to employeeID from startDate.
func (s *TestDatabaseSetup) CreateFixedShift(ctx context.Context, companyID, employeeID, startDate string) (string, error) {
	shiftID := uuid.NewString()
	if _, err := s.DB.Exec(ctx, `
		INSERT INTO shifts (id, company_id, name, shift_type, cycle_days)
		VALUES ($1, $2, 'Office', 'FIXED_WEEKLY', 7)
	`, shiftID, companyID); err != nil {
		return "", err
	}

	for day := 1; day <= 7; day++ {
		dayType := "FULL_DAY"
		if day >= 6 {
			dayType = "REST_DAY"
		}
		if _, err := s.DB.Exec(ctx, `
			INSERT INTO shift_days (id, shift_id, day_number, day_type, start_time, end_time, break_minutes, grace_period_minutes)
			VALUES ($1, $2, $3, $4, '08:00', '17:00', 60, 15)
		`, uuid.NewString(), shiftID, day, dayType); err != nil {
			return "", err
		}
	}

	_, err := s.DB.Exec(ctx, `
		INSERT INTO employee_shifts (id, employee_id, shift_id, start_date)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), employeeID, shiftID, startDate)
	return shiftID, err
}

// CreateRotatingAssignment inserts a shift type and places employeeID on it for date.
func (s *TestDatabaseSetup) CreateRotatingAssignment(ctx context.Context, companyID, employeeID, date, start, end string, hours string) error {
	typeID := uuid.NewString()
	if _, err := s.DB.Exec(ctx, `
		INSERT INTO rotating_shift_types (id, company_id, name, start_time, end_time, break_minutes)
		VALUES ($1, $2, 'Night', $3, $4, 30)
	`, typeID, companyID, start, end); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO rotating_assignments (id, employee_id, date, shift_type_id, hours)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), employeeID, date, typeID, hours)
	return err
}

// Close closes the pool.
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
