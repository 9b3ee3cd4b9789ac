package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type overtimeRepo struct {
	s *Store
}

func (r overtimeRepo) withEmployeeLocked(rec overtime.Record) overtime.Record {
	if e, ok := r.s.employees[rec.EmployeeID]; ok {
		name, tz := e.FullName, e.Timezone
		rec.EmployeeName = &name
		rec.Timezone = &tz
	}
	return rec
}

func (r overtimeRepo) findLocked(employeeID string, date clock.Date, t overtime.Type) (overtime.Record, bool) {
	for _, rec := range r.s.overtime {
		if rec.EmployeeID == employeeID && rec.Date == date && rec.Type == t {
			return rec, true
		}
	}
	return overtime.Record{}, false
}

func (r overtimeRepo) ExistsByEmployeeDateType(_ context.Context, employeeID string, date clock.Date, t overtime.Type) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.findLocked(employeeID, date, t)
	return ok, nil
}

func (r overtimeRepo) GetByEmployeeDateType(_ context.Context, employeeID string, date clock.Date, t overtime.Type) (*overtime.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.findLocked(employeeID, date, t)
	if !ok {
		return nil, nil
	}
	rec = r.withEmployeeLocked(rec)
	return &rec, nil
}

func (r overtimeRepo) Create(_ context.Context, rec overtime.Record) (overtime.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.findLocked(rec.EmployeeID, rec.Date, rec.Type); ok {
		return overtime.Record{}, overtime.ErrOvertimeExists
	}
	rec.ID = newID()
	if rec.Source == "" {
		rec.Source = overtime.SourceSystem
	}
	rec.CreatedAt, rec.UpdatedAt = r.s.now(), r.s.now()
	rec.EmployeeName, rec.Timezone = nil, nil
	r.s.overtime[rec.ID] = rec
	return r.withEmployeeLocked(rec), nil
}

func (r overtimeRepo) Close(_ context.Context, rec overtime.Record) (overtime.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.overtime[rec.ID]
	if !ok {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	if stored.PunchOut != nil {
		return overtime.Record{}, overtime.ErrOvertimeClosed
	}
	stored.PunchOut = rec.PunchOut
	stored.DurationMinutes = rec.DurationMinutes
	stored.Status = rec.Status
	stored.UpdatedAt = r.s.now()
	r.s.overtime[rec.ID] = stored
	return r.withEmployeeLocked(stored), nil
}

func (r overtimeRepo) GetByID(_ context.Context, id, companyID string) (overtime.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.overtime[id]
	if !ok || rec.CompanyID != companyID {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	return r.withEmployeeLocked(rec), nil
}

func (r overtimeRepo) Update(_ context.Context, rec overtime.Record) (overtime.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.overtime[rec.ID]
	if !ok || stored.CompanyID != rec.CompanyID {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	if other, taken := r.findLocked(stored.EmployeeID, stored.Date, rec.Type); taken && other.ID != stored.ID {
		return overtime.Record{}, overtime.ErrOvertimeExists
	}
	stored.Type = rec.Type
	stored.PunchIn = rec.PunchIn
	stored.PunchOut = rec.PunchOut
	stored.DurationMinutes = rec.DurationMinutes
	stored.Notes = rec.Notes
	stored.UpdatedAt = r.s.now()
	r.s.overtime[rec.ID] = stored
	return r.withEmployeeLocked(stored), nil
}

func (r overtimeRepo) UpdateStatus(_ context.Context, id, companyID string, status overtime.Status, notes *string) (overtime.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.overtime[id]
	if !ok || rec.CompanyID != companyID {
		return overtime.Record{}, overtime.ErrOvertimeNotFound
	}
	rec.Status = status
	if notes != nil {
		rec.Notes = notes
	}
	rec.UpdatedAt = r.s.now()
	r.s.overtime[id] = rec
	return r.withEmployeeLocked(rec), nil
}

func (r overtimeRepo) Delete(_ context.Context, id, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.overtime[id]
	if !ok || rec.CompanyID != companyID {
		return overtime.ErrOvertimeNotFound
	}
	delete(r.s.overtime, id)
	return nil
}

func (r overtimeRepo) DeleteByWorkSession(_ context.Context, workSessionID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rec := range r.s.overtime {
		if rec.WorkSessionID != nil && *rec.WorkSessionID == workSessionID {
			delete(r.s.overtime, id)
			n++
		}
	}
	return n, nil
}

func (r overtimeRepo) ListByWorkSession(_ context.Context, workSessionID string) ([]overtime.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []overtime.Record
	for _, rec := range r.s.overtime {
		if rec.WorkSessionID != nil && *rec.WorkSessionID == workSessionID {
			out = append(out, r.withEmployeeLocked(rec))
		}
	}
	slices.SortFunc(out, func(a, b overtime.Record) int { return a.PunchIn.Compare(b.PunchIn) })
	return out, nil
}

func (r overtimeRepo) matchLocked(companyID string, filter overtime.OvertimeFilter) []overtime.Record {
	from, to := dateRange(filter.StartDate, filter.EndDate)
	var out []overtime.Record
	for _, rec := range r.s.overtime {
		if rec.CompanyID != companyID || !inRange(rec.Date, from, to) {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != rec.EmployeeID {
			continue
		}
		if filter.Type != nil && *filter.Type != string(rec.Type) {
			continue
		}
		if filter.Status != nil && *filter.Status != string(rec.Status) {
			continue
		}
		out = append(out, r.withEmployeeLocked(rec))
	}
	return out
}

func (r overtimeRepo) List(_ context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.Record, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.matchLocked(companyID, filter)
	desc := descending(filter.SortOrder)
	slices.SortFunc(out, func(a, b overtime.Record) int {
		c := compareDates(a.Date, b.Date)
		if c == 0 {
			c = a.PunchIn.Compare(b.PunchIn)
		}
		if desc {
			return -c
		}
		return c
	})

	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r overtimeRepo) Summarize(_ context.Context, companyID string, filter overtime.OvertimeFilter) ([]overtime.TypeSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type key struct {
		t overtime.Type
		s overtime.Status
	}
	totals := make(map[key]*overtime.TypeSummary)
	for _, rec := range r.matchLocked(companyID, filter) {
		if rec.DurationMinutes == nil {
			continue
		}
		k := key{rec.Type, rec.Status}
		sum, ok := totals[k]
		if !ok {
			sum = &overtime.TypeSummary{Type: rec.Type, Status: rec.Status}
			totals[k] = sum
		}
		sum.Count++
		sum.TotalMinutes += int64(*rec.DurationMinutes)
	}

	out := make([]overtime.TypeSummary, 0, len(totals))
	for _, sum := range totals {
		out = append(out, *sum)
	}
	slices.SortFunc(out, func(a, b overtime.TypeSummary) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), cmp.Compare(a.Status, b.Status))
	})
	return out, nil
}
