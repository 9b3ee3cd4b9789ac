package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type sessionRepo struct {
	s *Store
}

func (r sessionRepo) withEmployeeLocked(ws attendance.WorkSession) attendance.WorkSession {
	if e, ok := r.s.employees[ws.EmployeeID]; ok {
		name, tz := e.FullName, e.Timezone
		ws.EmployeeName = &name
		ws.Timezone = &tz
	}
	return ws
}

func (r sessionRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date clock.Date) (*attendance.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ws := range r.s.sessions {
		if ws.EmployeeID == employeeID && ws.Date == date {
			ws = r.withEmployeeLocked(ws)
			return &ws, nil
		}
	}
	return nil, nil
}

func (r sessionRepo) GetByID(_ context.Context, id, companyID string) (attendance.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ws, ok := r.s.sessions[id]
	if !ok || ws.CompanyID != companyID {
		return attendance.WorkSession{}, attendance.ErrWorkSessionNotFound
	}
	return r.withEmployeeLocked(ws), nil
}

func (r sessionRepo) Create(_ context.Context, ws attendance.WorkSession) (attendance.WorkSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sessions {
		if existing.EmployeeID == ws.EmployeeID && existing.Date == ws.Date {
			return attendance.WorkSession{}, attendance.ErrWorkSessionExists
		}
	}
	ws.ID = newID()
	ws.CreatedAt, ws.UpdatedAt = r.s.now(), r.s.now()
	ws.EmployeeName, ws.Timezone = nil, nil
	r.s.sessions[ws.ID] = ws
	return r.withEmployeeLocked(ws), nil
}

func (r sessionRepo) Update(_ context.Context, ws attendance.WorkSession) (attendance.WorkSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.sessions[ws.ID]
	if !ok {
		return attendance.WorkSession{}, attendance.ErrWorkSessionNotFound
	}
	ws.CreatedAt = stored.CreatedAt
	ws.UpdatedAt = r.s.now()
	ws.EmployeeName, ws.Timezone = nil, nil
	r.s.sessions[ws.ID] = ws
	return r.withEmployeeLocked(ws), nil
}

func (r sessionRepo) PunchOut(_ context.Context, ws attendance.WorkSession) (attendance.WorkSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.sessions[ws.ID]
	if !ok || stored.CompanyID != ws.CompanyID {
		return attendance.WorkSession{}, attendance.ErrWorkSessionNotFound
	}
	if stored.ActualPunchOut != nil {
		return attendance.WorkSession{}, attendance.ErrSessionCompleted
	}
	stored.PunchIn = ws.PunchIn
	stored.PunchOut = ws.PunchOut
	stored.ActualPunchOut = ws.ActualPunchOut
	stored.PunchOutSource = ws.PunchOutSource
	stored.DurationMinutes = ws.DurationMinutes
	stored.EarlyMinutes = ws.EarlyMinutes
	stored.LateMinutes = ws.LateMinutes
	stored.DeductedMinutes = ws.DeductedMinutes
	stored.UpdatedAt = r.s.now()
	r.s.sessions[ws.ID] = stored
	return r.withEmployeeLocked(stored), nil
}

func (r sessionRepo) Delete(_ context.Context, id, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws, ok := r.s.sessions[id]
	if !ok || ws.CompanyID != companyID {
		return attendance.ErrWorkSessionNotFound
	}
	delete(r.s.sessions, id)
	for otID, rec := range r.s.overtime {
		if rec.WorkSessionID != nil && *rec.WorkSessionID == id {
			delete(r.s.overtime, otID)
		}
	}
	return nil
}

func (r sessionRepo) List(_ context.Context, companyID string, filter attendance.WorkSessionFilter) ([]attendance.WorkSession, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	from, to := dateRange(filter.StartDate, filter.EndDate)
	var out []attendance.WorkSession
	for _, ws := range r.s.sessions {
		if ws.CompanyID != companyID || !inRange(ws.Date, from, to) {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != ws.EmployeeID {
			continue
		}
		out = append(out, r.withEmployeeLocked(ws))
	}

	desc := descending(filter.SortOrder)
	slices.SortFunc(out, func(a, b attendance.WorkSession) int {
		c := compareDates(a.Date, b.Date)
		if c == 0 {
			c = a.ActualPunchIn.Compare(b.ActualPunchIn)
		}
		if desc {
			return -c
		}
		return c
	})

	return page(out, filter.Page, filter.Limit), int64(len(out)), nil
}
