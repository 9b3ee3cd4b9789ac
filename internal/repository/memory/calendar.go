package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type holidayRepo struct {
	s *Store
}

func (r holidayRepo) GetActiveByDate(_ context.Context, companyID string, date clock.Date) (*calendar.HolidayEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if h, ok := r.findLocked(companyID, date); ok && h.IsActive {
		return &h, nil
	}
	return nil, nil
}

func (r holidayRepo) findLocked(companyID string, date clock.Date) (calendar.HolidayEntry, bool) {
	for _, h := range r.s.holidays {
		if h.CompanyID == companyID && h.Date == date {
			return h, true
		}
	}
	return calendar.HolidayEntry{}, false
}

func (r holidayRepo) Create(_ context.Context, entry calendar.HolidayEntry) (calendar.HolidayEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.findLocked(entry.CompanyID, entry.Date); ok {
		return calendar.HolidayEntry{}, calendar.ErrHolidayExists
	}
	entry.ID = newID()
	entry.DayType = calendar.DayTypeHoliday
	entry.CreatedAt, entry.UpdatedAt = r.s.now(), r.s.now()
	r.s.holidays[entry.ID] = entry
	return entry, nil
}

func (r holidayRepo) Upsert(_ context.Context, entry calendar.HolidayEntry) (calendar.HolidayEntry, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.findLocked(entry.CompanyID, entry.Date); ok {
		existing.Title = entry.Title
		existing.IsActive = true
		existing.UpdatedAt = r.s.now()
		r.s.holidays[existing.ID] = existing
		return existing, false, nil
	}
	entry.ID = newID()
	entry.DayType = calendar.DayTypeHoliday
	entry.IsActive = true
	entry.CreatedAt, entry.UpdatedAt = r.s.now(), r.s.now()
	r.s.holidays[entry.ID] = entry
	return entry, true, nil
}

func (r holidayRepo) GetByID(_ context.Context, id, companyID string) (calendar.HolidayEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.HolidayEntry{}, calendar.ErrHolidayNotFound
	}
	return h, nil
}

func (r holidayRepo) List(_ context.Context, companyID string, filter calendar.HolidayFilter) ([]calendar.HolidayEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	start, end := dateRange(filter.StartDate, filter.EndDate)
	var out []calendar.HolidayEntry
	for _, h := range r.s.holidays {
		if h.CompanyID != companyID || (!h.IsActive && !filter.IncludeInactive) {
			continue
		}
		if !inRange(h.Date, start, end) {
			continue
		}
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b calendar.HolidayEntry) int {
		return compareDates(a.Date, b.Date)
	})
	return out, nil
}

func (r holidayRepo) SetActive(_ context.Context, id, companyID string, active bool) (calendar.HolidayEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.HolidayEntry{}, calendar.ErrHolidayNotFound
	}
	h.IsActive = active
	h.UpdatedAt = r.s.now()
	r.s.holidays[id] = h
	return h, nil
}

func (r holidayRepo) Delete(_ context.Context, id, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.holidays[id]
	if !ok || h.CompanyID != companyID {
		return calendar.ErrHolidayNotFound
	}
	delete(r.s.holidays, id)
	return nil
}
