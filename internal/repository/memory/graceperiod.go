package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/graceperiod"
)

type gracePeriodRepo struct {
	s *Store
}

func (r gracePeriodRepo) GetActive(_ context.Context, companyID string) (*graceperiod.CompanyGracePeriod, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.gracePeriods) - 1; i >= 0; i-- {
		gp := r.s.gracePeriods[i]
		if gp.CompanyID == companyID && gp.IsActive {
			return &gp, nil
		}
	}
	return nil, nil
}

func (r gracePeriodRepo) DeactivateAll(_ context.Context, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, gp := range r.s.gracePeriods {
		if gp.CompanyID == companyID && gp.IsActive {
			r.s.gracePeriods[i].IsActive = false
			r.s.gracePeriods[i].UpdatedAt = r.s.now()
		}
	}
	return nil
}

func (r gracePeriodRepo) Create(_ context.Context, gp graceperiod.CompanyGracePeriod) (graceperiod.CompanyGracePeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	gp.ID = newID()
	gp.CreatedAt, gp.UpdatedAt = r.s.now(), r.s.now()
	r.s.gracePeriods = append(r.s.gracePeriods, gp)
	return gp, nil
}

// List returns the company's history, newest first.
func (r gracePeriodRepo) List(_ context.Context, companyID string) ([]graceperiod.CompanyGracePeriod, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []graceperiod.CompanyGracePeriod
	for _, gp := range r.s.gracePeriods {
		if gp.CompanyID == companyID {
			out = append(out, gp)
		}
	}
	slices.Reverse(out)
	return out, nil
}
