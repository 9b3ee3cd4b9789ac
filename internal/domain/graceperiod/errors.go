package graceperiod

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/apperror"

var ErrNoActiveGracePeriod = apperror.New(apperror.ErrNotFound, "company has no active grace period")
