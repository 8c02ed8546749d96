package stats

import (
	"context"
	"time"

	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	contactrepo "github.com/muhammadheryan/crm/repository/contact"
	txrepo "github.com/muhammadheryan/crm/repository/tx"
	userrepo "github.com/muhammadheryan/crm/repository/user"
	"github.com/muhammadheryan/crm/utils/errors"
	"github.com/muhammadheryan/crm/utils/logger"
	"go.uber.org/zap"
)

type StatsApp interface {
	ComputeStats(ctx context.Context, identity model.Identity) ([]model.EmployeeStats, error)
}

type statsAppImpl struct {
	txRepo      txrepo.TxRepository
	userRepo    userrepo.UserRepository
	contactRepo contactrepo.ContactRepository
	location    *time.Location
	now         func() time.Time
}

type Option func(*statsAppImpl)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *statsAppImpl) { s.now = now }
}

// NewStatsApp builds the admin aggregator. loc decides where a calendar day
// starts for the called-today count; nil means time.Local.
func NewStatsApp(txRepo txrepo.TxRepository, userRepo userrepo.UserRepository, contactRepo contactrepo.ContactRepository, loc *time.Location, opts ...Option) StatsApp {
	if loc == nil {
		loc = time.Local
	}
	s := &statsAppImpl{
		txRepo:      txRepo,
		userRepo:    userRepo,
		contactRepo: contactRepo,
		location:    loc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeStats returns one row per employee ordered by user id. Employees
// without contacts get a zero row. Users and counts are read from one snapshot.
func (s *statsAppImpl) ComputeStats(ctx context.Context, identity model.Identity) ([]model.EmployeeStats, error) {
	if !identity.Role.IsAdmin() {
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}

	dayStart, dayEnd := dayBounds(s.now(), s.location)

	tx, err := s.txRepo.BeginSnapshotTx(ctx)
	if err != nil {
		logger.Error("[ComputeStats] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	employees, err := s.userRepo.ListByRoleTx(ctx, tx, constant.RoleEmployee)
	if err != nil {
		logger.Error("[ComputeStats] err userRepo.ListByRoleTx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	counts, err := s.contactRepo.CountByOwnerTx(ctx, tx, dayStart, dayEnd)
	if err != nil {
		logger.Error("[ComputeStats] err contactRepo.CountByOwnerTx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ComputeStats] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	byOwner := make(map[uint64]model.OwnerContactCounts, len(counts))
	for _, c := range counts {
		byOwner[c.OwnerID] = c
	}

	rows := make([]model.EmployeeStats, 0, len(employees))
	for _, e := range employees {
		c := byOwner[e.ID]
		rows = append(rows, model.EmployeeStats{
			ID:    e.ID,
			Name:  e.Name,
			Email: e.Email,
			Stats: model.StatsCounts{
				Called:   c.CalledToday,
				Rejected: c.Rejected,
				Leads:    c.Leads,
				Later:    c.Later,
			},
		})
	}
	return rows, nil
}

// dayBounds returns [midnight, next midnight) of now's calendar day in loc.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
