package board

import (
	"context"
	"sync"
	"time"

	"github.com/muhammadheryan/crm/model"
)

// DefaultRefreshInterval matches how often the admin dashboard polls.
const DefaultRefreshInterval = 10 * time.Second

type StatsAPI interface {
	EmployeeStats(ctx context.Context) ([]model.EmployeeStats, error)
}

// StatsBoard holds the last per-employee stats the server returned.
type StatsBoard struct {
	api StatsAPI

	mu        sync.Mutex
	rows      []model.EmployeeStats
	err       error
	refreshed time.Time
	now       func() time.Time
}

func NewStatsBoard(api StatsAPI) *StatsBoard {
	return &StatsBoard{api: api, now: time.Now}
}

// Refresh fetches a fresh snapshot. On failure the previous rows stay and the
// error is kept until the next successful refresh.
func (s *StatsBoard) Refresh(ctx context.Context) error {
	rows, err := s.api.EmployeeStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	if err != nil {
		return err
	}
	s.rows = rows
	s.refreshed = s.now()
	return nil
}

// Run refreshes right away and then on every tick until ctx is done. onUpdate,
// when set, is called after each refresh attempt.
func (s *StatsBoard) Run(ctx context.Context, interval time.Duration, onUpdate func(error)) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := s.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}
		if onUpdate != nil {
			onUpdate(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *StatsBoard) Rows() []model.EmployeeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.EmployeeStats(nil), s.rows...)
}

func (s *StatsBoard) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *StatsBoard) RefreshedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}
