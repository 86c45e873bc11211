package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unitrack/unitrack/logger"
)

// Dashboard is everything the home screen shows, loaded together.
type Dashboard struct {
	Portfolios []Portfolio
	Summary    Summary
	Holdings   []Holding
	Allocation []AllocationItem
	Health     Health
}

// LoadDashboard fetches the five dashboard datasets concurrently. It returns
// either all of them or the first error; the remaining requests are
// cancelled as soon as one fails.
func (s *Services) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	start := time.Now()
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Portfolios, err = s.Portfolio.List(gctx)
		return err
	})
	g.Go(func() error {
		sum, err := s.Portfolio.Summary(gctx)
		if err == nil {
			d.Summary = *sum
		}
		return err
	})
	g.Go(func() (err error) {
		d.Holdings, err = s.Portfolio.Holdings(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Allocation, err = s.Portfolio.Allocation(gctx)
		return err
	})
	g.Go(func() error {
		h, err := s.Analytics.Health(gctx)
		if err == nil {
			d.Health = *h
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Get("dashboard").Debug("dashboard loaded", logger.DurationFields("load_dashboard", time.Since(start)))
	return &d, nil
}
