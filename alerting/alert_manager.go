package alerting

import (
	"context"
	"fmt"

	"github.com/nanzhong/neotest"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mock_alerter.go -package=alerting github.com/nanzhong/neotest/alerting Alerter

// Alert is raised for a report with failed results.
type Alert struct {
	Report *neotest.Report

	// URL links to where the run can be inspected, eg. the CI build.
	URL string
}

type Alerter interface {
	Fire(context.Context, *Alert) error
}

type AlertManager struct {
	url      string
	alerters []Alerter
}

func NewAlertManager(url string, alerters []Alerter) *AlertManager {
	return &AlertManager{
		url:      url,
		alerters: alerters,
	}
}

func (a *AlertManager) RegisterAlerter(alerter Alerter) {
	a.alerters = append(a.alerters, alerter)
}

// Enabled reports whether any alerter is registered.
func (a *AlertManager) Enabled() bool {
	return len(a.alerters) > 0
}

func (a *AlertManager) Fire(ctx context.Context, alert *Alert) error {
	if alert.URL == "" {
		alert.URL = a.url
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, alerter := range a.alerters {
		alerter := alerter
		eg.Go(func() error {
			return alerter.Fire(ctx, alert)
		})
	}
	err := eg.Wait()
	if err != nil {
		return fmt.Errorf("firing alerts: %w", err)
	}
	return nil
}
