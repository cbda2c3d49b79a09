// Package dashboard owns the admin dashboard lifecycle: initial fetches, one
// real-time connection per mount and periodic resyncs.
package dashboard

import (
	"YouthHealth/realtime"
	"YouthHealth/stores"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var ErrAlreadyMounted = errors.New("dashboard is already mounted")

// Options configures a Dashboard.
type Options struct {
	RealtimeURL    string
	Transport      realtime.Options
	CoalesceWindow time.Duration
	// ResyncSchedule is a cron spec for full refetches; empty disables them.
	ResyncSchedule string
	EngagementDays int
	Notifier       realtime.Notifier
	Metrics        *realtime.Metrics
	Logger         *logrus.Logger
}

// Dashboard binds the admin and analytics stores to the real-time bridge.
type Dashboard struct {
	admin     *stores.AdminStore
	analytics *stores.AnalyticsStore
	opts      Options
	logger    *logrus.Logger

	mu      sync.Mutex
	mounted *mount
}

type mount struct {
	cancel    context.CancelFunc
	bridge    *realtime.Bridge
	scheduler *cron.Cron
	done      chan struct{}
}

func New(admin *stores.AdminStore, analytics *stores.AnalyticsStore, opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Dashboard{admin: admin, analytics: analytics, opts: opts, logger: opts.Logger}
}

func (d *Dashboard) Admin() *stores.AdminStore { return d.admin }

func (d *Dashboard) Analytics() *stores.AnalyticsStore { return d.analytics }

// IsMounted reports whether a connection is currently owned by the dashboard.
func (d *Dashboard) IsMounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted != nil
}

// Mount loads every store, opens the real-time connection with token and
// schedules resyncs. Fetch failures are left in the stores' error fields.
func (d *Dashboard) Mount(ctx context.Context, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted != nil {
		return ErrAlreadyMounted
	}

	client, err := realtime.NewClient(d.opts.RealtimeURL, token, d.opts.Transport, d.logger)
	if err != nil {
		return fmt.Errorf("failed to create realtime client: %w", err)
	}

	mctx, cancel := context.WithCancel(ctx)
	bridge, err := realtime.NewBridge(mctx, realtime.BridgeConfig{
		Refresher:      d.admin,
		Notifier:       d.opts.Notifier,
		Logger:         d.logger,
		Metrics:        d.opts.Metrics,
		CoalesceWindow: d.opts.CoalesceWindow,
	})
	if err != nil {
		cancel()
		return err
	}

	d.Resync(mctx)

	var scheduler *cron.Cron
	if d.opts.ResyncSchedule != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(d.opts.ResyncSchedule, func() { d.Resync(mctx) }); err != nil {
			cancel()
			_ = bridge.Close()
			return fmt.Errorf("invalid resync schedule %q: %w", d.opts.ResyncSchedule, err)
		}
		scheduler.Start()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := client.Run(mctx, bridge.Handle); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.WithError(err).Warn("realtime connection stopped")
		}
	}()

	d.mounted = &mount{cancel: cancel, bridge: bridge, scheduler: scheduler, done: done}
	d.logger.Info("dashboard mounted")
	return nil
}

// Unmount closes the connection, deregisters every bridge handler and stops
// resyncs. Responses arriving afterwards are discarded by the stores.
func (d *Dashboard) Unmount() error {
	d.mu.Lock()
	m := d.mounted
	d.mounted = nil
	d.mu.Unlock()
	if m == nil {
		return nil
	}

	m.cancel()
	if m.scheduler != nil {
		<-m.scheduler.Stop().Done()
	}
	<-m.done
	err := m.bridge.Close()
	d.logger.Info("dashboard unmounted")
	return err
}

// Resync refetches every store. Errors are recorded by the stores.
func (d *Dashboard) Resync(ctx context.Context) {
	if err := d.admin.FetchAll(ctx); err != nil {
		d.logger.WithError(err).Warn("dashboard resync incomplete")
	}
	if d.analytics == nil {
		return
	}
	if err := d.analytics.FetchHealthGameStats(ctx); err != nil {
		d.logger.WithError(err).Warn("failed to refresh game stats")
	}
	if err := d.analytics.FetchEngagement(ctx, d.opts.EngagementDays); err != nil {
		d.logger.WithError(err).Warn("failed to refresh engagement")
	}
}
