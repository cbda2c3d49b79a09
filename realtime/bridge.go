package realtime

import (
	"YouthHealth/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCoalesceWindow is the trailing-edge debounce applied to refetches
// triggered by the same event type.
const DefaultCoalesceWindow = 250 * time.Millisecond

const defaultQueueSize = 64

// Refetch targets.
const (
	TargetConsultations  = "consultations"
	TargetDashboardStats = "dashboard-stats"
	TargetDoctors        = "doctors"
	TargetRecentActivity = "recent-activity"
)

var ErrBridgeClosed = errors.New("realtime bridge is closed")

// Refresher is the set of store actions the bridge can trigger. Errors are
// recorded by the store itself; the bridge only logs them.
type Refresher interface {
	RefreshConsultations(ctx context.Context) error
	RefreshDashboardStats(ctx context.Context) error
	RefreshDoctors(ctx context.Context) error
	RefreshRecentActivity(ctx context.Context) error
}

// EventHandler reacts to a parsed event.
type EventHandler func(ctx context.Context, e Event)

type BridgeConfig struct {
	Refresher Refresher
	Notifier  Notifier
	Logger    *logrus.Logger
	Metrics   *Metrics
	// CoalesceWindow of zero refetches synchronously on every event.
	CoalesceWindow time.Duration
	QueueSize      int
}

type registration struct {
	id uint64
	h  EventHandler
}

type pendingRefetch struct {
	timer   *time.Timer
	targets []string
}

// Bridge maps real-time events to store refetches and notifications.
// Incoming events are queued and handled by a single worker in arrival order.
type Bridge struct {
	refresher Refresher
	notifier  Notifier
	logger    *logrus.Logger
	metrics   *Metrics
	window    time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	sendMu sync.RWMutex
	queue  chan Event
	closed bool

	mu       sync.Mutex
	handlers map[string][]registration
	nextID   uint64
	pending  map[string]*pendingRefetch

	worker   sync.WaitGroup
	inflight sync.WaitGroup
	once     sync.Once
}

// NewBridge starts a bridge whose refetches run under ctx. The default
// event table is registered immediately.
func NewBridge(ctx context.Context, cfg BridgeConfig) (*Bridge, error) {
	if cfg.Refresher == nil {
		return nil, errors.New("refresher is required")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{Logger: cfg.Logger}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.CoalesceWindow < 0 {
		cfg.CoalesceWindow = 0
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	bctx, cancel := context.WithCancel(ctx)
	b := &Bridge{
		refresher: cfg.Refresher,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		window:    cfg.CoalesceWindow,
		ctx:       bctx,
		cancel:    cancel,
		queue:     make(chan Event, cfg.QueueSize),
		handlers:  make(map[string][]registration),
		pending:   make(map[string]*pendingRefetch),
	}
	b.registerDefaults()

	b.worker.Add(1)
	go b.run()
	return b, nil
}

// On registers h for eventName and returns a function that removes it.
func (b *Bridge) On(eventName string, h EventHandler) (off func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.handlers[eventName] = append(b.handlers[eventName], registration{id: id, h: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		regs := b.handlers[eventName]
		for i, r := range regs {
			if r.id == id {
				b.handlers[eventName] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
		if len(b.handlers[eventName]) == 0 {
			delete(b.handlers, eventName)
		}
	}
}

// Off removes every handler registered for eventName.
func (b *Bridge) Off(eventName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, eventName)
}

// HandlerCount returns the number of registered handlers across all events.
func (b *Bridge) HandlerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, regs := range b.handlers {
		n += len(regs)
	}
	return n
}

// Handle parses a raw event and queues it. It has the Handler signature so
// it can be passed straight to Client.Run. Unparseable payloads are dropped
// without failing the connection.
func (b *Bridge) Handle(ctx context.Context, eventName string, payload json.RawMessage) error {
	b.metrics.eventReceived(eventName)

	ev, err := ParseEvent(eventName, payload)
	if err != nil {
		b.metrics.dropped(eventName)
		var unknown *UnknownEventError
		if errors.As(err, &unknown) {
			b.logger.WithField("event", eventName).Debug("ignoring unknown realtime event")
		} else {
			b.logger.WithFields(logrus.Fields{"event": eventName, "error": err}).Warn("dropping realtime event")
		}
		return nil
	}
	return b.enqueue(ctx, ev)
}

func (b *Bridge) enqueue(ctx context.Context, ev Event) error {
	b.sendMu.RLock()
	defer b.sendMu.RUnlock()
	if b.closed {
		return ErrBridgeClosed
	}
	select {
	case b.queue <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) run() {
	defer b.worker.Done()
	for ev := range b.queue {
		b.dispatch(ev)
	}
}

func (b *Bridge) dispatch(ev Event) {
	b.mu.Lock()
	regs := append([]registration(nil), b.handlers[ev.EventName()]...)
	b.mu.Unlock()

	for _, r := range regs {
		r.h(b.ctx, ev)
	}
}

// Close stops intake, handles the events already queued, deregisters every
// handler, drops pending debounced refetches and waits for refetches in
// flight. It does not close the connection; cancel the Client's context for
// that.
func (b *Bridge) Close() error {
	b.once.Do(func() {
		b.sendMu.Lock()
		b.closed = true
		close(b.queue)
		b.sendMu.Unlock()

		b.worker.Wait()

		b.mu.Lock()
		b.handlers = nil
		for name, p := range b.pending {
			if p.timer.Stop() {
				b.inflight.Done()
			}
			delete(b.pending, name)
		}
		b.mu.Unlock()

		b.inflight.Wait()
		b.cancel()
	})
	return nil
}

// refetch runs targets for eventName, either now or after the coalescing
// window. A burst of the same event type inside the window collapses into a
// single refetch of the union of targets.
func (b *Bridge) refetch(eventName string, targets ...string) {
	if b.window == 0 {
		b.runTargets(eventName, targets)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		return
	}
	if p, ok := b.pending[eventName]; ok && p.timer.Stop() {
		p.targets = mergeTargets(p.targets, targets)
		p.timer.Reset(b.window)
		b.metrics.coalesced(eventName)
		return
	}

	p := &pendingRefetch{targets: append([]string(nil), targets...)}
	b.inflight.Add(1)
	p.timer = time.AfterFunc(b.window, func() { b.fire(eventName, p) })
	b.pending[eventName] = p
}

func (b *Bridge) fire(eventName string, p *pendingRefetch) {
	defer b.inflight.Done()

	b.mu.Lock()
	if b.pending[eventName] == p {
		delete(b.pending, eventName)
	}
	targets := append([]string(nil), p.targets...)
	b.mu.Unlock()

	b.runTargets(eventName, targets)
}

func (b *Bridge) runTargets(eventName string, targets []string) {
	for _, target := range targets {
		if b.ctx.Err() != nil {
			return
		}
		var err error
		switch target {
		case TargetConsultations:
			err = b.refresher.RefreshConsultations(b.ctx)
		case TargetDashboardStats:
			err = b.refresher.RefreshDashboardStats(b.ctx)
		case TargetDoctors:
			err = b.refresher.RefreshDoctors(b.ctx)
		case TargetRecentActivity:
			err = b.refresher.RefreshRecentActivity(b.ctx)
		default:
			err = fmt.Errorf("unknown refetch target %q", target)
		}
		b.metrics.refetched(target)
		if err != nil {
			b.logger.WithFields(logrus.Fields{
				"event":  eventName,
				"target": target,
				"error":  err,
			}).Debug("refetch failed")
		}
	}
}

func (b *Bridge) notify(n Notification) {
	b.notifier.Notify(n)
}

func mergeTargets(have, add []string) []string {
	for _, t := range add {
		found := false
		for _, h := range have {
			if h == t {
				found = true
				break
			}
		}
		if !found {
			have = append(have, t)
		}
	}
	return have
}

func (b *Bridge) registerDefaults() {
	b.On(models.EventConnect, func(context.Context, Event) {
		b.logger.Info("realtime connected")
	})
	b.On(models.EventDisconnect, func(_ context.Context, e Event) {
		d, _ := e.(Disconnected)
		b.logger.WithField("reason", d.Reason).Info("realtime disconnected")
	})
	b.On(models.EventConsultationNew, func(_ context.Context, e Event) {
		c, _ := e.(ConsultationCreated)
		b.refetch(models.EventConsultationNew, TargetConsultations, TargetDashboardStats)
		b.notify(Notification{
			Severity: SeverityInfo,
			Title:    "New consultation",
			Message:  fmt.Sprintf("New consultation request from %s", c.UserName),
			Duration: 5 * time.Second,
			Event:    models.EventConsultationNew,
		})
	})
	b.On(models.EventConsultationUpdated, func(context.Context, Event) {
		b.refetch(models.EventConsultationUpdated, TargetConsultations)
	})
	b.On(models.EventMentalHealthAlert, func(_ context.Context, e Event) {
		a, _ := e.(MentalHealthAlerted)
		b.refetch(models.EventMentalHealthAlert, TargetDashboardStats)
		msg := a.Message
		if msg == "" {
			who := a.UserName
			if who == "" {
				who = a.UserID
			}
			msg = fmt.Sprintf("%s flagged with %s mental health risk", who, a.RiskLevel)
		}
		b.notify(Notification{
			Severity:   SeverityWarning,
			Title:      "Mental health alert",
			Message:    msg,
			Persistent: true,
			Duration:   10 * time.Second,
			Event:      models.EventMentalHealthAlert,
		})
	})
	b.On(models.EventUserRegistered, func(context.Context, Event) {
		b.refetch(models.EventUserRegistered, TargetDashboardStats)
	})
	b.On(models.EventDoctorAvailability, func(context.Context, Event) {
		b.refetch(models.EventDoctorAvailability, TargetDoctors)
	})
	b.On(models.EventMessageNew, func(_ context.Context, e Event) {
		m, _ := e.(MessageReceived)
		if m.Priority != models.PriorityUrgent {
			return
		}
		from := m.SenderName
		if from == "" {
			from = m.SenderID
		}
		b.notify(Notification{
			Severity: SeverityError,
			Title:    "Urgent message",
			Message:  fmt.Sprintf("Urgent message from %s", from),
			Duration: 8 * time.Second,
			Event:    models.EventMessageNew,
		})
	})
	b.On(models.EventGameAchievement, func(context.Context, Event) {
		b.refetch(models.EventGameAchievement, TargetRecentActivity, TargetDashboardStats)
	})
}
