package realtime

import (
	"YouthHealth/models"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *countingRefresher) hit(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[target]++
	return nil
}

func (r *countingRefresher) count(target string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[target]
}

func (r *countingRefresher) RefreshConsultations(context.Context) error {
	return r.hit(TargetConsultations)
}

func (r *countingRefresher) RefreshDashboardStats(context.Context) error {
	return r.hit(TargetDashboardStats)
}

func (r *countingRefresher) RefreshDoctors(context.Context) error { return r.hit(TargetDoctors) }

func (r *countingRefresher) RefreshRecentActivity(context.Context) error {
	return r.hit(TargetRecentActivity)
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []Notification
}

func (n *recordingNotifier) Notify(note Notification) {
	n.mu.Lock()
	n.got = append(n.got, note)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.got...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBridge(t *testing.T, window time.Duration) (*Bridge, *countingRefresher, *recordingNotifier, *Metrics) {
	t.Helper()
	refresher := &countingRefresher{}
	notifier := &recordingNotifier{}
	metrics := NewMetrics(prometheus.NewRegistry())
	b, err := NewBridge(context.Background(), BridgeConfig{
		Refresher:      refresher,
		Notifier:       notifier,
		Logger:         quietLogger(),
		Metrics:        metrics,
		CoalesceWindow: window,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, refresher, notifier, metrics
}

func TestNewBridgeRequiresRefresher(t *testing.T) {
	_, err := NewBridge(context.Background(), BridgeConfig{})
	assert.Error(t, err)
}

func TestConsultationNewRefetchesAndNotifies(t *testing.T) {
	b, refresher, notifier, _ := newTestBridge(t, 0)

	payload := json.RawMessage(`{"id":"c1","userName":"Ada","type":"chat"}`)
	require.NoError(t, b.Handle(context.Background(), models.EventConsultationNew, payload))
	require.NoError(t, b.Close())

	assert.Equal(t, 1, refresher.count(TargetConsultations))
	assert.Equal(t, 1, refresher.count(TargetDashboardStats))
	assert.Equal(t, 0, refresher.count(TargetDoctors))

	notes := notifier.all()
	require.Len(t, notes, 1)
	assert.Equal(t, SeverityInfo, notes[0].Severity)
	assert.Contains(t, notes[0].Message, "Ada")
	assert.Equal(t, 5*time.Second, notes[0].Duration)
}

func TestEventTable(t *testing.T) {
	b, refresher, notifier, _ := newTestBridge(t, 0)
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, models.EventConsultationUpdated, json.RawMessage(`{"id":"c1","status":"completed"}`)))
	require.NoError(t, b.Handle(ctx, models.EventMentalHealthAlert, json.RawMessage(`{"userId":"u1","userName":"Bo","riskLevel":"high"}`)))
	require.NoError(t, b.Handle(ctx, models.EventUserRegistered, json.RawMessage(`{"id":"u2"}`)))
	require.NoError(t, b.Handle(ctx, models.EventDoctorAvailability, json.RawMessage(`{"id":"d1","availability":"offline"}`)))
	require.NoError(t, b.Handle(ctx, models.EventMessageNew, json.RawMessage(`{"id":"m1","senderName":"Cy","priority":"normal"}`)))
	require.NoError(t, b.Handle(ctx, models.EventMessageNew, json.RawMessage(`{"id":"m2","senderName":"Cy","priority":"urgent"}`)))
	require.NoError(t, b.Handle(ctx, models.EventGameAchievement, json.RawMessage(`{"userId":"u1","game":"breathing"}`)))
	require.NoError(t, b.Close())

	assert.Equal(t, 1, refresher.count(TargetConsultations))
	assert.Equal(t, 3, refresher.count(TargetDashboardStats))
	assert.Equal(t, 1, refresher.count(TargetDoctors))
	assert.Equal(t, 1, refresher.count(TargetRecentActivity))

	notes := notifier.all()
	require.Len(t, notes, 2)
	assert.Equal(t, SeverityWarning, notes[0].Severity)
	assert.True(t, notes[0].Persistent)
	assert.Contains(t, notes[0].Message, "Bo")
	assert.Equal(t, SeverityError, notes[1].Severity)
	assert.Equal(t, "Urgent message from Cy", notes[1].Message)
}

func TestInvalidPayloadIsDropped(t *testing.T) {
	b, refresher, notifier, metrics := newTestBridge(t, 0)

	require.NoError(t, b.Handle(context.Background(), models.EventConsultationNew, json.RawMessage(`{"id":"c1"}`)))
	require.NoError(t, b.Handle(context.Background(), "weather:changed", json.RawMessage(`{}`)))
	require.NoError(t, b.Close())

	assert.Equal(t, 0, refresher.count(TargetConsultations))
	assert.Empty(t, notifier.all())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.payloadsDropped.WithLabelValues(models.EventConsultationNew)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.payloadsDropped.WithLabelValues("weather:changed")))
}

func TestBurstIsCoalesced(t *testing.T) {
	b, refresher, notifier, metrics := newTestBridge(t, 50*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Handle(ctx, models.EventConsultationNew, json.RawMessage(`{"id":"c1","userName":"Ada"}`)))
	}

	require.Eventually(t, func() bool {
		return refresher.count(TargetConsultations) == 1 && refresher.count(TargetDashboardStats) == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, refresher.count(TargetConsultations))
	assert.Equal(t, 1, refresher.count(TargetDashboardStats))

	// Notifications are never coalesced.
	assert.Len(t, notifier.all(), 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.refetchesCoalesced.WithLabelValues(models.EventConsultationNew)))
}

func TestDistinctEventTypesAreNotMerged(t *testing.T) {
	b, refresher, _, _ := newTestBridge(t, 30*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, models.EventUserRegistered, json.RawMessage(`{"id":"u1"}`)))
	require.NoError(t, b.Handle(ctx, models.EventMentalHealthAlert, json.RawMessage(`{"userId":"u1","riskLevel":"high"}`)))

	require.Eventually(t, func() bool {
		return refresher.count(TargetDashboardStats) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseDropsPendingRefetchAndDeregisters(t *testing.T) {
	b, refresher, _, _ := newTestBridge(t, time.Hour)
	assert.Greater(t, b.HandlerCount(), 0)

	require.NoError(t, b.Handle(context.Background(), models.EventDoctorAvailability, json.RawMessage(`{"id":"d1","availability":"busy"}`)))
	require.NoError(t, b.Close())

	assert.Equal(t, 0, b.HandlerCount())
	assert.Equal(t, 0, refresher.count(TargetDoctors))
	assert.ErrorIs(t, b.Handle(context.Background(), models.EventDoctorAvailability, json.RawMessage(`{"id":"d1","availability":"busy"}`)), ErrBridgeClosed)

	off := b.On(models.EventDoctorAvailability, func(context.Context, Event) {})
	off()
	assert.Equal(t, 0, b.HandlerCount())
	assert.NoError(t, b.Close())
}

func TestOnAndOff(t *testing.T) {
	b, _, _, _ := newTestBridge(t, 0)
	base := b.HandlerCount()

	got := make(chan Event, 2)
	off := b.On(models.EventUserRegistered, func(_ context.Context, e Event) { got <- e })
	b.On(models.EventUserRegistered, func(context.Context, Event) {})
	assert.Equal(t, base+2, b.HandlerCount())

	require.NoError(t, b.Handle(context.Background(), models.EventUserRegistered, json.RawMessage(`{"id":"u1","name":"Ada"}`)))
	select {
	case e := <-got:
		assert.Equal(t, "Ada", e.(UserRegistered).Name)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}

	off()
	assert.Equal(t, base+1, b.HandlerCount())
	b.Off(models.EventUserRegistered)
	assert.Equal(t, base-1, b.HandlerCount())
}
