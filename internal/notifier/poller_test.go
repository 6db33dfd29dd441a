package notifier

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu         sync.Mutex
	count      int
	items      []Notification
	countErr   error
	markErr    error
	countCalls int
	listCalls  int
	block      chan struct{}
	onMark     func()
}

func (f *fakeFetcher) UnreadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	f.countCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, f.countErr
}

func (f *fakeFetcher) List(ctx context.Context, limit int) ([]Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]Notification(nil), f.items...), nil
}

func (f *fakeFetcher) MarkRead(ctx context.Context, id string) error {
	f.mark()
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markErr
}

func (f *fakeFetcher) MarkAllRead(ctx context.Context) (int, error) {
	f.mark()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return 0, f.markErr
	}
	return len(f.items), nil
}

func (f *fakeFetcher) mark() {
	f.mu.Lock()
	hook := f.onMark
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakeFetcher) set(fn func(f *fakeFetcher)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls
}

type alertLog struct {
	mu  sync.Mutex
	ids []string
}

func (a *alertLog) alert(n Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, n.ID)
}

func (a *alertLog) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.ids...)
}

func twoUnread() *fakeFetcher {
	return &fakeFetcher{
		count: 2,
		items: []Notification{
			{ID: "n-2", Title: "Quote q-1 status changed to accepted", RelatedQuoteID: "q-1"},
			{ID: "n-1", Title: "New quote request", RelatedQuoteID: "q-1"},
		},
	}
}

func newTestPoller(f Fetcher, backoff BackoffConfig, alerts *alertLog) *Poller {
	cfg := Config{
		Backoff:      backoff,
		FetchTimeout: time.Second,
		Logger:       log.New(io.Discard, "", 0),
	}
	if alerts != nil {
		cfg.Alerter = alerts.alert
	}
	return NewPoller(f, cfg)
}

// slow keeps the poller on its first fetch for the duration of a test.
var slow = BackoffConfig{Base: time.Hour, Steady: time.Hour, Ceiling: 2 * time.Hour, Factor: 1.8}

func TestPoller_StartVisibleFetchesOnceThenWaitsSteady(t *testing.T) {
	f := twoUnread()
	alerts := &alertLog{}
	p := newTestPoller(f, slow, alerts)
	assert.Equal(t, StateIdle, p.State())

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, StateRunning, p.State())
	assert.Equal(t, time.Hour, p.Interval())
	require.Eventually(t, func() bool { return len(alerts.snapshot()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"n-2", "n-1"}, alerts.snapshot())
	assert.Len(t, p.Notifications(), 2)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, f.calls())
}

func TestPoller_HiddenIssuesNoFetchesAndShowingFetchesExactlyOnce(t *testing.T) {
	f := twoUnread()
	p := newTestPoller(f, slow, nil)
	p.SetVisible(false)

	p.Start(context.Background())
	defer p.Stop()
	assert.Equal(t, StateSuspended, p.State())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, f.calls())

	p.SetVisible(true)
	assert.Equal(t, StateRunning, p.State())
	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, f.calls())
}

func TestPoller_HidingStopsTheCadence(t *testing.T) {
	f := twoUnread()
	fast := BackoffConfig{Base: time.Millisecond, Steady: 2 * time.Millisecond, Ceiling: 10 * time.Millisecond, Factor: 1.8}
	p := newTestPoller(f, fast, nil)

	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return f.calls() >= 3 }, time.Second, time.Millisecond)

	p.SetVisible(false)
	time.Sleep(20 * time.Millisecond)
	frozen := f.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, f.calls())

	p.SetVisible(true)
	require.Eventually(t, func() bool { return f.calls() > frozen }, time.Second, time.Millisecond)
}

func TestPoller_FailuresBackOffToCeilingAndSuccessResets(t *testing.T) {
	f := twoUnread()
	f.countErr = errors.New("connection refused")
	backoff := BackoffConfig{Base: time.Millisecond, Steady: time.Hour, Ceiling: 8 * time.Millisecond, Factor: 1.8}
	p := newTestPoller(f, backoff, nil)

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return p.Interval() == 8*time.Millisecond }, time.Second, time.Millisecond)
	assert.Equal(t, 0, p.UnreadCount())

	f.set(func(f *fakeFetcher) { f.countErr = nil })
	require.Eventually(t, func() bool { return p.Interval() == time.Hour }, time.Second, time.Millisecond)
	assert.Equal(t, 2, p.UnreadCount())
}

func TestPoller_TimeoutCountsAsFailure(t *testing.T) {
	f := twoUnread()
	hung := make(chan struct{})
	defer close(hung)
	// UnreadCount ignores its context and never answers on its own.
	f.block = hung
	p := NewPoller(f, Config{
		Backoff:      BackoffConfig{Base: 10 * time.Millisecond, Steady: time.Hour, Ceiling: time.Hour, Factor: 1.8},
		FetchTimeout: 20 * time.Millisecond,
		Logger:       log.New(io.Discard, "", 0),
	})

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return p.Fetches() >= 3 }, 2*time.Second, time.Millisecond)
	assert.Greater(t, p.Interval(), 10*time.Millisecond)
	assert.Equal(t, 0, p.UnreadCount())
}

func TestPoller_AlertsOncePerNewNotification(t *testing.T) {
	f := &fakeFetcher{count: 1, items: []Notification{{ID: "n-1"}}}
	alerts := &alertLog{}
	fast := BackoffConfig{Base: time.Millisecond, Steady: 2 * time.Millisecond, Ceiling: 10 * time.Millisecond, Factor: 1.8}
	p := newTestPoller(f, fast, alerts)

	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return len(alerts.snapshot()) == 1 }, time.Second, time.Millisecond)

	f.set(func(f *fakeFetcher) {
		f.count = 2
		f.items = []Notification{{ID: "n-2"}, {ID: "n-1"}}
	})
	require.Eventually(t, func() bool { return len(alerts.snapshot()) == 2 }, time.Second, time.Millisecond)

	// force further list fetches with the same ids
	f.set(func(f *fakeFetcher) { f.count = 1 })
	require.Eventually(t, func() bool { return p.UnreadCount() == 1 }, time.Second, time.Millisecond)
	f.set(func(f *fakeFetcher) { f.count = 2 })
	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)

	assert.Equal(t, []string{"n-1", "n-2"}, alerts.snapshot())
}

func TestPoller_StopIsSynchronousAndDropsInFlightResult(t *testing.T) {
	f := twoUnread()
	release := make(chan struct{})
	f.block = release
	p := newTestPoller(f, slow, nil)

	p.Start(context.Background())
	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("Stop did not return while a fetch was in flight")
	}
	assert.Equal(t, StateIdle, p.State())

	close(release)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, p.UnreadCount())
	assert.Empty(t, p.Notifications())
	assert.Equal(t, 1, f.calls())

	// stopping twice is harmless
	p.Stop()
}

func TestPoller_MarkReadIsOptimistic(t *testing.T) {
	f := twoUnread()
	p := newTestPoller(f, slow, nil)
	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)

	var during int
	f.set(func(f *fakeFetcher) { f.onMark = func() { during = p.UnreadCount() } })

	require.NoError(t, p.MarkRead(context.Background(), "n-1"))
	assert.Equal(t, 1, during)
	assert.Equal(t, 1, p.UnreadCount())
	for _, n := range p.Notifications() {
		assert.Equal(t, n.ID == "n-1", n.Read, n.ID)
	}
}

func TestPoller_MarkReadFailureResyncsFromServer(t *testing.T) {
	f := twoUnread()
	p := newTestPoller(f, slow, nil)
	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)

	f.set(func(f *fakeFetcher) {
		f.markErr = errors.New("503 store unavailable")
		// another session read n-2 meanwhile
		f.count = 1
		f.items[0].Read = true
	})

	err := p.MarkRead(context.Background(), "n-1")
	require.Error(t, err)
	assert.Equal(t, 1, p.UnreadCount())
	for _, n := range p.Notifications() {
		assert.Equal(t, n.ID == "n-2", n.Read, n.ID)
	}
}

func TestPoller_MarkAllReadFailureRestoresBadgeWhenServerIsDown(t *testing.T) {
	f := twoUnread()
	p := newTestPoller(f, slow, nil)
	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)

	f.set(func(f *fakeFetcher) {
		f.markErr = errors.New("connection reset")
		f.countErr = errors.New("connection reset")
	})

	_, err := p.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, p.UnreadCount())
	for _, n := range p.Notifications() {
		assert.False(t, n.Read, n.ID)
	}
}

func TestPoller_MarkAllRead(t *testing.T) {
	f := twoUnread()
	p := newTestPoller(f, slow, nil)
	p.Start(context.Background())
	defer p.Stop()
	require.Eventually(t, func() bool { return p.UnreadCount() == 2 }, time.Second, time.Millisecond)

	n, err := p.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, p.UnreadCount())
}
