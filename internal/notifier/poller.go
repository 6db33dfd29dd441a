// Package notifier keeps one session's notification inbox fresh by polling the
// broker API. It is the client half of the notification flow: the server only
// stores notifications, the poller decides when to ask for them.
package notifier

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSuspended State = "suspended"
)

// ErrFetchTimeout is recorded when a fetch outlives FetchTimeout, whether or
// not the Fetcher honours its context.
var ErrFetchTimeout = errors.New("notification fetch timed out")

type Notification struct {
	ID             string
	Title          string
	Body           string
	RelatedQuoteID string
	Read           bool
	CreatedAt      time.Time
}

// Fetcher is the server side of the poller. HTTPFetcher implements it.
type Fetcher interface {
	UnreadCount(ctx context.Context) (int, error)
	List(ctx context.Context, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int, error)
}

type Config struct {
	Backoff      BackoffConfig
	FetchTimeout time.Duration
	ListLimit    int
	// Alerter is called once per notification id the session has not seen
	// before, outside the poller lock.
	Alerter func(Notification)
	Logger  *log.Logger
}

// Poller is a per-session scheduler with three states: idle (not started or
// stopped), running and suspended (started but hidden). The loop waits on one
// fetch at a time.
type Poller struct {
	fetcher Fetcher
	cfg     Config

	mu       sync.Mutex
	state    State
	visible  bool
	resume   bool
	interval time.Duration
	gen      uint64
	stop     chan struct{}
	wake     chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	seen      map[string]struct{}
	items     []Notification
	unread    int
	lastCount int
	fetches   int
	// countStamp moves every time unread is taken from the server.
	countStamp uint64
}

func NewPoller(fetcher Fetcher, cfg Config) *Poller {
	cfg.Backoff = cfg.Backoff.normalized()
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 20
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Poller{
		fetcher:   fetcher,
		cfg:       cfg,
		state:     StateIdle,
		visible:   true,
		seen:      make(map[string]struct{}),
		lastCount: -1,
	}
}

// Start begins polling. A visible session fetches immediately; a hidden one
// waits for SetVisible(true). Starting a started poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateIdle {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stop = make(chan struct{})
	p.wake = make(chan struct{}, 1)
	p.interval = p.cfg.Backoff.Base
	p.resume = false
	if p.visible {
		p.state = StateRunning
	} else {
		p.state = StateSuspended
	}

	p.wg.Add(1)
	go p.loop(ctx, p.gen, p.stop, p.wake, p.visible)
}

// Stop returns once the poll goroutine has exited. No fetch is scheduled
// after it returns and the result of a fetch still in flight is dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.state == StateIdle {
		p.mu.Unlock()
		return
	}
	p.gen++
	p.cancel()
	close(p.stop)
	p.state = StateIdle
	p.mu.Unlock()

	p.wg.Wait()
}

// SetVisible is the visibility signal of the hosting session. Hiding
// suspends polling; showing again triggers exactly one immediate fetch and
// then the normal cadence.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible == visible {
		return
	}
	p.visible = visible
	if p.state == StateIdle {
		return
	}
	if visible {
		p.state = StateRunning
		p.resume = true
	} else {
		p.state = StateSuspended
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context, gen uint64, stop, wake <-chan struct{}, visible bool) {
	defer p.wg.Done()

	timer := time.NewTimer(0)
	if !visible {
		stopTimer(timer)
	}
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-wake:
			p.mu.Lock()
			fetchNow := p.resume && p.visible
			p.resume = false
			hidden := !p.visible
			p.mu.Unlock()
			if hidden {
				stopTimer(timer)
				continue
			}
			if !fetchNow {
				continue
			}
			stopTimer(timer)
		case <-timer.C:
			p.mu.Lock()
			hidden := !p.visible
			p.mu.Unlock()
			if hidden {
				continue
			}
		}

		if !p.pollOnce(ctx, gen, stop) {
			return
		}
		p.mu.Lock()
		next, hidden := p.interval, !p.visible
		p.mu.Unlock()
		if !hidden {
			timer.Reset(next)
		}
	}
}

type pollResult struct {
	count int
	items []Notification
	err   error
}

// pollOnce runs one fetch and reports false when the poller was stopped
// while waiting for it.
func (p *Poller) pollOnce(ctx context.Context, gen uint64, stop <-chan struct{}) bool {
	p.mu.Lock()
	needList := p.lastCount < 0
	lastCount := p.lastCount
	p.fetches++
	p.mu.Unlock()

	done := make(chan pollResult, 1)
	go func() {
		done <- p.fetch(ctx, needList, lastCount)
	}()

	timeout := time.NewTimer(p.cfg.FetchTimeout)
	defer timeout.Stop()

	var res pollResult
	select {
	case <-stop:
		return false
	case res = <-done:
	case <-timeout.C:
		res = pollResult{err: ErrFetchTimeout}
	}

	alerts := p.apply(gen, res)
	for _, n := range alerts {
		p.cfg.Alerter(n)
	}
	return true
}

// fetch asks for the unread count and, when it moved or nothing was listed
// yet, for the latest notifications.
func (p *Poller) fetch(ctx context.Context, needList bool, lastCount int) pollResult {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	count, err := p.fetcher.UnreadCount(ctx)
	if err != nil {
		return pollResult{err: err}
	}
	res := pollResult{count: count}
	if needList || count != lastCount {
		items, err := p.fetcher.List(ctx, p.cfg.ListLimit)
		if err != nil {
			return pollResult{err: err}
		}
		if items == nil {
			items = []Notification{}
		}
		res.items = items
	}
	return res
}

// apply folds a fetch result into the session state and returns the
// notifications to alert on. Results from a previous run are dropped.
func (p *Poller) apply(gen uint64, res pollResult) []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}

	if res.err != nil {
		p.interval = NextInterval(p.cfg.Backoff, p.interval, OutcomeFailure)
		p.cfg.Logger.Printf("[notifier][poller] fetch failed, next in %s: %v", p.interval, res.err)
		return nil
	}
	p.interval = NextInterval(p.cfg.Backoff, p.interval, OutcomeSuccess)
	p.unread = res.count
	p.lastCount = res.count
	p.countStamp++
	if res.items == nil {
		return nil
	}
	return p.reconcileLocked(res.items)
}

func (p *Poller) reconcileLocked(items []Notification) []Notification {
	p.items = append([]Notification(nil), items...)
	if p.cfg.Alerter == nil {
		for _, n := range items {
			p.seen[n.ID] = struct{}{}
		}
		return nil
	}
	var fresh []Notification
	for _, n := range items {
		if _, ok := p.seen[n.ID]; ok {
			continue
		}
		p.seen[n.ID] = struct{}{}
		fresh = append(fresh, n)
	}
	return fresh
}

// MarkRead flips the notification locally before telling the server. If the
// server refuses, the local flip is undone and state is rebuilt from the
// server.
func (p *Poller) MarkRead(ctx context.Context, id string) error {
	p.mu.Lock()
	saved, stamp := p.unread, p.countStamp
	flipped := make(map[string]struct{})
	for i := range p.items {
		if p.items[i].ID == id && !p.items[i].Read {
			p.items[i].Read = true
			p.unread = max(p.unread-1, 0)
			flipped[id] = struct{}{}
		}
	}
	p.mu.Unlock()

	if err := p.fetcher.MarkRead(ctx, id); err != nil {
		p.rollback(flipped, saved, stamp)
		p.resync(ctx)
		return err
	}
	return nil
}

// MarkAllRead clears the badge locally before telling the server and returns
// how many notifications the server changed.
func (p *Poller) MarkAllRead(ctx context.Context) (int, error) {
	p.mu.Lock()
	saved, stamp := p.unread, p.countStamp
	flipped := make(map[string]struct{})
	for i := range p.items {
		if !p.items[i].Read {
			p.items[i].Read = true
			flipped[p.items[i].ID] = struct{}{}
		}
	}
	p.unread = 0
	p.mu.Unlock()

	n, err := p.fetcher.MarkAllRead(ctx)
	if err != nil {
		p.rollback(flipped, saved, stamp)
		p.resync(ctx)
		return 0, err
	}
	return n, nil
}

// rollback undoes an optimistic flip. The badge goes back to its previous
// value unless a poll already replaced it with the server's count.
func (p *Poller) rollback(ids map[string]struct{}, saved int, stamp uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if _, ok := ids[p.items[i].ID]; ok {
			p.items[i].Read = false
		}
	}
	if p.countStamp == stamp {
		p.unread = saved
	}
}

// resync replaces local state with the server's count and list. When the
// server cannot be reached the next poll lists again.
func (p *Poller) resync(ctx context.Context) {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	res := p.fetch(ctx, true, -1)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	if res.err != nil {
		p.cfg.Logger.Printf("[notifier][poller] resync failed: %v", res.err)
		p.lastCount = -1
		p.mu.Unlock()
		return
	}
	p.unread = res.count
	p.lastCount = res.count
	p.countStamp++
	alerts := p.reconcileLocked(res.items)
	p.mu.Unlock()

	for _, n := range alerts {
		p.cfg.Alerter(n)
	}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

func (p *Poller) Notifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Notification(nil), p.items...)
}

// Interval is the delay currently planned before the next fetch.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Fetches counts the fetches issued since the poller was created.
func (p *Poller) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
