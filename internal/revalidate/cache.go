// Package revalidate keeps the article snapshot fresh the way a static
// regeneration host would: a page older than the interval is still served,
// and the next request after that window starts a rebuild in the background.
package revalidate

import (
	"context"
	"errors"
	"portfolio/internal/domain/content"
	"portfolio/internal/ingest"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
)

// Persister stores successful snapshots; *index.Store satisfies it.
type Persister interface {
	Save(content.Snapshot) error
}

type Options struct {
	Interval time.Duration
	// Schedule is an optional cron spec forcing refreshes.
	Schedule string
	// RetryDelay is how long a failed background refresh waits before the
	// next request may try again.
	RetryDelay time.Duration
	Timeout    time.Duration
	Store      Persister
	Now        func() time.Time
}

type Status struct {
	Source      string    `json:"source"`
	Articles    int       `json:"articles"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Fingerprint string    `json:"fingerprint"`
	Stale       bool      `json:"stale"`
	LastError   string    `json:"lastError,omitempty"`
}

var ErrClosed = errors.New("revalidate: cache closed")

type Cache struct {
	src ingest.Source
	opt Options

	mu          sync.RWMutex
	snap        content.Snapshot
	has         bool
	lastErr     error
	nextAttempt time.Time
	closed      bool
	listeners   []func(content.Snapshot)

	group      singleflight.Group
	refreshing atomic.Bool
	bg         sync.WaitGroup

	base   context.Context
	cancel context.CancelFunc
	cron   *cron.Cron
}

func New(src ingest.Source, opt Options) *Cache {
	if opt.Interval <= 0 {
		opt.Interval = 30 * time.Minute
	}
	if opt.RetryDelay <= 0 {
		opt.RetryDelay = time.Minute
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	base, cancel := context.WithCancel(context.Background())
	return &Cache{
		src:    src,
		opt:    opt,
		base:   base,
		cancel: cancel,
	}
}

// Seed installs a previously persisted snapshot without fetching. It is
// ignored once the cache holds a snapshot.
func (c *Cache) Seed(snap content.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has {
		return
	}
	c.snap = snap
	c.has = true
	metrics.ArticlesServed.Set(float64(len(snap.Articles)))
	metrics.SnapshotAge.Set(float64(snap.FetchedAt.Unix()))
}

// OnChange registers fn to run after a refresh produced different articles.
func (c *Cache) OnChange(fn func(content.Snapshot)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Get returns the current snapshot. Without one it fetches synchronously and
// returns the fetch error; within RetryDelay of a failed fetch the previous
// error is returned without fetching. A stale snapshot is returned as is while
// a background refresh runs.
func (c *Cache) Get(ctx context.Context) (content.Snapshot, error) {
	c.mu.RLock()
	snap, has := c.snap, c.has
	lastErr, wait := c.lastErr, c.opt.Now().Before(c.nextAttempt)
	c.mu.RUnlock()

	if !has {
		if lastErr != nil && wait {
			return content.Snapshot{}, lastErr
		}
		return c.refresh(ctx, "initial")
	}
	if c.stale(snap) {
		c.trigger("stale")
	}
	return snap, nil
}

// Refresh fetches now and waits for the result. Concurrent calls share one fetch.
func (c *Cache) Refresh(ctx context.Context) (content.Snapshot, error) {
	return c.refresh(ctx, "manual")
}

func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{
		Source:      c.src.Name(),
		Articles:    len(c.snap.Articles),
		FetchedAt:   c.snap.FetchedAt,
		Fingerprint: c.snap.Fingerprint,
		Stale:       !c.has || c.stale(c.snap),
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

func (c *Cache) stale(snap content.Snapshot) bool {
	return c.opt.Now().Sub(snap.FetchedAt) >= c.opt.Interval
}

func (c *Cache) trigger(reason string) {
	c.mu.Lock()
	if c.closed || c.opt.Now().Before(c.nextAttempt) || !c.refreshing.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return
	}
	c.bg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.bg.Done()
		defer c.refreshing.Store(false)

		if _, err := c.refresh(c.base, reason); err != nil {
			logger.Warnf("[revalidate] %s refresh failed, still serving previous snapshot: %v", reason, err)
		}
	}()
}

// refresh waits for the shared fetch or for ctx, whichever ends first. The
// fetch itself runs on the cache's own context so a caller that gives up does
// not fail the others.
func (c *Cache) refresh(ctx context.Context, reason string) (content.Snapshot, error) {
	if c.base.Err() != nil {
		return content.Snapshot{}, ErrClosed
	}
	ch := c.group.DoChan("refresh", func() (interface{}, error) {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, ErrClosed
		}
		c.bg.Add(1)
		c.mu.Unlock()
		defer c.bg.Done()

		fctx, cancel := context.WithTimeout(c.base, c.opt.Timeout)
		defer cancel()
		snap, err := ingest.Fetch(fctx, c.src)
		if err != nil {
			if c.base.Err() != nil {
				return nil, ErrClosed
			}
			metrics.RevalidationsTotal.WithLabelValues(reason, "error").Inc()
			c.mu.Lock()
			c.lastErr = err
			c.nextAttempt = c.opt.Now().Add(c.opt.RetryDelay)
			c.mu.Unlock()
			return nil, err
		}
		metrics.RevalidationsTotal.WithLabelValues(reason, "ok").Inc()
		c.install(snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return content.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return content.Snapshot{}, res.Err
		}
		return res.Val.(content.Snapshot), nil
	}
}

func (c *Cache) install(snap content.Snapshot) {
	c.mu.Lock()
	changed := !c.has || c.snap.Fingerprint != snap.Fingerprint
	c.snap = snap
	c.has = true
	c.lastErr = nil
	c.nextAttempt = time.Time{}
	listeners := append([]func(content.Snapshot){}, c.listeners...)
	c.mu.Unlock()

	metrics.ArticlesServed.Set(float64(len(snap.Articles)))
	metrics.SnapshotAge.Set(float64(snap.FetchedAt.Unix()))

	if c.opt.Store != nil {
		if err := c.opt.Store.Save(snap); err != nil {
			logger.Warnf("[revalidate] persist snapshot: %v", err)
		}
	}
	if !changed {
		logger.Debugf("[revalidate] snapshot unchanged (%s)", snap.Fingerprint)
		return
	}
	logger.Infof("[revalidate] new snapshot with %d articles", len(snap.Articles))
	for _, fn := range listeners {
		fn(snap)
	}
}

// Start runs the optional cron schedule until Close.
func (c *Cache) Start() error {
	if c.opt.Schedule == "" {
		return nil
	}
	cr := cron.New()
	_, err := cr.AddFunc(c.opt.Schedule, func() {
		if _, err := c.refresh(c.base, "schedule"); err != nil {
			logger.Warnf("[revalidate] scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	c.cron = cr
	cr.Start()
	logger.Infof("[revalidate] scheduled refresh %q", c.opt.Schedule)
	return nil
}

// Close stops the schedule and waits for running refreshes.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
	c.bg.Wait()
}
