// Package controller owns the rate table lifecycle and performs conversions
// against the current table on behalf of a presentation layer.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/fxconverter/pkg/conversion"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/metrics"
	"github.com/amirasaad/fxconverter/pkg/provider"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the collectors fetches and conversions are recorded on.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithBase sets the base currency. Defaults to domain.DefaultBase.
func WithBase(base string) Option {
	return func(c *Controller) {
		if base = domain.NormalizeCode(base); base != "" {
			c.base = base
		}
	}
}

// WithTimeout bounds every provider call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// Controller holds the FetchState and the last conversion result.
// It is the only writer of both; readers get copies.
type Controller struct {
	provider provider.RateTableProvider
	logger   *slog.Logger
	metrics  *metrics.Metrics
	base     string
	timeout  time.Duration

	group    singleflight.Group
	initOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	state   FetchState
	last    *conversion.Result
	closed  bool
	subs    map[int]chan FetchState
	nextSub int
}

// New creates a controller in the Idle state. No I/O happens until
// Initialize or FetchRates is called.
func New(p provider.RateTableProvider, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		provider: p,
		logger:   slog.Default(),
		base:     domain.DefaultBase,
		ctx:      ctx,
		cancel:   cancel,
		subs:     make(map[int]chan FetchState),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = FetchState{Status: StatusIdle, Base: c.base}
	return c
}

// Base returns the base currency of the rate table.
func (c *Controller) Base() string {
	return c.base
}

// Initialize performs the first fetch. Only the first call fetches; later
// calls return the current state.
func (c *Controller) Initialize(ctx context.Context) FetchState {
	c.initOnce.Do(func() {
		c.FetchRates(ctx)
	})
	return c.State()
}

// FetchRates fetches a fresh rate table and returns the state it led to.
//
// Calls made while a fetch is in flight join it instead of issuing another
// request. ctx bounds only the wait: the fetch itself runs until it
// completes, times out, or the controller is closed.
func (c *Controller) FetchRates(ctx context.Context) FetchState {
	if c.isClosed() {
		return c.State()
	}

	ch := c.group.DoChan(c.base, func() (any, error) {
		return c.fetch(), nil
	})
	select {
	case res := <-ch:
		return res.Val.(FetchState).clone()
	case <-ctx.Done():
		return c.State()
	}
}

func (c *Controller) fetch() FetchState {
	name := c.provider.Name()
	logger := c.logger.With(
		"fetch_id", uuid.NewString(),
		"provider", name,
		"base", c.base,
	)

	if !c.commit(FetchState{Status: StatusLoading, Base: c.base}) {
		return c.State()
	}
	logger.Debug("Fetching rate table")

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := c.provider.FetchRates(ctx, c.base)
	if err == nil {
		err = checkSnapshot(snap, c.base)
	}
	took := time.Since(start)
	c.metrics.ObserveFetch(name, err == nil, took)

	var next FetchState
	if err != nil {
		logger.Error("Failed to fetch rate table", "error", err, "took", took)
		next = FetchState{Status: StatusFailed, Base: c.base, Reason: domain.MsgFetchFailed}
	} else {
		fetchedAt := snap.UpdatedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		next = FetchState{
			Status:    StatusReady,
			Base:      c.base,
			Rates:     snap.Rates.Clone(),
			FetchedAt: fetchedAt,
			Source:    snap.Source,
		}
		logger.Info("Rate table fetched", "currencies", len(next.Rates), "took", took)
	}

	if !c.commit(next) {
		logger.Debug("Discarding rate table fetched after close")
		return c.State()
	}
	if next.Ready() {
		c.metrics.SetTableSize(len(next.Rates))
	} else {
		c.metrics.SetTableSize(0)
	}
	return next
}

func checkSnapshot(snap *domain.RateSnapshot, base string) error {
	if snap == nil {
		return fmt.Errorf("%w: empty snapshot", domain.ErrFetchFailed)
	}
	if err := snap.Rates.Validate(base); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return nil
}

// commit replaces the state and notifies subscribers. It refuses once closed.
func (c *Controller) commit(next FetchState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.state = next
	for _, ch := range c.subs {
		publish(ch, next.clone())
	}
	return true
}

// publish keeps only the latest state in a subscriber's buffer.
func publish(ch chan FetchState, s FetchState) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

// Convert converts req against the current rate table and records the
// result as the last result.
func (c *Controller) Convert(req conversion.Request) conversion.Result {
	c.mu.RLock()
	table := c.state.Rates
	c.mu.RUnlock()

	res := conversion.Convert(table, req)

	c.mu.Lock()
	c.last = &res
	c.mu.Unlock()

	switch {
	case res.OK:
		c.metrics.ObserveConversion(metrics.OutcomeOK)
	case errors.Is(res.Err, conversion.ErrUnknownCurrency):
		c.metrics.ObserveConversion(metrics.OutcomeUnknownCurrency)
	default:
		c.metrics.ObserveConversion(metrics.OutcomeInvalidInput)
	}
	c.logger.Debug("Conversion",
		"amount", req.Amount,
		"from", res.From,
		"to", res.To,
		"ok", res.OK,
		"error", res.Err,
	)
	return res
}

// State returns a copy of the current state.
func (c *Controller) State() FetchState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// LastResult returns the result of the most recent Convert call.
func (c *Controller) LastResult() (conversion.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return conversion.Result{}, false
	}
	return *c.last, true
}

// Subscribe returns a channel receiving the current state and then every
// transition. A slow reader only misses intermediate states, never the
// latest one. The returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan FetchState, func()) {
	ch := make(chan FetchState, 1)

	c.mu.Lock()
	if c.closed {
		ch <- c.state.clone()
		close(ch)
		c.mu.Unlock()
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.clone()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close cancels any in-flight fetch and closes all subscriptions.
// Results arriving afterwards are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
