package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/tandem/internal/logging"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/google/uuid"
)

const (
	// DefaultMessageTTL is how long a combination message stays visible.
	DefaultMessageTTL = 2 * time.Second

	// DefaultQueueSize is the buffer of the coordinator event queue.
	DefaultQueueSize = 64
)

// messageExpired is posted by the expiry timer of a message.
type messageExpired struct {
	seq uint64
}

func (messageExpired) Kind() domain.EventKind { return "message_expired" }

type envelope struct {
	event domain.Event
	reply chan *domain.Snapshot
}

// Coordinator is the parallel composition of two list regions and the
// selection region. A single goroutine consumes the event queue, so every
// event (external or an async completion) is processed to completion before
// the next one and no region state is ever guarded by a lock.
type Coordinator struct {
	id        string
	lists     [2]*listRegion
	selection *selectionRegion
	combiner  ports.Combiner

	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	messageTTL time.Duration
	queueSize  int
	now        func() time.Time

	// Owned by the loop goroutine.
	message    *domain.Message
	messageSeq uint64
	expiry     *time.Timer
	version    uint64

	current atomic.Pointer[domain.Snapshot]

	queue     chan envelope
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	inflight  sync.WaitGroup
	closeOnce sync.Once

	watchMu  sync.Mutex
	watchers map[chan *domain.Snapshot]struct{}
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coordinator) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithMessageTTL sets how long a combination message is kept.
// A non-positive TTL keeps the message until the next combination.
func WithMessageTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.messageTTL = ttl
	}
}

// WithQueueSize sets the buffer of the event queue.
func WithQueueSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithID overrides the generated coordinator ID.
func WithID(id string) Option {
	return func(c *Coordinator) {
		if id != "" {
			c.id = id
		}
	}
}

// WithClock sets the time source used for message expiry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator creates the coordinator and triggers the initial load of
// both lists. Close must be called to release the loop goroutine.
func NewCoordinator(a, b ports.PageSource, combiner ports.Combiner, opts ...Option) *Coordinator {
	c := &Coordinator{
		id:         uuid.NewString(),
		lists:      [2]*listRegion{newListRegion(domain.RegionA, a), newListRegion(domain.RegionB, b)},
		selection:  newSelectionRegion(),
		combiner:   combiner,
		logger:     logging.NewNop(),
		messageTTL: DefaultMessageTTL,
		queueSize:  DefaultQueueSize,
		now:        time.Now,
		done:       make(chan struct{}),
		watchers:   make(map[chan *domain.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("coordinator", c.id)
	c.queue = make(chan envelope, c.queueSize)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	// Both initial loads run concurrently; their completions queue up until
	// the loop starts.
	for _, l := range c.lists {
		c.startFetch(l, l.load())
	}
	c.publish()

	go c.loop()
	return c
}

// ID returns the coordinator identifier carried by every snapshot.
func (c *Coordinator) ID() string {
	return c.id
}

// Dispatch enqueues the event, waits until it was fully processed and returns
// the snapshot published by that step. Invalid events are ignored and the
// unchanged snapshot is returned.
func (c *Coordinator) Dispatch(ctx context.Context, event domain.Event) (*domain.Snapshot, error) {
	if event == nil {
		return c.Snapshot(), nil
	}
	if c.ctx.Err() != nil {
		return nil, domain.ErrCoordinatorClosed
	}

	reply := make(chan *domain.Snapshot, 1)
	select {
	case c.queue <- envelope{event: event, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, domain.ErrCoordinatorClosed
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, domain.ErrCoordinatorClosed
	}
}

// Snapshot returns the last published snapshot.
func (c *Coordinator) Snapshot() *domain.Snapshot {
	return c.current.Load()
}

// Watch streams published snapshots, starting with the current one.
// The channel keeps only the latest snapshot for slow readers and is closed
// when ctx is done or the coordinator is closed.
func (c *Coordinator) Watch(ctx context.Context) <-chan *domain.Snapshot {
	ch := make(chan *domain.Snapshot, 1)

	c.watchMu.Lock()
	if c.watchers == nil {
		c.watchMu.Unlock()
		close(ch)
		return ch
	}
	c.watchers[ch] = struct{}{}
	ch <- c.current.Load()
	c.watchMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.done:
		}
		c.watchMu.Lock()
		defer c.watchMu.Unlock()
		if _, ok := c.watchers[ch]; ok {
			delete(c.watchers, ch)
			close(ch)
		}
	}()
	return ch
}

// Close stops the loop, cancels in-flight fetches and combinations and
// closes every watch channel. Completions arriving afterwards are dropped.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done
		c.inflight.Wait()
		if c.expiry != nil {
			c.expiry.Stop()
		}

		c.watchMu.Lock()
		for ch := range c.watchers {
			close(ch)
		}
		c.watchers = nil
		c.watchMu.Unlock()

		c.logger.Debug("coordinator closed")
	})
	return nil
}

func (c *Coordinator) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case env := <-c.queue:
			snap := c.step(env.event)
			if env.reply != nil {
				env.reply <- snap
			}
		}
	}
}

// post enqueues an internal event from an async worker.
func (c *Coordinator) post(event domain.Event) {
	select {
	case c.queue <- envelope{event: event}:
	case <-c.ctx.Done():
	}
}

func (c *Coordinator) step(event domain.Event) *domain.Snapshot {
	applied := c.handle(event)

	if c.hooks.OnEvent != nil {
		c.hooks.OnEvent(c.ctx, &domain.DispatchEvent{
			HookBase: c.hookBase(domain.HookEvent),
			Kind:     event.Kind(),
			Applied:  applied,
		})
	}

	if !applied {
		c.logger.Debug("event ignored", "kind", event.Kind())
		return c.current.Load()
	}
	return c.publish()
}

// handle fans the event out to the region that declares interest in it.
func (c *Coordinator) handle(event domain.Event) bool {
	switch e := event.(type) {
	case domain.Search:
		l := c.list(e.Region)
		if l == nil {
			return false
		}
		c.startFetch(l, l.search(e.Term))
		return true

	case domain.LoadMore:
		l := c.list(e.Region)
		if l == nil {
			return false
		}
		req, ok := l.loadMore()
		if !ok {
			return false
		}
		c.startFetch(l, req)
		return true

	case domain.PickFirst:
		return c.selection.pickFirst(e.Code)

	case domain.PickSecond:
		return c.startCombine(c.selection.pickSecond(e.Code))

	case domain.RetryCombine:
		return c.startCombine(c.selection.retry())

	case domain.CancelSelection:
		return c.selection.cancel()

	case fetchDone:
		return c.applyFetch(e)

	case combineDone:
		return c.applyCombine(e)

	case messageExpired:
		if c.message == nil || e.seq != c.messageSeq {
			return false
		}
		c.message = nil
		return true
	}
	return false
}

func (c *Coordinator) list(r domain.Region) *listRegion {
	i := r.Index()
	if i < 0 {
		c.logger.Warn("event for unknown region", "region", r)
		return nil
	}
	return c.lists[i]
}

func (c *Coordinator) startFetch(l *listRegion, req fetchRequest) {
	c.logger.Debug("fetch started",
		"region", req.region,
		"mode", req.mode,
		"term", req.term,
		"page", req.page,
		"gen", req.gen,
	)

	source := l.source
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		start := time.Now()
		page, err := source.FetchPage(c.ctx, req.term, req.page)
		c.post(fetchDone{req: req, page: page, err: err, duration: time.Since(start)})
	}()
}

func (c *Coordinator) applyFetch(res fetchDone) bool {
	l := c.list(res.req.region)
	if l == nil {
		return false
	}
	applied := l.apply(res)

	switch {
	case !applied:
		c.logger.Debug("stale fetch discarded", "region", res.req.region, "gen", res.req.gen, "current_gen", l.gen)
	case res.err != nil:
		c.logger.Warn("fetch failed", "region", res.req.region, "mode", res.req.mode, "page", res.req.page, "err", res.err)
	}

	if c.hooks.OnFetch != nil {
		c.hooks.OnFetch(c.ctx, &domain.FetchEvent{
			HookBase:   c.hookBase(domain.HookFetch),
			Region:     res.req.region,
			Mode:       res.req.mode,
			Term:       res.req.term,
			Page:       res.req.page,
			Generation: res.req.gen,
			Count:      len(res.page.Values),
			Duration:   res.duration,
			Err:        res.err,
			Stale:      !applied,
		})
	}
	return applied
}

// startCombine launches the combination for req. The selection region only
// yields a request when no other combination is in flight.
func (c *Coordinator) startCombine(req *combineRequest) bool {
	if req == nil {
		return false
	}
	c.logger.Debug("combination started", "first", req.first, "second", req.second, "gen", req.gen)

	r := *req
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		start := time.Now()
		msg, err := c.combiner.Combine(c.ctx, r.first, r.second)
		c.post(combineDone{req: r, message: msg, err: err, duration: time.Since(start)})
	}()
	return true
}

func (c *Coordinator) applyCombine(res combineDone) bool {
	if !c.selection.apply(res) {
		return false
	}

	if res.err != nil {
		c.logger.Warn("combination failed", "first", res.req.first, "second", res.req.second, "err", res.err)
	} else {
		c.showMessage(res.message)
	}

	if c.hooks.OnCombine != nil {
		c.hooks.OnCombine(c.ctx, &domain.CombineEvent{
			HookBase: c.hookBase(domain.HookCombine),
			First:    res.req.first,
			Second:   res.req.second,
			Message:  res.message,
			Duration: res.duration,
			Err:      res.err,
		})
	}
	return true
}

func (c *Coordinator) showMessage(text string) {
	c.messageSeq++
	msg := &domain.Message{Text: text}
	if c.expiry != nil {
		c.expiry.Stop()
		c.expiry = nil
	}
	if c.messageTTL > 0 {
		msg.ExpiresAt = c.now().Add(c.messageTTL)
		seq := c.messageSeq
		c.expiry = time.AfterFunc(c.messageTTL, func() {
			c.post(messageExpired{seq: seq})
		})
	}
	c.message = msg
}

func (c *Coordinator) publish() *domain.Snapshot {
	c.version++
	snap := &domain.Snapshot{
		ID:               c.id,
		Version:          c.version,
		Lists:            [2]domain.ListState{c.lists[0].state(), c.lists[1].state()},
		Selection:        c.selection.state(),
		SecondSelectable: c.selection.status == domain.SelectionFirstCommitted,
	}
	if c.message != nil {
		msg := *c.message
		snap.Message = &msg
	}
	c.current.Store(snap)
	c.broadcast(snap)
	return snap
}

func (c *Coordinator) broadcast(snap *domain.Snapshot) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	for ch := range c.watchers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Latest wins: replace the unread snapshot.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (c *Coordinator) hookBase(t domain.HookType) domain.HookBase {
	return domain.HookBase{Timestamp: c.now(), Type: t, CoordinatorID: c.id}
}
