package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind selects the polling cadence of a registration
type Kind int

const (
	// KindPassive surfaces are always shown and poll at the status interval
	KindPassive Kind = iota
	// KindLive surfaces poll at the faster panel interval while visible
	KindLive
)

func (k Kind) String() string {
	switch k {
	case KindPassive:
		return "passive"
	case KindLive:
		return "live"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scheduler keeps registered surfaces in sync with the player.
// Every registration polls on its own goroutine, and every bridge change
// nudges all registrations for an immediate refresh.
type Scheduler struct {
	logger *zap.Logger
	bridge domain.Bridge
	cfg    domain.Config

	mu            sync.Mutex
	registrations map[string]*Registration
	stopped       bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a new refresh scheduler
func NewScheduler(logger *zap.Logger, bridge domain.Bridge, cfg domain.Config) *Scheduler {
	return &Scheduler{
		logger:        logger,
		bridge:        bridge,
		cfg:           cfg,
		registrations: make(map[string]*Registration),
	}
}

// Start launches the change listener in a goroutine.
// It returns immediately (non-blocking).
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Scheduler starting...",
		zap.Duration("statusInterval", s.cfg.GetStatusInterval()),
		zap.Duration("panelInterval", s.cfg.GetPanelInterval()))

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.runLoop(ctx, s.done)
	return nil
}

// runLoop forwards bridge changes to every active registration
func (s *Scheduler) runLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	changes := s.bridge.Changes()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler loop stopped")
			return

		case change, ok := <-changes:
			if !ok {
				s.logger.Info("Bridge changes channel closed")
				return
			}
			s.logger.Debug("Change received, refreshing surfaces",
				zap.String("operation", change.Operation))
			s.nudgeAll()
		}
	}
}

// Register starts polling for a surface at the cadence of its kind.
// The first refresh happens immediately.
func (s *Scheduler) Register(surface domain.Surface, kind Kind) *Registration {
	interval := s.cfg.GetStatusInterval()
	if kind == KindLive {
		interval = s.cfg.GetPanelInterval()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registration{
		ID:        uuid.NewString(),
		Kind:      kind,
		scheduler: s,
		logger:    s.logger.With(zap.String("surface", surface.Name()), zap.Stringer("kind", kind)),
		bridge:    s.bridge,
		surface:   surface,
		interval:  interval,
		nudge:     make(chan struct{}, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		cancel()
		close(r.done)
		r.release()
		s.logger.Warn("Scheduler stopped, registration ignored", zap.String("surface", surface.Name()))
		return r
	}
	s.registrations[r.ID] = r
	s.mu.Unlock()

	r.logger.Debug("Surface registered", zap.String("id", r.ID), zap.Duration("interval", interval))
	go r.loop(ctx)
	return r
}

// RefreshAll synchronously refreshes every active registration once
func (s *Scheduler) RefreshAll(ctx context.Context) {
	for _, r := range s.active() {
		r.refresh(ctx)
	}
}

// Active returns the number of live registrations
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.registrations)
}

// Stop disposes every registration and stops the change listener
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Scheduler stopping...")

	s.mu.Lock()
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	for _, r := range s.active() {
		r.Dispose()
	}

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Scheduler) active() []*Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs := make([]*Registration, 0, len(s.registrations))
	for _, r := range s.registrations {
		regs = append(regs, r)
	}
	return regs
}

func (s *Scheduler) nudgeAll() {
	for _, r := range s.active() {
		r.Nudge()
	}
}

func (s *Scheduler) forget(id string) {
	s.mu.Lock()
	delete(s.registrations, id)
	s.mu.Unlock()
}

// Registration is one surface polled by the scheduler
type Registration struct {
	// ID identifies the registration in logs
	ID string
	// Kind is the polling cadence
	Kind Kind

	scheduler *Scheduler
	logger    *zap.Logger
	interval  time.Duration
	nudge     chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once

	// pollMu serializes refreshes and guards bridge and surface,
	// which are dropped on dispose
	pollMu  sync.Mutex
	bridge  domain.Bridge
	surface domain.Surface
}

// Nudge requests an out-of-band refresh. Pending nudges coalesce.
func (r *Registration) Nudge() {
	select {
	case r.nudge <- struct{}{}:
	default:
	}
}

// Dispose stops polling and waits for the loop to exit.
// No refresh runs after Dispose returns. Safe to call more than once.
func (r *Registration) Dispose() {
	r.once.Do(func() {
		r.cancel()
		<-r.done
		r.release()
		if r.scheduler != nil {
			r.scheduler.forget(r.ID)
		}
		r.logger.Debug("Surface disposed", zap.String("id", r.ID))
	})
}

func (r *Registration) release() {
	r.pollMu.Lock()
	r.bridge = nil
	r.surface = nil
	r.pollMu.Unlock()
}

// loop refreshes once immediately, then on every tick or nudge.
// Refreshing inside the loop keeps polls for one surface from overlapping.
func (r *Registration) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.nudge:
		}
		if ctx.Err() != nil {
			return
		}
		r.refresh(context.WithoutCancel(ctx))
	}
}

// refresh reads a snapshot and renders it.
// The in-flight script is bounded by the executor timeout, not by disposal.
func (r *Registration) refresh(ctx context.Context) {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()
	if r.bridge == nil || r.surface == nil {
		return
	}

	snapshot := r.snapshot(ctx, r.bridge)
	r.render(r.surface, snapshot)
}

func (r *Registration) snapshot(ctx context.Context, bridge domain.Bridge) (snap domain.PlayerSnapshot) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Snapshot panicked, rendering empty state", zap.Any("panic", p))
			snap = domain.EmptySnapshot()
		}
	}()
	return bridge.Snapshot(ctx)
}

func (r *Registration) render(surface domain.Surface, snapshot domain.PlayerSnapshot) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Render panicked", zap.Any("panic", p))
		}
	}()
	surface.Render(snapshot)
	r.logger.Debug("Surface refreshed",
		zap.String("track", snapshot.TrackKey()),
		zap.String("state", string(snapshot.State)),
		zap.Int("volume", snapshot.Volume))
}
