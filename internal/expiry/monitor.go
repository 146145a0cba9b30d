// Package expiry tracks the payment deadline of unpaid bookings. The server
// side expires an unpaid booking a fixed time after creation; this monitor
// only detects that a locally held booking has gone stale and triggers a
// single authoritative reload, it never expires anything itself.
package expiry

import (
	"context"
	"sync"
	"time"

	"github.com/pitchside/fieldbook-gateway/internal/booking"
)

type State string

const (
	// StateActive marks bookings not subject to auto-expiry (paid, or past
	// the pending stage).
	StateActive State = "active"
	// StateExpiring marks unpaid bookings with the countdown still running.
	StateExpiring State = "expiring"
	// StateExpired marks unpaid bookings past the deadline locally.
	StateExpired State = "expired"
)

// Snapshot is the countdown view for one booking.
type Snapshot struct {
	State     State
	Remaining time.Duration
}

// Assess classifies a booking against the payment deadline at the given
// instant. Bookings without a creation timestamp cannot be assessed and
// stay active.
func Assess(b *booking.Booking, now time.Time, deadline time.Duration) Snapshot {
	if !b.AwaitingPayment() || b.CreatedAt.IsZero() {
		return Snapshot{State: StateActive}
	}
	remaining := b.CreatedAt.Add(deadline).Sub(now)
	if remaining <= 0 {
		return Snapshot{State: StateExpired}
	}
	return Snapshot{State: StateExpiring, Remaining: remaining}
}

// Config carries the monitor timings. Zero values fall back to the defaults
// the product defines: a 2 hour payment deadline checked every 30 seconds,
// reloads debounced to one per 5 seconds with a 3 second in-flight grace.
type Config struct {
	Deadline time.Duration
	Tick     time.Duration
	Debounce time.Duration
	Grace    time.Duration
	Now      func() time.Time
}

func (c *Config) withDefaults() {
	if c.Deadline <= 0 {
		c.Deadline = 2 * time.Hour
	}
	if c.Tick <= 0 {
		c.Tick = 30 * time.Second
	}
	if c.Debounce <= 0 {
		c.Debounce = 5 * time.Second
	}
	if c.Grace <= 0 {
		c.Grace = 3 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// ReloadFunc reloads a player's booking list from the upstream.
type ReloadFunc func(ctx context.Context, playerID string)

// ExpiredFunc is notified once per locally detected expiry.
type ExpiredFunc func(playerID, displayKey string)

// Monitor watches the bookings of any number of players. Countdown updates
// mutate only the snapshot maps; a reload is triggered solely on the first
// transition of a booking into the expired state, guarded single-flight.
type Monitor struct {
	cfg       Config
	reload    ReloadFunc
	onExpired ExpiredFunc

	mu      sync.Mutex
	watches map[string]*watch
	stop    chan struct{}
	stopped sync.Once
}

type watch struct {
	bookings   []booking.Booking
	snapshots  map[string]Snapshot
	reloading  bool
	lastReload time.Time
}

func NewMonitor(cfg Config, reload ReloadFunc, onExpired ExpiredFunc) *Monitor {
	cfg.withDefaults()
	return &Monitor{
		cfg:       cfg,
		reload:    reload,
		onExpired: onExpired,
		watches:   make(map[string]*watch),
		stop:      make(chan struct{}),
	}
}

// Observe replaces the watched booking set for a player and assesses it
// immediately, mirroring the assessment that runs on every data load.
func (m *Monitor) Observe(playerID string, bookings []booking.Booking) {
	m.mu.Lock()
	w, ok := m.watches[playerID]
	if !ok {
		w = &watch{snapshots: make(map[string]Snapshot)}
		m.watches[playerID] = w
	}
	w.bookings = make([]booking.Booking, len(bookings))
	copy(w.bookings, bookings)
	m.mu.Unlock()

	m.assess(playerID)
}

// Forget drops a player's watch, e.g. when their session ends.
func (m *Monitor) Forget(playerID string) {
	m.mu.Lock()
	delete(m.watches, playerID)
	m.mu.Unlock()
}

// Snapshot returns the current countdown view for one booking.
func (m *Monitor) Snapshot(playerID, displayKey string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.watches[playerID]
	if !ok {
		return Snapshot{}, false
	}
	s, ok := w.snapshots[displayKey]
	return s, ok
}

// Start runs the periodic assessment until Stop is called.
func (m *Monitor) Start() {
	go func() {
		ticker := time.NewTicker(m.cfg.Tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Tick()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop halts the periodic assessment.
func (m *Monitor) Stop() {
	m.stopped.Do(func() { close(m.stop) })
}

// Tick reassesses every watched player once. Exposed so a tick can be
// driven directly in tests.
func (m *Monitor) Tick() {
	m.mu.Lock()
	players := make([]string, 0, len(m.watches))
	for id := range m.watches {
		players = append(players, id)
	}
	m.mu.Unlock()

	for _, id := range players {
		m.assess(id)
	}
}

func (m *Monitor) assess(playerID string) {
	now := m.cfg.Now()

	m.mu.Lock()
	w, ok := m.watches[playerID]
	if !ok {
		m.mu.Unlock()
		return
	}

	var newlyExpired []string
	snapshots := make(map[string]Snapshot, len(w.bookings))
	for i := range w.bookings {
		b := &w.bookings[i]
		snap := Assess(b, now, m.cfg.Deadline)
		snapshots[b.DisplayKey] = snap
		if snap.State == StateExpired && w.snapshots[b.DisplayKey].State != StateExpired {
			newlyExpired = append(newlyExpired, b.DisplayKey)
		}
	}
	w.snapshots = snapshots

	shouldReload := false
	if len(newlyExpired) > 0 {
		if !w.reloading && now.Sub(w.lastReload) > m.cfg.Debounce {
			w.reloading = true
			w.lastReload = now
			shouldReload = true
		}
	}
	m.mu.Unlock()

	for _, key := range newlyExpired {
		if m.onExpired != nil {
			m.onExpired(playerID, key)
		}
	}

	if shouldReload {
		go m.runReload(playerID)
	}
}

func (m *Monitor) runReload(playerID string) {
	if m.reload != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		m.reload(ctx, playerID)
	}
	// Keep the in-flight flag up for the grace period so overlapping expiry
	// detections cannot stack reloads.
	time.AfterFunc(m.cfg.Grace, func() {
		m.mu.Lock()
		if w, ok := m.watches[playerID]; ok {
			w.reloading = false
		}
		m.mu.Unlock()
	})
}
