// Package view maintains the per-player booking view: the booking list
// fetched from the upstream, the reconciliation map associating bookings
// with match requests, and the payment-expiry countdowns. State is held
// only in memory; the upstream stays authoritative.
package view

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pitchside/fieldbook-gateway/internal/auth"
	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/expiry"
	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
	"github.com/pitchside/fieldbook-gateway/internal/notify"
	"github.com/pitchside/fieldbook-gateway/internal/reconcile"
	"github.com/pitchside/fieldbook-gateway/internal/upstream"
)

// BookingView is one booking joined with everything the client renders for
// it: the associated match request, the opponent list, the badge, and the
// payment countdown.
type BookingView struct {
	Booking      booking.Booking
	MatchRequest *matchreq.MatchRequest
	Participants []matchreq.Participant
	Badge        *matchreq.Badge
	Expiry       expiry.Snapshot
}

type playerState struct {
	bookings []booking.Booking
	requests reconcile.Map
	// token is the player's bearer token as of the last authenticated
	// refresh; expiry-triggered background reloads reuse it.
	token string
}

// Service owns the in-memory views and proxies user actions to the
// upstream. Local state is never mutated optimistically: actions re-fetch
// authoritative data only after the upstream confirms success.
type Service struct {
	client upstream.Client
	rec    *reconcile.Reconciler
	events notify.Publisher

	monitor *expiry.Monitor

	mu     sync.Mutex
	states map[string]*playerState
}

func NewService(client upstream.Client, rec *reconcile.Reconciler, monCfg expiry.Config, events notify.Publisher) *Service {
	s := &Service{
		client: client,
		rec:    rec,
		events: events,
		states: make(map[string]*playerState),
	}
	s.monitor = expiry.NewMonitor(monCfg, s.reloadForExpiry, s.publishExpired)
	return s
}

// Monitor exposes the expiry monitor for lifecycle control.
func (s *Service) Monitor() *expiry.Monitor {
	return s.monitor
}

// Refresh reloads the player's bookings from the upstream, reconciles match
// requests (merged over the previous map, never replacing it wholesale) and
// re-primes the expiry monitor.
func (s *Service) Refresh(ctx context.Context, playerID string) error {
	bookings, err := s.client.FetchBookingsByPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	st, ok := s.states[playerID]
	if !ok {
		st = &playerState{requests: reconcile.Map{}}
		s.states[playerID] = st
	}
	prev := st.requests
	s.mu.Unlock()

	next := s.rec.Reconcile(ctx, bookings, prev)

	s.mu.Lock()
	st.bookings = bookings
	st.requests = next
	st.token = auth.TokenFromContext(ctx)
	s.mu.Unlock()

	s.monitor.Observe(playerID, bookings)
	return nil
}

// Views returns the consolidated per-booking views, refreshing first when
// the player has no state yet.
func (s *Service) Views(ctx context.Context, playerID string) ([]BookingView, error) {
	s.mu.Lock()
	_, ok := s.states[playerID]
	s.mu.Unlock()
	if !ok {
		if err := s.Refresh(ctx, playerID); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	st := s.states[playerID]
	bookings := make([]booking.Booking, len(st.bookings))
	copy(bookings, st.bookings)
	requests := st.requests
	s.mu.Unlock()

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := BookingView{Booking: b}
		if req, ok := requests[b.DisplayKey]; ok && req != nil {
			v.MatchRequest = req
			v.Participants = matchreq.FilterParticipantsForDisplay(req)
			badge := matchreq.BadgeFor(req)
			v.Badge = &badge
		}
		if snap, ok := s.monitor.Snapshot(playerID, b.DisplayKey); ok {
			v.Expiry = snap
		} else {
			v.Expiry = expiry.Snapshot{State: expiry.StateActive}
		}
		views = append(views, v)
	}
	return views, nil
}

// AcceptParticipant relays the owner's acceptance and, on success, refreshes
// the affected booking's association.
func (s *Service) AcceptParticipant(ctx context.Context, playerID string, requestID, participantID int64) error {
	if err := s.client.AcceptParticipant(ctx, requestID, participantID); err != nil {
		return err
	}
	s.refreshAssociation(ctx, playerID, requestID)
	return nil
}

// RejectParticipant relays a rejection (or acknowledges a withdrawal) the
// same way.
func (s *Service) RejectParticipant(ctx context.Context, playerID string, requestID, participantID int64) error {
	if err := s.client.RejectParticipant(ctx, requestID, participantID); err != nil {
		return err
	}
	s.refreshAssociation(ctx, playerID, requestID)
	return nil
}

// CancelBooking relays a cancellation and reloads the full list on success.
func (s *Service) CancelBooking(ctx context.Context, playerID string, bookingID int64, reason string) error {
	if b := s.findBooking(playerID, bookingID); b != nil && !b.Cancellable() {
		return booking.ErrNotCancellable
	}
	if err := s.client.CancelBooking(ctx, bookingID, reason); err != nil {
		return err
	}
	return s.Refresh(ctx, playerID)
}

// GenerateQR asks the upstream for a deposit payment QR code.
func (s *Service) GenerateQR(ctx context.Context, bookingID int64, paymentType string, amount float64) (string, error) {
	return s.client.GenerateQRCode(ctx, bookingID, paymentType, amount)
}

// ConfirmPayment relays a payment confirmation and reloads on success.
func (s *Service) ConfirmPayment(ctx context.Context, playerID string, bookingID int64) error {
	if err := s.client.ConfirmPayment(ctx, bookingID); err != nil {
		return err
	}
	return s.Refresh(ctx, playerID)
}

// FetchQRImage proxies the raw QR image bytes from the upstream.
func (s *Service) FetchQRImage(ctx context.Context, imageURL string) ([]byte, error) {
	return s.client.FetchQRImage(ctx, imageURL)
}

// RecordAssociation stores a booking/match-request association immediately,
// e.g. right after the player created a match request, before the upstream
// is guaranteed to report it. The merge semantics of the reconciler keep it
// alive through subsequent passes.
func (s *Service) RecordAssociation(playerID, displayKey string, req *matchreq.MatchRequest) {
	if req == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[playerID]
	if !ok {
		st = &playerState{requests: reconcile.Map{}}
		s.states[playerID] = st
	}
	st.requests = reconcile.Merge(st.requests, reconcile.Map{displayKey: req})
}

// refreshAssociation re-fetches a single match request after a confirmed
// user action. Failure here only leaves the view stale until the next load.
func (s *Service) refreshAssociation(ctx context.Context, playerID string, requestID int64) {
	s.mu.Lock()
	st, ok := s.states[playerID]
	var key string
	if ok {
		for k, req := range st.requests {
			if req != nil && req.ID == requestID {
				key = k
				break
			}
		}
	}
	s.mu.Unlock()
	if key == "" {
		return
	}

	req, err := s.client.FetchMatchRequestByID(ctx, requestID)
	if err != nil {
		log.Printf("view: refresh match request %d: %v", requestID, err)
		return
	}

	s.mu.Lock()
	st.requests = reconcile.Merge(st.requests, reconcile.Map{key: req})
	s.mu.Unlock()
}

func (s *Service) findBooking(playerID string, bookingID int64) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[playerID]
	if !ok {
		return nil
	}
	for i := range st.bookings {
		if st.bookings[i].DBID == bookingID {
			b := st.bookings[i]
			return &b
		}
	}
	return nil
}

// reloadForExpiry is the monitor's reload hook: one authoritative refresh,
// reusing the token from the player's last authenticated load.
func (s *Service) reloadForExpiry(ctx context.Context, playerID string) {
	s.mu.Lock()
	st, ok := s.states[playerID]
	var token string
	if ok {
		token = st.token
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if token != "" {
		ctx = auth.ContextWithToken(ctx, token)
	}
	if err := s.Refresh(ctx, playerID); err != nil {
		log.Printf("view: expiry reload for player %s: %v", playerID, err)
	}
}

func (s *Service) publishExpired(playerID, displayKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev := notify.BookingExpired{
		PlayerID:   playerID,
		BookingKey: displayKey,
		DetectedAt: time.Now().UTC(),
	}
	if err := s.events.PublishBookingExpired(ctx, ev); err != nil {
		log.Printf("view: publish booking expired event: %v", err)
	}
}
