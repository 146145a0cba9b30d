// Package reconcile associates each booking with its match request, given
// inconsistent upstream data. Three passes run in order: direct reference
// (the booking embeds a request id), bulk cross-reference (index all fetched
// requests by booking db id), and a per-booking fallback probe. The result
// is merged non-destructively over the previous map so optimistic updates
// survive an upstream that is not yet consistent.
package reconcile

import (
	"context"
	"log"
	"sync"

	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
)

// Map keys booking display keys to their match requests.
type Map map[string]*matchreq.MatchRequest

// Source is the slice of the upstream API the reconciler needs.
type Source interface {
	FetchMatchRequests(ctx context.Context, page, size int) ([]*matchreq.MatchRequest, error)
	FetchMatchRequestByID(ctx context.Context, id int64) (*matchreq.MatchRequest, error)
	CheckMatchRequestByBooking(ctx context.Context, bookingID int64) (*matchreq.MatchRequest, error)
}

// Reconciler resolves booking/match-request associations against a Source.
type Reconciler struct {
	src      Source
	pageSize int
}

// DefaultPageSize approximates "all open match requests" in the bulk pass.
const DefaultPageSize = 200

func New(src Source, pageSize int) *Reconciler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Reconciler{src: src, pageSize: pageSize}
}

// Reconcile runs the three passes for the given bookings and merges the
// outcome over prev. Per-booking lookup failures are logged and skipped;
// they never abort the other bookings. Running twice against unchanged
// upstream data yields an equal map.
func (r *Reconciler) Reconcile(ctx context.Context, bookings []booking.Booking, prev Map) Map {
	next := make(Map)
	var mu sync.Mutex

	record := func(key string, req *matchreq.MatchRequest) {
		if req == nil {
			return
		}
		mu.Lock()
		next[key] = req
		mu.Unlock()
	}
	resolved := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := next[key]
		return ok
	}

	// Pass 1: direct reference. Bookings carrying an embedded request id are
	// fetched in parallel; each failure is isolated.
	var wg sync.WaitGroup
	for i := range bookings {
		b := bookings[i]
		if b.MatchRequestID == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := r.src.FetchMatchRequestByID(ctx, b.MatchRequestID)
			if err != nil {
				log.Printf("reconcile: fetch match request %d for booking %s: %v", b.MatchRequestID, b.DisplayKey, err)
				return
			}
			record(b.DisplayKey, req)
		}()
	}
	wg.Wait()

	// Pass 2: bulk cross-reference by booking db id.
	all, err := r.src.FetchMatchRequests(ctx, 1, r.pageSize)
	if err != nil {
		log.Printf("reconcile: bulk fetch match requests: %v", err)
	}
	byBookingID := make(map[int64]*matchreq.MatchRequest, len(all))
	for _, req := range all {
		if req.BookingID != 0 {
			byBookingID[req.BookingID] = req
		}
	}
	for i := range bookings {
		b := bookings[i]
		if resolved(b.DisplayKey) || b.DBID == 0 {
			continue
		}
		if req, ok := byBookingID[b.DBID]; ok {
			record(b.DisplayKey, req)
		}
	}

	// Pass 3: fallback probe for anything still unresolved. Redundant with
	// pass 2 when the upstream is consistent; kept because it is not always.
	for i := range bookings {
		b := bookings[i]
		if resolved(b.DisplayKey) || b.DBID == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(b.DisplayKey, r.probe(ctx, b))
		}()
	}
	wg.Wait()

	return Merge(prev, next)
}

// probe issues the existence check and, when it returns a bare reference,
// follows up with a detail fetch.
func (r *Reconciler) probe(ctx context.Context, b booking.Booking) *matchreq.MatchRequest {
	req, err := r.src.CheckMatchRequestByBooking(ctx, b.DBID)
	if err != nil {
		log.Printf("reconcile: probe match request for booking %s: %v", b.DisplayKey, err)
		return nil
	}
	if req == nil {
		return nil
	}
	if len(req.Participants) == 0 && req.ID != 0 {
		if detail, err := r.src.FetchMatchRequestByID(ctx, req.ID); err == nil {
			return detail
		}
		// Detail fetch failed; the probe result is still an association.
	}
	return req
}

// Merge shallow-merges next over prev without mutating either. Entries
// present only in prev survive, so an association recorded optimistically
// right after creating a match request is not lost to a reconciliation pass
// whose upstream data has not caught up yet.
func Merge(prev, next Map) Map {
	merged := make(Map, len(prev)+len(next))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range next {
		merged[k] = v
	}
	return merged
}
