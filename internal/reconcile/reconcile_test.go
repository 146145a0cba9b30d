package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
)

// fakeSource is an in-memory upstream for reconciler tests.
type fakeSource struct {
	mu        sync.Mutex
	byID      map[int64]*matchreq.MatchRequest
	failIDs   map[int64]bool
	bulkErr   error
	probeOnly map[int64]*matchreq.MatchRequest // bookingID -> request, only findable via probe
	details   map[int64]*matchreq.MatchRequest // requestID -> request, only findable via detail fetch

	detailCalls int
	probeCalls  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byID:      make(map[int64]*matchreq.MatchRequest),
		failIDs:   make(map[int64]bool),
		probeOnly: make(map[int64]*matchreq.MatchRequest),
		details:   make(map[int64]*matchreq.MatchRequest),
	}
}

func (f *fakeSource) add(req *matchreq.MatchRequest) {
	f.byID[req.ID] = req
}

func (f *fakeSource) FetchMatchRequests(ctx context.Context, page, size int) ([]*matchreq.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	out := make([]*matchreq.MatchRequest, 0, len(f.byID))
	for _, req := range f.byID {
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeSource) FetchMatchRequestByID(ctx context.Context, id int64) (*matchreq.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if f.failIDs[id] {
		return nil, errors.New("boom")
	}
	if req, ok := f.byID[id]; ok {
		return req, nil
	}
	if req, ok := f.details[id]; ok {
		return req, nil
	}
	for _, req := range f.probeOnly {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, matchreq.ErrNotFound
}

func (f *fakeSource) CheckMatchRequestByBooking(ctx context.Context, bookingID int64) (*matchreq.MatchRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	if req, ok := f.probeOnly[bookingID]; ok {
		return req, nil
	}
	return nil, nil
}

func bk(key string, dbID, reqID int64) booking.Booking {
	return booking.Booking{DisplayKey: key, DBID: dbID, MatchRequestID: reqID}
}

func TestPassOneDirectReference(t *testing.T) {
	src := newFakeSource()
	src.add(&matchreq.MatchRequest{ID: 5001, BookingID: 101})

	r := New(src, 0)
	m := r.Reconcile(context.Background(), []booking.Booking{bk("A-1", 101, 5001)}, nil)

	require.Contains(t, m, "A-1")
	assert.Equal(t, int64(5001), m["A-1"].ID)
}

func TestPassTwoBulkCrossReference(t *testing.T) {
	src := newFakeSource()
	src.add(&matchreq.MatchRequest{ID: 5001, BookingID: 101})
	src.add(&matchreq.MatchRequest{ID: 5002, BookingID: 202})

	// Neither booking embeds a request id.
	bookings := []booking.Booking{bk("A-1", 101, 0), bk("B-2", 202, 0)}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), bookings, nil)

	require.Len(t, m, 2)
	assert.Equal(t, int64(5001), m["A-1"].ID)
	assert.Equal(t, int64(5002), m["B-2"].ID)
}

func TestPassThreeFallbackProbe(t *testing.T) {
	src := newFakeSource()
	// Request only findable through the per-booking probe; the bulk list
	// does not report it.
	src.probeOnly[303] = &matchreq.MatchRequest{
		ID: 5003, BookingID: 303,
		Participants: []matchreq.Participant{{ID: 1, UserID: "u-2"}},
	}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), []booking.Booking{bk("C-3", 303, 0)}, nil)

	require.Contains(t, m, "C-3")
	assert.Equal(t, int64(5003), m["C-3"].ID)
}

func TestProbeFollowsUpBareReference(t *testing.T) {
	src := newFakeSource()
	// The probe returns a bare reference; the detail carries participants.
	// Neither is reported by the bulk endpoint.
	src.probeOnly[303] = &matchreq.MatchRequest{ID: 5003, BookingID: 303}
	src.details[5003] = &matchreq.MatchRequest{
		ID: 5003, BookingID: 303,
		Participants: []matchreq.Participant{{ID: 1, UserID: "u-2"}},
	}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), []booking.Booking{bk("C-3", 303, 0)}, nil)

	require.Contains(t, m, "C-3")
	assert.Len(t, m["C-3"].Participants, 1)
}

func TestPerBookingFailureIsolation(t *testing.T) {
	src := newFakeSource()
	src.add(&matchreq.MatchRequest{ID: 5001, BookingID: 101})
	src.add(&matchreq.MatchRequest{ID: 5002, BookingID: 202})
	src.failIDs[5001] = true

	bookings := []booking.Booking{bk("A-1", 101, 5001), bk("B-2", 202, 5002)}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), bookings, nil)

	// A-1's direct fetch failed but pass 2 still resolves it by db id; the
	// point is that B-2 was never disturbed.
	require.Contains(t, m, "B-2")
	assert.Equal(t, int64(5002), m["B-2"].ID)
}

func TestBulkFailureDegradesToProbe(t *testing.T) {
	src := newFakeSource()
	src.bulkErr = errors.New("upstream down")
	src.probeOnly[101] = &matchreq.MatchRequest{
		ID: 5001, BookingID: 101,
		Participants: []matchreq.Participant{{ID: 1, UserID: "u-2"}},
	}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), []booking.Booking{bk("A-1", 101, 0)}, nil)

	require.Contains(t, m, "A-1")
	assert.Equal(t, int64(5001), m["A-1"].ID)
}

func TestIdempotence(t *testing.T) {
	src := newFakeSource()
	src.add(&matchreq.MatchRequest{ID: 5001, BookingID: 101})
	src.add(&matchreq.MatchRequest{ID: 5002, BookingID: 202})

	bookings := []booking.Booking{bk("A-1", 101, 5001), bk("B-2", 202, 0)}

	r := New(src, 0)
	first := r.Reconcile(context.Background(), bookings, nil)
	second := r.Reconcile(context.Background(), bookings, first)

	require.Equal(t, len(first), len(second))
	for k, v := range first {
		require.Contains(t, second, k)
		assert.Equal(t, v.ID, second[k].ID)
	}
}

func TestMergePreservesPreviousEntries(t *testing.T) {
	prev := Map{"A-1": &matchreq.MatchRequest{ID: 5001}}
	next := Map{"B-2": &matchreq.MatchRequest{ID: 5002}}

	merged := Merge(prev, next)

	require.Len(t, merged, 2)
	assert.Equal(t, int64(5001), merged["A-1"].ID)
	assert.Equal(t, int64(5002), merged["B-2"].ID)

	// Inputs are untouched.
	assert.Len(t, prev, 1)
	assert.Len(t, next, 1)
}

func TestMergeNextWinsPerKey(t *testing.T) {
	prev := Map{"A-1": &matchreq.MatchRequest{ID: 5001}}
	next := Map{"A-1": &matchreq.MatchRequest{ID: 6001}}

	merged := Merge(prev, next)
	assert.Equal(t, int64(6001), merged["A-1"].ID)
}

func TestReconcilePreservesOptimisticEntry(t *testing.T) {
	src := newFakeSource()
	// The upstream does not report the freshly created request yet.
	prev := Map{"A-1": &matchreq.MatchRequest{ID: 7001, BookingID: 101}}

	r := New(src, 0)
	m := r.Reconcile(context.Background(), []booking.Booking{bk("A-1", 101, 0)}, prev)

	require.Contains(t, m, "A-1")
	assert.Equal(t, int64(7001), m["A-1"].ID)
}
