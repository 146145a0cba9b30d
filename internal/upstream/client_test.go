package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/fieldbook-gateway/internal/auth"
	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/apperror"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/request"
)

func TestFetchBookingsDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/p1/bookings", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"bookingCode": "A-1", "bookingId": 101, "status": "PENDING", "paymentStatus": "unpaid"},
				{"booking_code": "B-2", "booking_id": 102, "status": "confirmed"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	bookings, err := c.FetchBookingsByPlayer(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "A-1", bookings[0].DisplayKey)
	assert.Equal(t, int64(101), bookings[0].DBID)
	assert.Equal(t, booking.StatusPending, bookings[0].Status)
	assert.Equal(t, booking.PaymentUnpaid, bookings[0].PaymentStatus)
	assert.Equal(t, booking.StatusConfirmed, bookings[1].Status)
}

func TestEnvelopeFailureSurfacesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "booking already cancelled"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	err := c.CancelBooking(context.Background(), 101, "rain")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "booking already cancelled", appErr.Message)
}

func TestFetchFailureIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "message": "player suspended"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	_, err := c.FetchBookingsByPlayer(context.Background(), "p1")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, "player suspended", appErr.Message)
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	_, err := c.FetchMatchRequestByID(context.Background(), 5001)
	assert.ErrorIs(t, err, matchreq.ErrNotFound)
}

func TestServerErrorMapsToUpstreamSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	_, err := c.FetchBookingsByPlayer(context.Background(), "p1")
	assert.ErrorIs(t, err, booking.ErrUpstream)
}

func TestContextHeadersForwarded(t *testing.T) {
	var gotAuth, gotIdem, gotRID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("X-Idempotency-Key")
		gotRID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	ctx := auth.ContextWithToken(context.Background(), "tok-123")
	ctx = request.ContextWithID(ctx, "rid-42")
	require.NoError(t, c.ConfirmPayment(ctx, 101))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotIdem)
	assert.Equal(t, "rid-42", gotRID)
}

func TestGenerateQRCodeExtractsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"qr_code_url": "https://pay.example.com/qr/9"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	qrURL, err := c.GenerateQRCode(context.Background(), 101, "deposit", 250)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/qr/9", qrURL)
}

func TestGenerateQRCodeEmptyURLIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	_, err := c.GenerateQRCode(context.Background(), 101, "deposit", 250)
	assert.ErrorIs(t, err, booking.ErrUpstream)
}

func TestCheckMatchRequestNotFoundMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	req, err := c.CheckMatchRequestByBooking(context.Background(), 101)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestCheckMatchRequestEmptyPayloadMeansNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": null}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client())
	req, err := c.CheckMatchRequestByBooking(context.Background(), 101)
	require.NoError(t, err)
	assert.Nil(t, req)
}
