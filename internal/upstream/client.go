// Package upstream talks to the booking platform's JSON API. Every response
// arrives in a uniform envelope (a success flag, a payload on success, a
// human-readable error string on failure); the raw payload is decoded and
// materialized into domain types here, at the boundary.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/pitchside/fieldbook-gateway/internal/auth"
	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
	"github.com/pitchside/fieldbook-gateway/internal/payload"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/apperror"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/request"
)

// Client is the upstream API surface the gateway depends on.
type Client interface {
	FetchBookingsByPlayer(ctx context.Context, playerID string) ([]booking.Booking, error)
	FetchMatchRequests(ctx context.Context, page, size int) ([]*matchreq.MatchRequest, error)
	FetchMatchRequestByID(ctx context.Context, id int64) (*matchreq.MatchRequest, error)
	CheckMatchRequestByBooking(ctx context.Context, bookingID int64) (*matchreq.MatchRequest, error)
	AcceptParticipant(ctx context.Context, requestID, participantID int64) error
	RejectParticipant(ctx context.Context, requestID, participantID int64) error
	CancelBooking(ctx context.Context, bookingID int64, reason string) error
	GenerateQRCode(ctx context.Context, bookingID int64, paymentType string, amount float64) (string, error)
	ConfirmPayment(ctx context.Context, bookingID int64) error
	FetchQRImage(ctx context.Context, imageURL string) ([]byte, error)
}

// errNotFound marks a 404 inside do; each method maps it to the sentinel of
// the domain it queried.
var errNotFound = errors.New("upstream: not found")

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a Client against the given base URL.
func NewHTTPClient(baseURL string, hc *http.Client) Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{baseURL: baseURL, http: hc}
}

func (c *httpClient) FetchBookingsByPlayer(ctx context.Context, playerID string) ([]booking.Booking, error) {
	obj, err := c.get(ctx, "/players/"+url.PathEscape(playerID)+"/bookings", nil)
	if err != nil {
		return nil, mapNotFound(err, booking.ErrNotFound)
	}
	list := payload.PickList(obj, "data", "bookings", "items", "result")
	return booking.ListFromPayload(list), nil
}

func (c *httpClient) FetchMatchRequests(ctx context.Context, page, size int) ([]*matchreq.MatchRequest, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	obj, err := c.get(ctx, "/match-requests", q)
	if err != nil {
		return nil, err
	}
	list := payload.PickList(obj, "data", "requests", "matchRequests", "items", "result")
	out := make([]*matchreq.MatchRequest, 0, len(list))
	for _, raw := range list {
		if req := matchreq.FromPayload(raw); req != nil {
			out = append(out, req)
		}
	}
	return out, nil
}

func (c *httpClient) FetchMatchRequestByID(ctx context.Context, id int64) (*matchreq.MatchRequest, error) {
	obj, err := c.get(ctx, fmt.Sprintf("/match-requests/%d", id), nil)
	if errors.Is(err, errNotFound) {
		return nil, matchreq.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	req := matchreq.FromPayload(obj)
	if req == nil {
		return nil, matchreq.ErrNotFound
	}
	return req, nil
}

func (c *httpClient) CheckMatchRequestByBooking(ctx context.Context, bookingID int64) (*matchreq.MatchRequest, error) {
	obj, err := c.get(ctx, fmt.Sprintf("/bookings/%d/match-request", bookingID), nil)
	// A 404, like a successful probe with an empty payload, means: no match
	// request exists for the booking.
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return matchreq.FromPayload(obj), nil
}

func (c *httpClient) AcceptParticipant(ctx context.Context, requestID, participantID int64) error {
	_, err := c.post(ctx, fmt.Sprintf("/match-requests/%d/participants/%d/accept", requestID, participantID), nil)
	return mapNotFound(err, matchreq.ErrNotFound)
}

func (c *httpClient) RejectParticipant(ctx context.Context, requestID, participantID int64) error {
	_, err := c.post(ctx, fmt.Sprintf("/match-requests/%d/participants/%d/reject", requestID, participantID), nil)
	return mapNotFound(err, matchreq.ErrNotFound)
}

func (c *httpClient) CancelBooking(ctx context.Context, bookingID int64, reason string) error {
	body := map[string]any{"reason": reason}
	_, err := c.post(ctx, fmt.Sprintf("/bookings/%d/cancel", bookingID), body)
	return mapNotFound(err, booking.ErrNotFound)
}

func (c *httpClient) GenerateQRCode(ctx context.Context, bookingID int64, paymentType string, amount float64) (string, error) {
	body := map[string]any{"paymentType": paymentType, "amount": amount}
	obj, err := c.post(ctx, fmt.Sprintf("/bookings/%d/qrcode", bookingID), body)
	if err != nil {
		return "", mapNotFound(err, booking.ErrNotFound)
	}
	obj = payload.Unwrap(obj)
	qrURL := payload.String(obj, "qrCodeUrl", "qrCodeURL", "qr_code_url", "qrUrl", "qr_url", "url")
	if qrURL == "" {
		return "", fmt.Errorf("%w: empty qr code url", booking.ErrUpstream)
	}
	return qrURL, nil
}

func (c *httpClient) ConfirmPayment(ctx context.Context, bookingID int64) error {
	_, err := c.post(ctx, fmt.Sprintf("/bookings/%d/payment/confirm", bookingID), nil)
	return mapNotFound(err, booking.ErrNotFound)
}

func (c *httpClient) FetchQRImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build qr image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: qr image fetch returned %d", booking.ErrUpstream, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, errNotFound) {
		return sentinel
	}
	return err
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values) (payload.Object, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *httpClient) post(ctx context.Context, path string, body any) (payload.Object, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body any) (payload.Object, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}
	if token := auth.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := request.IDFromContext(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", booking.ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", booking.ErrUpstream, resp.StatusCode)
	}

	obj := payload.Decode(raw)
	if !payload.Bool(obj, "success", "ok") {
		msg := payload.String(obj, "error", "message")
		if msg == "" {
			msg = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
		}
		// The upstream's human-readable error is surfaced to the caller:
		// fetches degrade to a gateway error, rejected actions to a conflict.
		code := http.StatusBadGateway
		if method != http.MethodGet {
			code = http.StatusConflict
		}
		return nil, apperror.New(code, msg)
	}
	return obj, nil
}
