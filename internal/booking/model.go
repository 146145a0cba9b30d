package booking

import (
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/fieldbook-gateway/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidID      = apperror.New(http.StatusBadRequest, "invalid booking id")
	ErrUpstream       = apperror.New(http.StatusBadGateway, "upstream booking service unavailable")
	ErrNotCancellable = apperror.New(http.StatusConflict, "booking can no longer be cancelled")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Booking is a reserved field time-slot as reported by the upstream platform.
//
// DisplayKey is the human-facing booking code and is unique within a loaded
// list. DBID is the upstream database id; when present it is stable and
// authoritative for matching against match requests. MatchRequestID is the
// embedded match-request reference, zero when the booking carries none.
type Booking struct {
	DisplayKey     string
	DBID           int64
	MatchRequestID int64
	FieldID        string
	FieldName      string
	ScheduleID     string
	StartTime      time.Time
	EndTime        time.Time
	Price          float64
	Deposit        float64
	Status         Status
	PaymentStatus  PaymentStatus
	CreatedAt      time.Time
}

// AwaitingPayment reports whether the booking is still waiting for its
// deposit, i.e. subject to the payment-expiry deadline.
func (b *Booking) AwaitingPayment() bool {
	return b.Status == StatusPending && b.PaymentStatus == PaymentUnpaid
}

// Cancellable reports whether the upstream would still accept a cancellation.
func (b *Booking) Cancellable() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed:
		return true
	}
	return false
}

// NormalizeStatus collapses status spellings from the upstream into the
// fixed vocabulary. Unknown values pass through lower-cased so a new
// upstream state degrades visibly instead of disappearing.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "confirm"), strings.Contains(s, "approve"):
		return StatusConfirmed
	case strings.Contains(s, "complete"), strings.Contains(s, "finish"):
		return StatusCompleted
	case strings.Contains(s, "cancel"):
		return StatusCancelled
	case strings.Contains(s, "expire"):
		return StatusExpired
	case strings.Contains(s, "pending"), strings.Contains(s, "wait"), s == "":
		return StatusPending
	}
	return Status(s)
}

// NormalizePaymentStatus collapses payment-status spellings the same way.
func NormalizePaymentStatus(raw string) PaymentStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "refund"):
		return PaymentRefunded
	case strings.Contains(s, "unpaid"):
		return PaymentUnpaid
	case strings.Contains(s, "paid"):
		return PaymentPaid
	case strings.Contains(s, "pending"), strings.Contains(s, "process"):
		return PaymentPending
	case s == "":
		return PaymentUnpaid
	}
	return PaymentStatus(s)
}
