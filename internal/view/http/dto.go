package http

import (
	"time"

	"github.com/pitchside/fieldbook-gateway/internal/matchreq"
	"github.com/pitchside/fieldbook-gateway/internal/view"
)

type ParticipantResponse struct {
	ID               int64  `json:"id"`
	TeamName         string `json:"team_name"`
	OwnerDecision    string `json:"owner_decision"`
	SelfStatus       string `json:"self_status"`
	NeedsOwnerAction bool   `json:"needs_owner_action"`
}

type MatchRequestResponse struct {
	ID            int64                 `json:"id"`
	BookingID     int64                 `json:"booking_id"`
	Status        string                `json:"status"`
	PendingCount  int                   `json:"pending_count"`
	AcceptedCount int                   `json:"accepted_count"`
	Participants  []ParticipantResponse `json:"participants"`
}

type ExpiryResponse struct {
	State            string `json:"state"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

type BookingViewResponse struct {
	DisplayKey    string                `json:"display_key"`
	BookingID     int64                 `json:"booking_id"`
	FieldName     string                `json:"field_name"`
	StartTime     time.Time             `json:"start_time"`
	EndTime       time.Time             `json:"end_time"`
	Price         float64               `json:"price"`
	Deposit       float64               `json:"deposit"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	CreatedAt     time.Time             `json:"created_at"`
	MatchRequest  *MatchRequestResponse `json:"match_request,omitempty"`
	Expiry        ExpiryResponse        `json:"expiry"`
}

func NewBookingViewResponse(v view.BookingView) BookingViewResponse {
	resp := BookingViewResponse{
		DisplayKey:    v.Booking.DisplayKey,
		BookingID:     v.Booking.DBID,
		FieldName:     v.Booking.FieldName,
		StartTime:     v.Booking.StartTime,
		EndTime:       v.Booking.EndTime,
		Price:         v.Booking.Price,
		Deposit:       v.Booking.Deposit,
		Status:        string(v.Booking.Status),
		PaymentStatus: string(v.Booking.PaymentStatus),
		CreatedAt:     v.Booking.CreatedAt,
		Expiry: ExpiryResponse{
			State:            string(v.Expiry.State),
			RemainingSeconds: int64(v.Expiry.Remaining.Seconds()),
		},
	}
	if v.MatchRequest != nil {
		resp.MatchRequest = newMatchRequestResponse(v)
	}
	return resp
}

func newMatchRequestResponse(v view.BookingView) *MatchRequestResponse {
	mr := &MatchRequestResponse{
		ID:           v.MatchRequest.ID,
		BookingID:    v.MatchRequest.BookingID,
		Participants: make([]ParticipantResponse, 0, len(v.Participants)),
	}
	if v.Badge != nil {
		mr.Status = v.Badge.Status
		mr.PendingCount = v.Badge.PendingCount
		mr.AcceptedCount = v.Badge.AcceptedCount
	} else {
		mr.Status = matchreq.ClassifyRequestStatus(v.MatchRequest)
	}
	for i := range v.Participants {
		p := &v.Participants[i]
		mr.Participants = append(mr.Participants, ParticipantResponse{
			ID:               p.ID,
			TeamName:         p.TeamName,
			OwnerDecision:    p.OwnerDecision,
			SelfStatus:       p.SelfStatus,
			NeedsOwnerAction: p.NeedsOwnerAction(),
		})
	}
	return mr
}

type CancelBookingBody struct {
	Reason string `json:"reason" binding:"required"`
}

type GenerateQRBody struct {
	PaymentType string  `json:"payment_type" binding:"required,oneof=deposit full"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

type QRCodeResponse struct {
	QRCodeURL string `json:"qr_code_url"`
}
