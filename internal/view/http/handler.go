package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/fieldbook-gateway/internal/auth"
	"github.com/pitchside/fieldbook-gateway/internal/booking"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/qrimage"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/request"
	"github.com/pitchside/fieldbook-gateway/internal/pkg/response"
	"github.com/pitchside/fieldbook-gateway/internal/view"
)

type Handler struct {
	service *view.Service
	qr      *qrimage.Processor
}

func NewHandler(service *view.Service, qr *qrimage.Processor) *Handler {
	return &Handler{service: service, qr: qr}
}

// View returns the consolidated booking view for the authenticated player.
func (h *Handler) View(c *gin.Context) {
	playerID := auth.GetPlayerID(c)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.service.Views(c.Request.Context(), playerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingViewResponse, len(views))
	for i, v := range views {
		items[i] = NewBookingViewResponse(v)
	}

	// The view is always delivered whole; the page envelope keeps the list
	// shape consistent with the rest of the API.
	resp := response.NewPageResponse(items, 1, len(items), len(items))
	c.JSON(http.StatusOK, resp)
}

// Refresh forces an authoritative reload of the player's booking view.
func (h *Handler) Refresh(c *gin.Context) {
	playerID := auth.GetPlayerID(c)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Refresh(c.Request.Context(), playerID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancel relays a booking cancellation to the upstream.
func (h *Handler) Cancel(c *gin.Context) {
	bookingID, ok := request.ParseID(c.Param("id"))
	if !ok {
		response.Error(c, booking.ErrInvalidID)
		return
	}

	var body CancelBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	err := h.service.CancelBooking(c.Request.Context(), auth.GetPlayerID(c), bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateQR asks the upstream for a payment QR code for the booking.
func (h *Handler) GenerateQR(c *gin.Context) {
	bookingID, ok := request.ParseID(c.Param("id"))
	if !ok {
		response.Error(c, booking.ErrInvalidID)
		return
	}

	var body GenerateQRBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	qrURL, err := h.service.GenerateQR(c.Request.Context(), bookingID, body.PaymentType, body.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, QRCodeResponse{QRCodeURL: qrURL})
}

// QRImage generates the QR code and streams it back as a fitted PNG, so
// mobile clients can render it without a second round trip.
func (h *Handler) QRImage(c *gin.Context) {
	bookingID, ok := request.ParseID(c.Param("id"))
	if !ok {
		response.Error(c, booking.ErrInvalidID)
		return
	}

	paymentType := c.DefaultQuery("payment_type", "deposit")
	amount, okAmount := parseAmount(c.Query("amount"))
	if !okAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	width := request.ParseBound(c.Query("w"), 512, 1024)
	height := request.ParseBound(c.Query("h"), 512, 1024)

	ctx := c.Request.Context()
	qrURL, err := h.service.GenerateQR(ctx, bookingID, paymentType, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	raw, err := h.service.FetchQRImage(ctx, qrURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	fitted, err := h.qr.Fit(raw, width, height)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", fitted)
}

// ConfirmPayment relays a payment confirmation to the upstream.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	bookingID, ok := request.ParseID(c.Param("id"))
	if !ok {
		response.Error(c, booking.ErrInvalidID)
		return
	}

	err := h.service.ConfirmPayment(c.Request.Context(), auth.GetPlayerID(c), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptParticipant relays the owner's acceptance of an opponent.
func (h *Handler) AcceptParticipant(c *gin.Context) {
	requestID, ok := request.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match request id"})
		return
	}
	participantID, ok := request.ParseID(c.Param("pid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}

	err := h.service.AcceptParticipant(c.Request.Context(), auth.GetPlayerID(c), requestID, participantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectParticipant relays the owner's rejection of an opponent.
func (h *Handler) RejectParticipant(c *gin.Context) {
	requestID, ok := request.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match request id"})
		return
	}
	participantID, ok := request.ParseID(c.Param("pid"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}

	err := h.service.RejectParticipant(c.Request.Context(), auth.GetPlayerID(c), requestID, participantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseAmount(raw string) (float64, bool) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}
