package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.GET("/view", h.View)
		bookings.POST("/refresh", h.Refresh)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.POST("/:id/qrcode", h.GenerateQR)
		bookings.GET("/:id/qrcode/image", h.QRImage)
		bookings.POST("/:id/payment/confirm", h.ConfirmPayment)
	}

	requests := g.Group("/match-requests")
	requests.Use(authMiddleware)
	{
		requests.POST("/:id/participants/:pid/accept", h.AcceptParticipant)
		requests.POST("/:id/participants/:pid/reject", h.RejectParticipant)
	}
}
