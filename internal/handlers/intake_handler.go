package handlers

import (
	"net/http"

	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// IntakeHandler serves the public endpoints called by the mailbox and calendar automations
type IntakeHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewIntakeHandler(base *BaseHandler, notificationService services.NotificationService) *IntakeHandler {
	return &IntakeHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *IntakeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/interested", h.Interested)
	r.POST("/sendbooking", h.SendBooking)
}

// Interested records an email_received notification for from_email
func (h *IntakeHandler) Interested(c *gin.Context) {
	var req dto.InterestedRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	notification, err := h.notificationService.RecordEmailReceived(c.Request.Context(), h.GetDB(c), req.FromEmail, req.Subject, req.Body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// SendBooking books an existing participant and records a booking_scheduled notification
func (h *IntakeHandler) SendBooking(c *gin.Context) {
	var req dto.SendBookingRequest
	// missing fields are reported by the service
	if !h.BindJSON(c, &req) {
		return
	}

	participant, err := h.notificationService.ScheduleBooking(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}
