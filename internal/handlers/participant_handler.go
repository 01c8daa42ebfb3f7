package handlers

import (
	"net/http"

	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	*BaseHandler
	participantService services.ParticipantService
	bookingService     services.BookingService
}

func NewParticipantHandler(base *BaseHandler, participantService services.ParticipantService, bookingService services.BookingService) *ParticipantHandler {
	return &ParticipantHandler{
		BaseHandler:        base,
		participantService: participantService,
		bookingService:     bookingService,
	}
}

// RegisterRoutes expects r to be behind AuthMiddleware
func (h *ParticipantHandler) RegisterRoutes(r *gin.RouterGroup) {
	participants := r.Group("/participants")
	{
		participants.GET("", h.List)
		participants.GET("/eligible", h.ListEligible)
		participants.GET("/bookings", h.ListBookings)
	}
}

func (h *ParticipantHandler) List(c *gin.Context) {
	var query dto.ListParticipantsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	participants, err := h.participantService.ListAll(c.Request.Context(), h.GetDB(c), models.ParticipantStatus(query.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// ListEligible - eligible participants without a booking, latest approval first
func (h *ParticipantHandler) ListEligible(c *gin.Context) {
	participants, err := h.participantService.ListEligibleAwaitingBooking(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (h *ParticipantHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.List(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
