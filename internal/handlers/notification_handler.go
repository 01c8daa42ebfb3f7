package handlers

import (
	"context"
	"net/http"

	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/services"
	"studyfunnel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

// RegisterRoutes expects r to be behind AuthMiddleware
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/approve", h.Approve)
		notifications.POST("/:id/reject", h.Reject)
		notifications.POST("/:id/approve-pre-screen", h.ApprovePreScreen)
		notifications.POST("/:id/reject-pre-screen", h.RejectPreScreen)
		notifications.GET("/:id/survey-response", h.SurveyResponse)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	var query dto.ListNotificationsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	list, err := h.notificationService.List(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if query.Type != "" {
		filtered := make([]*dto.NotificationResponse, 0, len(list))
		for _, n := range list {
			if n.Type == models.NotificationType(query.Type) {
				filtered = append(filtered, n)
			}
		}
		list = filtered
	}

	c.JSON(http.StatusOK, list)
}

type resolveFunc func(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error)

func (h *NotificationHandler) resolve(c *gin.Context, fn resolveFunc) {
	notification, err := fn(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) Approve(c *gin.Context) {
	h.resolve(c, h.notificationService.Approve)
}

func (h *NotificationHandler) Reject(c *gin.Context) {
	h.resolve(c, h.notificationService.Reject)
}

func (h *NotificationHandler) ApprovePreScreen(c *gin.Context) {
	h.resolve(c, h.notificationService.ApprovePreScreen)
}

func (h *NotificationHandler) RejectPreScreen(c *gin.Context) {
	h.resolve(c, h.notificationService.RejectPreScreen)
}

// SurveyResponse returns the stored pre-screen flattened into question/answer pairs
func (h *NotificationHandler) SurveyResponse(c *gin.Context) {
	answers, err := h.notificationService.SurveyResponse(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}
