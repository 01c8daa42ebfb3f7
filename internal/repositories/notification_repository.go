package repositories

import (
	"errors"
	"time"

	"studyfunnel_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationWithApproval - list row joined with the owning participant's approval date
type NotificationWithApproval struct {
	models.Notification
	PrescreenApprovalDate *time.Time `gorm:"column:prescreen_approval_date"`
}

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	FindByEmailAndType(db *gorm.DB, email string, notificationType models.NotificationType) (*models.Notification, error)
	FindAllWithApprovalDate(db *gorm.DB) ([]NotificationWithApproval, error)
	// Resolve moves a pending notification to status; false means it was not pending
	Resolve(db *gorm.DB, id string, status models.NotificationStatus, at time.Time) (bool, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByEmailAndType returns the oldest match
func (r *NotificationRepositoryImpl) FindByEmailAndType(db *gorm.DB, email string, notificationType models.NotificationType) (*models.Notification, error) {
	var notification models.Notification
	err := db.Where("email = ? AND type = ?", email, notificationType).
		Order("occurred_at ASC").
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindAllWithApprovalDate - newest first
func (r *NotificationRepositoryImpl) FindAllWithApprovalDate(db *gorm.DB) ([]NotificationWithApproval, error) {
	var rows []NotificationWithApproval
	err := db.Model(&models.Notification{}).
		Select("notifications.*, participants.prescreen_approval_date AS prescreen_approval_date").
		Joins("LEFT JOIN participants ON participants.email = notifications.email").
		Order("notifications.occurred_at DESC, notifications.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *NotificationRepositoryImpl) Resolve(db *gorm.DB, id string, status models.NotificationStatus, at time.Time) (bool, error) {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, models.NotificationStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
