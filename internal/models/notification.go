package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification - one funnel event with its own pending/approved/rejected lifecycle
type Notification struct {
	ID        string             `gorm:"type:varchar(36);primaryKey" json:"id"`
	Type      NotificationType   `gorm:"type:varchar(32);not null;index:idx_notifications_type_email" json:"type"`
	Email     string             `gorm:"type:varchar(320);not null;index:idx_notifications_type_email" json:"email"`
	Timestamp time.Time          `gorm:"column:occurred_at;not null;index" json:"timestamp"`
	Status    NotificationStatus `gorm:"type:varchar(16);not null;default:pending" json:"status"`

	EmailSubject *string `gorm:"type:text" json:"emailSubject,omitempty"`
	EmailBody    *string `gorm:"type:text" json:"emailBody,omitempty"`

	Data datatypes.JSON `json:"-"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	UpdatedAt  time.Time  `json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	if n.Status == "" {
		n.Status = NotificationStatusPending
	}
	return nil
}

// SetPayload stores p in Data; the variant must match the notification type
func (n *Notification) SetPayload(p Payload) error {
	if p == nil {
		n.Data = nil
		return nil
	}
	if p.Kind() != n.Type {
		return fmt.Errorf("payload %s does not belong to notification type %s", p.Kind(), n.Type)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}
	n.Data = datatypes.JSON(raw)
	return nil
}

// Payload decodes Data into the variant selected by Type
func (n *Notification) Payload() (Payload, error) {
	return DecodePayload(n.Type, n.Data)
}

// DataMap returns Data as a generic object for display.
// Empty data gives nil, malformed data gives an empty object.
func (n *Notification) DataMap() map[string]any {
	if len(n.Data) == 0 || string(n.Data) == "null" {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(n.Data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
