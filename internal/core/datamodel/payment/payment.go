package payment

import (
	"encoding/json"
	"time"
)

// Payment is the persisted payment record row. The same row is reused across
// the report/confirm/reject cycle: a rejection resets it to pending instead
// of inserting a fresh row.
type Payment struct {
	ID              int64           `gorm:"primaryKey"`
	JobID           *int64          `gorm:"column:job_id;index"`
	ClientID        int64           `gorm:"column:client_id;not null;index"`
	Amount          int64           `gorm:"column:amount;not null"`
	Description     string          `gorm:"column:description;not null"`
	Status          string          `gorm:"column:status;default:pending;index"`
	Method          *string         `gorm:"column:method"`
	Evidence        json.RawMessage `gorm:"column:evidence;type:jsonb"`
	RejectionReason *string         `gorm:"column:rejection_reason"`
	PaidAt          *time.Time      `gorm:"column:paid_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}
