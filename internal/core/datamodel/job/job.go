package job

import "time"

// Job is the persisted job row. The payment engine reads existence/amount and
// writes back amount_due and the coarse payment_status flag; job lifecycle
// itself is owned by the job module.
type Job struct {
	ID            int64      `gorm:"primaryKey"`
	ClientID      int64      `gorm:"column:client_id;not null;index"`
	Title         string     `gorm:"column:title;not null"`
	Description   string     `gorm:"column:description"`
	Status        string     `gorm:"column:status;default:in_progress"`
	AmountDue     int64      `gorm:"column:amount_due;default:0"`
	PaymentStatus string     `gorm:"column:payment_status;default:none"`
	Deadline      *time.Time `gorm:"column:deadline"`
	CreatedAt     time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Job) TableName() string {
	return "jobs"
}
