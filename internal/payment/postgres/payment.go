package postgres

import (
	"time"

	"gorm.io/gorm"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	paymentDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/payment"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment"
)

// PaymentRepository implements the payment.Repository interface using GORM.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// last line of defense before a row hits the table; the engine validates
// DTOs, but nothing stops another caller from handing the repo a bad record
func validateWrite(amount int64, status string) error {
	if amount <= 0 {
		return errors.NewValidationError("amount must be positive", errors.ErrCodeInvalidAmount)
	}
	for _, s := range payment.ValidStatuses {
		if s == status {
			return nil
		}
	}
	return errors.NewValidationError("unknown payment status: "+status, errors.ErrCodeValidationFailed)
}

func (r *PaymentRepository) Create(rec *payment.PaymentRecord) error {
	if err := validateWrite(rec.Amount, rec.Status); err != nil {
		return err
	}
	row, err := payment.ToDataModel(rec)
	if err != nil {
		return err
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	rec.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PaymentRepository) GetByID(id int64) (*payment.PaymentRecord, error) {
	var row paymentDatamodel.Payment
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment.FromDataModel(&row), nil
}

// GetLatestByJobID returns the job's newest record: max created_at, ties
// broken by highest id. This is the single place the "current status" of a
// job is defined.
func (r *PaymentRepository) GetLatestByJobID(jobID int64) (*payment.PaymentRecord, error) {
	var row paymentDatamodel.Payment
	err := r.db.Where("job_id = ?", jobID).
		Order("created_at DESC").
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment.FromDataModel(&row), nil
}

func (r *PaymentRepository) ListByClientID(clientID int64) ([]*payment.PaymentRecord, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return payment.FromDataModelSlice(rows), nil
}

func (r *PaymentRepository) ListByStatus(status string) ([]*payment.PaymentRecord, error) {
	var rows []*paymentDatamodel.Payment
	err := r.db.Where("status = ?", status).
		Order("created_at ASC"). // FIFO for the admin review queue
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return payment.FromDataModelSlice(rows), nil
}

// LatestPerJobByClient projects the client's current record per job. Record
// ids are assigned in creation order, so the max id within a job is its
// newest record; records not tied to any job stand alone.
func (r *PaymentRepository) LatestPerJobByClient(clientID int64) ([]*payment.PaymentRecord, error) {
	latestIDs := r.db.Model(&paymentDatamodel.Payment{}).
		Select("MAX(id)").
		Where("client_id = ? AND job_id IS NOT NULL", clientID).
		Group("job_id")

	var rows []*paymentDatamodel.Payment
	err := r.db.Where("client_id = ?", clientID).
		Where("job_id IS NULL OR id IN (?)", latestIDs).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return payment.FromDataModelSlice(rows), nil
}

// UpdateWhereStatus applies updates only while the record still holds the
// expected status. The returned count is zero when another writer won the
// race; callers turn that into a state-conflict error.
func (r *PaymentRepository) UpdateWhereStatus(id int64, fromStatus string, updates map[string]interface{}) (int64, error) {
	amount := int64(1)
	if v, ok := updates["amount"].(int64); ok {
		amount = v
	}
	status := fromStatus
	if v, ok := updates["status"].(string); ok {
		status = v
	}
	if err := validateWrite(amount, status); err != nil {
		return 0, err
	}

	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := r.db.Model(&paymentDatamodel.Payment{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
