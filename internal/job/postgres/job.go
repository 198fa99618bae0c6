package postgres

import (
	"time"

	"gorm.io/gorm"

	jobDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/job"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/job"
)

// JobRepository implements the job.Repository interface using GORM.
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *job.Job) error {
	row := job.ToDataModel(j)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	j.ID = row.ID
	j.CreatedAt = row.CreatedAt
	j.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *JobRepository) GetByID(id int64) (*jobDatamodel.Job, error) {
	var row jobDatamodel.Job
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, job.ErrJobNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *JobRepository) GetByClientID(clientID int64, limit, offset int) ([]*jobDatamodel.Job, error) {
	var rows []*jobDatamodel.Job
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *JobRepository) GetAll(limit, offset int) ([]*jobDatamodel.Job, error) {
	var rows []*jobDatamodel.Job
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *JobRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&jobDatamodel.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *JobRepository) UpdateAmountDue(id int64, amount int64) error {
	return r.db.Model(&jobDatamodel.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_due": amount,
			"updated_at": time.Now(),
		}).Error
}

func (r *JobRepository) SetPaymentStatus(id int64, flag string) error {
	return r.db.Model(&jobDatamodel.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": flag,
			"updated_at":     time.Now(),
		}).Error
}
