package postgres

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment"
)

func TestPaymentRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Payment Repository Suite")
}

// PaymentSQLite is a test-specific version with text instead of jsonb for SQLite compatibility
type PaymentSQLite struct {
	ID              int64      `gorm:"primaryKey"`
	JobID           *int64     `gorm:"column:job_id;index"`
	ClientID        int64      `gorm:"column:client_id;not null;index"`
	Amount          int64      `gorm:"column:amount;not null"`
	Description     string     `gorm:"column:description;not null"`
	Status          string     `gorm:"column:status;default:pending;index"`
	Method          *string    `gorm:"column:method"`
	Evidence        string     `gorm:"column:evidence;type:text"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	PaidAt          *time.Time `gorm:"column:paid_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (PaymentSQLite) TableName() string {
	return "payments"
}

var _ = ginkgo.Describe("PaymentRepository", func() {
	var (
		db   *gorm.DB
		repo *PaymentRepository
	)

	newRecord := func(jobID int64, clientID, amount int64, status string) *payment.PaymentRecord {
		id := jobID
		rec := &payment.PaymentRecord{
			JobID:       &id,
			ClientID:    clientID,
			Amount:      amount,
			Description: "test charge",
			Status:      status,
		}
		gomega.Expect(repo.Create(rec)).To(gomega.Succeed())
		return rec
	}

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(&PaymentSQLite{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repo = NewPaymentRepository(db)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("inserts a record and backfills the id", func() {
			rec := newRecord(7, 42, 5000, payment.StatusPending)

			gomega.Expect(rec.ID).To(gomega.BeNumerically(">", 0))
		})

		ginkgo.It("round-trips the evidence document", func() {
			jobID := int64(7)
			method := payment.MethodUPI
			rec := &payment.PaymentRecord{
				JobID:       &jobID,
				ClientID:    42,
				Amount:      5000,
				Description: "test charge",
				Status:      payment.StatusWaitingConfirmation,
				Method:      &method,
				Evidence: &payment.Evidence{
					UpiID:     "ramesh@okhdfc",
					PayerName: "Ramesh Kumar",
				},
			}
			gomega.Expect(repo.Create(rec)).To(gomega.Succeed())

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Evidence).ToNot(gomega.BeNil())
			gomega.Expect(loaded.Evidence.UpiID).To(gomega.Equal("ramesh@okhdfc"))
			gomega.Expect(*loaded.Method).To(gomega.Equal(payment.MethodUPI))
		})

		ginkgo.It("refuses a non-positive amount", func() {
			jobID := int64(7)
			err := repo.Create(&payment.PaymentRecord{
				JobID:       &jobID,
				ClientID:    42,
				Amount:      0,
				Description: "test charge",
				Status:      payment.StatusPending,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))
		})

		ginkgo.It("refuses a status outside the enum", func() {
			jobID := int64(7)
			err := repo.Create(&payment.PaymentRecord{
				JobID:       &jobID,
				ClientID:    42,
				Amount:      5000,
				Description: "test charge",
				Status:      "settled",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("returns a typed not-found error for a missing record", func() {
			_, err := repo.GetByID(9999)

			gomega.Expect(err).To(gomega.Equal(payment.ErrPaymentNotFound))
		})
	})

	ginkgo.Describe("GetLatestByJobID", func() {
		ginkgo.It("returns the newest record for the job", func() {
			newRecord(7, 42, 5000, payment.StatusPaid)
			second := newRecord(7, 42, 6000, payment.StatusPending)

			latest, err := repo.GetLatestByJobID(7)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(latest.ID).To(gomega.Equal(second.ID))
			gomega.Expect(latest.Status).To(gomega.Equal(payment.StatusPending))
		})

		ginkgo.It("returns a typed not-found error when the job has no records", func() {
			_, err := repo.GetLatestByJobID(7)

			gomega.Expect(err).To(gomega.Equal(payment.ErrPaymentNotFound))
		})
	})

	ginkgo.Describe("ListByStatus", func() {
		ginkgo.It("returns the queue oldest first", func() {
			first := newRecord(7, 42, 5000, payment.StatusWaitingConfirmation)
			newRecord(8, 42, 2000, payment.StatusPending)
			second := newRecord(9, 42, 8000, payment.StatusWaitingConfirmation)

			waiting, err := repo.ListByStatus(payment.StatusWaitingConfirmation)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(waiting).To(gomega.HaveLen(2))
			gomega.Expect(waiting[0].ID).To(gomega.Equal(first.ID))
			gomega.Expect(waiting[1].ID).To(gomega.Equal(second.ID))
		})
	})

	ginkgo.Describe("LatestPerJobByClient", func() {
		ginkgo.It("projects one current record per job plus standalone rows", func() {
			newRecord(7, 42, 5000, payment.StatusPaid)
			current := newRecord(7, 42, 6000, payment.StatusPending)
			other := newRecord(8, 42, 2000, payment.StatusWaitingConfirmation)

			standalone := &payment.PaymentRecord{
				ClientID:    42,
				Amount:      1200,
				Description: "notary charges",
				Status:      payment.StatusPaid,
			}
			gomega.Expect(repo.Create(standalone)).To(gomega.Succeed())

			rows, err := repo.LatestPerJobByClient(42)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(3))

			ids := make([]int64, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			gomega.Expect(ids).To(gomega.ConsistOf(current.ID, other.ID, standalone.ID))
		})

		ginkgo.It("never leaks another client's records", func() {
			newRecord(7, 42, 5000, payment.StatusPending)
			newRecord(8, 99, 2000, payment.StatusPending)

			rows, err := repo.LatestPerJobByClient(42)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].ClientID).To(gomega.Equal(int64(42)))
		})
	})

	ginkgo.Describe("UpdateWhereStatus", func() {
		ginkgo.It("applies updates while the status still matches", func() {
			rec := newRecord(7, 42, 5000, payment.StatusPending)

			now := time.Now().UTC()
			affected, err := repo.UpdateWhereStatus(rec.ID, payment.StatusPending, map[string]interface{}{
				"status":  payment.StatusWaitingConfirmation,
				"method":  payment.MethodUPI,
				"paid_at": now,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(affected).To(gomega.Equal(int64(1)))

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Status).To(gomega.Equal(payment.StatusWaitingConfirmation))
			gomega.Expect(loaded.PaidAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("reports zero rows when the status moved underneath", func() {
			rec := newRecord(7, 42, 5000, payment.StatusPaid)

			affected, err := repo.UpdateWhereStatus(rec.ID, payment.StatusPending, map[string]interface{}{
				"status": payment.StatusWaitingConfirmation,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(affected).To(gomega.Equal(int64(0)))

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Status).To(gomega.Equal(payment.StatusPaid))
		})

		ginkgo.It("clears nullable columns when given nil values", func() {
			method := payment.MethodUPI
			jobID := int64(7)
			now := time.Now().UTC()
			rec := &payment.PaymentRecord{
				JobID:       &jobID,
				ClientID:    42,
				Amount:      5000,
				Description: "test charge",
				Status:      payment.StatusWaitingConfirmation,
				Method:      &method,
				Evidence:    &payment.Evidence{UpiID: "ramesh@okhdfc", PayerName: "Ramesh Kumar"},
				PaidAt:      &now,
			}
			gomega.Expect(repo.Create(rec)).To(gomega.Succeed())

			affected, err := repo.UpdateWhereStatus(rec.ID, payment.StatusWaitingConfirmation, map[string]interface{}{
				"status":           payment.StatusPending,
				"method":           nil,
				"evidence":         nil,
				"paid_at":          nil,
				"rejection_reason": "amount mismatch",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(affected).To(gomega.Equal(int64(1)))

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Status).To(gomega.Equal(payment.StatusPending))
			gomega.Expect(loaded.Method).To(gomega.BeNil())
			gomega.Expect(loaded.Evidence).To(gomega.BeNil())
			gomega.Expect(loaded.PaidAt).To(gomega.BeNil())
			gomega.Expect(*loaded.RejectionReason).To(gomega.Equal("amount mismatch"))
		})

		ginkgo.It("refuses an update to a non-positive amount", func() {
			rec := newRecord(7, 42, 5000, payment.StatusPending)

			_, err := repo.UpdateWhereStatus(rec.ID, payment.StatusPending, map[string]interface{}{
				"amount": int64(-100),
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Amount).To(gomega.Equal(int64(5000)))
		})

		ginkgo.It("refuses an update to a status outside the enum", func() {
			rec := newRecord(7, 42, 5000, payment.StatusPending)

			_, err := repo.UpdateWhereStatus(rec.ID, payment.StatusPending, map[string]interface{}{
				"status": "settled",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))

			loaded, err := repo.GetByID(rec.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(loaded.Status).To(gomega.Equal(payment.StatusPending))
		})
	})
})
