package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment"
)

type statusCall struct {
	jobID    int64
	callerID int64
	isAdmin  bool
}

type mockPaymentService struct {
	createObligationError error
	reportError           error
	confirmError          error
	rejectError           error
	offlineError          error
	statusError           error
	pendingTotalError     error
	listWaitingError      error
	statementError        error
	getPaymentError       error

	record       *payment.PaymentRecord
	status       string
	pendingTotal int64
	waiting      []*payment.PaymentRecord
	statement    []*payment.PaymentRecord

	lastStatusCall *statusCall
}

func (m *mockPaymentService) CreateObligation(adminID int64, dto payment.CreateObligationDTO) (*payment.PaymentRecord, error) {
	if m.createObligationError != nil {
		return nil, m.createObligationError
	}
	return m.record, nil
}

func (m *mockPaymentService) ReportSettlement(paymentID, clientID int64, dto payment.ReportSettlementDTO) (*payment.PaymentRecord, error) {
	if m.reportError != nil {
		return nil, m.reportError
	}
	return m.record, nil
}

func (m *mockPaymentService) ConfirmPayment(paymentID, adminID int64) (*payment.PaymentRecord, error) {
	if m.confirmError != nil {
		return nil, m.confirmError
	}
	return m.record, nil
}

func (m *mockPaymentService) RejectPayment(paymentID, adminID int64, dto payment.RejectPaymentDTO) (*payment.PaymentRecord, error) {
	if m.rejectError != nil {
		return nil, m.rejectError
	}
	return m.record, nil
}

func (m *mockPaymentService) RecordOfflinePayment(jobID, adminID int64, dto payment.OfflinePaymentDTO) (*payment.PaymentRecord, error) {
	if m.offlineError != nil {
		return nil, m.offlineError
	}
	return m.record, nil
}

func (m *mockPaymentService) GetCurrentStatus(jobID, callerID int64, isAdmin bool) (string, error) {
	m.lastStatusCall = &statusCall{jobID: jobID, callerID: callerID, isAdmin: isAdmin}
	if m.statusError != nil {
		return "", m.statusError
	}
	return m.status, nil
}

func (m *mockPaymentService) GetClientPendingTotal(clientID int64) (int64, error) {
	if m.pendingTotalError != nil {
		return 0, m.pendingTotalError
	}
	return m.pendingTotal, nil
}

func (m *mockPaymentService) ListWaitingForConfirmation() ([]*payment.PaymentRecord, error) {
	if m.listWaitingError != nil {
		return nil, m.listWaitingError
	}
	return m.waiting, nil
}

func (m *mockPaymentService) GetClientStatement(clientID int64) ([]*payment.PaymentRecord, error) {
	if m.statementError != nil {
		return nil, m.statementError
	}
	return m.statement, nil
}

func (m *mockPaymentService) GetPayment(paymentID, callerID int64, isAdmin bool) (*payment.PaymentRecord, error) {
	if m.getPaymentError != nil {
		return nil, m.getPaymentError
	}
	return m.record, nil
}

func testAdmin(id int64) *auth.User {
	return &auth.User{ID: id, Email: "admin@shanandassociates.in", UserType: auth.UserTypeAdmin}
}

func testClient(id int64) *auth.User {
	return &auth.User{ID: id, Email: "client@example.com", UserType: auth.UserTypeClient}
}

// newRequest builds a request carrying the authenticated user and a chi
// route context so URL params resolve outside a real router.
func newRequest(method, target string, body []byte, user *auth.User, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if user != nil {
		ctx = auth.ContextWithUser(ctx, user)
	}
	rctx := chi.NewRouteContext()
	for name, value := range params {
		rctx.URLParams.Add(name, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

var _ = Describe("PaymentHandler", func() {
	var (
		handler  *payment.Handler
		service  *mockPaymentService
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		service = &mockPaymentService{}
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = payment.NewHandler(service, testLogger)
		recorder = httptest.NewRecorder()
	})

	Describe("CreateObligation", func() {
		It("returns 201 with the created record", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusPending}
			body, _ := json.Marshal(payment.CreateObligationDTO{JobID: 7, Amount: 5000, Description: "GST filing fee"})
			req := newRequest("POST", "/api/v1/payments", body, testAdmin(1), nil)

			handler.CreateObligation(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			var rec payment.PaymentRecord
			Expect(json.Unmarshal(recorder.Body.Bytes(), &rec)).To(Succeed())
			Expect(rec.Status).To(Equal(payment.StatusPending))
		})

		It("returns 401 without an authenticated user", func() {
			body, _ := json.Marshal(payment.CreateObligationDTO{JobID: 7, Amount: 5000, Description: "GST filing fee"})
			req := newRequest("POST", "/api/v1/payments", body, nil, nil)

			handler.CreateObligation(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 for a malformed body", func() {
			req := newRequest("POST", "/api/v1/payments", []byte("{not json"), testAdmin(1), nil)

			handler.CreateObligation(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps a validation failure from the engine to 400", func() {
			service.createObligationError = errors.NewValidationError("amount must be positive", errors.ErrCodeInvalidAmount)
			body, _ := json.Marshal(payment.CreateObligationDTO{JobID: 7, Amount: 0, Description: "free work"})
			req := newRequest("POST", "/api/v1/payments", body, testAdmin(1), nil)

			handler.CreateObligation(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ReportSettlement", func() {
		settlementBody := func() []byte {
			body, _ := json.Marshal(payment.ReportSettlementDTO{
				Method:   "upi",
				Evidence: payment.EvidenceDTO{UpiID: "ramesh@okhdfc", PayerName: "Ramesh Kumar"},
			})
			return body
		}

		It("returns 200 with the updated record", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusWaitingConfirmation}
			req := newRequest("PATCH", "/api/v1/payments/1/settle", settlementBody(), testClient(42), map[string]string{"id": "1"})

			handler.ReportSettlement(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})

		It("returns 400 for a non-numeric payment id", func() {
			req := newRequest("PATCH", "/api/v1/payments/abc/settle", settlementBody(), testClient(42), map[string]string{"id": "abc"})

			handler.ReportSettlement(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps a settlement race to 409", func() {
			service.reportError = payment.ErrNotPending
			req := newRequest("PATCH", "/api/v1/payments/1/settle", settlementBody(), testClient(42), map[string]string{"id": "1"})

			handler.ReportSettlement(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("ConfirmPayment", func() {
		It("returns 200 on a confirmed record", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusPaid}
			req := newRequest("PATCH", "/api/v1/payments/1/confirm", nil, testAdmin(1), map[string]string{"id": "1"})

			handler.ConfirmPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})

		It("maps a stale confirmation to 409", func() {
			service.confirmError = payment.ErrNotWaitingConfirmation
			req := newRequest("PATCH", "/api/v1/payments/1/confirm", nil, testAdmin(1), map[string]string{"id": "1"})

			handler.ConfirmPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusConflict))
		})

		It("maps a missing payment to 404", func() {
			service.confirmError = payment.ErrPaymentNotFound
			req := newRequest("PATCH", "/api/v1/payments/999/confirm", nil, testAdmin(1), map[string]string{"id": "999"})

			handler.ConfirmPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("RejectPayment", func() {
		It("returns 200 with the record back in pending", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusPending}
			body, _ := json.Marshal(payment.RejectPaymentDTO{Reason: "amount mismatch"})
			req := newRequest("PATCH", "/api/v1/payments/1/reject", body, testAdmin(1), map[string]string{"id": "1"})

			handler.RejectPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})

		It("maps a missing reason to 400", func() {
			service.rejectError = errors.NewValidationError("rejection reason is required", errors.ErrCodeMissingReason)
			body, _ := json.Marshal(payment.RejectPaymentDTO{})
			req := newRequest("PATCH", "/api/v1/payments/1/reject", body, testAdmin(1), map[string]string{"id": "1"})

			handler.RejectPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("RecordOfflinePayment", func() {
		It("returns 201 with the recorded payment", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusPaid}
			body, _ := json.Marshal(payment.OfflinePaymentDTO{Amount: 5000, Method: "cash"})
			req := newRequest("POST", "/api/v1/jobs/7/offline-payment", body, testAdmin(1), map[string]string{"id": "7"})

			handler.RecordOfflinePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
		})

		It("maps an already settled job to 409", func() {
			service.offlineError = payment.ErrJobAlreadySettled
			body, _ := json.Marshal(payment.OfflinePaymentDTO{Amount: 5000, Method: "cash"})
			req := newRequest("POST", "/api/v1/jobs/7/offline-payment", body, testAdmin(1), map[string]string{"id": "7"})

			handler.RecordOfflinePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("GetJobPaymentStatus", func() {
		It("returns the status scoped to the calling client", func() {
			service.status = payment.StatusPending
			req := newRequest("GET", "/api/v1/jobs/7/payment-status", nil, testClient(42), map[string]string{"id": "7"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["job_id"]).To(BeNumerically("==", 7))
			Expect(resp["status"]).To(Equal(payment.StatusPending))

			Expect(service.lastStatusCall).ToNot(BeNil())
			Expect(service.lastStatusCall.jobID).To(Equal(int64(7)))
			Expect(service.lastStatusCall.callerID).To(Equal(int64(42)))
			Expect(service.lastStatusCall.isAdmin).To(BeFalse())
		})

		It("passes the admin flag through for admin callers", func() {
			service.status = payment.StatusPaid
			req := newRequest("GET", "/api/v1/jobs/7/payment-status", nil, testAdmin(1), map[string]string{"id": "7"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.lastStatusCall.isAdmin).To(BeTrue())
		})

		It("returns 403 when the job belongs to another client", func() {
			service.statusError = errors.NewForbiddenError("job belongs to another client", errors.ErrCodeUnauthorizedAccess)
			req := newRequest("GET", "/api/v1/jobs/7/payment-status", nil, testClient(43), map[string]string{"id": "7"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusForbidden))
			Expect(service.lastStatusCall.callerID).To(Equal(int64(43)))
		})

		It("returns 401 without an authenticated user", func() {
			req := newRequest("GET", "/api/v1/jobs/7/payment-status", nil, nil, map[string]string{"id": "7"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(service.lastStatusCall).To(BeNil())
		})

		It("returns 400 for a non-numeric job id", func() {
			req := newRequest("GET", "/api/v1/jobs/abc/payment-status", nil, testClient(42), map[string]string{"id": "abc"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps an unknown job to 404", func() {
			service.statusError = payment.ErrJobNotFound
			req := newRequest("GET", "/api/v1/jobs/999/payment-status", nil, testClient(42), map[string]string{"id": "999"})

			handler.GetJobPaymentStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("ListWaiting", func() {
		It("returns the queue with its count", func() {
			service.waiting = []*payment.PaymentRecord{
				{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusWaitingConfirmation},
				{ID: 2, ClientID: 43, Amount: 2000, Status: payment.StatusWaitingConfirmation},
			}
			req := newRequest("GET", "/api/v1/payments/waiting", nil, testAdmin(1), nil)

			handler.ListWaiting(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeNumerically("==", 2))
		})
	})

	Describe("GetStatement", func() {
		It("returns the caller's statement", func() {
			service.statement = []*payment.PaymentRecord{
				{ID: 3, ClientID: 42, Amount: 5000, Status: payment.StatusPaid},
			}
			req := newRequest("GET", "/api/v1/payments/statement", nil, testClient(42), nil)

			handler.GetStatement(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["count"]).To(BeNumerically("==", 1))
		})

		It("returns 401 without an authenticated user", func() {
			req := newRequest("GET", "/api/v1/payments/statement", nil, nil, nil)

			handler.GetStatement(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GetPendingTotal", func() {
		It("returns the caller's pending total", func() {
			service.pendingTotal = 7000
			req := newRequest("GET", "/api/v1/payments/pending-total", nil, testClient(42), nil)

			handler.GetPendingTotal(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["pending_total"]).To(BeNumerically("==", 7000))
			Expect(resp["client_id"]).To(BeNumerically("==", 42))
		})
	})

	Describe("GetPayment", func() {
		It("maps a record owned by another client to 403", func() {
			service.getPaymentError = errors.NewForbiddenError("payment belongs to another client", errors.ErrCodeUnauthorizedAccess)
			req := newRequest("GET", "/api/v1/payments/1", nil, testClient(43), map[string]string{"id": "1"})

			handler.GetPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 200 with the record", func() {
			service.record = &payment.PaymentRecord{ID: 1, ClientID: 42, Amount: 5000, Status: payment.StatusPending}
			req := newRequest("GET", "/api/v1/payments/1", nil, testClient(42), map[string]string{"id": "1"})

			handler.GetPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})
	})
})
