package job

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
		logger:      logger,
	}
}

// CreateJob handles POST /jobs.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var dto CreateJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	j, err := h.service.CreateJob(dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to create job")
		return
	}

	h.WriteJSON(w, http.StatusCreated, j)
}

// GetJob handles GET /jobs/{id}. Clients only see their own jobs.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid job id", errors.ErrCodeValidationFailed))
		return
	}

	j, err := h.service.GetJobByID(id)
	if err != nil {
		h.HandleServiceError(w, err, "failed to get job")
		return
	}

	if !user.IsAdmin() && j.ClientID != user.ID {
		h.WriteError(w, errors.NewForbiddenError("job belongs to another client", errors.ErrCodeUnauthorizedAccess))
		return
	}

	h.WriteJSON(w, http.StatusOK, j)
}

// ListJobs handles GET /jobs. Admins see everything, clients see their own.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	limit, offset := paginationParams(r)

	var (
		jobs []*Job
		err  error
	)
	if user.IsAdmin() {
		jobs, err = h.service.GetAllJobs(limit, offset)
	} else {
		jobs, err = h.service.GetClientJobs(user.ID, limit, offset)
	}
	if err != nil {
		h.HandleServiceError(w, err, "failed to list jobs")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// UpdateJobStatus handles PATCH /jobs/{id}/status.
func (h *Handler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid job id", errors.ErrCodeValidationFailed))
		return
	}

	var dto UpdateJobStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	j, err := h.service.UpdateJobStatus(id, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to update job status")
		return
	}

	h.WriteJSON(w, http.StatusOK, j)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
