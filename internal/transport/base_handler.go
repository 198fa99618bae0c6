package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
)

// BaseHandler provides common response helpers shared by every HTTP handler.
type BaseHandler struct {
	logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) *BaseHandler {
	return &BaseHandler{logger: logger}
}

func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *BaseHandler) WriteError(w http.ResponseWriter, appErr *errors.AppError) {
	statusCode, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, statusCode, body)
}

// HandleServiceError maps service layer errors onto HTTP responses. Anything
// that is not an AppError is logged and surfaced as a 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error, logMessage string) {
	if appErr, ok := errors.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.logger.Error(logMessage, "error", appErr.Error(), "code", appErr.Code)
		}
		h.WriteError(w, appErr)
		return
	}

	h.logger.Error(logMessage, "error", err)
	h.WriteError(w, errors.NewInternalError("internal server error", err))
}

// ExtractTokenFromHeader pulls the bearer token out of the Authorization header.
func ExtractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.NewUnauthorizedError("missing authorization header", errors.ErrCodeUnauthorizedAccess)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.NewUnauthorizedError("invalid authorization header", errors.ErrCodeUnauthorizedAccess)
	}

	return parts[1], nil
}
