package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	resp, err := h.service.Authenticate(dto)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	tokens, err := h.service.RefreshTokens(dto)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

// AuthMiddleware validates the bearer token and attaches the user to context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := transport.ExtractTokenFromHeader(r)
		if err != nil {
			h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
			return
		}

		user, err := h.service.ValidateAccessToken(tokenString)
		if err != nil {
			h.handleAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidCredentials:
		h.WriteError(w, errors.NewUnauthorizedError("invalid email or password", errors.ErrCodeInvalidCredentials))
	case ErrTokenExpired:
		h.WriteError(w, errors.NewUnauthorizedError("token expired", errors.ErrCodeTokenExpired))
	case ErrInvalidToken:
		h.WriteError(w, errors.NewUnauthorizedError("invalid token", errors.ErrCodeInvalidToken))
	case ErrUserInactive:
		h.WriteError(w, errors.NewForbiddenError("account is disabled", errors.ErrCodeUserInactive))
	default:
		h.HandleServiceError(w, err, "auth request failed")
	}
}
