package auth

import (
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/user"
)

// Repository defines the data access methods for users.
type Repository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
}

type Service struct {
	repo       Repository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// Authenticate verifies email and password and issues a token pair.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", "email", dto.Email)
		return nil, ErrInvalidCredentials
	}

	if !row.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login attempt with wrong password", "user_id", row.ID)
		return nil, ErrInvalidCredentials
	}

	user := fromDataModel(row)
	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "user_type", user.UserType)
	return &LoginResponse{User: user, Tokens: *tokens}, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshTokens(dto RefreshTokenDTO) (*AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !row.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(fromDataModel(row))
}

// ValidateAccessToken resolves an access token into the authenticated user.
func (s *Service) ValidateAccessToken(tokenString string) (*User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !row.IsActive {
		return nil, ErrUserInactive
	}

	return fromDataModel(row), nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *User) (*AuthTokens, error) {
	id := strconv.FormatInt(user.ID, 10)

	access, err := s.tokens.GenerateAccessToken(id, user.Email, user.UserType)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "user_id", user.ID)
		return nil, err
	}

	refresh, err := s.tokens.GenerateRefreshToken(id, user.Email, user.UserType)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err, "user_id", user.ID)
		return nil, err
	}

	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func fromDataModel(row *userDatamodel.User) *User {
	return &User{
		ID:       row.ID,
		Email:    row.Email,
		Name:     row.Name,
		UserType: row.UserType,
	}
}
