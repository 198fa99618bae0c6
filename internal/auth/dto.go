package auth

import (
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("email", dto.Email).Required()
	validator.Field("password", dto.Password).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("refresh_token", dto.RefreshToken).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type LoginResponse struct {
	User   *User      `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}
