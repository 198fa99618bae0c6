package postgres

import (
	"gorm.io/gorm"

	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	userDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/user"
)

// UserRepository implements the auth.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) Create(user *userDatamodel.User) error {
	return r.db.Create(user).Error
}
