package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrCartItemNotFound = errors.New("cart item not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
