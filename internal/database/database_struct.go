package database

import (
	"gorm.io/gorm"

	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/repo"
)

type Database struct {
	db *gorm.DB
}

var _ repo.Gateway = (*Database)(nil)
