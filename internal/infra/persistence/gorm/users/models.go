package usersgorm

import "gorm.io/gorm"

type UserRecord struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	DisplayName  string `gorm:"size:128"`
	Email        string `gorm:"size:256"`
	PasswordHash string `gorm:"size:255"` // bcrypt hash
	Active       bool   `gorm:"default:true"`
}

type RoleRecord struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"size:256"`
}

type UserRoleRecord struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	RoleID uint `gorm:"index;not null"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserRecord{}, &RoleRecord{}, &UserRoleRecord{})
}
