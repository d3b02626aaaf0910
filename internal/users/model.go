package users

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:80;unique;not null"`
	Email        string `gorm:"size:120;unique;not null"`
	Avatar       string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
