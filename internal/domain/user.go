package domain

import "time"

// StartingPrysms is the balance credited to a freshly registered user.
const StartingPrysms = 100

// User is an account resolved by the identity provider.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null" json:"username"`
	Password  string    `gorm:"type:text;not null" json:"-"` // bcrypt hash
	Email     string    `gorm:"type:varchar(191)" json:"email,omitempty"`
	Prysms    int       `gorm:"not null;default:0" json:"prysms"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
