package models

import (
	"time"

	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleAgent is never stored on a User; it is the role minted for tokens
	// issued to Agent records.
	RoleAgent Role = "agent"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string `gorm:"not null" json:"phone"`
	Password  string `gorm:"not null" json:"-"`
	Role      Role   `gorm:"type:varchar(16);default:'user'" json:"role"`
	AvatarURL string `json:"avatarUrl"`
	IsBanned  bool   `gorm:"default:false" json:"isBanned"`

	RememberToken        *string    `gorm:"index" json:"-"`
	RememberTokenExpires *time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.GenerateID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the subset of a user embedded in listing and message payloads.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (UserSummary) TableName() string {
	return "users"
}
