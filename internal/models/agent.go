package models

import (
	"time"

	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"gorm.io/gorm"
)

// Agent is a brokerage contact profile. It is a separate record from User;
// email is indexed but not unique.
type Agent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"index" json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"-"`
	Agency    string `json:"agency"`
	AgencyImg string `json:"agencyImg"`
}

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateID()
	}
	return nil
}
