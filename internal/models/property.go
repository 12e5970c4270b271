package models

import (
	"time"

	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PropertyKind string

const (
	KindFlat PropertyKind = "flat"
	KindLand PropertyKind = "land"
)

func (k PropertyKind) Valid() bool {
	return k == KindFlat || k == KindLand
}

type TransactionType string

const (
	TransactionSell TransactionType = "sell"
	TransactionRent TransactionType = "rent"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSell || t == TransactionRent
}

// ListingStatus is the owner-controlled display toggle.
type ListingStatus string

const (
	StatusActive ListingStatus = "active"
	StatusHidden ListingStatus = "hidden"
)

func (s ListingStatus) Valid() bool {
	return s == StatusActive || s == StatusHidden
}

// ModerationStatus is the admin-controlled approval state.
type ModerationStatus string

const (
	ModerationWaiting  ModerationStatus = "waiting"
	ModerationReviewed ModerationStatus = "reviewed"
	ModerationBlock    ModerationStatus = "block"
)

func (m ModerationStatus) Valid() bool {
	switch m {
	case ModerationWaiting, ModerationReviewed, ModerationBlock:
		return true
	}
	return false
}

type Property struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Price       float64        `gorm:"index" json:"price"`
	Location    string         `json:"location"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Area        float64        `json:"area"`
	Amenities   pq.StringArray `gorm:"type:text[]" json:"amenities"`

	Kind            PropertyKind     `gorm:"column:model;type:varchar(16);not null" json:"model"`
	TransactionType TransactionType  `gorm:"type:varchar(16);not null" json:"transactionType"`
	Views           int              `gorm:"default:0" json:"views"`
	Status          ListingStatus    `gorm:"type:varchar(16);default:'active';index" json:"status"`
	WaitingStatus   ModerationStatus `gorm:"type:varchar(16);default:'waiting';index" json:"waitingStatus"`

	AgentID *string `gorm:"index;type:varchar(36)" json:"agentId"`
	Agent   *Agent  `gorm:"foreignKey:AgentID;-:migration" json:"agent,omitempty"`

	UserID *string      `gorm:"index;type:varchar(36)" json:"userId"`
	Owner  *UserSummary `gorm:"foreignKey:UserID;-:migration" json:"owner,omitempty"`

	ContactName  *string `json:"contactName"`
	ContactPhone *string `json:"contactPhone"`
	ContactEmail *string `json:"contactEmail"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateID()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.WaitingStatus == "" {
		p.WaitingStatus = ModerationWaiting
	}
	return nil
}

// OwnedBy reports whether the listing's owning user is id.
func (p *Property) OwnedBy(id string) bool {
	return id != "" && p.UserID != nil && *p.UserID == id
}

// AgentIs reports whether id is the listing's agent reference.
func (p *Property) AgentIs(id string) bool {
	return id != "" && p.AgentID != nil && *p.AgentID == id
}
