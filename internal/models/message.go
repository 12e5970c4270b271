package models

import (
	"time"

	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Message is a contact note about a listing. Sender details are a snapshot
// taken at send time, not a live reference.
type Message struct {
	ID         string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PropertyID string           `gorm:"index;not null;type:varchar(36)" json:"propertyId"`
	Property   *PropertySummary `gorm:"foreignKey:PropertyID;-:migration" json:"property,omitempty"`

	SenderName  string  `gorm:"not null" json:"senderName"`
	SenderPhone string  `gorm:"not null" json:"senderPhone"`
	SenderEmail *string `gorm:"index" json:"senderEmail"`
	Body        string  `gorm:"column:message;not null" json:"message"`

	// RecipientUserID normally references a User, but holds an Agent id when
	// the sender addressed the listing's agent explicitly.
	RecipientUserID string       `gorm:"index;not null;type:varchar(36)" json:"recipientUserId"`
	Recipient       *UserSummary `gorm:"foreignKey:RecipientUserID;-:migration" json:"recipient,omitempty"`
	RecipientName   *string      `json:"recipientName"`
	RecipientPhone  *string      `json:"recipientPhone"`
	RecipientEmail  *string      `json:"recipientEmail"`

	IsRead    bool      `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateID()
	}
	return nil
}

// PropertySummary is the listing excerpt embedded in message payloads.
type PropertySummary struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Price    float64        `json:"price"`
	Images   pq.StringArray `gorm:"type:text[]" json:"images"`
}

func (PropertySummary) TableName() string {
	return "properties"
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Agent{},
		&Property{},
		&Message{},
	}
}
