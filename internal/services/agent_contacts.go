package services

import (
	"context"
	"sort"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"gorm.io/gorm"
)

const (
	defaultContactsLimit = 4
	ownerFallbackName    = "Chủ property"
)

// Contact is one entry of an agent's address book. LastMessageAt is nil
// for listing owners who never wrote.
type Contact struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
}

type ContactPage struct {
	Contacts   []Contact  `json:"contacts"`
	Pagination Pagination `json:"pagination"`
}

type senderRow struct {
	SenderName  string
	SenderPhone string
	SenderEmail *string
	CreatedAt   time.Time
}

// AgentContacts merges everyone who wrote about the agent's listings with
// the owners of those listings, keyed by email. Senders win on collision.
// The merged list is sorted and paginated in memory.
func AgentContacts(ctx context.Context, db *gorm.DB, agentEmail string, page PageRequest) (*ContactPage, error) {
	if agentEmail == "" {
		return nil, apperrors.BadRequest("Thiếu email")
	}
	agent, err := FindAgentByEmail(ctx, db, agentEmail)
	if err != nil {
		return nil, err
	}

	var props []models.Property
	err = db.WithContext(ctx).Select("id", "user_id").Preload("Owner").
		Where("agent_id = ?", agent.ID).Find(&props).Error
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return &ContactPage{Contacts: []Contact{}, Pagination: page.Meta(0)}, nil
	}

	ids := make([]string, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}

	var rows []senderRow
	err = db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_name", "sender_phone", "sender_email", "created_at").
		Where("property_id IN ?", ids).
		Order("created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contacts := mergeContacts(rows, props)
	total := int64(len(contacts))

	start := min(max(page.Offset(), 0), len(contacts))
	end := start + min(max(page.Limit, 0), len(contacts)-start)
	return &ContactPage{Contacts: contacts[start:end], Pagination: page.Meta(total)}, nil
}

// mergeContacts expects rows newest first, so the first row seen per email
// carries that sender's latest details and timestamp.
func mergeContacts(rows []senderRow, props []models.Property) []Contact {
	seen := make(map[string]bool)
	var out []Contact

	for _, r := range rows {
		email := deref(r.SenderEmail)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		at := r.CreatedAt
		out = append(out, Contact{Name: r.SenderName, Email: email, Phone: r.SenderPhone, LastMessageAt: &at})
	}

	for _, p := range props {
		if p.Owner == nil || p.Owner.Email == "" || seen[p.Owner.Email] {
			continue
		}
		seen[p.Owner.Email] = true
		name := p.Owner.Name
		if name == "" {
			name = ownerFallbackName
		}
		out = append(out, Contact{Name: name, Email: p.Owner.Email, Phone: p.Owner.Phone})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastMessageAt, out[j].LastMessageAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	if out == nil {
		out = []Contact{}
	}
	return out
}
