package services

import "github.com/NDQnhat/realestatepro-api/internal/models"

// ListingContact is the effective contact of a listing: either an Agent
// reference or a personal contact triple. Resolve it with ContactOf.
type ListingContact interface {
	contactKind() string
}

// AgentContact points at an Agent record.
type AgentContact struct {
	AgentID string
}

// PersonalContact is the poster's own name/phone/email.
type PersonalContact struct {
	Name  string
	Phone string
	Email string
}

func (AgentContact) contactKind() string    { return "agent" }
func (PersonalContact) contactKind() string { return "contact" }

// ContactOf resolves the effective contact. The agent reference wins when
// both are present; nil means the listing has neither.
func ContactOf(p *models.Property) ListingContact {
	if p.AgentID != nil && *p.AgentID != "" {
		return AgentContact{AgentID: *p.AgentID}
	}
	pc := PersonalContact{
		Name:  deref(p.ContactName),
		Phone: deref(p.ContactPhone),
		Email: deref(p.ContactEmail),
	}
	if pc == (PersonalContact{}) {
		return nil
	}
	return pc
}

// ContactView is the JSON shape of a resolved contact.
type ContactView struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ViewContact renders the effective contact, filling agent details from the
// preloaded Agent when available.
func ViewContact(p *models.Property) *ContactView {
	switch c := ContactOf(p).(type) {
	case AgentContact:
		v := &ContactView{Type: c.contactKind(), AgentID: c.AgentID}
		if p.Agent != nil {
			v.Name, v.Phone, v.Email = p.Agent.Name, p.Agent.Phone, p.Agent.Email
		}
		return v
	case PersonalContact:
		return &ContactView{Type: c.contactKind(), Name: c.Name, Phone: c.Phone, Email: c.Email}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
