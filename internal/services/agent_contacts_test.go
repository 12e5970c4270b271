package services

import (
	"testing"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentContacts_MergeSortPaginate(t *testing.T) {
	db := setupTestDB(t)
	agent := createAgent(t, db, "E", "e@x.com")
	owner := createUser(t, db, "Owner", "owner@x.com")
	quietOwner := createUser(t, db, "", "quiet@x.com")
	p1 := createProperty(t, db, "P1", "Hanoi", ownedBy(owner.ID), withAgent(agent.ID))
	createProperty(t, db, "P2", "Hanoi", ownedBy(quietOwner.ID), withAgent(agent.ID))
	unrelated := createProperty(t, db, "P3", "Hanoi")

	now := time.Now()
	send := func(propertyID, name, email string, ago time.Duration) {
		e := email
		require.NoError(t, db.Create(&models.Message{
			PropertyID: propertyID, SenderName: name, SenderPhone: "09", SenderEmail: &e,
			Body: "hi", RecipientUserID: owner.ID, CreatedAt: now.Add(-ago),
		}).Error)
	}
	send(p1.ID, "Old name", "b@x.com", 3*time.Hour)
	send(p1.ID, "New name", "b@x.com", time.Hour)
	send(p1.ID, "C", "c@x.com", 2*time.Hour)
	// the owner also wrote, so the sender entry wins over the owner entry
	send(p1.ID, "Owner as sender", "owner@x.com", 30*time.Minute)
	send(unrelated.ID, "D", "d@x.com", time.Minute)

	page, err := AgentContacts(ctx, db, "e@x.com", ParsePage("", "", defaultContactsLimit))
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Pagination.Total)
	require.Len(t, page.Contacts, 4)

	emails := make([]string, len(page.Contacts))
	for i, c := range page.Contacts {
		emails[i] = c.Email
	}
	assert.Equal(t, []string{"owner@x.com", "b@x.com", "c@x.com", "quiet@x.com"}, emails)

	assert.Equal(t, "Owner as sender", page.Contacts[0].Name)
	assert.Equal(t, "New name", page.Contacts[1].Name)
	require.NotNil(t, page.Contacts[1].LastMessageAt)
	assert.WithinDuration(t, now.Add(-time.Hour), *page.Contacts[1].LastMessageAt, time.Second)
	assert.Nil(t, page.Contacts[3].LastMessageAt)
	assert.Equal(t, ownerFallbackName, page.Contacts[3].Name)

	second, err := AgentContacts(ctx, db, "e@x.com", ParsePage("2", "3", defaultContactsLimit))
	require.NoError(t, err)
	require.Len(t, second.Contacts, 1)
	assert.Equal(t, "quiet@x.com", second.Contacts[0].Email)
	assert.Equal(t, 2, second.Pagination.TotalPages)

	beyond, err := AgentContacts(ctx, db, "e@x.com", ParsePage("9", "3", defaultContactsLimit))
	require.NoError(t, err)
	assert.Empty(t, beyond.Contacts)
}

func TestAgentContacts_HugePage(t *testing.T) {
	db := setupTestDB(t)
	agent := createAgent(t, db, "E", "e@x.com")
	owner := createUser(t, db, "Owner", "owner@x.com")
	createProperty(t, db, "P1", "Hanoi", ownedBy(owner.ID), withAgent(agent.ID))

	page, err := AgentContacts(ctx, db, "e@x.com", ParsePage("4611686018427387903", "4", 4))
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
	assert.EqualValues(t, 1, page.Pagination.Total)

	page, err = AgentContacts(ctx, db, "e@x.com", PageRequest{Page: 4611686018427387903, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
}

func TestAgentContacts_NoListings(t *testing.T) {
	db := setupTestDB(t)
	createAgent(t, db, "E", "e@x.com")

	page, err := AgentContacts(ctx, db, "e@x.com", ParsePage("", "", defaultContactsLimit))
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
	assert.EqualValues(t, 0, page.Pagination.Total)

	_, err = AgentContacts(ctx, db, "ghost@x.com", ParsePage("", "", defaultContactsLimit))
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
