package services

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestCreateThenGet_RoundTripIncrementsViews(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "A", "a@x.com")

	created, err := CreateListing(ctx, db, asUser(user), ListingInput{
		Title: "Flat", Model: "flat", TransactionType: "sell", Price: 123,
		Images: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationWaiting, created.WaitingStatus)
	assert.Equal(t, models.StatusActive, created.Status)
	require.NotNil(t, created.UserID)
	assert.Equal(t, user.ID, *created.UserID)

	before := created.Views
	got, err := GetListing(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KindFlat, got.Kind)
	assert.Equal(t, models.TransactionSell, got.TransactionType)
	assert.Equal(t, before+1, got.Views)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(got.Images))
}

func TestGetListing_ConcurrentViewsAreNotLost(t *testing.T) {
	db := setupTestDB(t)
	p := createProperty(t, db, "Busy", "Hanoi", reviewed)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := GetListing(ctx, db, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var out models.Property
	require.NoError(t, db.First(&out, "id = ?", p.ID).Error)
	assert.Equal(t, 10, out.Views)
}

func TestGetListing_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetListing(ctx, db, "8a7f2c1e-0000-4000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}

func TestCreateListing_Validation(t *testing.T) {
	db := setupTestDB(t)
	user := asUser(createUser(t, db, "A", "a@x.com"))

	cases := []ListingInput{
		{Model: "flat", TransactionType: "sell"},
		{Title: "x", Model: "house", TransactionType: "sell"},
		{Title: "x", Model: "flat", TransactionType: "swap"},
		{Title: "x", Model: "flat", TransactionType: "sell", Status: "gone"},
	}
	for _, in := range cases {
		_, err := CreateListing(ctx, db, user, in)
		assert.Equal(t, http.StatusBadRequest, appCode(t, err), "%+v", in)
	}

	_, err := CreateListing(ctx, db, nil, ListingInput{Title: "x", Model: "flat", TransactionType: "sell"})
	assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
}

func TestWaitingListing_HiddenFromPublicVisibleToOwner(t *testing.T) {
	db := setupTestDB(t)
	a := createUser(t, db, "A", "a@x.com")

	created, err := CreateListing(ctx, db, asUser(a), ListingInput{Title: "Plot", Model: "land", TransactionType: "rent"})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationWaiting, created.WaitingStatus)

	public, err := SearchListings(ctx, db, ParseListingQuery(url.Values{}), nil)
	require.NoError(t, err)
	for _, p := range public.Properties {
		assert.NotEqual(t, created.ID, p.ID)
	}

	mine, err := SearchListings(ctx, db, ParseListingQuery(url.Values{"owner": {"me"}}), asUser(a))
	require.NoError(t, err)
	require.Len(t, mine.Properties, 1)
	assert.Equal(t, created.ID, mine.Properties[0].ID)
}

func TestUpdateListing_Authorization(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	other := createUser(t, db, "Other", "other@x.com")
	agent := createAgent(t, db, "Agent", "agent@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID), withAgent(agent.ID))

	_, err := UpdateListing(ctx, db, asUser(other), p.ID, patch(t, `{"title":"Hacked"}`))
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	got, err := UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"title":"Renamed"}`))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	got, err = UpdateListing(ctx, db, &Viewer{ID: agent.ID, Role: models.RoleAgent}, p.ID, patch(t, `{"price":999}`))
	require.NoError(t, err)
	assert.Equal(t, 999.0, got.Price)

	got, err = UpdateListing(ctx, db, &Viewer{ID: "root", Role: models.RoleAdmin}, p.ID, patch(t, `{"waitingStatus":"reviewed"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ModerationReviewed, got.WaitingStatus)
}

func TestUpdateListing_OnlyAdminModerates(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID))

	_, err := UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"waitingStatus":"reviewed"}`))
	assert.Equal(t, http.StatusForbidden, appCode(t, err))

	var out models.Property
	require.NoError(t, db.First(&out, "id = ?", p.ID).Error)
	assert.Equal(t, models.ModerationWaiting, out.WaitingStatus)
}

func TestUpdateListing_NullClearsField(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	agent := createAgent(t, db, "Agent", "agent@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID), withAgent(agent.ID))

	got, err := UpdateListing(ctx, db, asUser(owner), p.ID,
		patch(t, `{"agent":null,"contactName":"Chi Lan","contactPhone":"0909","images":null}`))
	require.NoError(t, err)
	assert.Nil(t, got.AgentID)
	require.NotNil(t, got.Contact)
	assert.Equal(t, "contact", got.Contact.Type)
	assert.Equal(t, "Chi Lan", got.Contact.Name)
	assert.Empty(t, got.Images)

	got, err = UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"location":null,"price":null}`))
	require.NoError(t, err)
	assert.Empty(t, got.Location)
	assert.Zero(t, got.Price)

	_, err = UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"title":null}`))
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"model":"castle"}`))
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
}

func TestUpdateListing_NormalizesTransactionType(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID), func(p *models.Property) {
		p.TransactionType = models.TransactionRent
	})

	got, err := UpdateListing(ctx, db, asUser(owner), p.ID, patch(t, `{"transactionType":"sale"}`))
	require.NoError(t, err)
	assert.Equal(t, models.TransactionSell, got.TransactionType)
}

func TestDeleteListing(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	other := createUser(t, db, "Other", "other@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID))

	assert.Equal(t, http.StatusForbidden, appCode(t, DeleteListing(ctx, db, asUser(other), p.ID)))
	require.NoError(t, DeleteListing(ctx, db, asUser(owner), p.ID))
	assert.Equal(t, http.StatusNotFound, appCode(t, DeleteListing(ctx, db, asUser(owner), p.ID)))
}

func TestPatchListingStatus_SetOrToggle(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Owner", "o@x.com")
	p := createProperty(t, db, "Flat", "Hanoi", ownedBy(owner.ID))

	got, err := PatchListingStatus(ctx, db, asUser(owner), p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHidden, got.Status)

	got, err = PatchListingStatus(ctx, db, asUser(owner), p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	got, err = PatchListingStatus(ctx, db, asUser(owner), p.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	_, err = PatchListingStatus(ctx, db, &Viewer{ID: "nobody", Role: models.RoleUser}, p.ID, "hidden")
	assert.Equal(t, http.StatusForbidden, appCode(t, err))
}

func TestContactOf(t *testing.T) {
	agentID := "agent-1"
	name := "Lan"

	assert.Equal(t, AgentContact{AgentID: agentID},
		ContactOf(&models.Property{AgentID: &agentID, ContactName: &name}))
	assert.Equal(t, PersonalContact{Name: name},
		ContactOf(&models.Property{ContactName: &name}))
	assert.Nil(t, ContactOf(&models.Property{}))
}
