package seeds

import (
	"context"
	"testing"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_IsRepeatable(t *testing.T) {
	cfg := config.Default()
	cfg.BcryptCost = 4
	config.AppConfig = cfg

	db, err := database.Open(&config.Config{DBDriver: "sqlite", DatabaseURL: "file:seeds_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	res, err := Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 3, Agents: 1, Properties: 3, Messages: 1}, *res)

	again, err := Run(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, Result{}, *again)

	page, err := services.SearchListings(ctx, db, services.ParseListingQuery(nil), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)

	contacts, err := services.AgentContacts(ctx, db, "minh@sunrealty.vn", services.ParsePage("", "", 4))
	require.NoError(t, err)
	assert.Len(t, contacts.Contacts, 2)
}
