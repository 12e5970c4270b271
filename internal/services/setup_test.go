package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory SQLite database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default()
	cfg.JWTSecret = "test_secret_key_12345"
	cfg.BcryptCost = 4
	config.AppConfig = cfg

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(&config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)

	// shared-cache SQLite serialises writers; one connection avoids
	// "table is locked" under the concurrent count/page queries
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: email, Phone: "0900000000", Password: hash}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createAgent(t *testing.T, db *gorm.DB, name, email string) *models.Agent {
	t.Helper()
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	a := &models.Agent{Name: name, Email: email, Phone: "0911111111", Password: hash, Agency: "Sun Realty"}
	require.NoError(t, db.Create(a).Error)
	return a
}

type propertyOpt func(*models.Property)

func reviewed(p *models.Property) { p.WaitingStatus = models.ModerationReviewed }
func hidden(p *models.Property)   { p.Status = models.StatusHidden }

func ownedBy(id string) propertyOpt {
	return func(p *models.Property) { p.UserID = &id }
}

func withAgent(id string) propertyOpt {
	return func(p *models.Property) { p.AgentID = &id }
}

func withPrice(price float64) propertyOpt {
	return func(p *models.Property) { p.Price = price }
}

func createdAgo(d time.Duration) propertyOpt {
	return func(p *models.Property) { p.CreatedAt = time.Now().Add(-d) }
}

func createProperty(t *testing.T, db *gorm.DB, title, location string, opts ...propertyOpt) *models.Property {
	t.Helper()
	p := &models.Property{
		Title:           title,
		Location:        location,
		Price:           1000,
		Area:            50,
		Kind:            models.KindFlat,
		TransactionType: models.TransactionSell,
	}
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func asUser(u *models.User) *Viewer {
	return &Viewer{ID: u.ID, Role: u.Role}
}

var ctx = context.Background()
