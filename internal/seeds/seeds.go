package seeds

import (
	"context"
	"errors"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"gorm.io/gorm"
)

const DemoPassword = "password123"

// Result reports what a seed run created.
type Result struct {
	Users      int
	Agents     int
	Properties int
	Messages   int
}

// Run inserts demo accounts and listings. Records that already exist by
// email (or title, for listings) are left untouched, so it is safe to re-run.
func Run(ctx context.Context, db *gorm.DB) (*Result, error) {
	res := &Result{}
	hash, err := services.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	admin, err := getOrCreateUser(ctx, db, res, models.User{
		Name: "Quản trị viên", Email: "admin@realestatepro.vn", Phone: "0900000001",
		Password: hash, Role: models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	owner, err := getOrCreateUser(ctx, db, res, models.User{
		Name: "Nguyễn Văn An", Email: "an@realestatepro.vn", Phone: "0900000002", Password: hash,
	})
	if err != nil {
		return nil, err
	}
	buyer, err := getOrCreateUser(ctx, db, res, models.User{
		Name: "Trần Thị Bình", Email: "binh@realestatepro.vn", Phone: "0900000003", Password: hash,
	})
	if err != nil {
		return nil, err
	}
	agent, err := getOrCreateAgent(ctx, db, res, models.Agent{
		Name: "Lê Minh", Email: "minh@sunrealty.vn", Phone: "0911000001", Password: hash,
		Agency: "Sun Realty",
	})
	if err != nil {
		return nil, err
	}

	listings := []models.Property{
		{
			Title: "Căn hộ 2 phòng ngủ Cầu Giấy", Location: "Cầu Giấy, Hà Nội", Price: 3500000000,
			Area: 72, Bedrooms: 2, Bathrooms: 2, Kind: models.KindFlat, TransactionType: models.TransactionSell,
			WaitingStatus: models.ModerationReviewed, UserID: &owner.ID,
			Amenities: []string{"Hồ bơi", "Gym"},
		},
		{
			Title: "Đất nền Thủ Đức", Location: "Thủ Đức, TP.HCM", Price: 5200000000,
			Area: 120, Kind: models.KindLand, TransactionType: models.TransactionSell,
			WaitingStatus: models.ModerationReviewed, UserID: &owner.ID, AgentID: &agent.ID,
		},
		{
			Title: "Cho thuê căn hộ Quận 7", Location: "Quận 7, TP.HCM", Price: 15000000,
			Area: 65, Bedrooms: 2, Bathrooms: 1, Kind: models.KindFlat, TransactionType: models.TransactionRent,
			UserID: &admin.ID,
		},
	}
	var fronted *models.Property
	for i := range listings {
		p, err := getOrCreateProperty(ctx, db, res, listings[i])
		if err != nil {
			return nil, err
		}
		if p.AgentID != nil {
			fronted = p
		}
	}

	if fronted != nil && res.Properties > 0 {
		email := buyer.Email
		msg := models.Message{
			PropertyID: fronted.ID, SenderName: buyer.Name, SenderPhone: buyer.Phone, SenderEmail: &email,
			Body: "Tôi muốn xem đất vào cuối tuần này.", RecipientUserID: owner.ID,
			CreatedAt: time.Now(),
		}
		if err := db.WithContext(ctx).Create(&msg).Error; err != nil {
			return nil, err
		}
		res.Messages++
	}

	logger.Info().
		Int("users", res.Users).
		Int("agents", res.Agents).
		Int("properties", res.Properties).
		Int("messages", res.Messages).
		Msg("Seed complete")
	return res, nil
}

func getOrCreateUser(ctx context.Context, db *gorm.DB, res *Result, u models.User) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	res.Users++
	return &u, nil
}

func getOrCreateAgent(ctx context.Context, db *gorm.DB, res *Result, a models.Agent) (*models.Agent, error) {
	existing, err := services.FindAgentByEmail(ctx, db, a.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, services.ErrAgentNotFound) {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	res.Agents++
	return &a, nil
}

func getOrCreateProperty(ctx context.Context, db *gorm.DB, res *Result, p models.Property) (*models.Property, error) {
	var existing models.Property
	err := db.WithContext(ctx).Where("title = ?", p.Title).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	res.Properties++
	return &p, nil
}
