package services

import (
	"context"
	"errors"
	"strings"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"gorm.io/gorm"
)

var ErrAgentNotFound = apperrors.NotFound("Không tìm thấy agent")

// AgentInput is the writable part of an Agent. Nil fields are left alone on
// update.
type AgentInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password"`
	Agency    *string `json:"agency"`
	AgencyImg *string `json:"agencyImg"`
}

func ListAgents(ctx context.Context, db *gorm.DB) ([]models.Agent, error) {
	agents := []models.Agent{}
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func GetAgent(ctx context.Context, db *gorm.DB, id string) (*models.Agent, error) {
	var a models.Agent
	err := db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAgentByEmail returns the first agent registered under email.
func FindAgentByEmail(ctx context.Context, db *gorm.DB, email string) (*models.Agent, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.BadRequest("Thiếu email")
	}
	var a models.Agent
	err := db.WithContext(ctx).Where("email = ?", email).Order("created_at ASC").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func CreateAgent(ctx context.Context, db *gorm.DB, in AgentInput) (*models.Agent, error) {
	a := models.Agent{}
	if err := applyAgentInput(&a, in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Name) == "" {
		return nil, apperrors.BadRequest("Thiếu tên agent")
	}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func UpdateAgent(ctx context.Context, db *gorm.DB, id string, in AgentInput) (*models.Agent, error) {
	a, err := GetAgent(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := applyAgentInput(a, in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Name) == "" {
		return nil, apperrors.BadRequest("Thiếu tên agent")
	}
	if err := db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func DeleteAgent(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Delete(&models.Agent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func applyAgentInput(a *models.Agent, in AgentInput) error {
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		a.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		a.Phone = *in.Phone
	}
	if in.Agency != nil {
		a.Agency = *in.Agency
	}
	if in.AgencyImg != nil {
		a.AgencyImg = *in.AgencyImg
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		a.Password = hash
	}
	return nil
}
