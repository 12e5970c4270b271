package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound = apperrors.NotFound("Không tìm thấy bất động sản")
	ErrListingForbidden = apperrors.Forbidden("Bạn không có quyền chỉnh sửa bất động sản này")
)

// ListingInput is the body of a create request.
type ListingInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Location        string   `json:"location"`
	Images          []string `json:"images"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	Area            float64  `json:"area"`
	Agent           *string  `json:"agent"`
	AgentID         *string  `json:"agentId"`
	Model           string   `json:"model"`
	TransactionType string   `json:"transactionType"`
	Status          string   `json:"status"`
	Amenities       []string `json:"amenities"`
	ContactName     *string  `json:"contactName"`
	ContactPhone    *string  `json:"contactPhone"`
	ContactEmail    *string  `json:"contactEmail"`
}

func loadProperty(ctx context.Context, db *gorm.DB, id string) (*models.Property, error) {
	var p models.Property
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetListing increments the view counter and returns the listing. The
// increment is a single UPDATE so concurrent fetches never lose a view.
func GetListing(ctx context.Context, db *gorm.DB, id string) (*ListingView, error) {
	res := db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPropertyNotFound
	}

	var p models.Property
	if err := db.WithContext(ctx).Preload("Agent").Preload("Owner").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	v := NewListingView(p)
	return &v, nil
}

// CreateListing stores a new listing owned by the caller, always in the
// waiting moderation state.
func CreateListing(ctx context.Context, db *gorm.DB, viewer *Viewer, in ListingInput) (*ListingView, error) {
	if viewer == nil || viewer.ID == "" {
		return nil, apperrors.Unauthorized("Chưa đăng nhập")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.BadRequest("Thiếu tiêu đề")
	}
	kind := models.PropertyKind(in.Model)
	if !kind.Valid() {
		return nil, apperrors.BadRequest("Loại hình không hợp lệ (flat|land)")
	}
	tx := NormalizeTransactionType(in.TransactionType)
	if !tx.Valid() {
		return nil, apperrors.BadRequest("Loại giao dịch không hợp lệ (sell|rent)")
	}
	status := models.ListingStatus(in.Status)
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, apperrors.BadRequest("Trạng thái không hợp lệ (active|hidden)")
	}

	agentID := in.AgentID
	if agentID == nil {
		agentID = in.Agent
	}
	owner := viewer.ID

	p := models.Property{
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		Location:        in.Location,
		Images:          pq.StringArray(in.Images),
		Bedrooms:        in.Bedrooms,
		Bathrooms:       in.Bathrooms,
		Area:            in.Area,
		Amenities:       pq.StringArray(in.Amenities),
		Kind:            kind,
		TransactionType: tx,
		Status:          status,
		WaitingStatus:   models.ModerationWaiting,
		AgentID:         nonEmpty(agentID),
		UserID:          &owner,
		ContactName:     nonEmpty(in.ContactName),
		ContactPhone:    nonEmpty(in.ContactPhone),
		ContactEmail:    nonEmpty(in.ContactEmail),
	}
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	logger.Info().Str("property_id", p.ID).Str("user_id", owner).Msg("Listing created")
	v := NewListingView(p)
	return &v, nil
}

// canManage is evaluated per request: admin, owning user, or the listing's
// agent acting under an agent token.
func canManage(p *models.Property, viewer *Viewer) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || p.OwnedBy(viewer.ID) || p.AgentIs(viewer.ID)
}

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldRequiredString
	fieldNumber
	fieldInt
	fieldStrings
	fieldRef
)

// updatableFields maps JSON keys to columns. Keys outside the map are ignored.
var updatableFields = map[string]struct {
	column string
	kind   fieldKind
}{
	"title":           {"title", fieldRequiredString},
	"description":     {"description", fieldString},
	"price":           {"price", fieldNumber},
	"location":        {"location", fieldString},
	"images":          {"images", fieldStrings},
	"bedrooms":        {"bedrooms", fieldInt},
	"bathrooms":       {"bathrooms", fieldInt},
	"area":            {"area", fieldNumber},
	"amenities":       {"amenities", fieldStrings},
	"agent":           {"agent_id", fieldRef},
	"agentId":         {"agent_id", fieldRef},
	"model":           {"model", fieldRequiredString},
	"transactionType": {"transaction_type", fieldRequiredString},
	"status":          {"status", fieldRequiredString},
	"waitingStatus":   {"waiting_status", fieldRequiredString},
	"contactName":     {"contact_name", fieldRef},
	"contactPhone":    {"contact_phone", fieldRef},
	"contactEmail":    {"contact_email", fieldRef},
}

// buildListingUpdate converts a JSON patch into column updates. A key
// present with null clears the column.
func buildListingUpdate(raw map[string]json.RawMessage, viewer *Viewer) (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	for key, value := range raw {
		field, ok := updatableFields[key]
		if !ok {
			continue
		}
		isNull := strings.TrimSpace(string(value)) == "null"

		if field.column == "waiting_status" && !viewer.IsAdmin() {
			return nil, apperrors.Forbidden("Chỉ admin được duyệt bài")
		}

		if isNull {
			switch field.kind {
			case fieldRequiredString:
				return nil, apperrors.BadRequest(fmt.Sprintf("Không thể xóa trường %s", key))
			case fieldNumber, fieldInt:
				updates[field.column] = 0
			default:
				updates[field.column] = nil
			}
			continue
		}

		switch field.kind {
		case fieldString, fieldRequiredString, fieldRef:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("Trường %s không hợp lệ", key))
			}
			if field.kind == fieldRequiredString && strings.TrimSpace(s) == "" {
				return nil, apperrors.BadRequest(fmt.Sprintf("Trường %s không được để trống", key))
			}
			if field.kind == fieldRef && s == "" {
				updates[field.column] = nil
				continue
			}
			updates[field.column] = s
		case fieldNumber:
			var n float64
			if err := json.Unmarshal(value, &n); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("Trường %s phải là số", key))
			}
			updates[field.column] = n
		case fieldInt:
			var n int
			if err := json.Unmarshal(value, &n); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("Trường %s phải là số nguyên", key))
			}
			updates[field.column] = n
		case fieldStrings:
			var list []string
			if err := json.Unmarshal(value, &list); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("Trường %s phải là danh sách", key))
			}
			updates[field.column] = pq.StringArray(list)
		}
	}

	if v, ok := updates["model"]; ok && !models.PropertyKind(v.(string)).Valid() {
		return nil, apperrors.BadRequest("Loại hình không hợp lệ (flat|land)")
	}
	if v, ok := updates["transaction_type"]; ok {
		tx := NormalizeTransactionType(v.(string))
		if !tx.Valid() {
			return nil, apperrors.BadRequest("Loại giao dịch không hợp lệ (sell|rent)")
		}
		updates["transaction_type"] = tx
	}
	if v, ok := updates["status"]; ok && !models.ListingStatus(v.(string)).Valid() {
		return nil, apperrors.BadRequest("Trạng thái không hợp lệ (active|hidden)")
	}
	if v, ok := updates["waiting_status"]; ok && !models.ModerationStatus(v.(string)).Valid() {
		return nil, apperrors.BadRequest("Trạng thái duyệt không hợp lệ (waiting|reviewed|block)")
	}
	return updates, nil
}

// UpdateListing applies a partial update. Only admins may change moderation.
func UpdateListing(ctx context.Context, db *gorm.DB, viewer *Viewer, id string, raw map[string]json.RawMessage) (*ListingView, error) {
	p, err := loadProperty(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !canManage(p, viewer) {
		return nil, ErrListingForbidden
	}

	updates, err := buildListingUpdate(raw, viewer)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if moderation, ok := updates["waiting_status"]; ok {
		logger.Info().Str("property_id", id).Str("admin_id", viewer.ID).
			Interface("waiting_status", moderation).Msg("Listing moderated")
	}

	var out models.Property
	if err := db.WithContext(ctx).Preload("Agent").Preload("Owner").First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	v := NewListingView(out)
	return &v, nil
}

func DeleteListing(ctx context.Context, db *gorm.DB, viewer *Viewer, id string) error {
	p, err := loadProperty(ctx, db, id)
	if err != nil {
		return err
	}
	if !canManage(p, viewer) {
		return ErrListingForbidden
	}
	if err := db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id).Error; err != nil {
		return err
	}
	logger.Info().Str("property_id", id).Str("by", viewer.ID).Msg("Listing deleted")
	return nil
}

// PatchListingStatus sets status when a valid value is given, otherwise
// toggles active/hidden.
func PatchListingStatus(ctx context.Context, db *gorm.DB, viewer *Viewer, id string, status string) (*ListingView, error) {
	p, err := loadProperty(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !canManage(p, viewer) {
		return nil, ErrListingForbidden
	}

	next := models.ListingStatus(status)
	if !next.Valid() {
		next = models.StatusActive
		if p.Status == models.StatusActive {
			next = models.StatusHidden
		}
	}
	if err := db.WithContext(ctx).Model(p).Update("status", next).Error; err != nil {
		return nil, err
	}
	p.Status = next
	v := NewListingView(*p)
	return &v, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
