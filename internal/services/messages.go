package services

import (
	"context"
	"errors"
	"strings"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/internal/notify"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultMyMessagesLimit    = 3
	defaultAgentMessagesLimit = 10
)

var (
	ErrMessageNotFound  = apperrors.NotFound("Không tìm thấy tin nhắn")
	ErrMissingOwner     = apperrors.BadRequest("Bất động sản không có chủ sở hữu")
	ErrSelfMessage      = apperrors.BadRequest("Không thể gửi tin nhắn cho chính mình")
	ErrMissingFields    = apperrors.BadRequest("Thiếu thông tin bắt buộc")
	ErrNoRecipients     = apperrors.NotFound("Không tìm thấy người nhận hợp lệ")
	ErrMissingRecipient = apperrors.BadRequest("Thiếu thông tin người nhận")
)

// RecipientDescriptor is the optional explicit recipient chosen by the
// sender. Type is agent, user or contact.
type RecipientDescriptor struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type SendMessageInput struct {
	PropertyID string               `json:"propertyId"`
	Message    string               `json:"message"`
	Recipient  *RecipientDescriptor `json:"recipient"`
}

type AgentMessageInput struct {
	AgentEmail      string   `json:"agentEmail"`
	PropertyID      string   `json:"propertyId"`
	Message         string   `json:"message"`
	RecipientEmail  string   `json:"recipientEmail"`
	RecipientEmails []string `json:"recipientEmails"`
}

type MessagePage struct {
	Messages   []models.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// resolveRecipient picks the recipient user reference for a message sent
// about p. It returns the display snapshot to store alongside it.
func resolveRecipient(p *models.Property, senderID string, desc *RecipientDescriptor) (string, *RecipientDescriptor, error) {
	owner := deref(p.UserID)

	recipient := owner
	if desc != nil {
		if (desc.Type == "agent" || desc.Type == "user") && desc.ID != "" {
			recipient = desc.ID
		}
	}
	if recipient == "" {
		return "", nil, ErrMissingOwner
	}
	if recipient == senderID {
		return "", nil, ErrSelfMessage
	}
	return recipient, desc, nil
}

// SendMessage stores a message from an authenticated user about a listing.
func SendMessage(ctx context.Context, db *gorm.DB, viewer *Viewer, in SendMessageInput) (*models.Message, error) {
	if viewer.id() == "" {
		return nil, apperrors.Unauthorized("Vui lòng đăng nhập để gửi tin nhắn")
	}
	body := strings.TrimSpace(in.Message)
	if in.PropertyID == "" || body == "" {
		return nil, ErrMissingFields
	}

	var p models.Property
	if err := db.WithContext(ctx).First(&p, "id = ?", in.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	var sender models.User
	if err := db.WithContext(ctx).First(&sender, "id = ?", viewer.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	recipientID, desc, err := resolveRecipient(&p, sender.ID, in.Recipient)
	if err != nil {
		return nil, err
	}

	m := models.Message{
		PropertyID:      p.ID,
		SenderName:      sender.Name,
		SenderPhone:     sender.Phone,
		SenderEmail:     strPtr(sender.Email),
		Body:            body,
		RecipientUserID: recipientID,
	}
	if desc != nil {
		m.RecipientName = strPtr(desc.Name)
		m.RecipientPhone = strPtr(desc.Phone)
		m.RecipientEmail = strPtr(desc.Email)
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	publishCreated(ctx, false, m)

	if err := db.WithContext(ctx).Preload("Property").Preload("Recipient").First(&m, "id = ?", m.ID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// recipientsByEmail resolves emails to user ids. Unknown emails are skipped.
func recipientsByEmail(ctx context.Context, db *gorm.DB, emails []string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&models.User{}).Where("email IN ?", emails).Pluck("id", &ids).Error
	return ids, err
}

// SendFromAgent fans one message out to every resolved recipient. The agent
// is identified by email and must be the listing's agent.
func SendFromAgent(ctx context.Context, db *gorm.DB, in AgentMessageInput) ([]models.Message, error) {
	body := strings.TrimSpace(in.Message)
	if in.AgentEmail == "" || in.PropertyID == "" || body == "" {
		return nil, ErrMissingFields
	}

	agent, err := FindAgentByEmail(ctx, db, in.AgentEmail)
	if err != nil {
		return nil, err
	}
	var p models.Property
	if err := db.WithContext(ctx).First(&p, "id = ?", in.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if c, ok := ContactOf(&p).(AgentContact); !ok || c.AgentID != agent.ID {
		return nil, apperrors.Forbidden("Bất động sản không thuộc đại lý này")
	}

	var recipients []string
	switch {
	case len(in.RecipientEmails) > 0:
		recipients, err = recipientsByEmail(ctx, db, in.RecipientEmails)
		if err != nil {
			return nil, err
		}
		if len(recipients) == 0 {
			return nil, ErrNoRecipients
		}
	case len(utils.SplitEmails(in.RecipientEmail)) > 0:
		emails := utils.SplitEmails(in.RecipientEmail)
		recipients, err = recipientsByEmail(ctx, db, emails)
		if err != nil {
			return nil, err
		}
		if len(recipients) == 0 {
			if len(emails) == 1 {
				return nil, apperrors.NotFound("Không tìm thấy người dùng nhận")
			}
			return nil, ErrNoRecipients
		}
	case p.UserID != nil && *p.UserID != "":
		recipients = []string{*p.UserID}
	default:
		return nil, ErrMissingRecipient
	}

	msgs := make([]models.Message, 0, len(recipients))
	for _, rid := range recipients {
		msgs = append(msgs, models.Message{
			PropertyID:      p.ID,
			SenderName:      agent.Name,
			SenderPhone:     agent.Phone,
			SenderEmail:     strPtr(agent.Email),
			Body:            body,
			RecipientUserID: rid,
		})
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			if err := tx.Create(&msgs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("agent_id", agent.ID).Str("property_id", p.ID).Int("recipients", len(msgs)).Msg("Agent message sent")
	publishCreated(ctx, true, msgs...)

	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	var out []models.Message
	err = db.WithContext(ctx).Preload("Property").Preload("Recipient").
		Where("id IN ?", ids).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func publishCreated(ctx context.Context, fromAgent bool, msgs ...models.Message) {
	for _, m := range msgs {
		ev := notify.MessageCreated{
			MessageID:       m.ID,
			PropertyID:      m.PropertyID,
			RecipientUserID: m.RecipientUserID,
			SenderName:      m.SenderName,
			SenderEmail:     deref(m.SenderEmail),
			FromAgent:       fromAgent,
			CreatedAt:       m.CreatedAt,
		}
		if err := notify.Default.Publish(ctx, notify.RoutingMessageCreated, ev); err != nil {
			logger.Warn().Err(err).Str("message_id", m.ID).Msg("Failed to publish message event")
		}
	}
}

// pageMessages counts and fetches one page from the same scope.
func pageMessages(ctx context.Context, db *gorm.DB, page PageRequest, scope func(*gorm.DB) *gorm.DB) (*MessagePage, error) {
	var (
		total int64
		rows  []models.Message
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Message{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Scopes(scope).
			Preload("Property").Preload("Recipient").
			Order("created_at DESC").
			Limit(page.Limit).Offset(page.Offset()).
			Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Message{}
	}
	return &MessagePage{Messages: rows, Pagination: page.Meta(total)}, nil
}

func emptyMessagePage(page PageRequest) *MessagePage {
	return &MessagePage{Messages: []models.Message{}, Pagination: page.Meta(0)}
}

// MyMessages lists messages addressed to the viewer, newest first.
func MyMessages(ctx context.Context, db *gorm.DB, viewer *Viewer, page PageRequest) (*MessagePage, error) {
	if viewer.id() == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return pageMessages(ctx, db, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("recipient_user_id = ?", viewer.ID)
	})
}

func agentPropertyIDs(ctx context.Context, db *gorm.DB, agentID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&models.Property{}).Where("agent_id = ?", agentID).Pluck("id", &ids).Error
	return ids, err
}

// MessagesForAgent lists messages about any listing the agent fronts.
func MessagesForAgent(ctx context.Context, db *gorm.DB, agentEmail string, page PageRequest) (*MessagePage, error) {
	if agentEmail == "" {
		return nil, apperrors.BadRequest("Thiếu email")
	}
	agent, err := FindAgentByEmail(ctx, db, agentEmail)
	if err != nil {
		return nil, err
	}
	ids, err := agentPropertyIDs(ctx, db, agent.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return emptyMessagePage(page), nil
	}
	return pageMessages(ctx, db, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("property_id IN ?", ids)
	})
}

// MessagesSentByAgent lists messages whose sender snapshot carries email.
func MessagesSentByAgent(ctx context.Context, db *gorm.DB, email string, page PageRequest) (*MessagePage, error) {
	if email == "" {
		return nil, apperrors.BadRequest("Thiếu email")
	}
	return pageMessages(ctx, db, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("sender_email = ?", email)
	})
}

func loadMessage(ctx context.Context, db *gorm.DB, id string) (*models.Message, error) {
	var m models.Message
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkRead flags a message as read. Repeating it is a no-op success.
func MarkRead(ctx context.Context, db *gorm.DB, viewer *Viewer, id string) (*models.Message, error) {
	if viewer.id() == "" {
		return nil, apperrors.ErrUnauthorized
	}
	m, err := loadMessage(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if m.RecipientUserID != viewer.ID {
		return nil, apperrors.ErrForbidden
	}
	if !m.IsRead {
		if err := db.WithContext(ctx).Model(m).Update("is_read", true).Error; err != nil {
			return nil, err
		}
		m.IsRead = true
	}
	return m, nil
}

// DeleteMessage removes a message addressed to the viewer.
func DeleteMessage(ctx context.Context, db *gorm.DB, viewer *Viewer, id string) error {
	if viewer.id() == "" {
		return apperrors.ErrUnauthorized
	}
	m, err := loadMessage(ctx, db, id)
	if err != nil {
		return err
	}
	if m.RecipientUserID != viewer.ID {
		return apperrors.ErrForbidden
	}
	return db.WithContext(ctx).Delete(&models.Message{}, "id = ?", m.ID).Error
}

// DeleteByAgent removes a message whose recipient reference is the agent
// identified by agentEmail.
func DeleteByAgent(ctx context.Context, db *gorm.DB, agentEmail, id string) error {
	if agentEmail == "" {
		return apperrors.BadRequest("Thiếu agentEmail")
	}
	agent, err := FindAgentByEmail(ctx, db, agentEmail)
	if err != nil {
		return err
	}
	m, err := loadMessage(ctx, db, id)
	if err != nil {
		return err
	}
	if m.RecipientUserID != agent.ID {
		return apperrors.Forbidden("Không có quyền xóa tin nhắn này")
	}
	return db.WithContext(ctx).Delete(&models.Message{}, "id = ?", m.ID).Error
}
