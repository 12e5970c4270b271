package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/NDQnhat/realestatepro-api/internal/models"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultUsersLimit = 10
	minPasswordLength = 6
)

var (
	ErrUserNotFound     = apperrors.NotFound("Không tìm thấy người dùng")
	ErrWrongPassword    = apperrors.Unauthorized("Mật khẩu hiện tại không đúng")
	ErrPasswordTooShort = apperrors.BadRequest("Mật khẩu mới phải có ít nhất 6 ký tự")
)

type UserQuery struct {
	Page   PageRequest
	Search string
	Email  string
	Phone  string
}

type UserPage struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

func GetUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var u models.User
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers filters by a free-text search over name/email/phone and by
// email and phone substrings, newest first.
func ListUsers(ctx context.Context, db *gorm.DB, q UserQuery) (*UserPage, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Search); s != "" {
			p := utils.ContainsPattern(s)
			tx = tx.Where("(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR LOWER(phone) LIKE ?"+likeEscape+")", p, p, p)
		}
		if s := strings.TrimSpace(q.Email); s != "" {
			tx = tx.Where("LOWER(email) LIKE ?"+likeEscape, utils.ContainsPattern(s))
		}
		if s := strings.TrimSpace(q.Phone); s != "" {
			tx = tx.Where("LOWER(phone) LIKE ?"+likeEscape, utils.ContainsPattern(s))
		}
		return tx
	}

	var (
		total int64
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.User{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Scopes(scope).Order("created_at DESC").
			Limit(q.Page.Limit).Offset(q.Page.Offset()).Find(&users).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &UserPage{Users: users, Pagination: q.Page.Meta(total)}, nil
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// CreateUser is the self-serve signup without the agent side effect.
func CreateUser(ctx context.Context, db *gorm.DB, in CreateUserInput) (*models.User, error) {
	return Register(ctx, db, RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password, Phone: in.Phone})
}

// UserUpdate carries optional fields; nil means unchanged. Password and role
// are never writable here.
type UserUpdate struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
	IsBanned  *bool   `json:"isBanned"`
}

// AdminUpdateUser lets an admin edit any user, including the ban flag.
// Banning drops the user's remember token.
func AdminUpdateUser(ctx context.Context, db *gorm.DB, viewer *Viewer, id string, in UserUpdate) (*models.User, error) {
	if !viewer.IsAdmin() {
		return nil, apperrors.Forbidden("Chỉ admin mới có quyền thực hiện")
	}
	u, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != u.Email {
			if err := ensureEmailFree(db.WithContext(ctx), email); err != nil {
				return nil, err
			}
		}
		updates["email"] = email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}
	if in.IsBanned != nil {
		updates["is_banned"] = *in.IsBanned
		if *in.IsBanned {
			updates["remember_token"] = nil
			updates["remember_token_expires"] = nil
		}
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if in.IsBanned != nil {
		logger.Info().Str("user_id", id).Str("admin_id", viewer.ID).Bool("banned", *in.IsBanned).Msg("User ban state changed")
	}
	return GetUser(ctx, db, id)
}

type ProfileUpdate struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
}

func UpdateProfile(ctx context.Context, db *gorm.DB, viewer *Viewer, in ProfileUpdate) (*models.User, error) {
	if viewer.id() == "" {
		return nil, apperrors.ErrUnauthorized
	}
	u, err := GetUser(ctx, db, viewer.ID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return GetUser(ctx, db, viewer.ID)
}

// CurrentPasswordHash returns the stored bcrypt hash of the viewer.
func CurrentPasswordHash(ctx context.Context, db *gorm.DB, viewer *Viewer) (string, error) {
	if viewer.id() == "" {
		return "", apperrors.ErrUnauthorized
	}
	u, err := GetUser(ctx, db, viewer.ID)
	if err != nil {
		return "", err
	}
	return u.Password, nil
}

func VerifyPassword(ctx context.Context, db *gorm.DB, viewer *Viewer, password string) (bool, error) {
	if viewer.id() == "" {
		return false, apperrors.ErrUnauthorized
	}
	if password == "" {
		return false, apperrors.BadRequest("Thiếu mật khẩu")
	}
	u, err := GetUser(ctx, db, viewer.ID)
	if err != nil {
		return false, err
	}
	return CheckPassword(u.Password, password), nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func ChangePassword(ctx context.Context, db *gorm.DB, viewer *Viewer, in ChangePasswordInput) error {
	if viewer.id() == "" {
		return apperrors.ErrUnauthorized
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return apperrors.BadRequest("Thiếu mật khẩu hiện tại hoặc mật khẩu mới")
	}
	if utf8.RuneCountInString(in.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	u, err := GetUser(ctx, db, viewer.ID)
	if err != nil {
		return err
	}
	if !CheckPassword(u.Password, in.CurrentPassword) {
		return ErrWrongPassword
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(u).Update("password", hash).Error; err != nil {
		return err
	}
	logger.Info().Str("user_id", u.ID).Msg("Password changed")
	return nil
}

// SetBanned flips the ban flag by email, clearing the remember token when
// banning. Used by the operator CLI.
func SetBanned(ctx context.Context, db *gorm.DB, email string, banned bool) error {
	updates := map[string]interface{}{"is_banned": banned}
	if banned {
		updates["remember_token"] = nil
		updates["remember_token_expires"] = nil
	}
	res := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PromoteAdmin grants the admin role by email.
func PromoteAdmin(ctx context.Context, db *gorm.DB, email string) error {
	res := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RevokeRemember drops the stored remember token of the user with email.
func RevokeRemember(ctx context.Context, db *gorm.DB, email string) error {
	res := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"remember_token": nil, "remember_token_expires": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
