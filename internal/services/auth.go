package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = apperrors.Unauthorized("Email hoặc mật khẩu không đúng")
	ErrInvalidRememberToken = apperrors.Unauthorized("Remember token không hợp lệ")
	ErrRememberTokenExpired = apperrors.Unauthorized("Remember token đã hết hạn")
	ErrEmailInUse           = apperrors.Conflict("Email đã được sử dụng")
	ErrPasswordTooLong      = apperrors.BadRequest("Mật khẩu không được vượt quá 72 byte")
)

// bcrypt only looks at the first 72 bytes and refuses anything longer.
const maxPasswordBytes = 72

func bcryptCost() int {
	if config.AppConfig != nil && config.AppConfig.BcryptCost >= bcrypt.MinCost {
		return config.AppConfig.BcryptCost
	}
	return bcrypt.DefaultCost
}

func rememberTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.RememberTTL > 0 {
		return config.AppConfig.RememberTTL
	}
	return 24 * time.Hour
}

func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SessionUser is the identity block returned with every issued token.
type SessionUser struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role"`
	AvatarURL *string     `json:"avatarUrl"`
	IsBanned  bool        `json:"isBanned"`
}

type Session struct {
	Token         string      `json:"token"`
	RememberToken *string     `json:"rememberToken"`
	User          SessionUser `json:"user"`
}

func sessionUserOf(u *models.User) SessionUser {
	return SessionUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		AvatarURL: strPtr(u.AvatarURL),
		IsBanned:  u.IsBanned,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	IsAgent  Flag   `json:"isAgent"`
}

// Register creates a user with role user. When IsAgent is set an Agent
// profile sharing the credentials is created too, unless one already exists.
func Register(ctx context.Context, db *gorm.DB, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, apperrors.BadRequest("Vui lòng nhập đầy đủ thông tin")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  hash,
		Role:      models.RoleUser,
		AvatarURL: defaultAvatar(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, in.Email); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if !bool(in.IsAgent) {
			return nil
		}
		var n int64
		if err := tx.Model(&models.Agent{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		return tx.Create(&models.Agent{Name: in.Name, Email: in.Email, Phone: in.Phone, Password: hash}).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Bool("agent", bool(in.IsAgent)).Msg("User registered")
	return &user, nil
}

func ensureEmailFree(db *gorm.DB, email string) error {
	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailInUse
	}
	return nil
}

func defaultAvatar() string {
	if config.AppConfig != nil {
		return config.AppConfig.DefaultAvatarURL
	}
	return config.Default().DefaultAvatarURL
}

type LoginInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe Flag   `json:"rememberMe"`
}

// Login authenticates against users first, then agents. A banned user is
// refused before the password is checked and loses any remember token.
func Login(ctx context.Context, db *gorm.DB, in LoginInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperrors.BadRequest("Thiếu email hoặc mật khẩu")
	}

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return loginAgent(ctx, db, email, in.Password)
	}

	if user.IsBanned {
		if err := clearRememberToken(ctx, db, &user); err != nil {
			return nil, err
		}
		logger.Warn().Str("user_id", user.ID).Msg("Login refused: account banned")
		return nil, apperrors.Banned()
	}
	if !CheckPassword(user.Password, in.Password) {
		logger.Warn().Str("email", email).Msg("Login failed: invalid password")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	var remember *string
	if in.RememberMe {
		raw, err := utils.GenerateRememberToken()
		if err != nil {
			return nil, err
		}
		expires := time.Now().Add(rememberTTL())
		err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"remember_token":         raw,
			"remember_token_expires": expires,
		}).Error
		if err != nil {
			return nil, err
		}
		remember = &raw
	} else if err := clearRememberToken(ctx, db, &user); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID).Bool("remember", remember != nil).Msg("User logged in")
	return &Session{Token: token, RememberToken: remember, User: sessionUserOf(&user)}, nil
}

func loginAgent(ctx context.Context, db *gorm.DB, email, password string) (*Session, error) {
	var agent models.Agent
	err := db.WithContext(ctx).Where("email = ?", email).Order("created_at ASC").Limit(1).Find(&agent).Error
	if err != nil {
		return nil, err
	}
	if agent.ID == "" || !CheckPassword(agent.Password, password) {
		logger.Warn().Str("email", email).Msg("Login failed: invalid credentials")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(agent.ID, string(models.RoleAgent))
	if err != nil {
		return nil, err
	}
	logger.Info().Str("agent_id", agent.ID).Msg("Agent logged in")
	return &Session{
		Token: token,
		User: SessionUser{
			ID:        agent.ID,
			Name:      agent.Name,
			Email:     agent.Email,
			Phone:     agent.Phone,
			Role:      models.RoleAgent,
			AvatarURL: strPtr(agent.AgencyImg),
		},
	}, nil
}

func clearRememberToken(ctx context.Context, db *gorm.DB, user *models.User) error {
	if user.RememberToken == nil && user.RememberTokenExpires == nil {
		return nil
	}
	err := db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"remember_token":         nil,
		"remember_token_expires": nil,
	}).Error
	if err != nil {
		return err
	}
	user.RememberToken, user.RememberTokenExpires = nil, nil
	return nil
}

// RememberLogin exchanges a remember token for a fresh session token. The
// remember token itself is returned unchanged.
func RememberLogin(ctx context.Context, db *gorm.DB, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.BadRequest("Thiếu remember token")
	}
	var user models.User
	if err := db.WithContext(ctx).Where("remember_token = ?", token).Limit(1).Find(&user).Error; err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrInvalidRememberToken
	}
	if user.RememberTokenExpires == nil || user.RememberTokenExpires.Before(time.Now()) {
		if err := clearRememberToken(ctx, db, &user); err != nil {
			return nil, err
		}
		return nil, ErrRememberTokenExpired
	}
	if user.IsBanned {
		if err := clearRememberToken(ctx, db, &user); err != nil {
			return nil, err
		}
		return nil, apperrors.Banned()
	}

	session, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &Session{Token: session, RememberToken: &token, User: sessionUserOf(&user)}, nil
}

// Logout revokes the session token until it would have expired anyway.
func Logout(ctx context.Context, store revocation.Store, claims *utils.Claims) error {
	if claims == nil || claims.GetJTI() == "" {
		return apperrors.BadRequest("Không có token")
	}
	if err := store.Revoke(ctx, claims.GetJTI(), claims.ExpiresAtTime()); err != nil {
		return err
	}
	logger.Info().Str("user_id", claims.UserID).Msg("User logged out")
	return nil
}

// Me resolves the session subject. Agent tokens resolve to the Agent record.
func Me(ctx context.Context, db *gorm.DB, viewer *Viewer) (interface{}, error) {
	if viewer.id() == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if viewer.IsAgent() {
		return GetAgent(ctx, db, viewer.ID)
	}
	return GetUser(ctx, db, viewer.ID)
}

// Flag decodes JSON booleans as well as the strings "true"/"false".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(strings.TrimSpace(string(b)), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return errors.New("invalid boolean")
	}
	return nil
}
