package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := services.Register(c.Request.Context(), database.DB, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	session, err := services.Login(c.Request.Context(), database.DB, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func RememberLogin(c *gin.Context) {
	var input struct {
		RememberToken string `json:"rememberToken"`
	}
	if !bindJSON(c, &input) {
		return
	}
	session, err := services.RememberLogin(c.Request.Context(), database.DB, input.RememberToken)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout revokes the presented token until its natural expiry.
func Logout(c *gin.Context) {
	claims, _ := c.Get(middleware.ContextClaims)
	typed, _ := claims.(*utils.Claims)
	if err := services.Logout(c.Request.Context(), revocation.Default, typed); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đăng xuất thành công", nil)
}

func Me(c *gin.Context) {
	viewer := viewerFrom(c)
	if viewer == nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}
	me, err := services.Me(c.Request.Context(), database.DB, viewer)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
