package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/gin-gonic/gin"
)

const usersPageLimit = 10

func ListUsers(c *gin.Context) {
	page, err := services.ListUsers(c.Request.Context(), database.DB, services.UserQuery{
		Page:   services.ParsePage(c.Query("page"), c.Query("limit"), usersPageLimit),
		Search: c.Query("search"),
		Email:  c.Query("email"),
		Phone:  c.Query("phone"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := services.CreateUser(c.Request.Context(), database.DB, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser is the admin edit of any user, including bans.
func UpdateUser(c *gin.Context) {
	id, valid := pathID(c, services.ErrUserNotFound)
	if !valid {
		return
	}
	var input services.UserUpdate
	if !bindJSON(c, &input) {
		return
	}
	user, err := services.AdminUpdateUser(c.Request.Context(), database.DB, viewerFrom(c), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	var input services.ProfileUpdate
	if !bindJSON(c, &input) {
		return
	}
	user, err := services.UpdateProfile(c.Request.Context(), database.DB, viewerFrom(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func GetCurrentPassword(c *gin.Context) {
	hash, err := services.CurrentPasswordHash(c.Request.Context(), database.DB, viewerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"password": hash})
}

func VerifyPassword(c *gin.Context) {
	var input struct {
		Password string `json:"password"`
	}
	if !bindJSON(c, &input) {
		return
	}
	valid, err := services.VerifyPassword(c.Request.Context(), database.DB, viewerFrom(c), input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isValid": valid})
}

func ChangePassword(c *gin.Context) {
	var input services.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}
	if err := services.ChangePassword(c.Request.Context(), database.DB, viewerFrom(c), input); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đổi mật khẩu thành công", nil)
}
