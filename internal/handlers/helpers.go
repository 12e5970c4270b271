package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/middleware"
	"github.com/NDQnhat/realestatepro-api/internal/models"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// viewerFrom returns the identity set by the auth middlewares, nil when the
// request is anonymous.
func viewerFrom(c *gin.Context) *services.Viewer {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		return nil
	}
	return &services.Viewer{ID: id, Role: models.Role(c.GetString(middleware.ContextRole))}
}

// fail hands err to ErrorHandlerMiddleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperrors.ErrInvalidRequest)
		return false
	}
	return true
}

// pathID reads :id, answering 404 for anything that is not a valid id.
func pathID(c *gin.Context, notFound error) (string, bool) {
	id := c.Param("id")
	if !utils.IsUUID(id) {
		fail(c, notFound)
		return "", false
	}
	return id, true
}

func ok(c *gin.Context, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}
