package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/gin-gonic/gin"
)

func ListProperties(c *gin.Context) {
	q := services.ParseListingQuery(c.Request.URL.Query())
	page, err := services.SearchListings(c.Request.Context(), database.DB, q, viewerFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProperty counts a view on every fetch.
func GetProperty(c *gin.Context) {
	id, valid := pathID(c, services.ErrPropertyNotFound)
	if !valid {
		return
	}
	listing, err := services.GetListing(c.Request.Context(), database.DB, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func CreateProperty(c *gin.Context) {
	var input services.ListingInput
	if !bindJSON(c, &input) {
		return
	}
	listing, err := services.CreateListing(c.Request.Context(), database.DB, viewerFrom(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateProperty takes a raw JSON object so explicit nulls can clear columns.
func UpdateProperty(c *gin.Context) {
	id, valid := pathID(c, services.ErrPropertyNotFound)
	if !valid {
		return
	}
	var raw map[string]json.RawMessage
	if !bindJSON(c, &raw) {
		return
	}
	listing, err := services.UpdateListing(c.Request.Context(), database.DB, viewerFrom(c), id, raw)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func DeleteProperty(c *gin.Context) {
	id, valid := pathID(c, services.ErrPropertyNotFound)
	if !valid {
		return
	}
	if err := services.DeleteListing(c.Request.Context(), database.DB, viewerFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đã xóa bất động sản", nil)
}

func PatchPropertyStatus(c *gin.Context) {
	id, valid := pathID(c, services.ErrPropertyNotFound)
	if !valid {
		return
	}
	var input struct {
		Status string `json:"status"`
	}
	// an empty body toggles
	_ = c.ShouldBindJSON(&input)
	listing, err := services.PatchListingStatus(c.Request.Context(), database.DB, viewerFrom(c), id, input.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
