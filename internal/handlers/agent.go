package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ListAgents returns every agent, or the single match when ?email= is given.
func ListAgents(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		GetAgentByEmail(c)
		return
	}
	agents, err := services.ListAgents(c.Request.Context(), database.DB)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, agents)
}

func GetAgentByEmail(c *gin.Context) {
	agent, err := services.FindAgentByEmail(c.Request.Context(), database.DB, c.Query("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func GetAgent(c *gin.Context) {
	id, valid := pathID(c, services.ErrAgentNotFound)
	if !valid {
		return
	}
	agent, err := services.GetAgent(c.Request.Context(), database.DB, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func CreateAgent(c *gin.Context) {
	var input services.AgentInput
	if !bindJSON(c, &input) {
		return
	}
	agent, err := services.CreateAgent(c.Request.Context(), database.DB, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

func UpdateAgent(c *gin.Context) {
	id, valid := pathID(c, services.ErrAgentNotFound)
	if !valid {
		return
	}
	var input services.AgentInput
	if !bindJSON(c, &input) {
		return
	}
	agent, err := services.UpdateAgent(c.Request.Context(), database.DB, id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func DeleteAgent(c *gin.Context) {
	id, valid := pathID(c, services.ErrAgentNotFound)
	if !valid {
		return
	}
	if err := services.DeleteAgent(c.Request.Context(), database.DB, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Deleted", nil)
}
