package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	myMessagesLimit    = 3
	agentMessagesLimit = 10
	agentContactsLimit = 4
)

func pageOf(c *gin.Context, def int) services.PageRequest {
	return services.ParsePage(c.Query("page"), c.Query("limit"), def)
}

func SendMessage(c *gin.Context) {
	var input services.SendMessageInput
	if !bindJSON(c, &input) {
		return
	}
	msg, err := services.SendMessage(c.Request.Context(), database.DB, viewerFrom(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Gửi tin nhắn thành công", "data": msg})
}

func GetMyMessages(c *gin.Context) {
	page, err := services.MyMessages(c.Request.Context(), database.DB, viewerFrom(c), pageOf(c, myMessagesLimit))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func MarkMessageRead(c *gin.Context) {
	id, valid := pathID(c, services.ErrMessageNotFound)
	if !valid {
		return
	}
	msg, err := services.MarkRead(c.Request.Context(), database.DB, viewerFrom(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đã đánh dấu đọc", msg)
}

func DeleteMessage(c *gin.Context) {
	id, valid := pathID(c, services.ErrMessageNotFound)
	if !valid {
		return
	}
	if err := services.DeleteMessage(c.Request.Context(), database.DB, viewerFrom(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đã xóa tin nhắn", nil)
}

// Agent tools identify the agent by email rather than by session.

func SendMessageFromAgent(c *gin.Context) {
	var input services.AgentMessageInput
	if !bindJSON(c, &input) {
		return
	}
	msgs, err := services.SendFromAgent(c.Request.Context(), database.DB, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Gửi tin nhắn thành công", "data": msgs, "count": len(msgs)})
}

func GetMessagesSentByAgent(c *gin.Context) {
	page, err := services.MessagesSentByAgent(c.Request.Context(), database.DB, c.Query("email"), pageOf(c, agentMessagesLimit))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func GetMessagesForAgent(c *gin.Context) {
	page, err := services.MessagesForAgent(c.Request.Context(), database.DB, c.Query("email"), pageOf(c, agentMessagesLimit))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func GetAgentContacts(c *gin.Context) {
	page, err := services.AgentContacts(c.Request.Context(), database.DB, c.Query("email"), pageOf(c, agentContactsLimit))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func DeleteMessageByAgent(c *gin.Context) {
	id, valid := pathID(c, services.ErrMessageNotFound)
	if !valid {
		return
	}
	var input struct {
		AgentEmail string `json:"agentEmail"`
	}
	_ = c.ShouldBindJSON(&input)
	if input.AgentEmail == "" {
		input.AgentEmail = c.Query("agentEmail")
	}
	if err := services.DeleteByAgent(c.Request.Context(), database.DB, input.AgentEmail, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "Đã xóa tin nhắn", nil)
}
