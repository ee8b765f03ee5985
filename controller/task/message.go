package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/middleware"
)

func PostMessage(c *gin.Context, deps Deps) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	msg, err := deps.Messages.Post(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Body)
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func ListMessages(c *gin.Context, deps Deps) {
	msgs, err := deps.Messages.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
