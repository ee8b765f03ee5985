package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/middleware"
	"helpexchange/services/lifecycle"
)

func Createtask(c *gin.Context, deps Deps) {
	userID := middleware.UserID(c)
	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	t, err := deps.Tasks.Create(c.Request.Context(), userID, lifecycle.NewTask{
		Detail:   taskReq.Detail,
		Overview: taskReq.Overview,
		Reward:   taskReq.Reward,
		Category: taskReq.Category,
	})
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"taskID":  t.Key,
		"task":    t,
	})
}
