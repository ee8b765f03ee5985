package task

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/middleware"
	"helpexchange/model"
	"helpexchange/services/feed"
	"helpexchange/services/lifecycle"
	"helpexchange/services/message"
	"helpexchange/services/notification"
)

type Deps struct {
	Tasks         *lifecycle.Service
	Feed          *feed.Service
	Notifications *notification.Aggregator
	Messages      *message.Service
	Users         feed.UserGetter
	Logger        zerolog.Logger
}

type transitionFunc func(ctx context.Context, taskID, actorID string) (*model.Task, error)

func TaskController(router gin.IRouter, auth gin.HandlerFunc, deps Deps) {
	router.GET("/feed", auth, func(c *gin.Context) {
		Feed(c, deps)
	})
	router.GET("/tasks/mine", auth, func(c *gin.Context) {
		MyTasks(c, deps)
	})

	routes := router.Group("/task", auth)
	{
		routes.POST("", func(c *gin.Context) {
			Createtask(c, deps)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, deps)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			EditTask(c, deps)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTask(c, deps)
		})

		transitions := map[string]transitionFunc{
			"accept":     deps.Tasks.Accept,
			"complete":   deps.Tasks.Complete,
			"verify":     deps.Tasks.Verify,
			"disapprove": deps.Tasks.Disapprove,
			"abandon":    deps.Tasks.Abandon,
		}
		for name, fn := range transitions {
			fn := fn
			routes.POST("/:id/"+name, func(c *gin.Context) {
				Transition(c, deps, fn)
			})
		}

		routes.POST("/:id/messages", func(c *gin.Context) {
			PostMessage(c, deps)
		})
		routes.GET("/:id/messages", func(c *gin.Context) {
			ListMessages(c, deps)
		})
	}
}

// GetTask returns the task with its owner's nickname and marks the caller's
// notifications for it as read.
func GetTask(c *gin.Context, deps Deps) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	taskID := c.Param("id")

	t, err := deps.Tasks.Get(ctx, taskID)
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}

	if err := deps.Notifications.Consume(ctx, userID, taskID); err != nil {
		deps.Logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to consume notifications")
	}

	owners := feed.NewOwnerResolver(deps.Users, deps.Logger)
	c.JSON(http.StatusOK, feed.EnrichedTask{
		Task:          *t,
		OwnerNickname: owners.Resolve(ctx, t.Owner),
	})
}

func EditTask(c *gin.Context, deps Deps) {
	var req dto.EditTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if req.Detail == nil && req.Reward == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}

	t, err := deps.Tasks.Edit(c.Request.Context(), c.Param("id"), middleware.UserID(c), lifecycle.Edit{
		Detail: req.Detail,
		Reward: req.Reward,
	})
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func DeleteTask(c *gin.Context, deps Deps) {
	if err := deps.Tasks.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func Transition(c *gin.Context, deps Deps, fn transitionFunc) {
	t, err := fn(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
