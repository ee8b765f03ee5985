package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/controller/httperr"
	"helpexchange/middleware"
	"helpexchange/services/notification"
)

func NotificationController(router gin.IRouter, auth gin.HandlerFunc, agg *notification.Aggregator, logger zerolog.Logger) {
	routes := router.Group("/notifications", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListNotifications(c, agg, logger)
		})
		routes.DELETE("/:taskId", func(c *gin.Context) {
			ConsumeNotifications(c, agg, logger)
		})
	}
}

func ListNotifications(c *gin.Context, agg *notification.Aggregator, logger zerolog.Logger) {
	summaries, err := agg.Summaries(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Abort(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": summaries})
}

func ConsumeNotifications(c *gin.Context, agg *notification.Aggregator, logger zerolog.Logger) {
	if err := agg.Consume(c.Request.Context(), middleware.UserID(c), c.Param("taskId")); err != nil {
		httperr.Abort(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
