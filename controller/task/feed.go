package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/middleware"
	"helpexchange/services/feed"
	"helpexchange/services/lifecycle"
)

// Feed pages through open tasks at a location. Without a zipcode and country
// the caller's profile location is used.
func Feed(c *gin.Context, deps Deps) {
	ctx := c.Request.Context()
	var q dto.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	loc := &feed.Location{Zipcode: q.Zipcode, Country: q.Country}
	if q.Zipcode == "" && q.Country == "" {
		user, err := deps.Users.GetUser(ctx, middleware.UserID(c))
		if err != nil {
			httperr.Abort(c, deps.Logger, err)
			return
		}
		if !user.HasLocation() {
			httperr.Abort(c, deps.Logger, lifecycle.ErrProfileRequired)
			return
		}
		loc = &feed.Location{Zipcode: user.Zipcode, Country: user.Country}
	}

	page, err := deps.Feed.Page(ctx, feed.Request{
		Session: middleware.SessionID(c),
		List:    feed.ListFeed,
		Criteria: feed.Criteria{
			Location:    loc,
			StatusGroup: feed.GroupOpen,
			Category:    q.Category,
		},
		Action: feed.Action(q.Action),
	})
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// MyTasks pages through the tasks the caller owns or helps with, either still
// active or completed.
func MyTasks(c *gin.Context, deps Deps) {
	var q dto.MyTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	role, err := feed.ParseRole(q.Role)
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}

	list := feed.ListOwned
	if role == feed.RoleHelper {
		list = feed.ListHelped
	}
	group := feed.GroupActive
	if q.Completed {
		group = feed.GroupCompleted
	}

	page, err := deps.Feed.Page(c.Request.Context(), feed.Request{
		Session: middleware.SessionID(c),
		List:    list,
		Criteria: feed.Criteria{
			StatusGroup: group,
			Role:        &feed.RoleFilter{Role: role, ID: middleware.UserID(c)},
			Category:    q.Category,
		},
		Action: feed.Action(q.Action),
	})
	if err != nil {
		httperr.Abort(c, deps.Logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
