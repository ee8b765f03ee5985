package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/middleware"
	"helpexchange/services"
)

func UserController(router gin.IRouter, auth gin.HandlerFunc, accounts *services.Accounts, logger zerolog.Logger) {
	routes := router.Group("/user", auth)
	{
		routes.GET("/profile", func(c *gin.Context) {
			GetProfile(c, accounts, logger)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, accounts, logger)
		})
	}
}

func GetProfile(c *gin.Context, accounts *services.Accounts, logger zerolog.Logger) {
	user, err := accounts.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Abort(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func UpdateProfileUser(c *gin.Context, accounts *services.Accounts, logger zerolog.Logger) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	if req == (dto.UpdateProfileRequest{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to update"})
		return
	}

	user, err := accounts.UpdateProfile(c.Request.Context(), middleware.UserID(c), services.ProfileUpdate{
		Nickname: req.Nickname,
		Email:    req.Email,
		Address:  req.Address,
		Zipcode:  req.Zipcode,
		Country:  req.Country,
		Phone:    req.Phone,
	})
	if err != nil {
		httperr.Abort(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}
