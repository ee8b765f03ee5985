package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/services"
)

func AuthController(router gin.IRouter, accounts *services.Accounts, logger zerolog.Logger) {
	routes := router.Group("/auth")
	{
		routes.POST("/signup", func(c *gin.Context) {
			Signup(c, accounts, logger)
		})
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, accounts, logger)
		})
	}
}

func Signin(c *gin.Context, accounts *services.Accounts, logger zerolog.Logger) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	accessToken, user, err := accounts.SignIn(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		httperr.Abort(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"token": dto.TokenResponse{
			AccessToken: accessToken,
			UserID:      user.UserID,
		},
	})
}
