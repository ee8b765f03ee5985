package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/controller/httperr"
	"helpexchange/dto"
	"helpexchange/services"
)

func Signup(c *gin.Context, accounts *services.Accounts, logger zerolog.Logger) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	user, err := accounts.SignUp(c.Request.Context(), request.Email, request.Password, request.Nickname)
	if err != nil {
		httperr.Abort(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  user.UserID,
	})
}
