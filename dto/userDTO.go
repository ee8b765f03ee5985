package dto

import (
	"time"

	"helpexchange/model"
)

type UserResponse struct {
	UserID    string `json:"userId"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Points    int    `json:"points"`
	CreatedAt string `json:"createdAt"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Address:   u.Address,
		Zipcode:   u.Zipcode,
		Country:   u.Country,
		Phone:     u.Phone,
		Points:    u.Points,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type UpdateProfileRequest struct {
	Nickname *string `json:"nickname" binding:"omitempty,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=200"`
	Zipcode  *string `json:"zipcode" binding:"omitempty,max=20"`
	Country  *string `json:"country" binding:"omitempty,max=60"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
}
