package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	TokenID string `json:"tokenId"` // one per sign-in, keys the cursor session
	jwt.RegisteredClaims
}
