package auth

import (
	"github.com/joblyhq/jobly/pkg/models"
)

// TokenPayload represents the login request body.
type TokenPayload struct {
	Username string `json:"username" mod:"trim" validate:"required,min=1,max=30"`
	Password string `json:"password" validate:"required,min=5,max=72"`
}

// RegisterPayload represents the registration and initial setup request body.
type RegisterPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,min=1,max=30"`
	Email    *string `json:"email" validate:"omitempty,email,max=60"`
	Password string  `json:"password" validate:"required,min=5,max=72"`
}

// TokenResponse is returned whenever a token is issued.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
}
