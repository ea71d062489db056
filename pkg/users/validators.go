package users

// CreateUserPayload represents the request body for creating a user.
type CreateUserPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,min=1,max=30"`
	Email    *string `json:"email" validate:"omitempty,email,max=60"`
	Password string  `json:"password" validate:"required,min=5,max=72"`
	Role     string  `json:"role" default:"viewer" validate:"oneof=admin viewer"`
}

// UpdateUserPayload represents the request body for updating a user.
type UpdateUserPayload struct {
	Email    *string `json:"email" validate:"omitempty,email,max=60"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin viewer"`
	IsActive *bool   `json:"isActive"`
}

// ResetPasswordPayload represents the request body for resetting a password.
type ResetPasswordPayload struct {
	CurrentPassword *string `json:"currentPassword"` // Required when resetting your own password
	NewPassword     string  `json:"newPassword" validate:"required,min=5,max=72"`
}

// ListUsersQuery represents the query parameters for listing users.
type ListUsersQuery struct {
	Limit  int `query:"limit" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}
