package dto

import "github.com/eco-campus/ecotrack-api/internal/models"

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=student volunteer organizer"`
}

// LoginRequest is the payload for authentication. The role must match the
// stored account role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student volunteer organizer admin"`
}

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the public projection of a user account.
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	EcoPoints int    `json:"eco_points"`
}

// NewUserResponse converts a User model into its public projection.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		EcoPoints: model.EcoPoints,
	}
}
