package dto

import "contractdesk/internal/entity"

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=4"`
	Role     string `json:"role" binding:"required,oneof=admin viewer"`
}

// UpdateUserInput allows a blank password, which keeps the current one.
type UpdateUserInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=admin viewer"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
