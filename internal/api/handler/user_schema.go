package handler

import "github.com/martshop/store-api/internal/core/domain"

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// updateUserRequest is a partial update: nil fields are left untouched.
// omitnil keeps the rules from firing on absent fields while still rejecting
// present-but-invalid values.
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitnil,min=1"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
	Role     *string `json:"role"     validate:"omitnil,oneof=user admin"`
}

// --- Response types ---

type registerResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type listUsersResponse struct {
	TotalUsers   int64          `json:"totalUsers"`
	CurrentPage  int            `json:"currentPage"`
	UsersPerPage int            `json:"usersPerPage"`
	Users        []*domain.User `json:"users"`
}

type updateUserResponse struct {
	UpdatedUser *domain.User `json:"updatedUser"`
	Message     string       `json:"message"`
}
