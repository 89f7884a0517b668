package dto

import (
	"time"

	"shopadmin/internal/entity"
)

type CreateUserRequest struct {
	Name   string  `json:"name" validate:"required,min=2"`
	Email  string  `json:"email" validate:"required,email"`
	Role   string  `json:"role" validate:"omitempty,oneof=user admin"`
	Age    *int    `json:"age" validate:"omitempty,gte=13,lte=120"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	Phone  *string `json:"phone" validate:"omitempty"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=user admin"`
	Age    *int    `json:"age" validate:"omitempty,gte=13,lte=120"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	Phone  *string `json:"phone" validate:"omitempty"`
	Active *bool   `json:"isActive" validate:"omitempty"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Age    *int    `json:"age" validate:"omitempty,gte=13,lte=120"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	Phone  *string `json:"phone" validate:"omitempty"`
}

type UploadPictureRequest struct {
	Image string `json:"image" validate:"required"`
}

// UserResponse is the public projection of a User. The credential hash has
// no field here so it can never leak into a response body.
type UserResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Age             *int       `json:"age,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Avatar          *string    `json:"avatar,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"isActive"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	var gender *string
	if user.Gender != nil {
		value := string(*user.Gender)
		gender = &value
	}
	return UserResponse{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		Age:             user.Age,
		Gender:          gender,
		Phone:           user.Phone,
		Avatar:          user.Avatar,
		Role:            string(user.Role),
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		LastLogin:       user.LastLogin,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}

type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination Pagination     `json:"pagination"`
}
