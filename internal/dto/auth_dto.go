package dto

type SignupRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"omitempty,oneof=user admin"`
	Age      *int    `json:"age" validate:"omitempty,gte=13,lte=120"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	Phone    *string `json:"phone" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

type StatusResponse struct {
	Authenticated bool `json:"authenticated"`
}
