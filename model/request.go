package model

// SignUpRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type SignUpRequest struct {
	UserID   string `json:"user_id" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Email    string `json:"email" validate:"required,email"`
	PhoneNum string `json:"phone_num" validate:"omitempty,max=30"`
	Height   int    `json:"height" validate:"gte=0,lte=300"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the login body returned to the client. The refresh
// token deliberately has no field here; it travels only in the cookie.
type LoginResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// ReissueResponse carries the freshly minted access token.
type ReissueResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateProfileRequest defines the payload for updating profile fields.
// The target identity always comes from the authenticated context.
type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Email    string `json:"email" validate:"required,email"`
	PhoneNum string `json:"phone_num" validate:"omitempty,max=30"`
	Height   int    `json:"height" validate:"gte=0,lte=300"`
}
