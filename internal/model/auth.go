package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
	AsAdmin  bool   `json:"asAdmin"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	Firstname string `json:"firstname" binding:"required,max=50"`
	Lastname  string `json:"lastname" binding:"required,max=50"`
}

type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type GoogleRequest struct {
	TokenID string `json:"tokenId" binding:"required"`
	AsAdmin bool   `json:"asAdmin"`
}

type GoogleCallbackRequest struct {
	Code    string `json:"code" binding:"required"`
	AsAdmin bool   `json:"asAdmin"`
}

type GoogleURLResponse struct {
	URL string `json:"url"`
}

type ChangePasswordRequest struct {
	Password    string `json:"password" binding:"required,max=128"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

type EditProfileRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Firstname string `json:"firstname" binding:"required,max=50"`
	Lastname  string `json:"lastname" binding:"required,max=50"`
}

// GoogleProfile is the subset of a verified Google ID token we use.
type GoogleProfile struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}
