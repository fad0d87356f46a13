package dto

// RegisterDTO is the account sign-up payload.
type RegisterDTO struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	Mobile      *string `json:"mobile" binding:"omitempty,min=8,max=15"`
	ApartmentID uint64  `json:"apartmentId" binding:"required"`
	ApartmentNo string  `json:"apartmentNo" binding:"required,max=10"`
}

type CredentialDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the minted session token and its lifetime.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
	User      UserView `json:"user"`
}

// UserView is the profile shape exposed over the API. HashedPassword and
// the OTP machine never leave the server.
type UserView struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Mobile         *string `json:"mobile"`
	ApartmentID    uint64  `json:"apartmentId"`
	ApartmentNo    string  `json:"apartmentNo"`
	MailSubscribed bool    `json:"mailSubscribed"`
	EmailVerified  bool    `json:"emailVerified"`
	ProfilePath    *string `json:"profilePath"`
	AdsPosted      int     `json:"adsPosted"`
	ItemsSold      int     `json:"itemsSold"`
}

type UpdateProfileDTO struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=100"`
	Mobile         *string `json:"mobile" binding:"omitempty,min=8,max=15"`
	ApartmentNo    *string `json:"apartmentNo" binding:"omitempty,max=10"`
	MailSubscribed *bool   `json:"mailSubscribed"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

type OtpRequestDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type OtpVerifyDTO struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResetPasswordDTO completes the forgot-password flow: the passcode is
// verified and the password rotated in one call.
type ResetPasswordDTO struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}
