package dto

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// DeviceToken is the client's FCM registration token, if any.
	DeviceToken string `json:"device_token"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email,max=255"`
	Password string `json:"password" binding:"required" validate:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required" validate:"required,max=255"`
}
