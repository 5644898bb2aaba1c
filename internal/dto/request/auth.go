package request

type RegisterRequest struct {
	Username      string  `json:"username" validate:"required,min=3,max=50"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	FullName      string  `json:"full_name" validate:"required"`
	PhoneNumber   string  `json:"phone_number" validate:"required"`
	Role          string  `json:"role" validate:"omitempty,oneof=driver passenger both"`
	TelegramID    *string `json:"telegram_id,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}
